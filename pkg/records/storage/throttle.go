package storage

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"mercator-hq/patternsweep/pkg/records"
)

// Throttled decorates a store with a shared rate limit and a per-operation
// timeout.
type Throttled struct {
	inner   records.Store
	backend string
	limiter *rate.Limiter
	timeout time.Duration
}

// NewThrottled wraps inner. A ratePerSec of zero or less disables rate
// limiting; a timeout of zero disables the per-operation deadline.
func NewThrottled(inner records.Store, backend string, ratePerSec float64, burst int, timeout time.Duration) *Throttled {
	t := &Throttled{
		inner:   inner,
		backend: backend,
		timeout: timeout,
	}
	if ratePerSec > 0 {
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}
	return t
}

// Unwrap returns the decorated store.
func (t *Throttled) Unwrap() records.Store {
	return t.inner
}

func (t *Throttled) begin(ctx context.Context, op, namespace string) (context.Context, context.CancelFunc, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return ctx, func() {}, records.NewUnavailableError(t.backend, op, namespace, err)
		}
	}
	if t.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, t.timeout)
		return ctx, cancel, nil
	}
	return ctx, func() {}, nil
}

// List implements records.Store.
func (t *Throttled) List(ctx context.Context, namespace string) (map[string]records.Record, error) {
	ctx, cancel, err := t.begin(ctx, "list", namespace)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return t.inner.List(ctx, namespace)
}

// Write implements records.Store.
func (t *Throttled) Write(ctx context.Context, namespace, key string, value map[string]any) error {
	ctx, cancel, err := t.begin(ctx, "write", namespace)
	if err != nil {
		return err
	}
	defer cancel()
	return t.inner.Write(ctx, namespace, key, value)
}

// Delete implements records.Store.
func (t *Throttled) Delete(ctx context.Context, namespace, key string) error {
	ctx, cancel, err := t.begin(ctx, "delete", namespace)
	if err != nil {
		return err
	}
	defer cancel()
	return t.inner.Delete(ctx, namespace, key)
}

// Ping implements records.Store. Pings bypass the rate limiter.
func (t *Throttled) Ping(ctx context.Context) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.inner.Ping(ctx)
}

// Close implements records.Store.
func (t *Throttled) Close() error {
	return t.inner.Close()
}
