// Package logging builds the process-wide structured logger.
//
// # Overview
//
// The package wraps log/slog and adds two things on top of the stock
// handlers:
//   - Run correlation: a run ID stored with WithRunID is attached to every
//     record logged through a *Context method.
//   - Credential redaction: connection strings and secret-looking
//     attributes are masked before they reach the output.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRunID(ctx, runID)
//	slog.InfoContext(ctx, "starting expiry sweep") // includes run_id
//
// # Formats
//
// "text" produces logfmt-style key=value lines and is the default. "json"
// produces one JSON object per line and suits log shippers.
//
// # Redaction
//
// Attributes named dsn, password, secret or token have their credentials
// masked:
//
//	postgres://sweeper:hunter2@db:5432/memory  ->  postgres://sweeper:***@db:5432/memory
//	host=db password=hunter2 dbname=memory     ->  host=db password=*** dbname=memory
package logging
