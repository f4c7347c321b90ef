package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "url with password",
			dsn:  "postgres://sweeper:hunter2@db:5432/memory",
			want: "postgres://sweeper:***@db:5432/memory",
		},
		{
			name: "url without password",
			dsn:  "postgres://sweeper@db:5432/memory",
			want: "postgres://sweeper@db:5432/memory",
		},
		{
			name: "url with password query parameter",
			dsn:  "postgres://db/memory?password=hunter2",
			want: "postgres://db/memory?password=***",
		},
		{
			name: "keyword form",
			dsn:  "host=db password=hunter2 dbname=memory",
			want: "host=db password=*** dbname=memory",
		},
		{
			name: "keyword form quoted",
			dsn:  "host=db password='two words' dbname=memory",
			want: "host=db password=*** dbname=memory",
		},
		{
			name: "sqlite path",
			dsn:  "data/patterns.db",
			want: "data/patterns.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactDSN(tt.dsn); got != tt.want {
				t.Errorf("RedactDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestLogger_RedactsSensitiveAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("opening store",
		"backend", "postgres",
		"dsn", "postgres://sweeper:hunter2@db/memory",
		"token", "abc123",
	)

	out := buf.String()
	if strings.Contains(out, "hunter2") || strings.Contains(out, "abc123") {
		t.Errorf("credentials leaked: %s", out)
	}
	if !strings.Contains(out, "backend=postgres") {
		t.Errorf("non-sensitive attribute missing: %s", out)
	}
}
