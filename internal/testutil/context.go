package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds a test context when no timeout is given.
const DefaultTimeout = 5 * time.Second

// Context derives a deadline-bound context from t.Context. The deadline is
// pulled in to leave a second before the test binary's own deadline, so
// slow DuckDB or SQLite calls fail with context errors instead of a panic.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if d, ok := t.(interface{ Deadline() (time.Time, bool) }); ok {
		if deadline, ok := d.Deadline(); ok {
			if remaining := time.Until(deadline) - time.Second; remaining > 0 && remaining < timeout {
				timeout = remaining
			}
		}
	}
	ctx, cancel := context.WithTimeout(t.Context(), timeout)
	t.Cleanup(cancel)
	return ctx
}
