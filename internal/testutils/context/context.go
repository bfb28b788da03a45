package context

import (
	"context"
	"testing"
	"time"
)

// WithTest caps ctx with the test's own deadline, pulled in by one
// second so that deferred cleanup still gets to run before the
// harness kills the process.
func WithTest(ctx context.Context, t *testing.T) (context.Context, func()) {
	deadline, ok := t.Deadline()
	if !ok {
		return ctx, func() {}
	}
	return context.WithDeadline(ctx, deadline.Add(-time.Second))
}
