// Package clock abstracts wall time so pickup cutoffs can be pinned in
// tests.
package clock

import (
	"context"
	"time"

	"go.uber.org/fx"
)

type Clock interface {
	Now(ctx context.Context) time.Time
}

type SystemClock struct{}

func (SystemClock) Now(context.Context) time.Time {
	return time.Now().UTC()
}

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	return fixedClock(t)
}

type fixedClock time.Time

func (c fixedClock) Now(context.Context) time.Time {
	return time.Time(c)
}

var Module = fx.Module("clock",
	fx.Provide(func() Clock { return SystemClock{} }),
)
