package clock

import (
	"context"
	"time"
)

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// System reads the local wall clock.
type System struct{}

// Now returns local time truncated to whole seconds.
func (System) Now() time.Time {
	return time.Now().Truncate(time.Second)
}

// Fixed always returns the same instant. Useful for replaying a moment in tests and the CLI.
type Fixed struct {
	At time.Time
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return f.At
}

// Every calls fn on each tick until ctx is cancelled. The first call happens after one interval.
func Every(ctx context.Context, interval time.Duration, fn func(time.Time)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			fn(t)
		}
	}
}
