package simulate

import (
	"context"
	"time"

	"github.com/abhisek/cookiz/internal/loop"
)

// clock is where a run's engine lives. Engine calls go through run, and
// sleep lets time pass for the engine's timers.
type clock interface {
	loop.Scheduler
	run(f func()) error
	sleep(ctx context.Context, d time.Duration) error
	elapsed() time.Duration
	close()
}

var epoch = time.Unix(0, 0)

// virtualClock fires timers inside sleep, on the caller's goroutine.
type virtualClock struct {
	*loop.Virtual
}

func newVirtualClock() *virtualClock {
	return &virtualClock{Virtual: loop.NewVirtual(epoch)}
}

func (c *virtualClock) run(f func()) error {
	f()
	return nil
}

func (c *virtualClock) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Advance(d)
	return nil
}

func (c *virtualClock) elapsed() time.Duration { return c.Now().Sub(epoch) }

func (c *virtualClock) close() {}

// wallClock runs the engine on a loop goroutine and waits in real time.
type wallClock struct {
	*loop.Loop
	start time.Time
}

func newWallClock() *wallClock {
	return &wallClock{Loop: loop.New(), start: time.Now()}
}

func (c *wallClock) run(f func()) error { return c.Do(f) }

func (c *wallClock) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *wallClock) elapsed() time.Duration { return time.Since(c.start) }

func (c *wallClock) close() { c.Close() }
