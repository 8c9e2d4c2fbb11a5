// Package loop provides the schedulers that drive time-dependent game logic.
//
// Every Scheduler runs timer callbacks on a single logical thread, the same one
// that issues the operations arming those timers. Game code can therefore
// mutate its state from callbacks without locking.
package loop

import (
	"errors"
	"time"
)

// ErrClosed is returned when work is submitted to a closed Loop.
var ErrClosed = errors.New("loop closed")

// Scheduler arms one-shot timers.
type Scheduler interface {
	// AfterFunc arranges for f to run once, d from now, on the scheduler's
	// thread of execution.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether this call
	// stopped the timer; false means it already fired or was stopped.
	Stop() bool
}
