package loop

import (
	"sync"
	"time"
)

// Loop is a real-time scheduler backed by one goroutine. Tasks posted with
// Post or Do and callbacks of timers armed with AfterFunc all run on that
// goroutine, in arrival order.
//
// AfterFunc and Timer.Stop must be called from the loop goroutine, which is
// where game operations run. Do and Close must not be.
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	timers map[*loopTimer]struct{}
}

var _ Scheduler = (*Loop)(nil)

// New starts a loop goroutine.
func New() *Loop {
	l := &Loop{
		tasks:   make(chan func(), 64),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		timers:  make(map[*loopTimer]struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case <-l.done:
			return
		case f := <-l.tasks:
			f()
		}
	}
}

// Post queues f without waiting. Returns false if the loop is closed.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- f:
		return true
	case <-l.done:
		return false
	}
}

// Do runs f on the loop and waits for it to return.
func (l *Loop) Do(f func()) error {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		f()
	}) {
		return ErrClosed
	}
	select {
	case <-ran:
		return nil
	case <-l.stopped:
		return ErrClosed
	}
}

// AfterFunc arms a wall-clock timer whose callback is posted to the loop.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{l: l}
	l.mu.Lock()
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if lt.stopped || lt.fired {
				return
			}
			lt.fired = true
			l.forget(lt)
			f()
		})
	})
	l.timers[lt] = struct{}{}
	l.mu.Unlock()
	return lt
}

// Close stops the loop goroutine and every armed timer. Queued tasks that
// have not started are dropped. Safe to call more than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
		l.mu.Lock()
		for lt := range l.timers {
			lt.t.Stop()
		}
		l.timers = make(map[*loopTimer]struct{})
		l.mu.Unlock()
		<-l.stopped
	})
}

func (l *Loop) forget(lt *loopTimer) {
	l.mu.Lock()
	delete(l.timers, lt)
	l.mu.Unlock()
}

type loopTimer struct {
	l *Loop
	t *time.Timer

	// Only touched on the loop goroutine.
	stopped bool
	fired   bool
}

func (lt *loopTimer) Stop() bool {
	if lt.stopped || lt.fired {
		return false
	}
	lt.stopped = true
	lt.t.Stop()
	lt.l.forget(lt)
	return true
}
