package loop

import (
	"container/heap"
	"time"
)

// Virtual is a deterministic scheduler driven by an explicit clock.
// Callbacks only run inside Advance, on the caller's goroutine, ordered by
// due time and then by the order in which they were scheduled.
type Virtual struct {
	now   time.Time
	seq   uint64
	queue timerQueue
}

var _ Scheduler = (*Virtual)(nil)

// NewVirtual creates a virtual scheduler whose clock starts at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	return v.now
}

// AfterFunc schedules f at Now()+d. Negative delays are treated as zero.
func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	v.seq++
	t := &virtualTimer{v: v, due: v.now.Add(d), seq: v.seq, f: f}
	heap.Push(&v.queue, t)
	return t
}

// Advance moves the clock forward by d, running every callback that becomes
// due. Callbacks scheduled while advancing run in the same call if they fall
// inside the window. Returns the number of callbacks run.
func (v *Virtual) Advance(d time.Duration) int {
	target := v.now.Add(d)
	fired := 0
	for len(v.queue) > 0 && !v.queue[0].due.After(target) {
		t := heap.Pop(&v.queue).(*virtualTimer)
		v.now = t.due
		t.f()
		fired++
	}
	v.now = target
	return fired
}

// Pending returns the number of armed timers.
func (v *Virtual) Pending() int {
	return len(v.queue)
}

// NextDue returns the delay until the earliest armed timer.
func (v *Virtual) NextDue() (time.Duration, bool) {
	if len(v.queue) == 0 {
		return 0, false
	}
	return v.queue[0].due.Sub(v.now), true
}

type virtualTimer struct {
	v     *Virtual
	due   time.Time
	seq   uint64
	f     func()
	index int
}

func (t *virtualTimer) Stop() bool {
	if t.index < 0 {
		return false
	}
	heap.Remove(&t.v.queue, t.index)
	return true
}

// timerQueue is a min-heap on (due, seq).
type timerQueue []*virtualTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*virtualTimer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
