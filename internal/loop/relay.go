package loop

import "time"

// Pending describes a timer armed on a Relay that the host event loop has not
// been told about yet.
type Pending struct {
	ID    uint64
	Delay time.Duration
}

// Relay schedules timers on a host event loop it does not own, such as a
// Bubble Tea program. The host calls Drain after every operation, delivers
// each Pending back to itself after its delay (for example with tea.Tick),
// and then calls Fire with the ID. Because Fire runs inside the host's
// update function, callbacks never race with user input.
type Relay struct {
	next   uint64
	live   map[uint64]func()
	queued []Pending
}

var _ Scheduler = (*Relay)(nil)

// NewRelay creates an empty relay.
func NewRelay() *Relay {
	return &Relay{live: make(map[uint64]func())}
}

// AfterFunc records f and queues a Pending entry for the host.
func (r *Relay) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	r.next++
	id := r.next
	r.live[id] = f
	r.queued = append(r.queued, Pending{ID: id, Delay: d})
	return relayTimer{r: r, id: id}
}

// Drain returns the timers armed since the last call that are still live.
func (r *Relay) Drain() []Pending {
	if len(r.queued) == 0 {
		return nil
	}
	out := make([]Pending, 0, len(r.queued))
	for _, p := range r.queued {
		if _, ok := r.live[p.ID]; ok {
			out = append(out, p)
		}
	}
	r.queued = nil
	return out
}

// Fire runs the callback for id if it has not been stopped or fired.
func (r *Relay) Fire(id uint64) bool {
	f, ok := r.live[id]
	if !ok {
		return false
	}
	delete(r.live, id)
	f()
	return true
}

// Live returns the number of armed timers.
func (r *Relay) Live() int {
	return len(r.live)
}

type relayTimer struct {
	r  *Relay
	id uint64
}

func (t relayTimer) Stop() bool {
	if _, ok := t.r.live[t.id]; !ok {
		return false
	}
	delete(t.r.live, t.id)
	return true
}
