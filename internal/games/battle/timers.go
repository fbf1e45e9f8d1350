package battle

// timer is one scheduled callback, fired when the session reaches its due
// tick.
type timer struct {
	due uint64
	seq uint64
	fn  func()
}

// timerQueue is the session's cancellable schedule. Timers fire in due
// order, insertion order breaking ties. Callbacks may schedule further
// timers or cancel everything mid-flight, so advance rescans the queue
// after every fire instead of iterating a snapshot.
type timerQueue struct {
	timers  []*timer
	nextSeq uint64
}

func newTimerQueue() *timerQueue {
	return &timerQueue{}
}

// schedule registers fn to run once the session reaches the due tick.
func (q *timerQueue) schedule(due uint64, fn func()) {
	q.nextSeq++
	q.timers = append(q.timers, &timer{due: due, seq: q.nextSeq, fn: fn})
}

// advance fires every timer due at or before now.
func (q *timerQueue) advance(now uint64) {
	for {
		best := -1
		for i, t := range q.timers {
			if t.due > now {
				continue
			}
			if best == -1 || t.due < q.timers[best].due ||
				(t.due == q.timers[best].due && t.seq < q.timers[best].seq) {
				best = i
			}
		}
		if best == -1 {
			return
		}
		t := q.timers[best]
		q.timers = append(q.timers[:best], q.timers[best+1:]...)
		t.fn()
	}
}

// cancelAll drops every outstanding timer without firing it.
func (q *timerQueue) cancelAll() {
	q.timers = nil
}

// pending returns the number of outstanding timers.
func (q *timerQueue) pending() int {
	return len(q.timers)
}
