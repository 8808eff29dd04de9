package async

import "time"

// timerEntry is one pending deadline registered with the timer wheel. It
// implements lesser so priorityqueue can back the wheel directly:
// deadlines compare by time, and the queue's sorted-insertion behavior
// gives earliest-deadline-first ordering with stable FIFO tie-breaking
// between entries that share a deadline, with no extra bookkeeping
// needed for the tie-break.
type timerEntry struct {
	deadline time.Time
	r        resumer
}

func (e *timerEntry) less(v *timerEntry) bool {
	return e.deadline.Before(v.deadline)
}

type timerWheel struct {
	pq priorityqueue[*timerEntry]
}

func (w *timerWheel) add(deadline time.Time, r resumer) {
	w.pq.Push(&timerEntry{deadline: deadline, r: r})
}

func (w *timerWheel) empty() bool { return w.pq.Empty() }

// peekDeadline returns the earliest pending deadline, if any. It does not
// disturb the queue: popping and re-pushing the head entry would reinsert
// it after any other entries sharing its deadline, corrupting the FIFO
// tie-break that popExpired relies on.
func (w *timerWheel) peekDeadline() (time.Time, bool) {
	if len(w.pq.head) > 0 {
		return w.pq.head[0].deadline, true
	}
	if len(w.pq.tail) > 0 {
		return w.pq.tail[0].deadline, true
	}
	return time.Time{}, false
}

// popExpired removes and returns every entry whose deadline is not after
// now, earliest first.
func (w *timerWheel) popExpired(now time.Time) []resumer {
	var fired []resumer
	for !w.pq.Empty() && !w.pq.head[0].deadline.After(now) {
		fired = append(fired, w.pq.Pop().r)
	}
	return fired
}
