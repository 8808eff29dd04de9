package async

import "slices"

// Semaphore bounds concurrent access to a resource with a weight per
// holder, the way user code might bound how many AsyncFile operations
// run at once. It provides no backpressure against spawning unboundedly
// many waiting tasks; callers that need that should bound spawning
// themselves.
//
// A Semaphore must not be shared across more than one Executor.
type Semaphore struct {
	size, cur int64
	waiters   []*semWaiter
}

type semWaiter struct {
	Signal
	n int64
}

// NewSemaphore creates a semaphore with the given maximum combined
// weight.
func NewSemaphore(n int64) *Semaphore {
	return &Semaphore{size: n}
}

// Acquire returns a task that completes once a weight of n has been
// acquired. A weight greater than the semaphore's total size can never
// be satisfied and parks the caller permanently.
func (s *Semaphore) Acquire(n int64) *Task[struct{}] {
	if n < 0 {
		panic("async(Semaphore): negative weight")
	}
	return New(func(rt *Rt) (struct{}, error) {
		if n > s.size {
			var stuck Signal
			stuck.Wait(rt)
		}
		// A request joins the queue whenever one already exists, even if
		// it would otherwise fit under the remaining capacity: granting
		// it ahead of an earlier, larger request waiting for that same
		// capacity would break FIFO order among waiters.
		if len(s.waiters) > 0 || s.size-s.cur < n {
			w := &semWaiter{n: n}
			s.waiters = append(s.waiters, w)
			w.Signal.Wait(rt)
			return struct{}{}, nil
		}
		s.cur += n
		return struct{}{}, nil
	})
}

// Release gives back a weight of n, waking any waiter, in FIFO order,
// whose request now fits.
func (s *Semaphore) Release(rt *Rt, n int64) {
	if n < 0 {
		panic("async(Semaphore): negative weight")
	}
	s.cur -= n
	if s.cur < 0 {
		panic("async(Semaphore): released more than held")
	}
	granted := 0
	for _, w := range s.waiters {
		if s.size-s.cur < w.n {
			break
		}
		s.cur += w.n
		w.Notify(rt)
		granted++
	}
	s.waiters = slices.Delete(s.waiters, 0, granted)
}
