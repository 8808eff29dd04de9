package async

// WaitGroup is a Signal with a counter, the async analogue of
// sync.WaitGroup: Add/Done update the counter, and Wait returns a task
// that parks until the counter reaches zero instead of blocking an OS
// thread.
//
// A WaitGroup must not be shared across more than one Executor.
type WaitGroup struct {
	Signal
	n int
}

// Add adds delta, which may be negative, to the counter. It wakes any
// task parked in Wait once the counter reaches zero. A negative counter
// is a usage error and panics.
func (wg *WaitGroup) Add(rt *Rt, delta int) {
	if wg.n >= 0 {
		wg.n += delta
	}
	if wg.n < 0 {
		panic("async(WaitGroup): negative counter")
	}
	if wg.n == 0 && delta != 0 {
		wg.Notify(rt)
	}
}

// Done decrements the counter by one.
func (wg *WaitGroup) Done(rt *Rt) {
	wg.Add(rt, -1)
}

// Wait returns a task that completes once the counter reaches zero.
func (wg *WaitGroup) Wait() *Task[struct{}] {
	return New(func(rt *Rt) (struct{}, error) {
		for wg.n != 0 {
			wg.Signal.Wait(rt)
		}
		return struct{}{}, nil
	})
}
