package async

// Signal is a broadcast wakeup with no payload: any task parked in a call
// to Wait is resumed the next time Notify is called; the relative order of
// multiple woken tasks within that batch is unspecified, since the
// listener set is a plain map keyed by coroutine frame. It is the
// building block WaitGroup and Semaphore are written on top of.
//
// Notify enqueues each listener onto the ready queue rather than resuming
// it inline, since Notify is not itself a suspension point and an inline
// resume could reenter the calling task's own still-running frame.
//
// A Signal must not be shared across more than one Executor.
type Signal struct {
	listeners map[*coroState]struct{}
}

// Wait parks the calling task until the next Notify.
func (s *Signal) Wait(rt *Rt) {
	if s.listeners == nil {
		s.listeners = make(map[*coroState]struct{})
	}
	s.listeners[rt.co] = struct{}{}
	rt.loop.parkInc()
	rt.co.park(nil)
}

// Notify wakes every task currently parked in Wait. Tasks that call Wait
// after Notify has returned are not woken by this call.
func (s *Signal) Notify(rt *Rt) {
	for co := range s.listeners {
		rt.loop.enqueue(co)
		rt.loop.parkDec()
	}
	s.listeners = nil
}
