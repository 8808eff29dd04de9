package async

import "time"

// sleepUntil suspends the calling task until deadline, then resumes it.
// If deadline is already due, the executor still parks the task and
// resumes it on its very next timer check, so sleeping always yields
// control at least once even for a past deadline.
func sleepUntil(rt *Rt, deadline time.Time) {
	rt.loop.timers.add(deadline, rt.co)
	rt.loop.emit("timer-armed", 0)
	rt.co.park(nil)
}

// SleepUntil returns a task that suspends the calling task until
// deadline, then resumes it. Being a *Task[struct{}], it composes
// directly with All/Any the same as any other task.
func SleepUntil(deadline time.Time) *Task[struct{}] {
	return New(func(rt *Rt) (struct{}, error) {
		sleepUntil(rt, deadline)
		return struct{}{}, nil
	})
}

// SleepFor returns a task that suspends for d. The deadline is computed
// from the time the task actually starts running, not from when SleepFor
// is called, so a SleepFor left unawaited for a while before it starts
// does not fire early.
func SleepFor(d time.Duration) *Task[struct{}] {
	return New(func(rt *Rt) (struct{}, error) {
		sleepUntil(rt, time.Now().Add(d))
		return struct{}{}, nil
	})
}
