package async

import "time"

// ExecutorOption configures an Executor at construction, the usual
// functional-option shape for wiring in optional behavior without
// exported fields.
type ExecutorOption func(*Executor)

// DebugEvent is delivered to a hook installed with WithDebugHook. It costs
// nothing when no hook is installed: the executor never formats or
// allocates an event unless a hook exists. No events are emitted for task
// start, task end, panics, or timer expiry.
type DebugEvent struct {
	Kind string // "timer-armed" (Fd is 0), "fd-armed", "fd-fired"
	Fd   int
}

// WithDebugHook installs an observability callback. This is the one
// optional, zero-cost-when-unset escape hatch for a consuming application
// to wire its own logger or metrics into; the core itself never imports a
// logging package.
func WithDebugHook(hook func(DebugEvent)) ExecutorOption {
	return func(e *Executor) { e.debugHook = hook }
}

// Executor is the tick loop: a ready queue (FIFO), a timer wheel
// (earliest-deadline-first with FIFO ties), and an I/O reactor, driven to
// completion of a root task by run. It is not safe for concurrent use
// from multiple goroutines: if one task blocks, no other task can run, so
// the one rule for code running inside a task is not to block.
type Executor struct {
	ready     []resumer
	timers    timerWheel
	reactor   *reactor
	debugHook func(DebugEvent)

	// parked counts tasks suspended outside of ready/timers/reactor -
	// currently only Signal.Wait (and, through it, WaitGroup/Semaphore) -
	// so that run's quiescence check does not mistake "nothing left in
	// ready/timers/reactor" for "nothing left at all" while such a task is
	// still waiting for a Notify that only running task code can issue.
	parked int
}

func (e *Executor) parkInc() { e.parked++ }
func (e *Executor) parkDec() { e.parked-- }

// newExecutor constructs an Executor with its own epoll instance. Failure
// to create the reactor is fatal to the executor's construction, since
// every AsyncFile operation depends on it.
func newExecutor(opts ...ExecutorOption) (*Executor, error) {
	r, err := newReactor()
	if err != nil {
		return nil, err
	}
	e := &Executor{reactor: r}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Executor) enqueue(r resumer) {
	e.ready = append(e.ready, r)
}

func (e *Executor) emit(kind string, fd int) {
	if e.debugHook != nil {
		e.debugHook(DebugEvent{Kind: kind, Fd: fd})
	}
}

// run drives one tick at a time:
//
//  1. drain the ready queue completely, FIFO, driving each entry through
//     the symmetric-transfer trampoline;
//  2. pop every timer whose deadline is not after now and drive it
//     directly (not via the ready queue);
//  3. if step 2 fired anything, go back to step 1 so newly-readied work
//     is not left waiting a full tick;
//  4. otherwise block: on the reactor if anything is registered (with a
//     timeout capped by the next timer deadline), or by sleeping until
//     the next timer if the reactor has nothing registered.
//
// run returns as soon as root has completed, not when the ready
// queue/timer wheel/reactor are all empty. A combinator's losing child can
// still be sleeping or parked on an fd when its sibling wins; that
// abandoned task keeps consuming its registration until it naturally
// finalizes, but nothing is waiting on it any more, so there is no reason
// to make the caller of SpawnRoot wait for it too. Falling off the bottom
// of the switch below (nothing ready, no timer, no reactor registration,
// nothing parked on a Signal, and root still not done) would mean root
// itself is unreachably stuck, which cannot happen: root's own
// continuation chain is always part of ready/timers/reactor/parked until
// root ends.
func (e *Executor) run(root *coroState) {
	for {
		if root.ended {
			return
		}

		for len(e.ready) > 0 {
			r := e.ready[0]
			e.ready = e.ready[1:]
			drive(r)
		}

		fired := e.timers.popExpired(time.Now())
		if len(fired) > 0 {
			for _, r := range fired {
				drive(r)
			}
			continue
		}

		hasReactor := e.reactor.registrationCount() > 0
		deadline, hasTimer := e.timers.peekDeadline()

		switch {
		case hasReactor:
			timeoutMs := -1
			if hasTimer {
				timeoutMs = msUntil(deadline)
			}
			ready, err := e.reactor.wait(timeoutMs)
			if err != nil {
				// The reactor itself is broken; there is nothing further
				// this tick can do for the fds it was watching.
				return
			}
			for _, r := range ready {
				drive(r)
			}
			continue
		case hasTimer:
			d := time.Until(deadline)
			if d > 0 {
				time.Sleep(d)
			}
			continue
		case e.parked > 0:
			// Every remaining task is parked on a Signal with no timer
			// or fd that could ever wake it, and there is no ready code
			// left to call Notify. Nothing will ever make progress;
			// block rather than busy-wait.
			var never chan struct{}
			<-never
		default:
			return
		}
	}
}

func msUntil(deadline time.Time) int {
	d := time.Until(deadline)
	if d <= 0 {
		return 0
	}
	ms := d.Milliseconds()
	if ms == 0 {
		return 1
	}
	return int(ms)
}

// SpawnRoot starts fn as a root task on a freshly constructed Executor
// and blocks the calling OS thread until it completes, tearing the
// executor (and its reactor) down before returning. This is the module's
// one blocking entry point.
func SpawnRoot[T any](fn Func[T], opts ...ExecutorOption) (T, error) {
	e, err := newExecutor(opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	defer e.reactor.close()

	t := New(fn)
	t.co.ensureStarted(e)
	e.enqueue(t.co)
	e.run(t.co)
	return t.value, t.err
}
