package async

// AnyResult is Any's return value: which child won, and its value.
type AnyResult[T any] struct {
	Index int
	Value T
}

// All starts every task in ts concurrently, waits for all of them to
// reach completion regardless of failure, and returns their results in
// order. If one or more children fail, All still waits for the rest
// before returning a *TaskFailedError naming the first failure to be
// observed (children already complete when All starts are examined
// first, in index order; the rest in completion order), so that no child
// frame is ever left dangling once All's result is observed.
//
// ts must be non-empty; since Go cannot enforce that at the type level,
// All panics on an empty argument list instead of defining a meaningless
// zero-task result.
func All[T any](ts ...*Task[T]) *Task[[]T] {
	if len(ts) == 0 {
		panic("async: All requires at least one task")
	}
	return New(func(rt *Rt) ([]T, error) {
		results := make([]T, len(ts))
		var firstErr error
		var firstErrIndex int
		fold := func(i int, t *Task[T]) {
			results[i] = t.value
			if t.err != nil && firstErr == nil {
				firstErr, firstErrIndex = t.err, i
			}
		}

		// Tasks already completed (e.g. previously Awaited elsewhere)
		// never invoke cont again, so they are folded in immediately
		// instead of being registered for a completion that already
		// happened.
		var pending []*Task[T]
		for i, t := range ts {
			t.co.ensureStarted(rt.loop)
			if t.co.ended {
				fold(i, t)
				continue
			}
			pending = append(pending, t)
		}

		if len(pending) > 0 {
			remaining := len(pending)
			for idx, t := range ts {
				if t.co.ended {
					continue
				}
				i, t := idx, t
				t.co.cont = finisherFunc(func() resumer {
					fold(i, t)
					remaining--
					if remaining == 0 {
						return rt.co
					}
					return nil
				})
			}
			for _, t := range pending[1:] {
				rt.loop.enqueue(t.co)
			}
			rt.co.park(pending[0].co)
		}

		if firstErr != nil {
			return results, &TaskFailedError{Index: firstErrIndex, Err: firstErr}
		}
		return results, nil
	})
}

// Any starts every task in ts concurrently and completes as soon as the
// first one of them completes, whether that completion is a success or a
// failure; the rest keep running to completion independently but their
// outcome is discarded.
//
// ts must be non-empty, for the same reason as All.
func Any[T any](ts ...*Task[T]) *Task[AnyResult[T]] {
	if len(ts) == 0 {
		panic("async: Any requires at least one task")
	}
	return New(func(rt *Rt) (AnyResult[T], error) {
		// A task that has already completed by the time Any is called
		// wins outright: its outcome is already decided and no later
		// completion can be "first".
		for i, t := range ts {
			t.co.ensureStarted(rt.loop)
			if t.co.ended {
				if t.err != nil {
					var zero AnyResult[T]
					return zero, &TaskFailedError{Index: i, Err: t.err}
				}
				return AnyResult[T]{Index: i, Value: t.value}, nil
			}
		}

		resolved := false
		winner := -1
		for i, t := range ts {
			i, t := i, t
			t.co.cont = finisherFunc(func() resumer {
				if resolved {
					return nil
				}
				resolved = true
				winner = i
				return rt.co
			})
		}

		for _, t := range ts[1:] {
			rt.loop.enqueue(t.co)
		}
		rt.co.park(ts[0].co)

		t := ts[winner]
		if t.err != nil {
			var zero AnyResult[T]
			return zero, &TaskFailedError{Index: winner, Err: t.err}
		}
		return AnyResult[T]{Index: winner, Value: t.value}, nil
	})
}
