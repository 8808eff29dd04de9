package async

// Memo caches the result of an expensive task-producing computation: the
// first Get starts and awaits the underlying task, every subsequent Get
// returns the cached result without running fn again, and Invalidate
// discards the cache so the next Get recomputes it.
//
// Memo does not recompute automatically when a Signal or State it reads
// changes; a caller that wants recompute-on-change wires it itself,
// calling Invalidate from whatever watches the relevant Signal or State.
//
// A Memo must not be shared across more than one Executor.
type Memo[T any] struct {
	fn   Func[T]
	task *Task[T]
}

// NewMemo creates a Memo that computes its value by calling fn exactly
// once per Invalidate cycle.
func NewMemo[T any](fn Func[T]) *Memo[T] {
	return &Memo[T]{fn: fn}
}

// Get starts fn the first time it is called, or the first time after an
// Invalidate, and returns the cached result on every call in between.
func (m *Memo[T]) Get(rt *Rt) (T, error) {
	if m.task == nil {
		m.task = New(m.fn)
	}
	return Await(rt, m.task)
}

// Invalidate discards the cached result, if any. The next Get recomputes
// it from scratch with a fresh task.
func (m *Memo[T]) Invalidate() {
	m.task = nil
}
