package async

// State is a Signal that also carries a value: Get reads it, Set or
// Update writes it and wakes any task parked on the underlying Signal.
//
// A State must not be shared across more than one Executor.
type State[T any] struct {
	Signal
	value T
}

// NewState creates a State with its initial value set to v.
func NewState[T any](v T) *State[T] {
	return &State[T]{value: v}
}

// Get retrieves the current value of s.
func (s *State[T]) Get() T {
	return s.value
}

// Set updates the value of s and wakes any task waiting on it.
func (s *State[T]) Set(rt *Rt, v T) {
	s.value = v
	s.Notify(rt)
}

// Update sets the value of s to f(s.Get()) and wakes any task waiting on
// it.
func (s *State[T]) Update(rt *Rt, f func(T) T) {
	s.Set(rt, f(s.value))
}
