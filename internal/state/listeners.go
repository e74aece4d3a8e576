package state

// Listeners is an ordered list of callbacks. It has no locking; the owner
// decides which goroutine touches it.
type Listeners[T any] struct {
	fns []func(T)
}

// Add appends fn. It is only called for values passed to later Notify calls.
func (l *Listeners[T]) Add(fn func(T)) {
	l.fns = append(l.fns, fn)
}

// Notify calls every listener in registration order. Listeners added during
// the pass are not called until the next one.
func (l *Listeners[T]) Notify(v T) {
	fns := l.fns[:len(l.fns):len(l.fns)]
	for _, fn := range fns {
		fn(v)
	}
}

// NotifyEach is like Notify but builds a fresh value per listener.
func (l *Listeners[T]) NotifyEach(next func() T) {
	fns := l.fns[:len(l.fns):len(l.fns)]
	for _, fn := range fns {
		fn(next())
	}
}

// Len returns the number of registered listeners.
func (l *Listeners[T]) Len() int {
	return len(l.fns)
}
