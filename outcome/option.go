package outcome

// Option holds either a value of type T or nothing.
// The zero value is the empty Option.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

// None returns the empty Option.
func None[T any]() Option[T] { return Option[T]{} }

// HasValue reports whether the Option holds a value.
func (o Option[T]) HasValue() bool { return o.ok }

// GetValue returns the held value. It panics with an *InvalidStateError when the Option is empty.
func (o Option[T]) GetValue() T {
	if !o.ok {
		panic(&InvalidStateError{Op: "option get value", State: "empty"})
	}

	return o.value
}

// GetValueOrDefault returns the held value or the zero T.
func (o Option[T]) GetValueOrDefault() T { return o.value }

// TryPickValue returns the held value and true, or the zero T and false.
func (o Option[T]) TryPickValue() (T, bool) { return o.value, o.ok }

// Match calls exactly one of onValue or onEmpty. Nil callbacks are skipped.
func (o Option[T]) Match(onValue func(T), onEmpty func()) {
	if o.ok {
		if onValue != nil {
			onValue(o.value)
		}

		return
	}

	if onEmpty != nil {
		onEmpty()
	}
}

// MatchOption maps o to U through exactly one of the two branches.
func MatchOption[T, U any](o Option[T], onValue func(T) U, onEmpty func() U) U {
	if o.ok {
		return onValue(o.value)
	}

	return onEmpty()
}
