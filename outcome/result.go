package outcome

// Result holds either a success value of type T or an error value of type E, never both.
// The zero Result is an error result carrying the zero E; use FromValue and FromError.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

// FromValue returns a success Result.
func FromValue[T, E any](v T) Result[T, E] { return Result[T, E]{value: v, ok: true} }

// FromError returns an error Result. T usually needs to be given explicitly: FromError[User](e).
func FromError[T, E any](e E) Result[T, E] { return Result[T, E]{err: e} }

// IsSuccess reports whether the Result holds a success value.
func (r Result[T, E]) IsSuccess() bool { return r.ok }

// IsError reports whether the Result holds an error value.
func (r Result[T, E]) IsError() bool { return !r.ok }

// GetValue returns the success value. It panics with an *InvalidStateError on an error Result.
func (r Result[T, E]) GetValue() T {
	if !r.ok {
		panic(&InvalidStateError{Op: "result get value", State: "error"})
	}

	return r.value
}

// GetError returns the error value. It panics with an *InvalidStateError on a success Result.
func (r Result[T, E]) GetError() E {
	if r.ok {
		panic(&InvalidStateError{Op: "result get error", State: "success"})
	}

	return r.err
}

// GetValueOrDefault returns the success value or the zero T.
func (r Result[T, E]) GetValueOrDefault() T { return r.value }

// GetErrorOrDefault returns the error value or the zero E.
func (r Result[T, E]) GetErrorOrDefault() E { return r.err }

// TryPickValue returns the success value and true, or the zero T and false.
func (r Result[T, E]) TryPickValue() (T, bool) { return r.value, r.ok }

// TryPickError returns the error value and true, or the zero E and false.
func (r Result[T, E]) TryPickError() (E, bool) { return r.err, !r.ok }

// Match calls exactly one of onSuccess or onError. Nil callbacks are skipped.
func (r Result[T, E]) Match(onSuccess func(T), onError func(E)) {
	if r.ok {
		if onSuccess != nil {
			onSuccess(r.value)
		}

		return
	}

	if onError != nil {
		onError(r.err)
	}
}

// MatchResult maps r to U through exactly one of the two branches.
func MatchResult[T, E, U any](r Result[T, E], onSuccess func(T) U, onError func(E) U) U {
	if r.ok {
		return onSuccess(r.value)
	}

	return onError(r.err)
}
