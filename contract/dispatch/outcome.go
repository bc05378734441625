package dispatch

import "github.com/next-trace/scg-mediator/validation"

// ErrorOf extracts the domain error from a request or query outcome held as any.
// It reports false for successful outcomes and for values that are not outcomes.
func ErrorOf(out any) (validation.Error, bool) {
	switch o := out.(type) {
	case interface {
		TryPickError() (validation.Error, bool)
	}:
		return o.TryPickError()
	case interface {
		TryPickValue() (validation.Error, bool)
	}:
		return o.TryPickValue()
	default:
		return validation.Error{}, false
	}
}
