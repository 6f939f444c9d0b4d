package servify

import "github.com/pkg/errors"

type panicError struct {
	msg   string
	r     any
	stack string
}

func (err panicError) Error() string {
	return "panic: " + err.msg
}

// RecoverInterface returns what recover() produced when err comes from a
// panicking function, or nil.
func RecoverInterface(err error) any {
	if pe, ok := isPanicError(err); ok {
		return pe.r
	}
	return nil
}

// RecoverStack returns the stack captured at the panic, or "".
func RecoverStack(err error) string {
	if pe, ok := isPanicError(err); ok {
		return pe.stack
	}
	return ""
}

func isPanicError(err error) (panicError, bool) {
	var pe panicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return panicError{}, false
}
