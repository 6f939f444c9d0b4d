package servify

import "time"

// Stage is a pipeline step. A request moves strictly forward through the
// stages and stops at the first failure.
type Stage int

const (
	ParsingBody Stage = iota
	Authenticating
	Validating
	Invoking
	Responding
)

func (s Stage) String() string {
	switch s {
	case ParsingBody:
		return "parse"
	case Authenticating:
		return "authenticate"
	case Validating:
		return "validate"
	case Invoking:
		return "invoke"
	case Responding:
		return "respond"
	}
	return "unknown"
}

// Observer is told, once per request, where the pipeline stopped. For a
// successful request stage is Responding and status 200.
type Observer interface {
	Observe(handle string, stage Stage, status int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) Observe(string, Stage, int, time.Duration) {}
