package handlers

import "fmt"

// Process exit codes. Scripts branch on these, so they are part of the
// CLI contract and must stay stable.
const (
	// ExitOK means a response was received with a status below 400,
	// or any status when --allow-error-status is set.
	ExitOK = 0

	// ExitHTTPError means a response was received with status >= 400.
	// The response is still rendered before the process exits.
	ExitHTTPError = 1

	// ExitConfig means the request never started: bad flags, bad
	// configuration, or unreadable input.
	ExitConfig = 2

	// ExitExhausted means every attempt ended in a transport failure.
	ExitExhausted = 3

	// ExitCancelled means the execution was interrupted before a
	// terminal outcome was reached.
	ExitCancelled = 4
)

// ExitError carries a process exit code up to main. Err may be nil when
// the outcome was already rendered and only the code matters.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
