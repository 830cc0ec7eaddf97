package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for everything the orchestration layer can surface.
// Every operation boundary converts its failure into exactly one of these;
// nothing else propagates to the caller.

// ErrAuthDenied indicates the backend denied the bearer credential. Raising
// it anywhere triggers the global logout policy.
type ErrAuthDenied struct {
	Operation string
	Detail    string
}

func (e *ErrAuthDenied) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("authorization denied [%s]: %s", e.Operation, e.Detail)
	}
	return fmt.Sprintf("authorization denied [%s]", e.Operation)
}

// ErrServerRejected indicates a non-auth 4xx/5xx response. Detail carries
// the server-supplied explanation verbatim when one was present.
type ErrServerRejected struct {
	Operation string
	Status    int
	Detail    string
}

func (e *ErrServerRejected) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s rejected (%d): %s", e.Operation, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s rejected with status %d", e.Operation, e.Status)
}

// ErrTransport indicates a network or decoding failure with no usable
// server explanation.
type ErrTransport struct {
	Operation string
	Err       error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("transport failure [%s]: %v", e.Operation, e.Err)
}

func (e *ErrTransport) Unwrap() error { return e.Err }

// Precondition failures raised before any network call is made.
var (
	ErrNoSession    = errors.New("not signed in")
	ErrNoBusiness   = errors.New("no business selected")
	ErrNoFile       = errors.New("no file selected")
	ErrContentDrift = errors.New("file content changed since preview; preview again before committing")
)

// DisplayMessage converts any orchestration error into the single
// human-readable string the error reporter holds. Server explanations are
// surfaced verbatim; transport failures collapse to a generic message.
func DisplayMessage(err error) string {
	var denied *ErrAuthDenied
	if errors.As(err, &denied) {
		if denied.Detail != "" {
			return denied.Detail
		}
		return "Session expired. Please sign in again."
	}

	var rejected *ErrServerRejected
	if errors.As(err, &rejected) {
		if rejected.Detail != "" {
			return rejected.Detail
		}
		return fmt.Sprintf("The server rejected the request (status %d).", rejected.Status)
	}

	var transport *ErrTransport
	if errors.As(err, &transport) {
		return "Network error. Please try again."
	}

	return err.Error()
}
