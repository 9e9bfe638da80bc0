package listview

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery is returned for a negative page or a non-positive page size.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrBusy is returned when a row action is attempted while the view is
	// loading or another mutation is in flight.
	ErrBusy = errors.New("view is busy")
	// ErrRejected wraps a failure reported by the backend (success=false).
	ErrRejected = errors.New("request rejected")
	// ErrSubmitInFlight is returned by Submit while a submission is pending.
	ErrSubmitInFlight = errors.New("submit already in flight")
	// ErrDialogOpen is returned when opening a dialog while one is open.
	ErrDialogOpen = errors.New("a dialog is already open")
	// ErrDialogClosed is returned when editing or submitting a closed dialog.
	ErrDialogClosed = errors.New("dialog is closed")
	// ErrInvalidDraft wraps local validation failures.
	ErrInvalidDraft = errors.New("invalid draft")
	// ErrNothingPending is returned by Confirm when no action awaits confirmation.
	ErrNothingPending = errors.New("no pending action")
	// ErrAlreadyPending is returned when an action is requested while another
	// one awaits confirmation.
	ErrAlreadyPending = errors.New("an action is already awaiting confirmation")
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled")
)

// RejectedError carries the message of a handled backend failure.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return ErrRejected.Error()
	}
	return ErrRejected.Error() + ": " + e.Message
}

func (e *RejectedError) Unwrap() error { return ErrRejected }

// Rejected returns a RejectedError for message.
func Rejected(message string) error {
	return &RejectedError{Message: message}
}

// panicError converts a recovered panic into an error.
func panicError(where string, r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("listview: %s panicked: %w", where, err)
	}
	return fmt.Errorf("listview: %s panicked: %v", where, r)
}

// userMessage is the text shown for err. Backend messages are shown as-is.
func userMessage(err error) string {
	var re *RejectedError
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}
