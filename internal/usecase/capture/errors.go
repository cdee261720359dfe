package capture

import "errors"

const (
	notAuthenticatedMessage = "You must be signed in to log a mood"
	submitFailedMessage     = "Failed to log mood"
)

// ReportedError is a failure the store itself reported, such as a rejected
// row. Its message is shown to the user as the store worded it.
type ReportedError interface {
	error
	StoreMessage() string
}

// ValidationError is a local validation failure. No store call was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrNoMoodSelected = &ValidationError{Message: "Please select a mood"}
	ErrUnknownMood    = &ValidationError{Message: "mood score must be between 1 and 10"}
	ErrUnknownTag     = &ValidationError{Message: "unknown tag"}

	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrFlowClosed       = errors.New("capture flow is closed")
)

// SubmitError is a failed submission. Message is shown to the user unchanged:
// the store's own wording for a ReportedError, a generic message otherwise.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return e.Message
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a local validation failure
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsSubmitFailure reports whether err is a failed submission
func IsSubmitFailure(err error) bool {
	var s *SubmitError
	return errors.As(err, &s)
}

// failureMessage picks the message shown for a failed insert
func failureMessage(err error) string {
	var reported ReportedError
	if errors.As(err, &reported) {
		if msg := reported.StoreMessage(); msg != "" {
			return msg
		}
	}
	return submitFailedMessage
}
