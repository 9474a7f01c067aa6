// Package apperr defines the error categories every command reports to the user.
package apperr

import (
	"context"
	"errors"
)

var (
	// ErrNavigationTimeout is returned when an expected page element never appeared.
	ErrNavigationTimeout = errors.New("navigation timed out")
	// ErrUnsupportedStatus is returned when a row's status exposes no known control.
	ErrUnsupportedStatus = errors.New("unsupported homework status")
	// ErrInvalidState is returned when an operation is called on a record in the wrong state.
	ErrInvalidState = errors.New("invalid homework state")
	// ErrMissingPrerequisite is returned when a required cache artifact is absent.
	ErrMissingPrerequisite = errors.New("missing prerequisite")
	// ErrInvalidModelOutput is returned when the model response is not the expected JSON.
	ErrInvalidModelOutput = errors.New("invalid model output")
	// ErrProvider is returned for network, auth or quota failures of the AI or speech service.
	ErrProvider = errors.New("provider error")
	// ErrScrape is returned when the portal markup no longer matches the expected structure.
	ErrScrape = errors.New("structural scrape failure")
	// ErrAnswerMismatch is returned when an answer's type does not fit the question's input.
	ErrAnswerMismatch = errors.New("answer type does not match question")
)

// NoticeError is returned when the portal raised a toast instead of navigating.
type NoticeError struct {
	Text string
}

func (e *NoticeError) Error() string {
	return "portal notice: " + e.Text
}

// Category returns the i18n message id describing the kind of failure.
func Category(err error) string {
	var notice *NoticeError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &notice):
		return "ErrNotice"
	case errors.Is(err, ErrNavigationTimeout), errors.Is(err, context.DeadlineExceeded):
		return "ErrNavigationTimeout"
	case errors.Is(err, ErrUnsupportedStatus):
		return "ErrUnsupportedStatus"
	case errors.Is(err, ErrInvalidState):
		return "ErrInvalidState"
	case errors.Is(err, ErrMissingPrerequisite):
		return "ErrMissingPrerequisite"
	case errors.Is(err, ErrInvalidModelOutput):
		return "ErrInvalidModelOutput"
	case errors.Is(err, ErrProvider):
		return "ErrProvider"
	case errors.Is(err, ErrScrape):
		return "ErrScrape"
	case errors.Is(err, ErrAnswerMismatch):
		return "ErrAnswerMismatch"
	case errors.Is(err, context.Canceled):
		return "ErrInterrupted"
	}
	return "ErrUnexpected"
}
