package audit

import (
	"errors"
	"fmt"
)

// Error is a stable, machine-readable error class. Two errors match under
// errors.Is when their codes are equal.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err == nil:
		return e.Code
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Message == "":
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

func (e *Error) Unwrap() error { return e.Err }

// WithMessage returns a new Error with the same Code and the given message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg}
}

// WithMessagef returns a new Error with a formatted message.
func (e *Error) WithMessagef(format string, args ...any) *Error {
	return &Error{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a new Error with the same Code wrapping err.
func (e *Error) Wrap(msg string, err error) *Error {
	return &Error{Code: e.Code, Message: msg, Err: err}
}

// Error classes.
var (
	// ErrValidation rejects input before any external call is made.
	ErrValidation = &Error{Code: "E_VALIDATION"}
	// ErrAnalysis covers failed analysis calls and non-conforming reports.
	ErrAnalysis = &Error{Code: "E_ANALYSIS"}
	// ErrRewrite covers failed rewrite calls.
	ErrRewrite = &Error{Code: "E_REWRITE"}
	// ErrPersistence covers an unreadable or unwritable history store.
	ErrPersistence = &Error{Code: "E_PERSISTENCE"}
)

// UserMessage renders err for the error bar. Known classes get a short,
// human-facing lead; anything else falls back to err.Error().
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	var lead string
	switch e.Code {
	case ErrValidation.Code:
		lead = "Invalid input"
	case ErrAnalysis.Code:
		lead = "Analysis interrupted"
	case ErrRewrite.Code:
		lead = "Rewrite failed"
	case ErrPersistence.Code:
		lead = "Could not save history"
	default:
		return e.Error()
	}
	detail := e.Message
	if e.Err != nil {
		if detail != "" {
			detail += ": "
		}
		detail += e.Err.Error()
	}
	if detail == "" {
		return lead
	}
	return lead + ": " + detail
}
