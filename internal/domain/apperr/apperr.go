// Package apperr defines the error kinds surfaced by the service.
package apperr

import (
	"fmt"
	"strings"

	"github.com/Laisky/errors/v2"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindStorage
	KindUpload
	KindNotification
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	case KindUpload:
		return "upload"
	case KindNotification:
		return "notification"
	default:
		return "unknown"
	}
}

// Check is one failed validation rule.
type Check struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Checks  []Check
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Message, e.cause.Error())
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Validation(checks ...Check) *Error {
	msgs := make([]string, 0, len(checks))
	for _, c := range checks {
		msgs = append(msgs, c.Message)
	}

	return &Error{
		Kind:    KindValidation,
		Message: "validation failed: " + strings.Join(msgs, "; "),
		Checks:  checks,
	}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Storage(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf(format, args...), cause: errors.WithStack(cause)}
}

func Upload(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindUpload, Message: fmt.Sprintf(format, args...), cause: errors.WithStack(cause)}
}

func Notification(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindNotification, Message: fmt.Sprintf(format, args...), cause: errors.WithStack(cause)}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
