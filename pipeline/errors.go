package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindStorage
	KindConflict
	KindPermission
)

// Error is the failure surface of every lifecycle operation. Handlers map
// kinds onto HTTP statuses; the message is safe to show to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func storagef(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf(format, args...), Err: err}
}

func conflictf(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the failure kind, KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// isDuplicateKey spots unique-constraint violations across the supported
// drivers.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
