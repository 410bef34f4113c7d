package storage

import "errors"

// ErrCodeStorageFailed marks every storage failure.
const ErrCodeStorageFailed = "STORAGE_FAILED"

// Error is returned by all storage operations.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(message string, cause error) *Error {
	return &Error{Code: ErrCodeStorageFailed, Message: message, Cause: cause}
}

// IsNotFound reports whether err was caused by a missing document.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Message == msgNotFound
}
