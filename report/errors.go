package report

import "errors"

// Error codes for generation failures.
const (
	ErrCodeSchemaInvalid = "SCHEMA_INVALID"
	ErrCodeLayoutFailed  = "LAYOUT_FAILED"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeCancelled     = "CANCELLED"
)

// Error is a structural generation failure. The whole generation is aborted;
// there is no partial result.
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

// NewError creates a new Error.
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsCode reports whether err is a generation error with the given code.
func IsCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
