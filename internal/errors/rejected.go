package errors

import "errors"

// RejectedError is returned when the library backend answers an add request
// with a non-success status. Message is the server text, shown to the user as-is.
type RejectedError struct {
	Status  string
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "library rejected the book (status " + e.Status + ")"
	}
	return e.Message
}

// NewRejectedError creates a RejectedError from a library response.
func NewRejectedError(status, message string) *RejectedError {
	return &RejectedError{Status: status, Message: message}
}

// IsRejectedError reports whether err is a RejectedError (even when wrapped).
func IsRejectedError(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

// AsRejectedError unwraps err into a RejectedError when possible.
func AsRejectedError(err error) (*RejectedError, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}
