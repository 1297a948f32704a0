package discussion

import "fmt"

type ErrorType string

const (
	ErrTypeConfig       ErrorType = "CONFIG"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeStorage      ErrorType = "STORAGE"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
)

type DiscussionError struct {
	Type         ErrorType
	Operation    string
	Message      string
	DiscussionID uint
	UserID       uint
	Cause        error
}

func (e *DiscussionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Discussion %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Discussion %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *DiscussionError) Unwrap() error {
	return e.Cause
}

func NewValidationError(operation, msg string) *DiscussionError {
	return &DiscussionError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewStorageError(operation, msg string, cause error) *DiscussionError {
	return &DiscussionError{Type: ErrTypeStorage, Operation: operation, Message: msg, Cause: cause}
}

// NewNotFoundError covers both missing discussions and discussions the user
// is not part of; the two are indistinguishable to the caller on purpose.
func NewNotFoundError(userID, discussionID uint) *DiscussionError {
	return &DiscussionError{
		Type:         ErrTypeNotFound,
		Operation:    "authorization",
		Message:      "discussion not found",
		UserID:       userID,
		DiscussionID: discussionID,
	}
}

// IsNotFound reports whether err is a not-found discussion error.
func IsNotFound(err error) bool {
	de, ok := err.(*DiscussionError)
	return ok && de.Type == ErrTypeNotFound
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	de, ok := err.(*DiscussionError)
	return ok && de.Type == ErrTypeValidation
}
