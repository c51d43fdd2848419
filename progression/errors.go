package progression

import "fmt"

// ValidationError indicates a malformed or incomplete request payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrIncompleteSubmission is returned when a quiz submission leaves
// questions unanswered. Callers match it with errors.Is to tell a user
// mistake apart from malformed quiz data.
var ErrIncompleteSubmission = &ValidationError{Message: "not all questions answered"}

// NotFoundError indicates a missing course, video or question.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// AuthorizationError indicates the user is not allowed to reach the resource,
// including locked videos and missing premium access.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// PersistenceError wraps a failed progress write. Progress is never reported
// as advanced unless the write was confirmed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
