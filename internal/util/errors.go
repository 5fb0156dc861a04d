package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound = errors.New("user not found")

	// Forbidden
	ErrPermissionDenied = errors.New("permission denied")
	ErrExamNotAssigned  = errors.New("exam not assigned to user")

	// Precondition failed
	ErrAlreadyPassed = errors.New("exam already passed")

	// Conflict
	ErrAttemptClosed    = errors.New("attempt already closed")
	ErrAttemptStillOpen = errors.New("attempt still open")

	// Not found
	ErrExamNotFound     = errors.New("exam not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrChoiceNotFound   = errors.New("choice not found")

	// Validation
	ErrQuestionNotInExam   = errors.New("question does not belong to the attempt's exam")
	ErrChoiceNotInQuestion = errors.New("choice does not belong to the question")
	ErrInvalidScore        = errors.New("score must be between 0 and 100")
)

// TrainingIncompleteError refuses an exam start until the listed training items are finished.
type TrainingIncompleteError struct {
	ItemIDs []uint
}

func (e *TrainingIncompleteError) Error() string {
	return fmt.Sprintf("%d training item(s) incomplete", len(e.ItemIDs))
}
