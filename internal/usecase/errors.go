package usecase

import (
	"errors"
	"fmt"

	"github.com/fadilmartias/recruitai/internal/service"
	"github.com/google/uuid"
)

var (
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrActionItemNotFound = errors.New("action item not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrCandidateFinalized = errors.New("candidate already has a final decision")
	ErrNotRetryable       = errors.New("action item is not a failed notification")
)

// ScoringError means the scoring provider could not produce a result. The
// candidate stays unscored.
type ScoringError struct {
	CandidateID uuid.UUID
	Cause       error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed: %v", e.Cause)
}

func (e *ScoringError) Unwrap() error {
	return e.Cause
}

// NotificationError means an invite or rejection could not be delivered.
type NotificationError struct {
	Kind  service.NotificationKind
	Cause error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s notification failed: %v", e.Kind, e.Cause)
}

func (e *NotificationError) Unwrap() error {
	return e.Cause
}

// PersistenceError means nothing from the operation was committed.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
