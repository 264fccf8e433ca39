package services

import (
	"errors"
	"fmt"

	"journal-management-api/models"
)

// Sentinel errors for the editorial engine. Callers match with errors.Is and
// pull structured context out with errors.As where a typed error exists.
var (
	ErrNotFound            = errors.New("not found")
	ErrIllegalTransition   = errors.New("illegal transition")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidReviewer     = errors.New("invalid reviewer")
	ErrIncompleteReview    = errors.New("incomplete review")
	ErrAlreadyPublished    = errors.New("already published")
	ErrDoiGenerationFailed = errors.New("doi generation failed")
	ErrConflict            = errors.New("conflict")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

// NotFoundError reports an unknown manuscript or assignment id.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// TransitionError reports a workflow or sub-status move that the transition
// table does not allow, with enough context to render a precise message.
type TransitionError struct {
	ManuscriptID uint
	From         string
	To           string
	Reason       string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("manuscript %d: cannot transition from %q to %q", e.ManuscriptID, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

// ForbiddenError reports an actor whose role lacks authority for a transition.
type ForbiddenError struct {
	ActorID      uint
	Role         models.Role
	ManuscriptID uint
	Target       models.ManuscriptStatus
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("actor %d (role %s) may not move manuscript %d to %q",
		e.ActorID, e.Role, e.ManuscriptID, e.Target)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// InvalidReviewerError reports reviewer ids that failed role validation.
// Assignment is all-or-nothing, so a single bad id rejects the whole set.
type InvalidReviewerError struct {
	ManuscriptID uint
	ReviewerIDs  []uint
}

func (e *InvalidReviewerError) Error() string {
	return fmt.Sprintf("manuscript %d: reviewers %v not found or not eligible to review",
		e.ManuscriptID, e.ReviewerIDs)
}

func (e *InvalidReviewerError) Unwrap() error { return ErrInvalidReviewer }

// IncompleteReviewError reports a completion attempt missing its outcome.
type IncompleteReviewError struct {
	AssignmentID uint
	Missing      []string
}

func (e *IncompleteReviewError) Error() string {
	return fmt.Sprintf("assignment %d: completion requires %v", e.AssignmentID, e.Missing)
}

func (e *IncompleteReviewError) Unwrap() error { return ErrIncompleteReview }
