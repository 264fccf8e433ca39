package services

import (
	"errors"
	"time"

	"journal-management-api/models"
)

// ReviewService manages the reviewers bound to a manuscript and the lifecycle
// of their review assignments.
type ReviewService struct {
	store    EntityStore
	identity IdentityResolver
	now      func() time.Time
}

func NewReviewService(store EntityStore, identity IdentityResolver) *ReviewService {
	return &ReviewService{store: store, identity: identity, now: time.Now}
}

// ReviewOutcome carries the result fields recorded with a sub-status change.
type ReviewOutcome struct {
	Rating         *int
	Recommendation *string
	Comments       *string
}

// BulkAssignment is one item of a BulkAssign batch.
type BulkAssignment struct {
	ManuscriptID uint       `json:"manuscript_id"`
	ReviewerIDs  []uint     `json:"reviewer_ids"`
	DueDate      *time.Time `json:"due_date"`
}

// BulkAssignResult reports the outcome of a single batch item.
type BulkAssignResult struct {
	ManuscriptID      uint   `json:"manuscript_id"`
	Success           bool   `json:"success"`
	AssignedReviewers int    `json:"assigned_reviewers,omitempty"`
	Error             string `json:"error,omitempty"`
}

// AssignReviewers binds the given reviewers to the manuscript for the current
// round. Validation is all-or-nothing: every id must resolve to a user whose
// role can review, or nothing is applied. Reviewers already holding an open
// assignment are left untouched, which makes re-assignment idempotent.
func (s *ReviewService) AssignReviewers(manuscriptID uint, reviewerIDs []uint, dueDate *time.Time, actor Actor) (*models.Manuscript, error) {
	roles, err := s.identity.ResolveRoles(reviewerIDs)
	if err != nil {
		return nil, err
	}
	var invalid []uint
	for _, id := range reviewerIDs {
		if role, ok := roles[id]; !ok || !role.CanReview() {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidReviewerError{ManuscriptID: manuscriptID, ReviewerIDs: invalid}
	}

	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		m, err := s.store.Get(manuscriptID)
		if err != nil {
			return nil, err
		}

		now := s.now()
		for _, reviewerID := range reviewerIDs {
			if m.OpenAssignment(reviewerID) != nil {
				continue
			}
			m.ReviewAssignments = append(m.ReviewAssignments, models.ReviewAssignment{
				ManuscriptID: m.ManuscriptID,
				ReviewerID:   reviewerID,
				Round:        m.LatestRound(reviewerID) + 1,
				SubStatus:    models.ReviewAssigned,
				AssignedAt:   now,
				DueDate:      dueDate,
			})
		}
		m.ReviewDueDate = dueDate
		m.UpdateAt = now

		if err := s.store.Save(m, m.Version); err != nil {
			if errors.Is(err, ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return m, nil
	}
	return nil, lastErr
}

// BulkAssign applies AssignReviewers independently per batch item. One item's
// failure never rolls back or blocks the others.
func (s *ReviewService) BulkAssign(items []BulkAssignment, actor Actor) []BulkAssignResult {
	results := make([]BulkAssignResult, 0, len(items))
	for _, item := range items {
		m, err := s.AssignReviewers(item.ManuscriptID, item.ReviewerIDs, item.DueDate, actor)
		if err != nil {
			results = append(results, BulkAssignResult{
				ManuscriptID: item.ManuscriptID,
				Error:        err.Error(),
			})
			continue
		}
		results = append(results, BulkAssignResult{
			ManuscriptID:      item.ManuscriptID,
			Success:           true,
			AssignedReviewers: len(m.ReviewerIDs()),
		})
	}
	return results
}

// RecordReviewOutcome advances an assignment's sub-status. Regressions and
// changes to a terminal assignment are rejected; completion requires a rating
// and a recommendation and stamps submittedAt exactly once.
func (s *ReviewService) RecordReviewOutcome(assignmentID uint, target models.ReviewSubStatus, outcome ReviewOutcome, actor Actor) (*models.ReviewAssignment, error) {
	if !target.IsValid() {
		return nil, &TransitionError{To: string(target), Reason: "unknown review sub-status"}
	}

	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		m, err := s.store.FindByAssignment(assignmentID)
		if err != nil {
			return nil, err
		}

		var assignment *models.ReviewAssignment
		for i := range m.ReviewAssignments {
			if m.ReviewAssignments[i].AssignmentID == assignmentID {
				assignment = &m.ReviewAssignments[i]
				break
			}
		}
		if assignment == nil {
			return nil, &NotFoundError{Entity: "assignment", ID: assignmentID}
		}

		if err := s.applyOutcome(assignment, target, outcome); err != nil {
			return nil, err
		}
		m.UpdateAt = s.now()

		if err := s.store.Save(m, m.Version); err != nil {
			if errors.Is(err, ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return assignment, nil
	}
	return nil, lastErr
}

func (s *ReviewService) applyOutcome(a *models.ReviewAssignment, target models.ReviewSubStatus, outcome ReviewOutcome) error {
	current := a.SubStatus
	if current.IsTerminal() {
		return &TransitionError{
			ManuscriptID: a.ManuscriptID,
			From:         string(current),
			To:           string(target),
			Reason:       "assignment is terminal",
		}
	}
	if target.Rank() < current.Rank() || target == current {
		return &TransitionError{
			ManuscriptID: a.ManuscriptID,
			From:         string(current),
			To:           string(target),
			Reason:       "sub-status may not regress",
		}
	}

	if target == models.ReviewCompleted {
		var missing []string
		if outcome.Rating == nil {
			missing = append(missing, "rating")
		}
		if outcome.Recommendation == nil || *outcome.Recommendation == "" {
			missing = append(missing, "recommendation")
		}
		if len(missing) > 0 {
			return &IncompleteReviewError{AssignmentID: a.AssignmentID, Missing: missing}
		}
		now := s.now()
		a.SubmittedAt = &now
		a.Rating = outcome.Rating
		a.Recommendation = outcome.Recommendation
	}

	a.SubStatus = target
	if outcome.Comments != nil {
		a.Comments = outcome.Comments
	}
	return nil
}
