package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"journal-management-api/models"

	"github.com/google/uuid"
)

const (
	// casRetries bounds the read-modify-write loop on version conflicts.
	casRetries = 3
	// doiRetries bounds regeneration attempts on a DOI collision.
	doiRetries = 5

	defaultDoiPrefix = "10.1234"
)

// AssignmentOverrides carries optional editor bindings and publication
// metadata applied together with a transition.
type AssignmentOverrides struct {
	EditorID          *uint
	AssociateEditorID *uint
	Volume            *int
	Issue             *int
	PageRange         *string
}

// WorkflowService owns the manuscript status lifecycle: legal transitions,
// the append-only audit trail, and DOI assignment.
type WorkflowService struct {
	store     EntityStore
	notifier  *NotificationTrigger
	doiPrefix string
	now       func() time.Time
}

func NewWorkflowService(store EntityStore, notifier *NotificationTrigger) *WorkflowService {
	return &WorkflowService{
		store:     store,
		notifier:  notifier,
		doiPrefix: defaultDoiPrefix,
		now:       time.Now,
	}
}

// transitionAuthority lists targets that only specific roles may request.
// Targets absent from the map are open to any authenticated actor.
var transitionAuthority = map[models.ManuscriptStatus][]models.Role{
	models.StatusAccepted:         {models.RoleEditor, models.RoleAdmin},
	models.StatusRejected:         {models.RoleEditor, models.RoleAdmin},
	models.StatusPublished:        {models.RoleEditor, models.RoleAdmin},
	models.StatusRevisionRequired: {models.RoleEditor, models.RoleAdmin, models.RoleReviewer},
}

// RequestTransition moves a manuscript to target, appending the audit entry
// and applying editor bindings atomically with the status write. On a version
// conflict the read-modify-write is retried a bounded number of times before
// ErrConflict surfaces to the caller.
func (s *WorkflowService) RequestTransition(manuscriptID uint, target models.ManuscriptStatus, actor Actor, comment string, overrides *AssignmentOverrides) (*models.Manuscript, error) {
	if !target.IsValid() {
		return nil, &TransitionError{ManuscriptID: manuscriptID, To: string(target), Reason: "unknown status"}
	}

	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		m, err := s.store.Get(manuscriptID)
		if err != nil {
			return nil, err
		}

		if err := s.applyTransition(m, target, actor, comment, overrides); err != nil {
			return nil, err
		}

		if err := s.store.Save(m, m.Version); err != nil {
			if errors.Is(err, ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		if s.notifier != nil {
			s.notifier.ManuscriptStatusChanged(m, target)
		}
		return m, nil
	}
	return nil, lastErr
}

func (s *WorkflowService) applyTransition(m *models.Manuscript, target models.ManuscriptStatus, actor Actor, comment string, overrides *AssignmentOverrides) error {
	current := m.Status
	if !current.CanTransition(target) {
		return &TransitionError{ManuscriptID: m.ManuscriptID, From: string(current), To: string(target)}
	}

	if roles, gated := transitionAuthority[target]; gated && !roleAllowed(actor.Role, roles) {
		return &ForbiddenError{ActorID: actor.UserID, Role: actor.Role, ManuscriptID: m.ManuscriptID, Target: target}
	}
	// Reviewer authority on revision-required extends only to manuscripts
	// the reviewer holds an open assignment on.
	if target == models.StatusRevisionRequired && actor.Role == models.RoleReviewer {
		if m.OpenAssignment(actor.UserID) == nil {
			return &ForbiddenError{ActorID: actor.UserID, Role: actor.Role, ManuscriptID: m.ManuscriptID, Target: target}
		}
	}

	now := s.now()
	switch target {
	case models.StatusAccepted:
		m.AcceptedDate = &now
	case models.StatusPublished:
		if m.PublicationDate != nil {
			return fmt.Errorf("manuscript %d: %w", m.ManuscriptID, ErrAlreadyPublished)
		}
		m.PublicationDate = &now
	}

	m.Status = target
	old := current
	entry := models.ManuscriptStatusHistory{
		ManuscriptID: m.ManuscriptID,
		OldStatus:    &old,
		NewStatus:    target,
		ChangedBy:    actor.UserID,
		ChangedAt:    now,
	}
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		entry.Comment = &trimmed
	}
	m.StatusHistory = append(m.StatusHistory, entry)

	if overrides != nil {
		if overrides.EditorID != nil {
			m.EditorID = overrides.EditorID
		}
		if overrides.AssociateEditorID != nil {
			m.AssociateEditorID = overrides.AssociateEditorID
		}
		if target == models.StatusPublished {
			if overrides.Volume != nil {
				m.Volume = overrides.Volume
			}
			if overrides.Issue != nil {
				m.Issue = overrides.Issue
			}
			if overrides.PageRange != nil {
				m.PageRange = overrides.PageRange
			}
		}
	}
	m.UpdateAt = now
	return nil
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// GenerateDOI assigns a globally unique DOI to an accepted or published
// manuscript. Collisions are checked explicitly and regeneration retried a
// bounded number of times before ErrDoiGenerationFailed.
func (s *WorkflowService) GenerateDOI(manuscriptID uint, actor Actor) (string, error) {
	if !actor.Role.IsEditorial() {
		return "", &ForbiddenError{ActorID: actor.UserID, Role: actor.Role, ManuscriptID: manuscriptID}
	}

	m, err := s.store.Get(manuscriptID)
	if err != nil {
		return "", err
	}
	if m.Status != models.StatusAccepted && m.Status != models.StatusPublished {
		return "", &TransitionError{
			ManuscriptID: manuscriptID,
			From:         string(m.Status),
			Reason:       "doi assignment requires an accepted or published manuscript",
		}
	}

	for attempt := 0; attempt < doiRetries; attempt++ {
		doi := s.newDOI()
		exists, err := s.store.DOIExists(doi)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}

		m.DOI = &doi
		m.UpdateAt = s.now()
		if err := s.store.Save(m, m.Version); err != nil {
			if errors.Is(err, ErrConflict) {
				m, err = s.store.Get(manuscriptID)
				if err != nil {
					return "", err
				}
				continue
			}
			return "", err
		}
		return doi, nil
	}
	return "", fmt.Errorf("manuscript %d: %w", manuscriptID, ErrDoiGenerationFailed)
}

func (s *WorkflowService) newDOI() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s/csmr.%d.%s", s.doiPrefix, s.now().UnixMilli(), suffix)
}

// SubmitManuscript registers a new manuscript in the submitted state with its
// first audit entry, and fires the pending-submission notification.
func (s *WorkflowService) SubmitManuscript(m *models.Manuscript, actor Actor) (*models.Manuscript, error) {
	now := s.now()
	m.Status = models.StatusSubmitted
	if m.SubmissionDate.IsZero() {
		m.SubmissionDate = now
	}
	if m.ManuscriptCode == "" {
		m.ManuscriptCode = newManuscriptCode(now)
	}
	m.CreateAt = now
	m.UpdateAt = now
	m.StatusHistory = append(m.StatusHistory, models.ManuscriptStatusHistory{
		NewStatus: models.StatusSubmitted,
		ChangedBy: actor.UserID,
		ChangedAt: now,
	})

	if err := s.store.Save(m, 0); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.ManuscriptStatusChanged(m, models.StatusSubmitted)
	}
	return m, nil
}

func newManuscriptCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("MS-%d-%s", now.Year(), suffix)
}
