package services

import (
	"time"

	"journal-management-api/models"
)

// ManuscriptQuery narrows an EntityStore scan. Zero value means everything.
type ManuscriptQuery struct {
	JournalID     *uint
	Statuses      []models.ManuscriptStatus
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
}

// EntityStore is the durable storage collaborator for manuscripts and their
// owned child records. Save is a compare-and-swap against the version the
// manuscript was read with: a losing concurrent writer gets ErrConflict and
// must re-read. Implementations persist the status field, appended history
// entries, and assignment changes as one atomic unit.
type EntityStore interface {
	Get(manuscriptID uint) (*models.Manuscript, error)
	FindByAssignment(assignmentID uint) (*models.Manuscript, error)
	Save(m *models.Manuscript, expectedVersion int64) error
	Query(q ManuscriptQuery) ([]models.Manuscript, error)
	DOIExists(doi string) (bool, error)
}

// IdentityResolver maps user ids to their editorial roles. Ids that do not
// resolve are simply absent from the returned map.
type IdentityResolver interface {
	ResolveRoles(ids []uint) (map[uint]models.Role, error)
}

// NotificationQueue is the best-effort outbound delivery collaborator. An
// enqueue failure never fails the operation that raised the event.
type NotificationQueue interface {
	Enqueue(event NotificationEvent) error
}

// Actor is the authenticated caller of an engine operation.
type Actor struct {
	UserID uint
	Role   models.Role
}
