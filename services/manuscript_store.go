package services

import (
	"errors"
	"fmt"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// GormStore is the production EntityStore over MySQL. Save implements the
// compare-and-swap with a guarded UPDATE on the manuscript's version column,
// keeping the status write, history append, and assignment changes in one
// transaction.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(manuscriptID uint) (*models.Manuscript, error) {
	if s.db == nil {
		return nil, ErrStorageUnavailable
	}
	var m models.Manuscript
	err := s.db.
		Preload("Journal").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at ASC, history_id ASC") }).
		Preload("ReviewAssignments", func(db *gorm.DB) *gorm.DB { return db.Order("assignment_id ASC") }).
		Preload("ReviewAssignments.Reviewer").
		Where("manuscript_id = ? AND delete_at IS NULL", manuscriptID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "manuscript", ID: manuscriptID}
		}
		return nil, fmt.Errorf("failed to load manuscript %d: %w", manuscriptID, err)
	}
	return &m, nil
}

func (s *GormStore) FindByAssignment(assignmentID uint) (*models.Manuscript, error) {
	if s.db == nil {
		return nil, ErrStorageUnavailable
	}
	var a models.ReviewAssignment
	err := s.db.Where("assignment_id = ?", assignmentID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "assignment", ID: assignmentID}
		}
		return nil, fmt.Errorf("failed to load assignment %d: %w", assignmentID, err)
	}
	return s.Get(a.ManuscriptID)
}

func (s *GormStore) Save(m *models.Manuscript, expectedVersion int64) error {
	if s.db == nil {
		return ErrStorageUnavailable
	}

	if m.ManuscriptID == 0 {
		m.Version = 1
		if err := s.db.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create manuscript: %w", err)
		}
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":              m.Status,
			"editor_id":           m.EditorID,
			"associate_editor_id": m.AssociateEditorID,
			"review_due_date":     m.ReviewDueDate,
			"accepted_date":       m.AcceptedDate,
			"publication_date":    m.PublicationDate,
			"doi":                 m.DOI,
			"volume":              m.Volume,
			"issue":               m.Issue,
			"page_range":          m.PageRange,
			"update_at":           m.UpdateAt,
			"version":             expectedVersion + 1,
		}
		res := tx.Model(&models.Manuscript{}).
			Where("manuscript_id = ? AND version = ?", m.ManuscriptID, expectedVersion).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update manuscript %d: %w", m.ManuscriptID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("manuscript %d version %d: %w", m.ManuscriptID, expectedVersion, ErrConflict)
		}
		m.Version = expectedVersion + 1

		for i := range m.StatusHistory {
			h := &m.StatusHistory[i]
			if h.HistoryID != 0 {
				continue
			}
			h.ManuscriptID = m.ManuscriptID
			if err := tx.Create(h).Error; err != nil {
				return fmt.Errorf("failed to append status history: %w", err)
			}
		}

		for i := range m.ReviewAssignments {
			a := &m.ReviewAssignments[i]
			a.ManuscriptID = m.ManuscriptID
			if a.AssignmentID == 0 {
				if err := tx.Omit("Reviewer").Create(a).Error; err != nil {
					return fmt.Errorf("failed to create review assignment: %w", err)
				}
			} else if err := tx.Omit("Reviewer").Save(a).Error; err != nil {
				return fmt.Errorf("failed to update review assignment %d: %w", a.AssignmentID, err)
			}
		}
		return nil
	})
}

func (s *GormStore) Query(q ManuscriptQuery) ([]models.Manuscript, error) {
	if s.db == nil {
		return nil, ErrStorageUnavailable
	}
	db := s.db.
		Preload("Journal").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at ASC, history_id ASC") }).
		Preload("ReviewAssignments").
		Preload("ReviewAssignments.Reviewer").
		Where("delete_at IS NULL")
	if q.JournalID != nil {
		db = db.Where("journal_id = ?", *q.JournalID)
	}
	if len(q.Statuses) > 0 {
		db = db.Where("status IN ?", q.Statuses)
	}
	if q.SubmittedFrom != nil {
		db = db.Where("submission_date >= ?", *q.SubmittedFrom)
	}
	if q.SubmittedTo != nil {
		db = db.Where("submission_date <= ?", *q.SubmittedTo)
	}

	var manuscripts []models.Manuscript
	if err := db.Find(&manuscripts).Error; err != nil {
		return nil, fmt.Errorf("failed to query manuscripts: %w", err)
	}
	return manuscripts, nil
}

func (s *GormStore) DOIExists(doi string) (bool, error) {
	if s.db == nil {
		return false, ErrStorageUnavailable
	}
	var count int64
	if err := s.db.Model(&models.Manuscript{}).Where("doi = ?", doi).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check doi uniqueness: %w", err)
	}
	return count > 0, nil
}

// GormIdentityResolver resolves user ids to roles from the users table.
type GormIdentityResolver struct {
	db *gorm.DB
}

func NewGormIdentityResolver(db *gorm.DB) *GormIdentityResolver {
	return &GormIdentityResolver{db: db}
}

func (r *GormIdentityResolver) ResolveRoles(ids []uint) (map[uint]models.Role, error) {
	roles := make(map[uint]models.Role, len(ids))
	if len(ids) == 0 {
		return roles, nil
	}
	if r.db == nil {
		return nil, ErrStorageUnavailable
	}
	var users []models.User
	if err := r.db.Select("user_id", "role").
		Where("user_id IN ? AND delete_at IS NULL", ids).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve roles: %w", err)
	}
	for _, u := range users {
		roles[u.UserID] = u.Role
	}
	return roles, nil
}
