package services

import (
	"fmt"
	"sync"
	"time"

	"journal-management-api/models"
)

// memoryStore is the injected stub EntityStore used by the engine tests. It
// enforces the same version compare-and-swap contract as the GORM store.
type memoryStore struct {
	mu               sync.Mutex
	nextManuscriptID uint
	nextHistoryID    uint
	nextAssignmentID uint
	manuscripts      map[uint]*models.Manuscript

	// failSaves makes the next n Save calls lose the CAS race.
	failSaves int
	// doiTaken forces DOIExists to report a collision.
	doiTaken bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{manuscripts: make(map[uint]*models.Manuscript)}
}

func (s *memoryStore) add(m *models.Manuscript) *models.Manuscript {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ManuscriptID == 0 {
		s.nextManuscriptID++
		m.ManuscriptID = s.nextManuscriptID
	} else if m.ManuscriptID > s.nextManuscriptID {
		s.nextManuscriptID = m.ManuscriptID
	}
	if m.Version == 0 {
		m.Version = 1
	}
	s.assignChildIDs(m)
	s.manuscripts[m.ManuscriptID] = cloneManuscript(m)
	return m
}

func (s *memoryStore) assignChildIDs(m *models.Manuscript) {
	for i := range m.StatusHistory {
		h := &m.StatusHistory[i]
		h.ManuscriptID = m.ManuscriptID
		if h.HistoryID == 0 {
			s.nextHistoryID++
			h.HistoryID = s.nextHistoryID
		} else if h.HistoryID > s.nextHistoryID {
			s.nextHistoryID = h.HistoryID
		}
	}
	for i := range m.ReviewAssignments {
		a := &m.ReviewAssignments[i]
		a.ManuscriptID = m.ManuscriptID
		if a.AssignmentID == 0 {
			s.nextAssignmentID++
			a.AssignmentID = s.nextAssignmentID
		} else if a.AssignmentID > s.nextAssignmentID {
			s.nextAssignmentID = a.AssignmentID
		}
	}
}

func (s *memoryStore) Get(manuscriptID uint) (*models.Manuscript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.manuscripts[manuscriptID]
	if !ok {
		return nil, &NotFoundError{Entity: "manuscript", ID: manuscriptID}
	}
	return cloneManuscript(m), nil
}

func (s *memoryStore) FindByAssignment(assignmentID uint) (*models.Manuscript, error) {
	s.mu.Lock()
	for _, m := range s.manuscripts {
		for _, a := range m.ReviewAssignments {
			if a.AssignmentID == assignmentID {
				s.mu.Unlock()
				return s.Get(m.ManuscriptID)
			}
		}
	}
	s.mu.Unlock()
	return nil, &NotFoundError{Entity: "assignment", ID: assignmentID}
}

func (s *memoryStore) Save(m *models.Manuscript, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSaves > 0 {
		s.failSaves--
		return fmt.Errorf("manuscript %d version %d: %w", m.ManuscriptID, expectedVersion, ErrConflict)
	}

	if m.ManuscriptID == 0 {
		s.nextManuscriptID++
		m.ManuscriptID = s.nextManuscriptID
		m.Version = 1
		s.assignChildIDs(m)
		s.manuscripts[m.ManuscriptID] = cloneManuscript(m)
		return nil
	}

	existing, ok := s.manuscripts[m.ManuscriptID]
	if !ok {
		return &NotFoundError{Entity: "manuscript", ID: m.ManuscriptID}
	}
	if existing.Version != expectedVersion {
		return fmt.Errorf("manuscript %d version %d: %w", m.ManuscriptID, expectedVersion, ErrConflict)
	}
	m.Version = expectedVersion + 1
	s.assignChildIDs(m)
	s.manuscripts[m.ManuscriptID] = cloneManuscript(m)
	return nil
}

func (s *memoryStore) Query(q ManuscriptQuery) ([]models.Manuscript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Manuscript
	for _, m := range s.manuscripts {
		if q.JournalID != nil && m.JournalID != *q.JournalID {
			continue
		}
		out = append(out, *cloneManuscript(m))
	}
	return out, nil
}

func (s *memoryStore) DOIExists(doi string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doiTaken {
		return true, nil
	}
	for _, m := range s.manuscripts {
		if m.DOI != nil && *m.DOI == doi {
			return true, nil
		}
	}
	return false, nil
}

func cloneManuscript(m *models.Manuscript) *models.Manuscript {
	c := *m
	c.StatusHistory = append([]models.ManuscriptStatusHistory(nil), m.StatusHistory...)
	c.ReviewAssignments = append([]models.ReviewAssignment(nil), m.ReviewAssignments...)
	return &c
}

// stubIdentity resolves roles from a fixed map.
type stubIdentity struct {
	roles map[uint]models.Role
}

func (s *stubIdentity) ResolveRoles(ids []uint) (map[uint]models.Role, error) {
	out := make(map[uint]models.Role, len(ids))
	for _, id := range ids {
		if role, ok := s.roles[id]; ok {
			out[id] = role
		}
	}
	return out, nil
}

// captureQueue records enqueued events; it can be told to fail.
type captureQueue struct {
	mu     sync.Mutex
	events []NotificationEvent
	err    error
}

func (q *captureQueue) Enqueue(event NotificationEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.events = append(q.events, event)
	return nil
}

func (q *captureQueue) all() []NotificationEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]NotificationEvent(nil), q.events...)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func uintPtr(v uint) *uint           { return &v }
func intPtr(v int) *int              { return &v }
func strPtr(v string) *string        { return &v }
func timePtr(v time.Time) *time.Time { return &v }
