package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

type NotificationEventType string

const (
	EventPendingSubmission   NotificationEventType = "pending_submission"
	EventOverdueReview       NotificationEventType = "overdue_review"
	EventReadyForPublication NotificationEventType = "ready_for_publication"
	EventRevisionRequired    NotificationEventType = "revision_required"
)

type NotificationPriority string

const (
	PriorityHigh   NotificationPriority = "high"
	PriorityMedium NotificationPriority = "medium"
	PriorityLow    NotificationPriority = "low"
)

var priorityRank = map[NotificationPriority]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// NotificationEvent is one outbound notification request. Recipients are
// either explicit user ids or a role the delivery collaborator fans out to.
type NotificationEvent struct {
	Type          NotificationEventType `json:"type"`
	Title         string                `json:"title"`
	Message       string                `json:"message"`
	Priority      NotificationPriority  `json:"priority"`
	ManuscriptID  *uint                 `json:"manuscript_id,omitempty"`
	RecipientIDs  []uint                `json:"recipient_ids,omitempty"`
	RecipientRole models.Role           `json:"recipient_role,omitempty"`
	Count         int                   `json:"count,omitempty"`
	OccurredAt    time.Time             `json:"occurred_at"`
}

// NotificationTrigger maps workflow and assignment events to notification
// requests. It is stateless; enqueueing is fire-and-forget and an enqueue
// failure is logged, never propagated to the triggering operation.
type NotificationTrigger struct {
	queue NotificationQueue
	now   func() time.Time
}

func NewNotificationTrigger(queue NotificationQueue) *NotificationTrigger {
	return &NotificationTrigger{queue: queue, now: time.Now}
}

// ManuscriptStatusChanged fires the notification keyed by the status the
// manuscript just entered. Statuses without a rule are silently ignored.
func (t *NotificationTrigger) ManuscriptStatusChanged(m *models.Manuscript, newStatus models.ManuscriptStatus) {
	id := m.ManuscriptID
	var event *NotificationEvent

	switch newStatus {
	case models.StatusSubmitted:
		event = &NotificationEvent{
			Type:          EventPendingSubmission,
			Title:         "Pending Submission",
			Message:       fmt.Sprintf("Manuscript %s is awaiting initial review", m.ManuscriptCode),
			Priority:      PriorityHigh,
			ManuscriptID:  &id,
			RecipientRole: models.RoleEditor,
		}
	case models.StatusAccepted:
		event = &NotificationEvent{
			Type:          EventReadyForPublication,
			Title:         "Ready for Publication",
			Message:       fmt.Sprintf("Manuscript %s has been accepted and is ready to be published", m.ManuscriptCode),
			Priority:      PriorityMedium,
			ManuscriptID:  &id,
			RecipientRole: models.RoleEditor,
		}
	case models.StatusRevisionRequired:
		event = &NotificationEvent{
			Type:         EventRevisionRequired,
			Title:        "Revision Required",
			Message:      fmt.Sprintf("Manuscript %s requires revision", m.ManuscriptCode),
			Priority:     PriorityMedium,
			ManuscriptID: &id,
			RecipientIDs: []uint{m.CorrespondingAuthorID},
		}
	}

	if event == nil {
		return
	}
	event.OccurredAt = t.now()
	t.fire(*event)
}

func (t *NotificationTrigger) fire(event NotificationEvent) {
	if t.queue == nil {
		return
	}
	if err := t.queue.Enqueue(event); err != nil {
		log.Printf("notification enqueue failed for %s: %v", event.Type, err)
	}
}

// BuildAdminFeed derives the operational notification feed from the current
// manuscript population. Overdue reviews are detected here, at read time.
// Events are ordered by priority (high > medium > low), ties broken by
// recency, most recent first.
func BuildAdminFeed(manuscripts []models.Manuscript, asOf time.Time) []NotificationEvent {
	var (
		pending, overdue, ready, revising         int
		pendingAt, overdueAt, readyAt, revisingAt time.Time
	)

	observe := func(latest *time.Time, at time.Time) {
		if at.After(*latest) {
			*latest = at
		}
	}

	for i := range manuscripts {
		m := &manuscripts[i]
		switch m.Status {
		case models.StatusSubmitted:
			pending++
			observe(&pendingAt, m.SubmissionDate)
		case models.StatusAccepted:
			ready++
			if m.AcceptedDate != nil {
				observe(&readyAt, *m.AcceptedDate)
			}
		case models.StatusRevisionRequired:
			revising++
			observe(&revisingAt, lastChangedAt(m))
		}
		for j := range m.ReviewAssignments {
			if a := &m.ReviewAssignments[j]; a.IsOverdueAt(asOf) {
				overdue++
				observe(&overdueAt, *a.DueDate)
			}
		}
	}

	feed := make([]NotificationEvent, 0, 4)
	if pending > 0 {
		feed = append(feed, NotificationEvent{
			Type:          EventPendingSubmission,
			Title:         "Pending Submissions",
			Message:       fmt.Sprintf("%d manuscripts awaiting initial review", pending),
			Priority:      PriorityHigh,
			RecipientRole: models.RoleEditor,
			Count:         pending,
			OccurredAt:    pendingAt,
		})
	}
	if overdue > 0 {
		feed = append(feed, NotificationEvent{
			Type:          EventOverdueReview,
			Title:         "Overdue Reviews",
			Message:       fmt.Sprintf("%d reviews are overdue", overdue),
			Priority:      PriorityHigh,
			RecipientRole: models.RoleEditor,
			Count:         overdue,
			OccurredAt:    overdueAt,
		})
	}
	if ready > 0 {
		feed = append(feed, NotificationEvent{
			Type:          EventReadyForPublication,
			Title:         "Ready for Publication",
			Message:       fmt.Sprintf("%d manuscripts ready to be published", ready),
			Priority:      PriorityMedium,
			RecipientRole: models.RoleEditor,
			Count:         ready,
			OccurredAt:    readyAt,
		})
	}
	if revising > 0 {
		feed = append(feed, NotificationEvent{
			Type:       EventRevisionRequired,
			Title:      "Revisions Required",
			Message:    fmt.Sprintf("%d manuscripts need revision", revising),
			Priority:   PriorityMedium,
			Count:      revising,
			OccurredAt: revisingAt,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		pi, pj := priorityRank[feed[i].Priority], priorityRank[feed[j].Priority]
		if pi != pj {
			return pi > pj
		}
		return feed[i].OccurredAt.After(feed[j].OccurredAt)
	})
	return feed
}

func lastChangedAt(m *models.Manuscript) time.Time {
	var at time.Time
	for _, h := range m.StatusHistory {
		if h.ChangedAt.After(at) {
			at = h.ChangedAt
		}
	}
	return at
}

// DeliveryQueue is the production NotificationQueue. It persists a
// notification row per recipient and sends a best-effort email; the email is
// dispatched off the request path and failures are logged only.
type DeliveryQueue struct {
	db       *gorm.DB
	sendMail func(to []string, subject, body string) error
}

func NewDeliveryQueue(db *gorm.DB, sendMail func(to []string, subject, body string) error) *DeliveryQueue {
	return &DeliveryQueue{db: db, sendMail: sendMail}
}

func (q *DeliveryQueue) Enqueue(event NotificationEvent) error {
	if q.db == nil {
		return ErrStorageUnavailable
	}

	recipients, err := q.resolveRecipients(event)
	if err != nil {
		return err
	}

	now := time.Now()
	emails := make([]string, 0, len(recipients))
	for _, u := range recipients {
		row := models.Notification{
			UserID:              u.UserID,
			Title:               event.Title,
			Message:             event.Message,
			Type:                string(event.Type),
			Priority:            string(event.Priority),
			RelatedManuscriptID: event.ManuscriptID,
			CreateAt:            now,
		}
		if err := q.db.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to store notification: %w", err)
		}
		if u.Email != "" {
			emails = append(emails, u.Email)
		}
	}

	if q.sendMail != nil && len(emails) > 0 {
		subject, body := event.Title, event.Message
		go func() {
			if err := q.sendMail(emails, subject, body); err != nil {
				log.Printf("notification mail failed: %v", err)
			}
		}()
	}
	return nil
}

func (q *DeliveryQueue) resolveRecipients(event NotificationEvent) ([]models.User, error) {
	var users []models.User
	if len(event.RecipientIDs) > 0 {
		if err := q.db.Where("user_id IN ? AND delete_at IS NULL", event.RecipientIDs).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve recipients: %w", err)
		}
		return users, nil
	}
	if event.RecipientRole != "" {
		roles := []models.Role{event.RecipientRole}
		if event.RecipientRole == models.RoleEditor {
			roles = append(roles, models.RoleAdmin)
		}
		if err := q.db.Where("role IN ? AND delete_at IS NULL", roles).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve recipients: %w", err)
		}
	}
	return users, nil
}
