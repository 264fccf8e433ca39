package models

import "time"

// ManuscriptStatus enumerates the editorial workflow states.
type ManuscriptStatus string

const (
	StatusSubmitted        ManuscriptStatus = "submitted"
	StatusInitialReview    ManuscriptStatus = "initial-review"
	StatusUnderReview      ManuscriptStatus = "under-review"
	StatusRevisionRequired ManuscriptStatus = "revision-required"
	StatusRevised          ManuscriptStatus = "revised"
	StatusAccepted         ManuscriptStatus = "accepted"
	StatusRejected         ManuscriptStatus = "rejected"
	StatusPublished        ManuscriptStatus = "published"
	StatusWithdrawn        ManuscriptStatus = "withdrawn"
)

// AllManuscriptStatuses lists every workflow state, in lifecycle order.
var AllManuscriptStatuses = []ManuscriptStatus{
	StatusSubmitted,
	StatusInitialReview,
	StatusUnderReview,
	StatusRevisionRequired,
	StatusRevised,
	StatusAccepted,
	StatusRejected,
	StatusPublished,
	StatusWithdrawn,
}

// statusTransitions is the exhaustive legal-transition table. Withdrawal is
// reachable from every non-terminal state; acceptance only from under-review
// or revised. Terminal states have no outgoing edges.
var statusTransitions = map[ManuscriptStatus][]ManuscriptStatus{
	StatusSubmitted:        {StatusInitialReview, StatusWithdrawn},
	StatusInitialReview:    {StatusUnderReview, StatusWithdrawn},
	StatusUnderReview:      {StatusRevisionRequired, StatusAccepted, StatusRejected, StatusWithdrawn},
	StatusRevisionRequired: {StatusRevised, StatusWithdrawn},
	StatusRevised:          {StatusUnderReview, StatusRevisionRequired, StatusAccepted, StatusWithdrawn},
	StatusAccepted:         {StatusPublished, StatusWithdrawn},
	StatusRejected:         {},
	StatusPublished:        {},
	StatusWithdrawn:        {},
}

// IsValid reports whether s is one of the nine workflow states.
func (s ManuscriptStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether no further workflow transition is defined from s.
func (s ManuscriptStatus) IsTerminal() bool {
	targets, ok := statusTransitions[s]
	return ok && len(targets) == 0
}

// CanTransition reports whether target is directly reachable from s.
func (s ManuscriptStatus) CanTransition(target ManuscriptStatus) bool {
	for _, t := range statusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ReviewSubStatus enumerates the lifecycle of a single review assignment.
type ReviewSubStatus string

const (
	ReviewAssigned   ReviewSubStatus = "assigned"
	ReviewInProgress ReviewSubStatus = "in-progress"
	ReviewCompleted  ReviewSubStatus = "completed"
	ReviewDeclined   ReviewSubStatus = "declined"
)

// reviewSubStatusRank orders sub-statuses so regressions can be rejected.
var reviewSubStatusRank = map[ReviewSubStatus]int{
	ReviewAssigned:   0,
	ReviewInProgress: 1,
	ReviewCompleted:  2,
	ReviewDeclined:   2,
}

func (s ReviewSubStatus) IsValid() bool {
	_, ok := reviewSubStatusRank[s]
	return ok
}

// IsTerminal reports whether the assignment can no longer change.
func (s ReviewSubStatus) IsTerminal() bool {
	return s == ReviewCompleted || s == ReviewDeclined
}

// Rank returns the ordering position used for regression checks.
func (s ReviewSubStatus) Rank() int {
	return reviewSubStatusRank[s]
}

// Manuscript is a submitted article tracked through the editorial workflow.
// Status history and review assignments are owned child records; editor and
// reviewer references are plain foreign ids into the users table.
type Manuscript struct {
	ManuscriptID          uint             `gorm:"primaryKey;column:manuscript_id" json:"manuscript_id"`
	ManuscriptCode        string           `gorm:"column:manuscript_code;unique" json:"manuscript_code"`
	JournalID             uint             `gorm:"column:journal_id" json:"journal_id"`
	Title                 string           `gorm:"column:title" json:"title"`
	Abstract              string           `gorm:"column:abstract" json:"abstract"`
	Keywords              *string          `gorm:"column:keywords" json:"keywords,omitempty"`
	CorrespondingAuthorID uint             `gorm:"column:corresponding_author_id" json:"corresponding_author_id"`
	Status                ManuscriptStatus `gorm:"column:status" json:"status"`
	EditorID              *uint            `gorm:"column:editor_id" json:"editor_id,omitempty"`
	AssociateEditorID     *uint            `gorm:"column:associate_editor_id" json:"associate_editor_id,omitempty"`
	ReviewDueDate         *time.Time       `gorm:"column:review_due_date" json:"review_due_date,omitempty"`
	SubmissionDate        time.Time        `gorm:"column:submission_date" json:"submission_date"`
	AcceptedDate          *time.Time       `gorm:"column:accepted_date" json:"accepted_date,omitempty"`
	PublicationDate       *time.Time       `gorm:"column:publication_date" json:"publication_date,omitempty"`
	DOI                   *string          `gorm:"column:doi;unique" json:"doi,omitempty"`
	Volume                *int             `gorm:"column:volume" json:"volume,omitempty"`
	Issue                 *int             `gorm:"column:issue" json:"issue,omitempty"`
	PageRange             *string          `gorm:"column:page_range" json:"page_range,omitempty"`
	Version               int64            `gorm:"column:version" json:"version"`
	CreateAt              time.Time        `gorm:"column:create_at" json:"create_at"`
	UpdateAt              time.Time        `gorm:"column:update_at" json:"update_at"`
	DeleteAt              *time.Time       `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Journal             *Journal                  `gorm:"foreignKey:JournalID" json:"journal,omitempty"`
	CorrespondingAuthor *User                     `gorm:"foreignKey:CorrespondingAuthorID" json:"corresponding_author,omitempty"`
	Editor              *User                     `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
	AssociateEditor     *User                     `gorm:"foreignKey:AssociateEditorID" json:"associate_editor,omitempty"`
	StatusHistory       []ManuscriptStatusHistory `gorm:"foreignKey:ManuscriptID" json:"status_history,omitempty"`
	ReviewAssignments   []ReviewAssignment        `gorm:"foreignKey:ManuscriptID" json:"review_assignments,omitempty"`
}

func (Manuscript) TableName() string {
	return "manuscripts"
}

// ReviewerIDs returns the set of reviewer ids holding an open (non-terminal)
// assignment, in assignment order.
func (m *Manuscript) ReviewerIDs() []uint {
	seen := make(map[uint]struct{})
	ids := make([]uint, 0, len(m.ReviewAssignments))
	for _, a := range m.ReviewAssignments {
		if a.SubStatus.IsTerminal() {
			continue
		}
		if _, ok := seen[a.ReviewerID]; ok {
			continue
		}
		seen[a.ReviewerID] = struct{}{}
		ids = append(ids, a.ReviewerID)
	}
	return ids
}

// OpenAssignment returns the reviewer's non-terminal assignment, if any.
func (m *Manuscript) OpenAssignment(reviewerID uint) *ReviewAssignment {
	for i := range m.ReviewAssignments {
		a := &m.ReviewAssignments[i]
		if a.ReviewerID == reviewerID && !a.SubStatus.IsTerminal() {
			return a
		}
	}
	return nil
}

// LatestRound returns the highest review round recorded for the reviewer,
// zero when the reviewer has never been assigned.
func (m *Manuscript) LatestRound(reviewerID uint) int {
	round := 0
	for _, a := range m.ReviewAssignments {
		if a.ReviewerID == reviewerID && a.Round > round {
			round = a.Round
		}
	}
	return round
}

// StatusAt reconstructs the workflow status at instant t from the append-only
// history. History entries after t are ignored; a manuscript with no history
// entry at or before t did not exist yet and reports an empty status.
func (m *Manuscript) StatusAt(t time.Time) ManuscriptStatus {
	var status ManuscriptStatus
	for _, h := range m.StatusHistory {
		if h.ChangedAt.After(t) {
			continue
		}
		status = h.NewStatus
	}
	return status
}

// ManuscriptStatusHistory is one append-only audit entry documenting a status
// change. Entries are never mutated after insert.
type ManuscriptStatusHistory struct {
	HistoryID    uint              `gorm:"primaryKey;column:history_id" json:"history_id"`
	ManuscriptID uint              `gorm:"column:manuscript_id" json:"manuscript_id"`
	OldStatus    *ManuscriptStatus `gorm:"column:old_status" json:"old_status,omitempty"`
	NewStatus    ManuscriptStatus  `gorm:"column:new_status" json:"new_status"`
	ChangedBy    uint              `gorm:"column:changed_by" json:"changed_by"`
	Comment      *string           `gorm:"column:comment" json:"comment,omitempty"`
	ChangedAt    time.Time         `gorm:"column:changed_at" json:"changed_at"`
}

func (ManuscriptStatusHistory) TableName() string {
	return "manuscript_status_history"
}

// ReviewAssignment binds one reviewer to one review round of a manuscript.
// Terminal assignments are never deleted, only superseded by a new row with a
// higher round on re-invitation.
type ReviewAssignment struct {
	AssignmentID   uint            `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	ManuscriptID   uint            `gorm:"column:manuscript_id" json:"manuscript_id"`
	ReviewerID     uint            `gorm:"column:reviewer_id" json:"reviewer_id"`
	Round          int             `gorm:"column:round" json:"round"`
	SubStatus      ReviewSubStatus `gorm:"column:sub_status" json:"sub_status"`
	AssignedAt     time.Time       `gorm:"column:assigned_at" json:"assigned_at"`
	DueDate        *time.Time      `gorm:"column:due_date" json:"due_date,omitempty"`
	SubmittedAt    *time.Time      `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	Rating         *int            `gorm:"column:rating" json:"rating,omitempty"`
	Recommendation *string         `gorm:"column:recommendation" json:"recommendation,omitempty"`
	Comments       *string         `gorm:"column:comments" json:"comments,omitempty"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (ReviewAssignment) TableName() string {
	return "review_assignments"
}

// IsOverdueAt reports whether the assignment is open and past its due date at
// instant t. Computed on demand, never stored.
func (a *ReviewAssignment) IsOverdueAt(t time.Time) bool {
	if a.SubStatus.IsTerminal() || a.DueDate == nil {
		return false
	}
	return a.DueDate.Before(t)
}
