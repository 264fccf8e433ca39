package models

import "time"

// Journal is a publication venue manuscripts are submitted to.
type Journal struct {
	JournalID           uint       `gorm:"primaryKey;column:journal_id" json:"journal_id"`
	Title               string     `gorm:"column:title;unique" json:"title"`
	Description         string     `gorm:"column:description" json:"description"`
	ISSN                string     `gorm:"column:issn;unique" json:"issn"`
	ChiefEditor         string     `gorm:"column:chief_editor" json:"chief_editor"`
	Scope               *string    `gorm:"column:scope" json:"scope,omitempty"`
	Indexing            *string    `gorm:"column:indexing" json:"indexing,omitempty"`
	ImpactFactor        float64    `gorm:"column:impact_factor" json:"impact_factor"`
	PublishingFrequency string     `gorm:"column:publishing_frequency" json:"publishing_frequency"`
	OpenAccess          bool       `gorm:"column:open_access" json:"open_access"`
	PeerReviewed        bool       `gorm:"column:peer_reviewed" json:"peer_reviewed"`
	CreateAt            time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt            time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt            *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Journal) TableName() string {
	return "journals"
}
