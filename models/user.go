package models

import "time"

// Role is the editorial authority carried by a user.
type Role string

const (
	RoleAuthor   Role = "author"
	RoleReviewer Role = "reviewer"
	RoleEditor   Role = "editor"
	RoleAdmin    Role = "admin"
)

// CanReview reports whether the role is eligible to hold review assignments.
func (r Role) CanReview() bool {
	return r == RoleReviewer || r == RoleEditor || r == RoleAdmin
}

// IsEditorial reports whether the role carries editor-level authority.
func (r Role) IsEditorial() bool {
	return r == RoleEditor || r == RoleAdmin
}

type User struct {
	UserID      uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name        string     `gorm:"column:name" json:"name"`
	Email       string     `gorm:"column:email;unique" json:"email"`
	Password    string     `gorm:"column:password" json:"-"`
	Role        Role       `gorm:"column:role" json:"role"`
	Affiliation *string    `gorm:"column:affiliation" json:"affiliation,omitempty"`
	Expertise   *string    `gorm:"column:expertise" json:"expertise,omitempty"`
	OrcidID     *string    `gorm:"column:orcid_id" json:"orcid_id,omitempty"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}
