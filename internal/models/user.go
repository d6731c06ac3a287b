package models

import (
	"time"
)

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID     string `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	Username string `gorm:"type:varchar(50);not null" json:"username"`
	FullName string `gorm:"type:varchar(100);not null" json:"full_name"`
	Email    string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255)" json:"-"` // Never expose password hash in JSON

	// New accounts start disabled and must be activated explicitly.
	Disabled bool `gorm:"not null;default:true" json:"-"`

	Roles []Role `gorm:"many2many:user_role_associations" json:"roles,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// HasPassword reports whether a password has ever been set for the account.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
