package models

import (
	"time"
)

type Role struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID        string  `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	Name        string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description *string `gorm:"type:varchar(255)" json:"description"`

	// Present for parity with users; nothing reads it yet.
	Disabled bool `gorm:"not null;default:true" json:"-"`

	Users []User `gorm:"many2many:user_role_associations" json:"users,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
