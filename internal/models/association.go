package models

import (
	"time"
)

// UserRoleAssociation is the join table between users and roles. It carries
// its own primary key and timestamps; the (user_id, role_id) pair is unique
// at the storage layer so concurrent duplicate grants cannot both land.
type UserRoleAssociation struct {
	ID        uint `gorm:"primaryKey;autoIncrement"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_role,priority:1"`
	RoleID    uint `gorm:"not null;uniqueIndex:idx_user_role,priority:2"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
