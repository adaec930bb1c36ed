package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is the opaque session token carried in the authToken cookie.
// One token per user: login reuses an existing row, logout deletes it and
// deleting the user cascades.
type AuthToken struct {
	Key       string    `gorm:"primaryKey;size:64"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}
