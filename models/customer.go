package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer accounts are created unapproved; they may log in only once their
// email is validated and an admin has approved them. The approver reference
// is informational only and survives admin deletion as null.
type Customer struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Address      string `gorm:"type:text;not null"`
	Postcode     string `gorm:"size:8;not null"`
	Organisation string `gorm:"not null"`

	Approved       bool       `gorm:"default:false"`
	EmailValidated bool       `gorm:"default:false"`
	ApproverID     *uuid.UUID `gorm:"type:uuid"`
	Approver       *Admin     `gorm:"constraint:OnDelete:SET NULL"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
