package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment is a job entity moving through the offer/assignment workflow.
// While unassigned it may be offered to any number of interpreters
// (OfferedTo); acceptance clears the candidate set and pins a single
// interpreter. Rows are never hard-deleted in normal flow; Active=false
// hides them from listings.
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	CustomerID *uuid.UUID `gorm:"type:uuid"`
	Customer   *Customer  `gorm:"constraint:OnDelete:SET NULL"`

	PlannedStartTime    time.Time `gorm:"not null"`
	PlannedDurationMins int       `gorm:"not null"`
	Location            string    `gorm:"not null"`

	LanguageID *uuid.UUID `gorm:"type:uuid"`
	Language   *Language  `gorm:"constraint:OnDelete:SET NULL"`

	InterpreterID *uuid.UUID   `gorm:"type:uuid;index"`
	Interpreter   *Interpreter `gorm:"constraint:OnDelete:SET NULL"`

	AdminID *uuid.UUID `gorm:"type:uuid"`
	Admin   *Admin     `gorm:"constraint:OnDelete:SET NULL"`

	Company            *string
	ActualStartTime    *time.Time
	ActualDurationMins *int

	Status           string  `gorm:"default:'Upcoming'"`
	GenderPreference Gender  `gorm:"type:varchar(1);default:'X'"`
	Notes            *string `gorm:"size:1027"`
	Active           bool    `gorm:"default:true"`

	OfferedTo []Interpreter `gorm:"many2many:appointment_offers"`

	InvoiceGenerated bool `gorm:"default:false"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = "Upcoming"
	}
	if a.GenderPreference == "" {
		a.GenderPreference = GenderPreferNotToSay
	}
	return
}
