package models

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrZeroWordCount = errors.New("word count cannot be zero")

// Translation mirrors Appointment through the same offer/assignment workflow,
// with a document to translate instead of a time and place.
type Translation struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	CustomerID *uuid.UUID `gorm:"type:uuid"`
	Customer   *Customer  `gorm:"constraint:OnDelete:SET NULL"`

	WordCount       uint `gorm:"not null"`
	ActualWordCount *uint

	// Path of the uploaded document, relative to the media root.
	Document string `gorm:"not null"`

	LanguageID *uuid.UUID `gorm:"type:uuid"`
	Language   *Language  `gorm:"constraint:OnDelete:SET NULL"`

	InterpreterID *uuid.UUID   `gorm:"type:uuid;index"`
	Interpreter   *Interpreter `gorm:"constraint:OnDelete:SET NULL"`

	AdminID *uuid.UUID `gorm:"type:uuid"`
	Admin   *Admin     `gorm:"constraint:OnDelete:SET NULL"`

	Company *string
	Notes   *string `gorm:"size:1027"`
	Active  bool    `gorm:"default:true"`

	OfferedTo []Interpreter `gorm:"many2many:translation_offers"`

	InvoiceGenerated bool `gorm:"default:false"`
}

func (t *Translation) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// BeforeSave enforces the non-zero word count invariant. ActualWordCount may
// be null (not yet counted) but never zero.
func (t *Translation) BeforeSave(tx *gorm.DB) error {
	if t.WordCount == 0 {
		return ErrZeroWordCount
	}
	if t.ActualWordCount != nil && *t.ActualWordCount == 0 {
		return ErrZeroWordCount
	}
	return nil
}
