package models

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var hexColourPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidHexColour reports whether s is a "#rrggbb" hex code.
func ValidHexColour(s string) bool {
	return hexColourPattern.MatchString(s)
}

type Tag struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	Name   string    `gorm:"size:30;uniqueIndex;not null"`
	Colour string    `gorm:"size:7;default:'#FFFFFF'"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

func (t *Tag) BeforeSave(tx *gorm.DB) error {
	if t.Colour == "" {
		t.Colour = "#FFFFFF"
	}
	if !ValidHexColour(t.Colour) {
		return fmt.Errorf("colour %q must be a valid hexcode including the #", t.Colour)
	}
	return nil
}
