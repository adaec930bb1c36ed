package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Language struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Name string    `gorm:"uniqueIndex;not null"`
}

func (l *Language) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
