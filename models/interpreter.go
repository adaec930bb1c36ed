package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Interpreter struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Address  string `gorm:"type:text;not null"`
	Postcode string `gorm:"size:8;not null"`
	Gender   Gender `gorm:"type:varchar(1);not null"`

	Tags      []Tag      `gorm:"many2many:interpreter_tags"`
	Languages []Language `gorm:"many2many:interpreter_languages"`
}

func (i *Interpreter) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
