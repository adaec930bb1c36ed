package models

import (
	"strings"

	"lingualink-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountType discriminates the three mutually exclusive specializations of a
// User. It is stored on the users table so resolving a specialization is a
// single column read rather than probing each specialization table.
type AccountType string

const (
	AccountTypeAdmin       AccountType = "A"
	AccountTypeInterpreter AccountType = "I"
	AccountTypeCustomer    AccountType = "C"
)

type Gender string

const (
	GenderMale           Gender = "M"
	GenderFemale         Gender = "F"
	GenderOther          Gender = "O"
	GenderPreferNotToSay Gender = "X"
)

// Display returns the human readable form used in read views.
func (g Gender) Display() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	case GenderOther:
		return "Other"
	default:
		return "Prefer Not To Say"
	}
}

func ValidGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// User is the base identity shared by all account types. Exactly one
// specialization row (Admin, Interpreter or Customer) exists per user,
// matching AccountType.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`

	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`

	AccountType AccountType `gorm:"type:varchar(1);not null;index"`

	PhoneNumber    *string `gorm:"size:15"`
	AltPhoneNumber *string `gorm:"size:15"`
	Notes          *string `gorm:"type:text"`

	gorm.Model
}

// BeforeCreate assigns the UUID, normalizes the email and hashes the
// plaintext password.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// SetPassword hashes and persists a new password.
func (u *User) SetPassword(db *gorm.DB, plain string) error {
	hashed, err := utils.HashPassword(plain)
	if err != nil {
		return err
	}
	u.Password = hashed
	return db.Model(u).Update("password", hashed).Error
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// NormalizeEmail lowercases the address so uniqueness is case insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
