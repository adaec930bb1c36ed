package controllers

import (
	"errors"
	"net/http"

	"lingualink-backend/config"
	"lingualink-backend/middleware"
	"lingualink-backend/models"
	"lingualink-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// resolveEditTarget picks the user being edited: the caller itself, or for
// admins any user addressed by ?user=email.
func resolveEditTarget(c *gin.Context) (*models.User, bool) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		utils.AbortWithError(c, utils.NewAPIError(
			"not-authenticated", http.StatusUnauthorized,
			"You must be logged in to complete this action."))
		return nil, false
	}

	userParam := c.Query("user")
	if userParam == "" || userParam == "self" {
		return caller, true
	}

	callerType, _ := middleware.CurrentAccountType(c)
	if callerType != models.AccountTypeAdmin {
		utils.RespondError(c, utils.NewAPIError(
			"not-admin", http.StatusForbidden,
			"You must be an admin to complete this action."))
		return nil, false
	}

	var target models.User
	if err := config.DB.Where("email = ?", models.NormalizeEmail(userParam)).
		First(&target).Error; err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"user-not-found", http.StatusNotFound, "The specified user was not found."))
		return nil, false
	}
	return &target, true
}

// GetUserEditFields returns the editable fields and their current values
// for the target account, password always blanked.
func GetUserEditFields(c *gin.Context) {
	target, ok := resolveEditTarget(c)
	if !ok {
		return
	}

	fields := gin.H{
		"first_name":       target.FirstName,
		"last_name":        target.LastName,
		"email":            target.Email,
		"phone_number":     target.PhoneNumber,
		"alt_phone_number": target.AltPhoneNumber,
		"notes":            target.Notes,
		"password":         "",
	}

	var userType string
	switch target.AccountType {
	case models.AccountTypeAdmin:
		userType = "admin"
	case models.AccountTypeInterpreter:
		userType = "interpreter"
		var interpreter models.Interpreter
		if err := config.DB.First(&interpreter, "user_id = ?", target.ID).Error; err != nil {
			utils.InternalError(c)
			return
		}
		fields["address"] = interpreter.Address
		fields["postcode"] = interpreter.Postcode
		fields["gender"] = interpreter.Gender
	case models.AccountTypeCustomer:
		userType = "customer"
		var customer models.Customer
		if err := config.DB.First(&customer, "user_id = ?", target.ID).Error; err != nil {
			utils.InternalError(c)
			return
		}
		fields["address"] = customer.Address
		fields["postcode"] = customer.Postcode
		fields["organisation"] = customer.Organisation
	default:
		utils.RespondError(c, utils.NewAPIError(
			"unknown-user", http.StatusForbidden,
			"The authenticated user is an unknown user type."))
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"user-type": userType,
		"fields":    fields,
	})
}

type EditProfileInput struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	PhoneNumber    *string `json:"phone_number"`
	AltPhoneNumber *string `json:"alt_phone_number"`
	Notes          *string `json:"notes"`

	Password         *string `json:"password"`
	ExistingPassword *string `json:"existing_password"`

	Address      *string        `json:"address"`
	Postcode     *string        `json:"postcode"`
	Gender       *models.Gender `json:"gender"`
	Organisation *string        `json:"organisation"`
}

// EditProfile applies field edits to the target account. Self-edits that
// change the password must supply the existing password; admin cross-edits
// do not.
func EditProfile(c *gin.Context) {
	target, ok := resolveEditTarget(c)
	if !ok {
		return
	}
	caller, _ := middleware.CurrentUser(c)
	selfEdit := caller != nil && caller.ID == target.ID

	var input EditProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"form-invalid", http.StatusBadRequest, "There are form errors",
		).WithList(bindingErrors(err)))
		return
	}

	problems := map[string]string{}

	if input.Password != nil && *input.Password == "" {
		input.Password = nil
	}
	if input.Password != nil && selfEdit {
		if input.ExistingPassword == nil || *input.ExistingPassword == "" {
			problems["existing_password"] = "You must enter your existing password"
		} else if !utils.CheckPasswordHash(*input.ExistingPassword, target.Password) {
			problems["existing_password"] = "Your existing password was entered incorrectly"
		}
	}

	if input.Email != nil && models.NormalizeEmail(*input.Email) != target.Email {
		var existing models.User
		err := config.DB.Where("email = ?", models.NormalizeEmail(*input.Email)).
			First(&existing).Error
		if err == nil {
			problems["email"] = "A user with this email already exists."
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.InternalError(c)
			return
		}
	}
	if input.Gender != nil && !models.ValidGender(*input.Gender) {
		problems["gender"] = "A valid gender is required."
	}
	if input.PhoneNumber != nil && *input.PhoneNumber != "" && !utils.ValidatePhone(*input.PhoneNumber) {
		problems["phone_number"] = "Enter a valid phone number."
	}

	if len(problems) > 0 {
		utils.RespondError(c, utils.NewAPIError(
			"form-invalid", http.StatusBadRequest, "There are form errors",
		).WithList(problems))
		return
	}

	userUpdates := map[string]any{}
	if input.FirstName != nil {
		userUpdates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		userUpdates["last_name"] = *input.LastName
	}
	if input.Email != nil {
		userUpdates["email"] = models.NormalizeEmail(*input.Email)
	}
	if input.PhoneNumber != nil {
		userUpdates["phone_number"] = input.PhoneNumber
	}
	if input.AltPhoneNumber != nil {
		userUpdates["alt_phone_number"] = input.AltPhoneNumber
	}
	if input.Notes != nil {
		userUpdates["notes"] = input.Notes
	}
	if len(userUpdates) > 0 {
		if err := config.DB.Model(target).Updates(userUpdates).Error; err != nil {
			utils.InternalError(c)
			return
		}
	}
	if input.Password != nil {
		if err := target.SetPassword(config.DB, *input.Password); err != nil {
			utils.InternalError(c)
			return
		}
	}

	switch target.AccountType {
	case models.AccountTypeInterpreter:
		updates := map[string]any{}
		if input.Address != nil {
			updates["address"] = *input.Address
		}
		if input.Postcode != nil {
			updates["postcode"] = *input.Postcode
		}
		if input.Gender != nil {
			updates["gender"] = *input.Gender
		}
		if len(updates) > 0 {
			if err := config.DB.Model(&models.Interpreter{}).
				Where("user_id = ?", target.ID).Updates(updates).Error; err != nil {
				utils.InternalError(c)
				return
			}
		}
	case models.AccountTypeCustomer:
		updates := map[string]any{}
		if input.Address != nil {
			updates["address"] = *input.Address
		}
		if input.Postcode != nil {
			updates["postcode"] = *input.Postcode
		}
		if input.Organisation != nil {
			updates["organisation"] = *input.Organisation
		}
		if len(updates) > 0 {
			if err := config.DB.Model(&models.Customer{}).
				Where("user_id = ?", target.ID).Updates(updates).Error; err != nil {
				utils.InternalError(c)
				return
			}
		}
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{})
}
