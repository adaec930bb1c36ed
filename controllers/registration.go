package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"lingualink-backend/config"
	"lingualink-backend/middleware"
	"lingualink-backend/models"
	"lingualink-backend/services"
	"lingualink-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const linkTokenTTL = 24 * time.Hour

type RegisterInput struct {
	Type string `json:"type"`

	Email           string `json:"email" binding:"required,email"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`

	PhoneNumber    *string `json:"phone_number"`
	AltPhoneNumber *string `json:"alt_phone_number"`
	Notes          *string `json:"notes"`

	// Interpreter and customer fields; which are required depends on type.
	Address      string        `json:"address"`
	Postcode     string        `json:"postcode"`
	Gender       models.Gender `json:"gender"`
	Organisation string        `json:"organisation"`
	Languages    []string      `json:"languages"`
	Tags         []string      `json:"tag"`
}

// validate collects field-level problems beyond what binding covers.
func (in *RegisterInput) validate(accountType models.AccountType) map[string]string {
	problems := map[string]string{}
	if in.Password != in.ConfirmPassword {
		problems["password"] = "Passwords do not match."
	}
	if in.PhoneNumber != nil && *in.PhoneNumber != "" && !utils.ValidatePhone(*in.PhoneNumber) {
		problems["phone_number"] = "Enter a valid phone number."
	}
	if in.AltPhoneNumber != nil && *in.AltPhoneNumber != "" && !utils.ValidatePhone(*in.AltPhoneNumber) {
		problems["alt_phone_number"] = "Enter a valid phone number."
	}
	switch accountType {
	case models.AccountTypeInterpreter:
		if in.Address == "" {
			problems["address"] = "This field is required."
		}
		if in.Postcode == "" {
			problems["postcode"] = "This field is required."
		}
		if !models.ValidGender(in.Gender) {
			problems["gender"] = "A valid gender is required."
		}
	case models.AccountTypeCustomer:
		if in.Address == "" {
			problems["address"] = "This field is required."
		}
		if in.Postcode == "" {
			problems["postcode"] = "This field is required."
		}
		if in.Organisation == "" {
			problems["organisation"] = "This field is required."
		}
	}
	return problems
}

func (in *RegisterInput) baseUser(accountType models.AccountType) models.User {
	return models.User{
		Email:          in.Email,
		Password:       in.Password, // hashed in BeforeCreate hook
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		AccountType:    accountType,
		PhoneNumber:    in.PhoneNumber,
		AltPhoneNumber: in.AltPhoneNumber,
		Notes:          in.Notes,
	}
}

func emailTaken(email string) (bool, error) {
	var existing models.User
	err := config.DB.Where("email = ?", models.NormalizeEmail(email)).First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// createCustomer creates the base identity and customer row in one
// transaction.
func createCustomer(in *RegisterInput) (*models.User, *models.Customer, error) {
	user := in.baseUser(models.AccountTypeCustomer)
	customer := models.Customer{
		Address:      in.Address,
		Postcode:     in.Postcode,
		Organisation: in.Organisation,
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		customer.UserID = user.ID
		return tx.Create(&customer).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, &customer, nil
}

func createInterpreter(in *RegisterInput) (*models.User, *models.Interpreter, error) {
	user := in.baseUser(models.AccountTypeInterpreter)
	interpreter := models.Interpreter{
		Address:  in.Address,
		Postcode: in.Postcode,
		Gender:   in.Gender,
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		interpreter.UserID = user.ID
		if err := tx.Create(&interpreter).Error; err != nil {
			return err
		}
		for _, name := range in.Languages {
			var language models.Language
			if err := tx.Where(models.Language{Name: name}).
				FirstOrCreate(&language).Error; err != nil {
				return err
			}
			if err := tx.Model(&interpreter).Association("Languages").Append(&language); err != nil {
				return err
			}
		}
		for _, name := range in.Tags {
			var tag models.Tag
			if err := tx.Where(models.Tag{Name: name}).
				FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			if err := tx.Model(&interpreter).Association("Tags").Append(&tag); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, &interpreter, nil
}

func createAdmin(in *RegisterInput) (*models.User, *models.Admin, error) {
	user := in.baseUser(models.AccountTypeAdmin)
	admin := models.Admin{}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		admin.UserID = user.ID
		return tx.Create(&admin).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, &admin, nil
}

// deleteUserAccount removes an identity together with its specialization
// row and session token. Used for the compensating delete after a failed
// validation email and for declined account requests.
func deleteUserAccount(user *models.User) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.AuthToken{}, "user_id = ?", user.ID).Error; err != nil {
			return err
		}
		switch user.AccountType {
		case models.AccountTypeAdmin:
			if err := tx.Delete(&models.Admin{}, "user_id = ?", user.ID).Error; err != nil {
				return err
			}
		case models.AccountTypeInterpreter:
			if err := tx.Delete(&models.Interpreter{}, "user_id = ?", user.ID).Error; err != nil {
				return err
			}
		case models.AccountTypeCustomer:
			if err := tx.Delete(&models.Customer{}, "user_id = ?", user.ID).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(user).Error
	})
}

func validationLink(c *gin.Context, email string) (string, error) {
	token, err := utils.SignLinkToken(email, utils.PurposeEmailValidation, linkTokenTTL)
	if err != nil {
		return "", err
	}
	return baseURL(c) + "/validate-email/" + token, nil
}

func baseURL(c *gin.Context) string {
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		return frontend
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// RegisterCustomer is the public self-registration endpoint. The account
// starts unvalidated and unapproved; a validation email goes out, and if it
// cannot be sent the just-created account is rolled back.
func RegisterCustomer(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in registration user inputs.",
		).WithList(bindingErrors(err)))
		return
	}
	problems := input.validate(models.AccountTypeCustomer)
	if taken, err := emailTaken(input.Email); err != nil {
		utils.InternalError(c)
		return
	} else if taken {
		problems["email"] = "A user with this email already exists."
	}
	if len(problems) > 0 {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in registration user inputs.",
		).WithList(problems))
		return
	}

	user, _, err := createCustomer(&input)
	if err != nil {
		log.Printf("customer registration failed: %v", err)
		utils.RespondError(c, utils.NewAPIError(
			"creation-error", http.StatusBadRequest, "Account unable to be created"))
		return
	}

	link, err := validationLink(c, user.Email)
	if err == nil {
		err = services.Mail.SendValidation(user, link)
	}
	if err != nil {
		log.Printf("validation email failed, rolling back %s: %v", user.Email, err)
		if delErr := deleteUserAccount(user); delErr != nil {
			log.Printf("compensating delete failed for %s: %v", user.Email, delErr)
		}
		utils.RespondError(c, utils.NewAPIError(
			"email-send-failure", http.StatusInternalServerError,
			"Verification email failed to send."))
		return
	}

	token, err := getOrCreateToken(user)
	if err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"user":  serializeUser(user),
		"token": token.Key,
	})
}

// RegisterByAdmin lets an admin create accounts of any type. Admin-created
// customers skip the validation/approval flow and record the creating admin
// as approver.
func RegisterByAdmin(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in registration user inputs.",
		).WithList(bindingErrors(err)))
		return
	}

	var accountType models.AccountType
	switch input.Type {
	case "admin":
		accountType = models.AccountTypeAdmin
	case "interpreter":
		accountType = models.AccountTypeInterpreter
	case "customer":
		accountType = models.AccountTypeCustomer
	default:
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in registration user inputs.",
		).WithList(map[string]string{"type": "Invalid type specified."}))
		return
	}

	problems := input.validate(accountType)
	if taken, err := emailTaken(input.Email); err != nil {
		utils.InternalError(c)
		return
	} else if taken {
		problems["email"] = "A user with this email already exists."
	}
	if len(problems) > 0 {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in registration user inputs.",
		).WithList(problems))
		return
	}

	var (
		user *models.User
		err  error
	)
	switch accountType {
	case models.AccountTypeAdmin:
		user, _, err = createAdmin(&input)
	case models.AccountTypeInterpreter:
		user, _, err = createInterpreter(&input)
	case models.AccountTypeCustomer:
		var customer *models.Customer
		user, customer, err = createCustomer(&input)
		if err == nil {
			updates := map[string]any{"approved": true, "email_validated": true}
			if admin, ok := middleware.CurrentAdmin(c); ok {
				updates["approver_id"] = admin.ID
			}
			err = config.DB.Model(customer).Updates(updates).Error
		}
	}
	if err != nil {
		log.Printf("admin registration failed: %v", err)
		utils.RespondError(c, utils.NewAPIError(
			"creation-error", http.StatusBadRequest, "Account unable to be created"))
		return
	}

	token, err := getOrCreateToken(user)
	if err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"user":  serializeUser(user),
		"token": token.Key,
	})
}

type ApproveInput struct {
	Email    *string `json:"email"`
	Accepted *bool   `json:"accepted"`
}

// Approve processes a pending customer account request: accepting marks it
// approved with the acting admin as approver, declining deletes it.
func Approve(c *gin.Context) {
	var input ApproveInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == nil {
		utils.RespondError(c, utils.NewAPIError(
			"no-email", http.StatusBadRequest, "An email is required."))
		return
	}
	if input.Accepted == nil {
		utils.RespondError(c, utils.NewAPIError(
			"no-acceptance", http.StatusBadRequest, "Acceptance is required."))
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", models.NormalizeEmail(*input.Email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, utils.NewAPIError(
				"user-not-found", http.StatusNotFound, "User with this email does not exist."))
		} else {
			utils.InternalError(c)
		}
		return
	}
	if user.AccountType != models.AccountTypeCustomer {
		utils.RespondError(c, utils.NewAPIError(
			"incompatible-user-type", http.StatusBadRequest, "User is not a customer."))
		return
	}

	if *input.Accepted {
		updates := map[string]any{"approved": true}
		if admin, ok := middleware.CurrentAdmin(c); ok {
			updates["approver_id"] = admin.ID
		}
		if err := config.DB.Model(&models.Customer{}).
			Where("user_id = ?", user.ID).Updates(updates).Error; err != nil {
			utils.InternalError(c)
			return
		}
	} else {
		if err := deleteUserAccount(&user); err != nil {
			utils.InternalError(c)
			return
		}
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message": "Account acceptance processed successfully.",
	})
}

// NeedsApproval lists validated-but-unapproved customers, oldest first.
func NeedsApproval(c *gin.Context) {
	var customers []models.Customer
	err := config.DB.Preload("User").
		Joins("JOIN users ON users.id = customers.user_id").
		Where("customers.email_validated = ? AND customers.approved = ?", true, false).
		Order("users.created_at").
		Find(&customers).Error
	if err != nil {
		utils.InternalError(c)
		return
	}

	out := make([]gin.H, 0, len(customers))
	for _, customer := range customers {
		out = append(out, gin.H{
			"first_name":   customer.User.FirstName,
			"last_name":    customer.User.LastName,
			"organisation": customer.Organisation,
			"email":        customer.User.Email,
			"phone_number": customer.User.PhoneNumber,
			"address":      customer.Address,
			"postcode":     customer.Postcode,
		})
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"customers": out})
}

// ValidateEmail consumes an email-validation link.
func ValidateEmail(c *gin.Context) {
	email, err := utils.ParseLinkToken(c.Param("token"), utils.PurposeEmailValidation)
	if err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"invalid-token", http.StatusBadRequest, "Invalid token provided."))
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"user-not-found", http.StatusNotFound, "No user is associated with this email."))
		return
	}
	if err := config.DB.Model(&models.Customer{}).
		Where("user_id = ?", user.ID).Update("email_validated", true).Error; err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message": "Thank you for verifying your email! Admins will now review your account request.",
	})
}

type EmailInput struct {
	Email string `json:"email"`
}

// ResendEmailVerification re-sends the validation link to a customer.
func ResendEmailVerification(c *gin.Context) {
	var input EmailInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" {
		utils.RespondError(c, utils.NewAPIError(
			"no-email", http.StatusBadRequest, "An email is required."))
		return
	}

	var user models.User
	err := config.DB.Where("email = ? AND account_type = ?",
		models.NormalizeEmail(input.Email), models.AccountTypeCustomer).
		First(&user).Error
	if err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"user-not-found", http.StatusNotFound, "No user is associated with this email."))
		return
	}

	link, err := validationLink(c, user.Email)
	if err == nil {
		err = services.Mail.SendValidation(&user, link)
	}
	if err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"email-send-failure", http.StatusInternalServerError,
			"Verification email failed to send."))
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message": "Validation email sent to " + user.Email + ".",
	})
}

// SendPasswordResetEmail issues a signed reset link to a known address.
func SendPasswordResetEmail(c *gin.Context) {
	var input EmailInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" {
		utils.RespondError(c, utils.NewAPIError(
			"no-email", http.StatusBadRequest, "An email is required."))
		return
	}

	var user models.User
	err := config.DB.Where("email = ?", models.NormalizeEmail(input.Email)).First(&user).Error
	if err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"user-not-found", http.StatusNotFound, "User with this email does not exist."))
		return
	}

	token, err := utils.SignLinkToken(user.Email, utils.PurposePasswordReset, linkTokenTTL)
	if err == nil {
		err = services.Mail.SendPasswordReset(&user, baseURL(c)+"/update-password/"+token)
	}
	if err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message": "Password reset email sent successfully.",
	})
}

type UpdatePasswordInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdatePassword consumes a password-reset link token.
func UpdatePassword(c *gin.Context) {
	var input UpdatePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in password inputs.",
		).WithList(bindingErrors(err)))
		return
	}

	email, err := utils.ParseLinkToken(input.Token, utils.PurposePasswordReset)
	if err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"invalid-token", http.StatusBadRequest, "Invalid token provided."))
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"user-not-found", http.StatusNotFound, "User with this email does not exist."))
		return
	}
	if err := user.SetPassword(config.DB, input.Password); err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Password updated successfully."})
}
