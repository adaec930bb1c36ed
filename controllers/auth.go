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

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and account gating, then issues (or reuses) the
// opaque session token and sets the authToken cookie. Customers may only
// log in once their email is validated and an admin has approved them; the
// two refusals carry distinct codes so the frontend can explain which step
// is missing.
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in login inputs.",
		).WithList(bindingErrors(err)))
		return
	}

	var user models.User
	result := config.DB.Where("email = ?", models.NormalizeEmail(input.Email)).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondError(c, utils.NewAPIError(
				"invalid-credentials", http.StatusForbidden, "Invalid credentials provided"))
		} else {
			utils.InternalError(c)
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondError(c, utils.NewAPIError(
			"invalid-credentials", http.StatusForbidden, "Invalid credentials provided"))
		return
	}

	if user.AccountType == models.AccountTypeCustomer {
		var customer models.Customer
		if err := config.DB.First(&customer, "user_id = ?", user.ID).Error; err != nil {
			utils.InternalError(c)
			return
		}
		if !customer.Approved {
			if customer.EmailValidated {
				utils.RespondError(c, utils.NewAPIError(
					"account-unapproved", http.StatusForbidden,
					"Account yet to be approved by admins."))
			} else {
				utils.RespondError(c, utils.NewAPIError(
					"account-unverified", http.StatusForbidden,
					"Email yet to be verified - Check your inbox."))
			}
			return
		}
	}

	token, err := getOrCreateToken(&user)
	if err != nil {
		utils.InternalError(c)
		return
	}

	middleware.SetAuthCookie(c, token.Key)
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"token":        token.Key,
		"user":         serializeUser(&user),
		"account_type": user.AccountType,
	})
}

// getOrCreateToken reuses the user's existing session token, issuing one
// only if none exists.
func getOrCreateToken(user *models.User) (*models.AuthToken, error) {
	var token models.AuthToken
	err := config.DB.Where("user_id = ?", user.ID).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		token = models.AuthToken{Key: utils.GenerateAuthToken(), UserID: user.ID}
		err = config.DB.Create(&token).Error
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Logout deletes the session token row and expires the cookie.
func Logout(c *gin.Context) {
	token, err := c.Cookie(middleware.AuthCookieName)
	if err == nil && token != "" {
		config.DB.Delete(&models.AuthToken{}, "key = ?", token)
	}
	middleware.ClearAuthCookie(c)
	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// CheckAuth reports the caller's account type.
func CheckAuth(c *gin.Context) {
	accountType, _ := middleware.CurrentAccountType(c)
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message":      "Authenticated!",
		"account_type": accountType,
	})
}
