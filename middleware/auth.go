package middleware

import (
	"errors"
	"net/http"

	"lingualink-backend/config"
	"lingualink-backend/models"
	"lingualink-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthCookieName is the HTTP-only session cookie carrying the opaque token.
const AuthCookieName = "authToken"

// AuthCookieMaxAge is one day, matching the token cookie lifetime.
const AuthCookieMaxAge = 86400

// Context keys set by CookieAuth.
const (
	ContextUser        = "user"
	ContextAccountType = "accountType"
	ContextAdmin       = "admin"
	ContextInterpreter = "interpreter"
	ContextCustomer    = "customer"
)

// SetAuthCookie attaches the session token as a Secure, HTTP-only,
// SameSite-Strict cookie.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, token, AuthCookieMaxAge, "/", "", true, true)
}

// ClearAuthCookie expires the session cookie.
func ClearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, "", -1, "/", "", true, true)
}

// CookieAuth resolves the authToken cookie to an identity and its
// specialization. A missing cookie leaves the request anonymous; whether
// that is an error is for RequireAccountType to decide. A cookie whose
// token no longer exists is rejected outright and the stale cookie cleared.
func CookieAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AuthCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		var authToken models.AuthToken
		if err := config.DB.Preload("User").First(&authToken, "key = ?", token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ClearAuthCookie(c)
				utils.AbortWithError(c, utils.NewAPIError(
					"invalid-token", http.StatusUnauthorized, "Invalid token.",
				))
				return
			}
			utils.InternalError(c)
			c.Abort()
			return
		}

		user := authToken.User
		c.Set(ContextUser, &user)
		c.Set(ContextAccountType, user.AccountType)

		switch user.AccountType {
		case models.AccountTypeAdmin:
			var admin models.Admin
			if err := config.DB.First(&admin, "user_id = ?", user.ID).Error; err == nil {
				c.Set(ContextAdmin, &admin)
			}
		case models.AccountTypeInterpreter:
			var interpreter models.Interpreter
			if err := config.DB.First(&interpreter, "user_id = ?", user.ID).Error; err == nil {
				c.Set(ContextInterpreter, &interpreter)
			}
		case models.AccountTypeCustomer:
			var customer models.Customer
			if err := config.DB.First(&customer, "user_id = ?", user.ID).Error; err == nil {
				c.Set(ContextCustomer, &customer)
			}
		}

		c.Next()
	}
}

// RequireAccountType permits only callers whose specialization is in the
// allow list. OPTIONS preflights always pass. Unauthenticated callers get
// 401, authenticated callers of the wrong type get 403.
func RequireAccountType(types ...models.AccountType) gin.HandlerFunc {
	allowed := make(map[models.AccountType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		v, ok := c.Get(ContextAccountType)
		if !ok {
			utils.AbortWithError(c, utils.NewAPIError(
				"not-authenticated", http.StatusUnauthorized,
				"You must be logged in to complete this action.",
			))
			return
		}
		if !allowed[v.(models.AccountType)] {
			utils.AbortWithError(c, utils.NewAPIError(
				"forbidden", http.StatusForbidden,
				"You do not have permission to complete this action.",
			))
			return
		}
		c.Next()
	}
}

// RequireAuth permits any authenticated caller.
func RequireAuth() gin.HandlerFunc {
	return RequireAccountType(
		models.AccountTypeAdmin,
		models.AccountTypeInterpreter,
		models.AccountTypeCustomer,
	)
}

// CurrentUser returns the authenticated identity, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// CurrentAccountType returns the caller's specialization tag.
func CurrentAccountType(c *gin.Context) (models.AccountType, bool) {
	v, ok := c.Get(ContextAccountType)
	if !ok {
		return "", false
	}
	t, ok := v.(models.AccountType)
	return t, ok
}

// CurrentAdmin returns the caller's admin row when the caller is an admin.
func CurrentAdmin(c *gin.Context) (*models.Admin, bool) {
	v, ok := c.Get(ContextAdmin)
	if !ok {
		return nil, false
	}
	admin, ok := v.(*models.Admin)
	return admin, ok
}

// CurrentInterpreter returns the caller's interpreter row.
func CurrentInterpreter(c *gin.Context) (*models.Interpreter, bool) {
	v, ok := c.Get(ContextInterpreter)
	if !ok {
		return nil, false
	}
	interpreter, ok := v.(*models.Interpreter)
	return interpreter, ok
}

// CurrentCustomer returns the caller's customer row.
func CurrentCustomer(c *gin.Context) (*models.Customer, bool) {
	v, ok := c.Get(ContextCustomer)
	if !ok {
		return nil, false
	}
	customer, ok := v.(*models.Customer)
	return customer, ok
}
