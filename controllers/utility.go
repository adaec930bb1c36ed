package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"lingualink-backend/config"
	"lingualink-backend/middleware"
	"lingualink-backend/models"
	"lingualink-backend/utils"

	"github.com/gin-gonic/gin"
)

// RetrieveLanguages lists all known language names.
func RetrieveLanguages(c *gin.Context) {
	var names []string
	if err := config.DB.Model(&models.Language{}).
		Order("name").Pluck("name", &names).Error; err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"languages": names})
}

// RetrieveEmails returns every account email grouped by role, excluding the
// calling admin's own address.
func RetrieveEmails(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	emailsFor := func(accountType models.AccountType) ([]string, error) {
		var emails []string
		query := config.DB.Model(&models.User{}).Where("account_type = ?", accountType)
		if accountType == models.AccountTypeAdmin && caller != nil {
			query = query.Where("email <> ?", caller.Email)
		}
		err := query.Pluck("email", &emails).Error
		return emails, err
	}

	admins, err := emailsFor(models.AccountTypeAdmin)
	if err != nil {
		utils.InternalError(c)
		return
	}
	interpreters, err := emailsFor(models.AccountTypeInterpreter)
	if err != nil {
		utils.InternalError(c)
		return
	}
	customers, err := emailsFor(models.AccountTypeCustomer)
	if err != nil {
		utils.InternalError(c)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"admins":       admins,
		"interpreters": interpreters,
		"customers":    customers,
	})
}

// ProtectedMedia serves an uploaded translation document, but only to an
// admin, the assigned or offered interpreter, or the owning customer.
func ProtectedMedia(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		utils.RespondError(c, utils.NewAPIError(
			"missing-path", http.StatusBadRequest, "Path is required"))
		return
	}
	// Reject traversal out of the documents directory.
	if cleaned := filepath.Clean(path); cleaned != path || strings.Contains(path, "..") {
		utils.RespondError(c, utils.NewAPIError(
			"missing-path", http.StatusBadRequest, "Path is required"))
		return
	}

	relPath := path
	if !strings.HasPrefix(relPath, translationDocumentDir+"/") {
		relPath = filepath.Join(translationDocumentDir, relPath)
	}
	absPath := filepath.Join(config.MediaRoot(), relPath)
	if _, err := os.Stat(absPath); err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"404", http.StatusNotFound, "File not found"))
		return
	}

	var translation models.Translation
	if err := config.DB.Where("document = ?", relPath).First(&translation).Error; err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"404", http.StatusNotFound, "Translation not found"))
		return
	}

	accountType, _ := middleware.CurrentAccountType(c)
	switch accountType {
	case models.AccountTypeAdmin:
		c.File(absPath)
		return
	case models.AccountTypeInterpreter:
		if interpreter, ok := middleware.CurrentInterpreter(c); ok {
			if translation.InterpreterID != nil && *translation.InterpreterID == interpreter.ID {
				c.File(absPath)
				return
			}
			var offered int64
			config.DB.Table("translation_offers").
				Where("translation_id = ? AND interpreter_id = ?", translation.ID, interpreter.ID).
				Count(&offered)
			if offered > 0 {
				c.File(absPath)
				return
			}
		}
	case models.AccountTypeCustomer:
		if customer, ok := middleware.CurrentCustomer(c); ok {
			if translation.CustomerID != nil && *translation.CustomerID == customer.ID {
				c.File(absPath)
				return
			}
		}
	}

	utils.RespondError(c, utils.NewAPIError(
		"forbidden", http.StatusForbidden, "You do not have access to this document."))
}
