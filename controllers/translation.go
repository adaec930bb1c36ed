package controllers

import (
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"lingualink-backend/config"
	"lingualink-backend/middleware"
	"lingualink-backend/models"
	"lingualink-backend/services"
	"lingualink-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const translationDocumentDir = "translation_documents"

type FetchTranslationsInput struct {
	Unassigned *bool `json:"unassigned"`
}

// FetchTranslations mirrors FetchAppointments for translation jobs.
func FetchTranslations(c *gin.Context) {
	var input FetchTranslationsInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Unassigned == nil {
		utils.RespondError(c, utils.NewAPIError(
			"assigned-null", http.StatusBadRequest, "Translation state not specified."))
		return
	}

	translations, err := services.FetchTranslations(*input.Unassigned)
	if err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, serializeTranslations(translations))
}

type OfferTranslationInput struct {
	TranslationID *uuid.UUID `json:"translationID"`
	InterpreterID *uuid.UUID `json:"interpreterID"`
	Offer         *bool      `json:"offer"`
}

// OfferTranslation adds or removes an interpreter from a translation's
// candidate set.
func OfferTranslation(c *gin.Context) {
	var input OfferTranslationInput
	if err := c.ShouldBindJSON(&input); err != nil ||
		input.TranslationID == nil || input.InterpreterID == nil || input.Offer == nil {
		utils.RespondError(c, utils.NewAPIError(
			"offer-errors", http.StatusBadRequest, "Errors in offer inputs."))
		return
	}

	if _, _, err := services.OfferTranslation(*input.TranslationID, *input.InterpreterID, *input.Offer); err != nil {
		log.Printf("translation offer failed: %v", err)
		utils.RespondError(c, utils.NewAPIError(
			"offer-errors", http.StatusBadRequest, "Errors in offering translation."))
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Translation offering updated."})
}

type RespondToTranslationOfferInput struct {
	TranslationID *uuid.UUID `json:"translationID"`
	Accepted      *bool      `json:"accepted"`
}

// RespondToTranslationOffer lets an interpreter accept or decline an offer.
func RespondToTranslationOffer(c *gin.Context) {
	var input RespondToTranslationOfferInput
	if err := c.ShouldBindJSON(&input); err != nil ||
		input.TranslationID == nil || input.Accepted == nil {
		utils.RespondError(c, utils.NewAPIError(
			"appointment-errors", http.StatusBadRequest,
			"Errors in translation. Unexpected None attributes"))
		return
	}

	interpreter, ok := middleware.CurrentInterpreter(c)
	if !ok {
		utils.InternalError(c)
		return
	}

	if _, err := services.RespondToTranslationOffer(*input.TranslationID, interpreter, *input.Accepted); err != nil {
		log.Printf("translation offer response failed: %v", err)
		utils.RespondError(c, utils.NewAPIError(
			"acceptance-error", http.StatusBadRequest, "Errors in translation."))
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Offering successfully accepted."})
}

// OfferedTranslations lists the caller's pending translation offers.
func OfferedTranslations(c *gin.Context) {
	interpreter, ok := middleware.CurrentInterpreter(c)
	if !ok {
		utils.InternalError(c)
		return
	}
	translations, err := services.OfferedTranslations(interpreter.ID)
	if err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, serializeTranslations(translations))
}

// AcceptedTranslations lists the caller's assigned translations.
func AcceptedTranslations(c *gin.Context) {
	interpreter, ok := middleware.CurrentInterpreter(c)
	if !ok {
		utils.InternalError(c)
		return
	}
	translations, err := services.AcceptedTranslations(interpreter.ID)
	if err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, serializeTranslations(translations))
}

// CustomerTranslations lists the caller's own requested translations.
func CustomerTranslations(c *gin.Context) {
	customer, ok := middleware.CurrentCustomer(c)
	if !ok {
		utils.InternalError(c)
		return
	}
	translations, err := services.CustomerTranslations(customer.ID)
	if err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"result": serializeTranslations(translations)})
}

type CreateTranslationInput struct {
	WordCount    uint    `json:"word_count" binding:"required"`
	Document     string  `json:"document" binding:"required"`
	DocumentName string  `json:"document_name" binding:"required"`
	Language     string  `json:"language" binding:"required"`
	Company      *string `json:"company"`
	Notes        *string `json:"notes"`
}

// RequestTranslation creates a translation job for the calling customer.
// The document arrives as a "<meta>;base64,<content>" data string and is
// written under the media root.
func RequestTranslation(c *gin.Context) {
	customer, ok := middleware.CurrentCustomer(c)
	if !ok {
		utils.InternalError(c)
		return
	}

	var input CreateTranslationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in translation inputs.",
		).WithList(bindingErrors(err)))
		return
	}

	_, content, found := strings.Cut(input.Document, ";base64,")
	if !found {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in translation inputs.",
		).WithList(map[string]string{"document": "Expected a base64 data string."}))
		return
	}
	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in translation inputs.",
		).WithList(map[string]string{"document": "Invalid base64 content."}))
		return
	}

	var language models.Language
	if err := config.DB.Where(models.Language{Name: input.Language}).
		FirstOrCreate(&language).Error; err != nil {
		utils.InternalError(c)
		return
	}

	// Prefix with a fresh UUID so concurrent uploads of the same filename
	// never collide.
	name := uuid.NewString() + "_" + filepath.Base(input.DocumentName)
	relPath := filepath.Join(translationDocumentDir, name)
	absDir := filepath.Join(config.MediaRoot(), translationDocumentDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		utils.InternalError(c)
		return
	}
	if err := os.WriteFile(filepath.Join(config.MediaRoot(), relPath), data, 0o644); err != nil {
		utils.InternalError(c)
		return
	}

	translation := models.Translation{
		CustomerID: &customer.ID,
		WordCount:  input.WordCount,
		Document:   relPath,
		LanguageID: &language.ID,
		Company:    input.Company,
		Notes:      input.Notes,
	}
	if err := config.DB.Create(&translation).Error; err != nil {
		os.Remove(filepath.Join(config.MediaRoot(), relPath))
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in translation inputs."))
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"message": "Translation requested successfully!",
	})
}

type SetActualWordCountInput struct {
	TranslationID   *uuid.UUID `json:"translationID"`
	ActualWordCount *uint      `json:"actualWordCount"`
}

// SetTranslationActualWordCount records the real word count; null clears
// it. An unknown or malformed id is the id-error case and nothing is
// mutated.
func SetTranslationActualWordCount(c *gin.Context) {
	var input SetActualWordCountInput
	if err := c.ShouldBindJSON(&input); err != nil || input.TranslationID == nil {
		utils.RespondError(c, utils.NewAPIError(
			"id-error", http.StatusBadRequest, "Translation id invalid."))
		return
	}

	_, err := services.SetTranslationActualWordCount(*input.TranslationID, input.ActualWordCount)
	if err != nil {
		if err == services.ErrTranslationNotFound {
			utils.RespondError(c, utils.NewAPIError(
				"id-error", http.StatusBadRequest, "Translation id invalid."))
			return
		}
		if err == models.ErrZeroWordCount {
			utils.RespondError(c, utils.NewAPIError(
				"input-errors", http.StatusBadRequest, "Word count cannot be zero.",
			).WithList(map[string]string{"actualWordCount": "Value cannot be zero."}))
			return
		}
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message": "Translation actual word count set",
	})
}

type ToggleTranslationInvoiceInput struct {
	TranslationID *uuid.UUID `json:"translationID"`
}

// ToggleTranslationInvoice flips the invoice flag.
func ToggleTranslationInvoice(c *gin.Context) {
	var input ToggleTranslationInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil || input.TranslationID == nil {
		utils.RespondError(c, utils.NewAPIError(
			"offer-errors", http.StatusBadRequest, "Errors in app ID input."))
		return
	}

	if _, err := services.ToggleTranslationInvoice(*input.TranslationID); err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"offer-errors", http.StatusBadRequest, "Errors in toggling translation invoice."))
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message": "Translation invoice generated updated.",
	})
}
