package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"lingualink-backend/config"
	"lingualink-backend/middleware"
	"lingualink-backend/models"
	"lingualink-backend/services"
	"lingualink-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FetchAppointmentsInput struct {
	Unassigned *bool `json:"unassigned"`
}

// FetchAppointments returns active appointments partitioned by assignment
// state for the admin dashboards.
func FetchAppointments(c *gin.Context) {
	var input FetchAppointmentsInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Unassigned == nil {
		utils.RespondError(c, utils.NewAPIError(
			"assigned-null", http.StatusBadRequest, "Assignment state not specified."))
		return
	}

	appointments, err := services.FetchAppointments(*input.Unassigned)
	if err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, serializeAppointments(appointments))
}

type OfferAppointmentInput struct {
	AppID         *uuid.UUID `json:"appID"`
	InterpreterID *uuid.UUID `json:"interpreterID"`
	Offer         *bool      `json:"offer"`
}

// OfferAppointment adds or removes an interpreter from an appointment's
// candidate set. Workflow failures are downgraded to a 400 with the
// offer-errors code rather than leaking internals.
func OfferAppointment(c *gin.Context) {
	var input OfferAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil ||
		input.AppID == nil || input.InterpreterID == nil || input.Offer == nil {
		utils.RespondError(c, utils.NewAPIError(
			"offer-errors", http.StatusBadRequest, "Errors in offer inputs."))
		return
	}

	appointment, interpreter, err := services.OfferAppointment(*input.AppID, *input.InterpreterID, *input.Offer)
	if err != nil {
		log.Printf("appointment offer failed: %v", err)
		utils.RespondError(c, utils.NewAPIError(
			"offer-errors", http.StatusBadRequest, "Errors in offering appointment."))
		return
	}

	if *input.Offer {
		if err := services.Mail.SendAppointmentOffered(appointment, &interpreter.User); err != nil {
			log.Printf("offered email to %s failed: %v", interpreter.User.Email, err)
		}
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Appointment offering updated."})
}

type RespondToOfferInput struct {
	AppID    *uuid.UUID `json:"appID"`
	Accepted *bool      `json:"accepted"`
}

// RespondToAppointmentOffer lets an interpreter accept or decline an offer.
func RespondToAppointmentOffer(c *gin.Context) {
	var input RespondToOfferInput
	if err := c.ShouldBindJSON(&input); err != nil || input.AppID == nil || input.Accepted == nil {
		utils.RespondError(c, utils.NewAPIError(
			"appointment-errors", http.StatusBadRequest,
			"Errors in appointment. Unexpected None attributes"))
		return
	}

	interpreter, ok := middleware.CurrentInterpreter(c)
	if !ok {
		utils.InternalError(c)
		return
	}

	appointment, err := services.RespondToAppointmentOffer(*input.AppID, interpreter, *input.Accepted)
	if err != nil {
		log.Printf("appointment offer response failed: %v", err)
		utils.RespondError(c, utils.NewAPIError(
			"acceptance-error", http.StatusBadRequest, "Errors in appointment."))
		return
	}

	if *input.Accepted && appointment.Customer != nil {
		if err := services.Mail.SendAppointmentAccepted(appointment, &appointment.Customer.User); err != nil {
			log.Printf("accepted email to %s failed: %v", appointment.Customer.User.Email, err)
		}
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Offering successfully accepted."})
}

// OfferedAppointments lists the caller's pending offers.
func OfferedAppointments(c *gin.Context) {
	interpreter, ok := middleware.CurrentInterpreter(c)
	if !ok {
		utils.InternalError(c)
		return
	}
	appointments, err := services.OfferedAppointments(interpreter.ID)
	if err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, serializeAppointments(appointments))
}

// AcceptedAppointments lists the caller's assigned appointments.
func AcceptedAppointments(c *gin.Context) {
	interpreter, ok := middleware.CurrentInterpreter(c)
	if !ok {
		utils.InternalError(c)
		return
	}
	appointments, err := services.AcceptedAppointments(interpreter.ID)
	if err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, serializeAppointments(appointments))
}

// CustomerAppointments lists the caller's own requested appointments.
func CustomerAppointments(c *gin.Context) {
	customer, ok := middleware.CurrentCustomer(c)
	if !ok {
		utils.InternalError(c)
		return
	}
	appointments, err := services.CustomerAppointments(customer.ID)
	if err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"result": serializeAppointments(appointments)})
}

type CreateAppointmentInput struct {
	PlannedStartTime time.Time `json:"planned_start_time" binding:"required"`
	PlannedDuration  string    `json:"planned_duration" binding:"required"`
	Location         string    `json:"location" binding:"required"`
	Language         string    `json:"language" binding:"required"`
	Gender           string    `json:"gender" binding:"required"`
	Company          *string   `json:"company"`
	Notes            *string   `json:"notes"`
}

// RequestAppointment creates an appointment on behalf of the calling
// customer. The language is created on first use.
func RequestAppointment(c *gin.Context) {
	customer, ok := middleware.CurrentCustomer(c)
	if !ok {
		utils.InternalError(c)
		return
	}

	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in appointment inputs.",
		).WithList(bindingErrors(err)))
		return
	}

	durationMins, err := utils.ParseClockDuration(input.PlannedDuration)
	if err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in appointment inputs.",
		).WithList(map[string]string{"planned_duration": "Expected HH:MM."}))
		return
	}
	gender := models.Gender(input.Gender)
	if !models.ValidGender(gender) {
		utils.RespondError(c, utils.NewAPIError(
			"input-errors", http.StatusBadRequest, "Errors in appointment inputs.",
		).WithList(map[string]string{"gender": "A valid gender preference is required."}))
		return
	}

	var language models.Language
	if err := config.DB.Where(models.Language{Name: input.Language}).
		FirstOrCreate(&language).Error; err != nil {
		utils.InternalError(c)
		return
	}

	appointment := models.Appointment{
		CustomerID:          &customer.ID,
		PlannedStartTime:    input.PlannedStartTime,
		PlannedDurationMins: durationMins,
		Location:            input.Location,
		LanguageID:          &language.ID,
		GenderPreference:    gender,
		Company:             input.Company,
		Notes:               input.Notes,
	}
	if err := config.DB.Create(&appointment).Error; err != nil {
		utils.InternalError(c)
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"message": "Appointment requested successfully!",
	})
}

type EditAppointmentInput struct {
	AppID              *uuid.UUID `json:"appID"`
	ActualStartTime    *string    `json:"appActualStartTime"`
	ActualDurationMins *string    `json:"appActualDuration"`
}

// EditAppointment records the actual start time and duration after the
// fact. "HH:MM" sets a value, the empty string clears it.
func EditAppointment(c *gin.Context) {
	var input EditAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil || input.AppID == nil {
		utils.RespondError(c, utils.NewAPIError(
			"acceptance-error", http.StatusBadRequest, "Errors in appointment editing."))
		return
	}

	var appointment models.Appointment
	if err := config.DB.First(&appointment, "id = ?", *input.AppID).Error; err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"acceptance-error", http.StatusBadRequest, "Errors in appointment editing."))
		return
	}

	if input.ActualStartTime != nil {
		if *input.ActualStartTime == "" {
			appointment.ActualStartTime = nil
		} else if clock, err := time.Parse("15:04", *input.ActualStartTime); err == nil {
			day := appointment.PlannedStartTime
			actual := time.Date(day.Year(), day.Month(), day.Day(),
				clock.Hour(), clock.Minute(), 0, 0, day.Location())
			appointment.ActualStartTime = &actual
		}
	}
	if input.ActualDurationMins != nil {
		if *input.ActualDurationMins == "" {
			appointment.ActualDurationMins = nil
		} else if mins, err := utils.ParseClockDuration(*input.ActualDurationMins); err == nil {
			appointment.ActualDurationMins = &mins
		}
	}

	if err := services.SetAppointmentActuals(&appointment); err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"acceptance-error", http.StatusBadRequest, "Errors in appointment editing."))
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Appointment successfully edited"})
}

type ToggleAppointmentInvoiceInput struct {
	AppID *uuid.UUID `json:"appID"`
}

// ToggleAppointmentInvoice flips the invoice flag.
func ToggleAppointmentInvoice(c *gin.Context) {
	var input ToggleAppointmentInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil || input.AppID == nil {
		utils.RespondError(c, utils.NewAPIError(
			"offer-errors", http.StatusBadRequest, "Errors in app ID input."))
		return
	}

	if _, err := services.ToggleAppointmentInvoice(*input.AppID); err != nil {
		utils.RespondError(c, utils.NewAPIError(
			"offer-errors", http.StatusBadRequest, "Errors in toggling appointment invoice."))
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message": "Appointment invoice generated updated.",
	})
}

// AllInterpreters is the admin directory of interpreters, including the ids
// of the jobs currently offered to each.
func AllInterpreters(c *gin.Context) {
	var interpreters []models.Interpreter
	err := config.DB.
		Preload("User").
		Preload("Languages").
		Preload("Tags").
		Find(&interpreters).Error
	if err != nil {
		utils.InternalError(c)
		return
	}

	out := make([]InterpreterOut, 0, len(interpreters))
	for i := range interpreters {
		entry := serializeInterpreter(&interpreters[i])

		var appointmentIDs []uuid.UUID
		if err := config.DB.Model(&models.Appointment{}).
			Joins("JOIN appointment_offers ON appointment_offers.appointment_id = appointments.id").
			Where("appointment_offers.interpreter_id = ?", interpreters[i].ID).
			Pluck("appointments.id", &appointmentIDs).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.InternalError(c)
			return
		}
		var translationIDs []uuid.UUID
		if err := config.DB.Model(&models.Translation{}).
			Joins("JOIN translation_offers ON translation_offers.translation_id = translations.id").
			Where("translation_offers.interpreter_id = ?", interpreters[i].ID).
			Pluck("translations.id", &translationIDs).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.InternalError(c)
			return
		}
		entry.OfferedAppointments = appointmentIDs
		entry.OfferedTranslations = translationIDs
		out = append(out, *entry)
	}
	utils.RespondSuccess(c, http.StatusOK, out)
}
