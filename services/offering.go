// services/offering.go
package services

import (
	"errors"

	"lingualink-backend/config"
	"lingualink-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workflow failures controllers translate into envelope codes. Anything else
// bubbling out of here is an unexpected server error.
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrTranslationNotFound = errors.New("translation not found")
	ErrInterpreterNotFound = errors.New("interpreter not found")
	ErrNotOffered          = errors.New("job was not offered to this interpreter")
)

// appointmentPreloads loads everything the read views project.
func appointmentPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer.User").
		Preload("Interpreter.User").
		Preload("Interpreter.Languages").
		Preload("Interpreter.Tags").
		Preload("Language").
		Preload("OfferedTo")
}

func translationPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer.User").
		Preload("Interpreter.User").
		Preload("Interpreter.Languages").
		Preload("Interpreter.Tags").
		Preload("Language").
		Preload("OfferedTo")
}

func offeredTo(candidates []models.Interpreter, interpreterID uuid.UUID) bool {
	for _, candidate := range candidates {
		if candidate.ID == interpreterID {
			return true
		}
	}
	return false
}

func getAppointment(id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := appointmentPreloads(config.DB).First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

func getTranslation(id uuid.UUID) (*models.Translation, error) {
	var translation models.Translation
	if err := translationPreloads(config.DB).First(&translation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTranslationNotFound
		}
		return nil, err
	}
	return &translation, nil
}

func getInterpreter(id uuid.UUID) (*models.Interpreter, error) {
	var interpreter models.Interpreter
	if err := config.DB.Preload("User").First(&interpreter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterpreterNotFound
		}
		return nil, err
	}
	return &interpreter, nil
}

// OfferAppointment adds the interpreter to the appointment's candidate set
// (or removes them when offer is false). Adding an existing candidate is a
// no-op: the join table's composite key makes the append idempotent. The
// offered interpreter is returned so the caller can notify them.
func OfferAppointment(appointmentID, interpreterID uuid.UUID, offer bool) (*models.Appointment, *models.Interpreter, error) {
	appointment, err := getAppointment(appointmentID)
	if err != nil {
		return nil, nil, err
	}
	interpreter, err := getInterpreter(interpreterID)
	if err != nil {
		return nil, nil, err
	}

	assoc := config.DB.Model(appointment).Association("OfferedTo")
	if offer {
		err = assoc.Append(interpreter)
	} else {
		err = assoc.Delete(interpreter)
	}
	if err != nil {
		return nil, nil, err
	}
	return appointment, interpreter, nil
}

// RespondToAppointmentOffer resolves an interpreter's answer. Accepting
// clears the whole candidate set and pins the caller as the assigned
// interpreter; declining removes only the caller, leaving other candidates
// intact. Concurrent accepts are last-write-wins, as in the billing rules.
func RespondToAppointmentOffer(appointmentID uuid.UUID, interpreter *models.Interpreter, accepted bool) (*models.Appointment, error) {
	appointment, err := getAppointment(appointmentID)
	if err != nil {
		return nil, err
	}

	if accepted {
		if !offeredTo(appointment.OfferedTo, interpreter.ID) {
			return nil, ErrNotOffered
		}
		if err := config.DB.Model(appointment).Association("OfferedTo").Clear(); err != nil {
			return nil, err
		}
		appointment.InterpreterID = &interpreter.ID
		appointment.Interpreter = interpreter
		if err := config.DB.Model(appointment).Update("interpreter_id", interpreter.ID).Error; err != nil {
			return nil, err
		}
	} else {
		if err := config.DB.Model(appointment).Association("OfferedTo").Delete(interpreter); err != nil {
			return nil, err
		}
	}
	return appointment, nil
}

// ToggleAppointmentInvoice flips the invoice flag unconditionally; it is
// orthogonal to the assignment state.
func ToggleAppointmentInvoice(appointmentID uuid.UUID) (*models.Appointment, error) {
	appointment, err := getAppointment(appointmentID)
	if err != nil {
		return nil, err
	}
	if err := config.DB.Model(appointment).
		Update("invoice_generated", !appointment.InvoiceGenerated).Error; err != nil {
		return nil, err
	}
	return appointment, nil
}

// SetAppointmentActuals records (or clears) the actual start time and
// duration after the fact.
func SetAppointmentActuals(appointment *models.Appointment) error {
	// A typed-nil pointer in the map would make GORM skip the column,
	// leaving a stale value behind instead of clearing it.
	updates := map[string]any{
		"actual_start_time":    nil,
		"actual_duration_mins": nil,
	}
	if appointment.ActualStartTime != nil {
		updates["actual_start_time"] = appointment.ActualStartTime
	}
	if appointment.ActualDurationMins != nil {
		updates["actual_duration_mins"] = appointment.ActualDurationMins
	}
	return config.DB.Model(appointment).
		Select("actual_start_time", "actual_duration_mins").
		Updates(updates).Error
}

// FetchAppointments lists active appointments partitioned by assignment
// state, ordered by planned start time.
func FetchAppointments(unassigned bool) ([]models.Appointment, error) {
	query := appointmentPreloads(config.DB).Where("active = ?", true)
	if unassigned {
		query = query.Where("interpreter_id IS NULL")
	} else {
		query = query.Where("interpreter_id IS NOT NULL")
	}
	var appointments []models.Appointment
	err := query.Order("planned_start_time").Find(&appointments).Error
	return appointments, err
}

// OfferedAppointments lists the appointments currently offered to the
// interpreter.
func OfferedAppointments(interpreterID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := appointmentPreloads(config.DB).
		Joins("JOIN appointment_offers ON appointment_offers.appointment_id = appointments.id").
		Where("appointment_offers.interpreter_id = ?", interpreterID).
		Order("planned_start_time").
		Find(&appointments).Error
	return appointments, err
}

// AcceptedAppointments lists the appointments assigned to the interpreter.
func AcceptedAppointments(interpreterID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := appointmentPreloads(config.DB).
		Where("interpreter_id = ?", interpreterID).
		Order("planned_start_time").
		Find(&appointments).Error
	return appointments, err
}

// CustomerAppointments lists a customer's own requests.
func CustomerAppointments(customerID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := appointmentPreloads(config.DB).
		Where("customer_id = ?", customerID).
		Order("planned_start_time").
		Find(&appointments).Error
	return appointments, err
}

// OfferTranslation mirrors OfferAppointment for translation jobs.
func OfferTranslation(translationID, interpreterID uuid.UUID, offer bool) (*models.Translation, *models.Interpreter, error) {
	translation, err := getTranslation(translationID)
	if err != nil {
		return nil, nil, err
	}
	interpreter, err := getInterpreter(interpreterID)
	if err != nil {
		return nil, nil, err
	}

	assoc := config.DB.Model(translation).Association("OfferedTo")
	if offer {
		err = assoc.Append(interpreter)
	} else {
		err = assoc.Delete(interpreter)
	}
	if err != nil {
		return nil, nil, err
	}
	return translation, interpreter, nil
}

// RespondToTranslationOffer mirrors RespondToAppointmentOffer.
func RespondToTranslationOffer(translationID uuid.UUID, interpreter *models.Interpreter, accepted bool) (*models.Translation, error) {
	translation, err := getTranslation(translationID)
	if err != nil {
		return nil, err
	}

	if accepted {
		if !offeredTo(translation.OfferedTo, interpreter.ID) {
			return nil, ErrNotOffered
		}
		if err := config.DB.Model(translation).Association("OfferedTo").Clear(); err != nil {
			return nil, err
		}
		translation.InterpreterID = &interpreter.ID
		translation.Interpreter = interpreter
		if err := config.DB.Model(translation).Update("interpreter_id", interpreter.ID).Error; err != nil {
			return nil, err
		}
	} else {
		if err := config.DB.Model(translation).Association("OfferedTo").Delete(interpreter); err != nil {
			return nil, err
		}
	}
	return translation, nil
}

func ToggleTranslationInvoice(translationID uuid.UUID) (*models.Translation, error) {
	translation, err := getTranslation(translationID)
	if err != nil {
		return nil, err
	}
	if err := config.DB.Model(translation).
		Update("invoice_generated", !translation.InvoiceGenerated).Error; err != nil {
		return nil, err
	}
	return translation, nil
}

// SetTranslationActualWordCount records the real word count once the work is
// done. A nil value clears the field; zero is rejected by the model's
// non-zero invariant.
func SetTranslationActualWordCount(translationID uuid.UUID, count *uint) (*models.Translation, error) {
	translation, err := getTranslation(translationID)
	if err != nil {
		return nil, err
	}
	if count != nil && *count == 0 {
		return nil, models.ErrZeroWordCount
	}
	translation.ActualWordCount = count
	if err := config.DB.Model(translation).
		Select("actual_word_count").
		Updates(map[string]any{"actual_word_count": count}).Error; err != nil {
		return nil, err
	}
	return translation, nil
}

func FetchTranslations(unassigned bool) ([]models.Translation, error) {
	query := translationPreloads(config.DB).Where("active = ?", true)
	if unassigned {
		query = query.Where("interpreter_id IS NULL")
	} else {
		query = query.Where("interpreter_id IS NOT NULL")
	}
	var translations []models.Translation
	err := query.Find(&translations).Error
	return translations, err
}

func OfferedTranslations(interpreterID uuid.UUID) ([]models.Translation, error) {
	var translations []models.Translation
	err := translationPreloads(config.DB).
		Joins("JOIN translation_offers ON translation_offers.translation_id = translations.id").
		Where("translation_offers.interpreter_id = ?", interpreterID).
		Find(&translations).Error
	return translations, err
}

func AcceptedTranslations(interpreterID uuid.UUID) ([]models.Translation, error) {
	var translations []models.Translation
	err := translationPreloads(config.DB).
		Where("interpreter_id = ?", interpreterID).
		Find(&translations).Error
	return translations, err
}

func CustomerTranslations(customerID uuid.UUID) ([]models.Translation, error) {
	var translations []models.Translation
	err := translationPreloads(config.DB).
		Where("customer_id = ?", customerID).
		Find(&translations).Error
	return translations, err
}
