// controllers/serializers.go
//
// Declarative projections from models to the stable JSON shapes the read
// views return. Times are human formatted, durations rendered as
// "X hours Y minutes".
package controllers

import (
	"lingualink-backend/models"
	"lingualink-backend/utils"

	"github.com/google/uuid"
)

type TagOut struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Colour string    `json:"colour"`
}

type LanguageOut struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"language_name"`
}

type CustomerRef struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

type InterpreterOut struct {
	ID                  uuid.UUID     `json:"id"`
	FirstName           string        `json:"first_name"`
	LastName            string        `json:"last_name"`
	Email               string        `json:"email"`
	Gender              string        `json:"gender"`
	Languages           []LanguageOut `json:"languages"`
	Tags                []TagOut      `json:"tag"`
	OfferedAppointments []uuid.UUID   `json:"offered_appointments,omitempty"`
	OfferedTranslations []uuid.UUID   `json:"offered_translations,omitempty"`
}

type AppointmentOut struct {
	ID               uuid.UUID       `json:"id"`
	Customer         *CustomerRef    `json:"customer"`
	Interpreter      *InterpreterOut `json:"interpreter"`
	Language         *LanguageOut    `json:"language"`
	GenderPreference string          `json:"gender_preference"`
	PlannedStartTime *string         `json:"planned_start_time"`
	ActualStartTime  *string         `json:"actual_start_time"`
	PlannedDuration  *string         `json:"planned_duration"`
	ActualDuration   *string         `json:"actual_duration"`
	Location         string          `json:"location"`
	Company          *string         `json:"company"`
	InvoiceGenerated bool            `json:"invoice_generated"`
}

type TranslationOut struct {
	ID               uuid.UUID       `json:"id"`
	Customer         *CustomerRef    `json:"customer"`
	Language         *LanguageOut    `json:"language"`
	Interpreter      *InterpreterOut `json:"interpreter"`
	WordCount        uint            `json:"word_count"`
	ActualWordCount  *uint           `json:"actual_word_count"`
	Document         string          `json:"document"`
	Company          *string         `json:"company"`
	InvoiceGenerated bool            `json:"invoice_generated"`
}

type UserOut struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func serializeUser(user *models.User) UserOut {
	return UserOut{Email: user.Email, FirstName: user.FirstName, LastName: user.LastName}
}

func serializeTag(tag models.Tag) TagOut {
	return TagOut{ID: tag.ID, Name: tag.Name, Colour: tag.Colour}
}

func serializeLanguage(language *models.Language) *LanguageOut {
	if language == nil {
		return nil
	}
	return &LanguageOut{ID: language.ID, Name: language.Name}
}

func serializeCustomerRef(customer *models.Customer) *CustomerRef {
	if customer == nil {
		return nil
	}
	return &CustomerRef{
		ID:        customer.ID,
		FirstName: customer.User.FirstName,
		LastName:  customer.User.LastName,
	}
}

func serializeInterpreter(interpreter *models.Interpreter) *InterpreterOut {
	if interpreter == nil {
		return nil
	}
	out := InterpreterOut{
		ID:        interpreter.ID,
		FirstName: interpreter.User.FirstName,
		LastName:  interpreter.User.LastName,
		Email:     interpreter.User.Email,
		Gender:    interpreter.Gender.Display(),
		Languages: make([]LanguageOut, 0, len(interpreter.Languages)),
		Tags:      make([]TagOut, 0, len(interpreter.Tags)),
	}
	for i := range interpreter.Languages {
		out.Languages = append(out.Languages, *serializeLanguage(&interpreter.Languages[i]))
	}
	for _, tag := range interpreter.Tags {
		out.Tags = append(out.Tags, serializeTag(tag))
	}
	return &out
}

func serializeAppointment(appointment *models.Appointment) AppointmentOut {
	start := appointment.PlannedStartTime
	planned := appointment.PlannedDurationMins
	return AppointmentOut{
		ID:               appointment.ID,
		Customer:         serializeCustomerRef(appointment.Customer),
		Interpreter:      serializeInterpreter(appointment.Interpreter),
		Language:         serializeLanguage(appointment.Language),
		GenderPreference: appointment.GenderPreference.Display(),
		PlannedStartTime: utils.FormatDateTime(&start),
		ActualStartTime:  utils.FormatDateTime(appointment.ActualStartTime),
		PlannedDuration:  utils.FormatDurationMins(&planned),
		ActualDuration:   utils.FormatDurationMins(appointment.ActualDurationMins),
		Location:         appointment.Location,
		Company:          appointment.Company,
		InvoiceGenerated: appointment.InvoiceGenerated,
	}
}

func serializeAppointments(appointments []models.Appointment) []AppointmentOut {
	out := make([]AppointmentOut, 0, len(appointments))
	for i := range appointments {
		out = append(out, serializeAppointment(&appointments[i]))
	}
	return out
}

func serializeTranslation(translation *models.Translation) TranslationOut {
	return TranslationOut{
		ID:               translation.ID,
		Customer:         serializeCustomerRef(translation.Customer),
		Language:         serializeLanguage(translation.Language),
		Interpreter:      serializeInterpreter(translation.Interpreter),
		WordCount:        translation.WordCount,
		ActualWordCount:  translation.ActualWordCount,
		Document:         translation.Document,
		Company:          translation.Company,
		InvoiceGenerated: translation.InvoiceGenerated,
	}
}

func serializeTranslations(translations []models.Translation) []TranslationOut {
	out := make([]TranslationOut, 0, len(translations))
	for i := range translations {
		out = append(out, serializeTranslation(&translations[i]))
	}
	return out
}
