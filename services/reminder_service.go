// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"lingualink-backend/models"
	"lingualink-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService nudges assigned interpreters about appointments starting
// within the next day. Email is the primary channel; SMS goes out as well
// when Twilio credentials are configured.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
	smsOn  bool
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		smsOn: accountSid != "" && authToken != "",
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendDailyReminders)

	c.Start()
	log.Println("Reminder scheduler started")
}

func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	now := time.Now()
	var appointments []models.Appointment
	err := s.db.
		Preload("Interpreter.User").
		Preload("Language").
		Where("active = ?", true).
		Where("interpreter_id IS NOT NULL").
		Where("planned_start_time BETWEEN ? AND ?", now, now.Add(24*time.Hour)).
		Order("planned_start_time").
		Find(&appointments).Error
	if err != nil {
		log.Printf("Failed to fetch upcoming appointments: %v", err)
		return
	}

	for i := range appointments {
		s.remind(&appointments[i])
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) remind(appointment *models.Appointment) {
	if appointment.Interpreter == nil {
		return
	}
	interpreter := &appointment.Interpreter.User

	if err := Mail.SendAppointmentReminder(appointment, interpreter); err != nil {
		log.Printf("Failed to email reminder to %s: %v", interpreter.Email, err)
	}

	if !s.smsOn || interpreter.PhoneNumber == nil {
		return
	}

	start := appointment.PlannedStartTime
	when := ""
	if formatted := utils.FormatDateTime(&start); formatted != nil {
		when = *formatted
	}
	body := fmt.Sprintf("Reminder: interpreting appointment at %s, %s.",
		appointment.Location, when)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(*interpreter.PhoneNumber)
	params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send SMS to %s: %v", *interpreter.PhoneNumber, err)
	} else if resp.Sid != nil {
		log.Printf("SMS reminder sent to %s, SID: %s", *interpreter.PhoneNumber, *resp.Sid)
	}
}
