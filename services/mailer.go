// services/mailer.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"strconv"

	"lingualink-backend/models"
	"lingualink-backend/utils"

	gomail "gopkg.in/gomail.v2"
)

// Dispatcher sends the workflow's notification emails. Controllers talk to
// the package-level Mail so tests and unconfigured deployments can swap in
// the no-op implementation.
type Dispatcher interface {
	SendAppointmentOffered(appointment *models.Appointment, interpreter *models.User) error
	SendAppointmentAccepted(appointment *models.Appointment, customer *models.User) error
	SendAppointmentReminder(appointment *models.Appointment, interpreter *models.User) error
	SendValidation(user *models.User, link string) error
	SendPasswordReset(user *models.User, link string) error
}

var Mail Dispatcher = NoopMailer{}

// InitMailer wires the SMTP dispatcher when SMTP_HOST is configured.
func InitMailer() {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, email notifications disabled")
		return
	}
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		port = p
	}
	Mail = &SMTPMailer{
		dialer: gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD")),
		from:   os.Getenv("SMTP_FROM"),
	}
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

var offeredTemplate = template.Must(template.New("offered").Parse(`
<p>Hi {{.FirstName}},</p>
<p>You have been offered an interpreting appointment:</p>
<ul>
  <li>Date: {{.Date}}</li>
  <li>Duration: {{.Duration}}</li>
  <li>Location: {{.Location}}</li>
  <li>Language: {{.Language}}</li>
</ul>
<p>Log in to accept or decline the offer.</p>
`))

var acceptedTemplate = template.Must(template.New("accepted").Parse(`
<p>Hi {{.FirstName}},</p>
<p>Your appointment has been accepted by {{.Interpreter}}:</p>
<ul>
  <li>Date: {{.Date}}</li>
  <li>Duration: {{.Duration}}</li>
  <li>Location: {{.Location}}</li>
  <li>Language: {{.Language}}</li>
</ul>
`))

var reminderTemplate = template.Must(template.New("reminder").Parse(`
<p>Hi {{.FirstName}},</p>
<p>A reminder for your upcoming appointment:</p>
<ul>
  <li>Date: {{.Date}}</li>
  <li>Duration: {{.Duration}}</li>
  <li>Location: {{.Location}}</li>
  <li>Language: {{.Language}}</li>
</ul>
`))

var linkTemplate = template.Must(template.New("link").Parse(`
<p>Hi {{.FirstName}},</p>
<p>{{.Intro}}</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
`))

type appointmentEmailData struct {
	FirstName   string
	Date        string
	Duration    string
	Location    string
	Language    string
	Interpreter string
}

func appointmentData(appointment *models.Appointment, firstName string) appointmentEmailData {
	data := appointmentEmailData{
		FirstName: firstName,
		Location:  appointment.Location,
	}
	start := appointment.PlannedStartTime
	if formatted := utils.FormatDateTime(&start); formatted != nil {
		data.Date = *formatted
	}
	mins := appointment.PlannedDurationMins
	if formatted := utils.FormatDurationMins(&mins); formatted != nil {
		data.Duration = *formatted
	}
	if appointment.Language != nil {
		data.Language = appointment.Language.Name
	}
	if appointment.Interpreter != nil {
		data.Interpreter = appointment.Interpreter.User.FullName()
	}
	return data
}

func (m *SMTPMailer) send(to, subject string, tmpl *template.Template, data any) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render email: %w", err)
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())
	return m.dialer.DialAndSend(msg)
}

func (m *SMTPMailer) SendAppointmentOffered(appointment *models.Appointment, interpreter *models.User) error {
	return m.send(interpreter.Email, "Appointment Offered",
		offeredTemplate, appointmentData(appointment, interpreter.FirstName))
}

func (m *SMTPMailer) SendAppointmentAccepted(appointment *models.Appointment, customer *models.User) error {
	return m.send(customer.Email, "Appointment Accepted",
		acceptedTemplate, appointmentData(appointment, customer.FirstName))
}

func (m *SMTPMailer) SendAppointmentReminder(appointment *models.Appointment, interpreter *models.User) error {
	return m.send(interpreter.Email, "Appointment Reminder",
		reminderTemplate, appointmentData(appointment, interpreter.FirstName))
}

func (m *SMTPMailer) SendValidation(user *models.User, link string) error {
	return m.send(user.Email, "Account Validation", linkTemplate, map[string]string{
		"FirstName": user.FirstName,
		"Intro":     "Please verify your email address by following the link below:",
		"Link":      link,
	})
}

func (m *SMTPMailer) SendPasswordReset(user *models.User, link string) error {
	return m.send(user.Email, "Password Reset Request", linkTemplate, map[string]string{
		"FirstName": user.FirstName,
		"Intro":     "A password reset was requested for your account. Follow the link below to choose a new password:",
		"Link":      link,
	})
}

// NoopMailer drops every notification.
type NoopMailer struct{}

func (NoopMailer) SendAppointmentOffered(*models.Appointment, *models.User) error { return nil }
func (NoopMailer) SendAppointmentAccepted(*models.Appointment, *models.User) error {
	return nil
}
func (NoopMailer) SendAppointmentReminder(*models.Appointment, *models.User) error {
	return nil
}
func (NoopMailer) SendValidation(*models.User, string) error    { return nil }
func (NoopMailer) SendPasswordReset(*models.User, string) error { return nil }
