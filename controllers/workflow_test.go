package controllers_test

import (
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lingualink-backend/config"
	"lingualink-backend/models"
	"lingualink-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type appointmentRow struct {
	ID               uuid.UUID `json:"id"`
	PlannedStart     *string   `json:"planned_start_time"`
	PlannedDuration  *string   `json:"planned_duration"`
	Location         string    `json:"location"`
	InvoiceGenerated bool      `json:"invoice_generated"`
	Interpreter      *struct {
		Email string `json:"email"`
	} `json:"interpreter"`
}

type translationRow struct {
	ID              uuid.UUID `json:"id"`
	WordCount       uint      `json:"word_count"`
	ActualWordCount *uint     `json:"actual_word_count"`
	Document        string    `json:"document"`
}

func fetchAppointments(t *testing.T, r *gin.Engine, token string, unassigned bool) []appointmentRow {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/fetch-appointments/",
		map[string]bool{"unassigned": unassigned}, token)
	env := wantSuccess(t, w, http.StatusOK)
	var rows []appointmentRow
	unmarshalResult(t, env, &rows)
	return rows
}

func requestAppointment(t *testing.T, r *gin.Engine, token string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/appointment-request/", map[string]any{
		"planned_start_time": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"planned_duration":   "01:30",
		"location":           "Royal Infirmary, Ward 4",
		"language":           "Polish",
		"gender":             "X",
	}, token)
	wantSuccess(t, w, http.StatusCreated)
}

func TestAppointmentLifecycle(t *testing.T) {
	r := newTestRouter(t)
	mailer := &recordingMailer{}
	services.Mail = mailer

	admin := seedAdmin(t, "admin@example.com")
	first := seedInterpreter(t, "first@example.com")
	second := seedInterpreter(t, "second@example.com")
	customer := seedCustomer(t, "customer@example.com", true, true)

	requestAppointment(t, r, customer.token)

	open := fetchAppointments(t, r, admin.token, true)
	if len(open) != 1 {
		t.Fatalf("unassigned appointments = %d, want 1", len(open))
	}
	appID := open[0].ID
	if open[0].PlannedDuration == nil || *open[0].PlannedDuration != "1 hours 30 minutes" {
		t.Errorf("planned_duration = %v, want %q", open[0].PlannedDuration, "1 hours 30 minutes")
	}

	// Offer to both interpreters; each offer mails the interpreter.
	for _, interp := range []account{first, second} {
		w := doJSON(t, r, http.MethodPost, "/offer-appointments/", map[string]any{
			"appID":         appID,
			"interpreterID": interp.interpreter.ID,
			"offer":         true,
		}, admin.token)
		wantSuccess(t, w, http.StatusOK)
	}
	if len(mailer.offered) != 2 {
		t.Errorf("offer emails = %v, want both interpreters", mailer.offered)
	}

	w := doJSON(t, r, http.MethodPost, "/offered-appointments/", nil, first.token)
	env := wantSuccess(t, w, http.StatusOK)
	var offered []appointmentRow
	unmarshalResult(t, env, &offered)
	if len(offered) != 1 || offered[0].ID != appID {
		t.Fatalf("offered list = %+v, want the new appointment", offered)
	}

	// First interpreter accepts; the customer is notified.
	w = doJSON(t, r, http.MethodPost, "/updated-appointments/", map[string]any{
		"appID":    appID,
		"accepted": true,
	}, first.token)
	wantSuccess(t, w, http.StatusOK)
	if len(mailer.accepted) != 1 || mailer.accepted[0] != customer.user.Email {
		t.Errorf("accept emails = %v, want [%s]", mailer.accepted, customer.user.Email)
	}

	// The other candidate's offer is gone.
	w = doJSON(t, r, http.MethodPost, "/offered-appointments/", nil, second.token)
	env = wantSuccess(t, w, http.StatusOK)
	unmarshalResult(t, env, &offered)
	if len(offered) != 0 {
		t.Errorf("second interpreter still offered %d appointments", len(offered))
	}

	w = doJSON(t, r, http.MethodGet, "/accepted-appointments/", nil, first.token)
	env = wantSuccess(t, w, http.StatusOK)
	var accepted []appointmentRow
	unmarshalResult(t, env, &accepted)
	if len(accepted) != 1 {
		t.Fatalf("accepted appointments = %d, want 1", len(accepted))
	}

	// Partition flipped: nothing unassigned, one assigned.
	if open := fetchAppointments(t, r, admin.token, true); len(open) != 0 {
		t.Errorf("unassigned after accept = %d, want 0", len(open))
	}
	taken := fetchAppointments(t, r, admin.token, false)
	if len(taken) != 1 || taken[0].Interpreter == nil ||
		taken[0].Interpreter.Email != first.user.Email {
		t.Fatalf("assigned list = %+v, want the accepting interpreter", taken)
	}

	// The customer sees their own appointment.
	w = doJSON(t, r, http.MethodGet, "/appointments/", nil, customer.token)
	env = wantSuccess(t, w, http.StatusOK)
	var mine struct {
		Result []appointmentRow `json:"result"`
	}
	unmarshalResult(t, env, &mine)
	if len(mine.Result) != 1 {
		t.Errorf("customer appointments = %d, want 1", len(mine.Result))
	}
}

func TestAcceptWithoutOffer(t *testing.T) {
	r := newTestRouter(t)
	admin := seedAdmin(t, "admin@example.com")
	interpreter := seedInterpreter(t, "uninvited@example.com")
	customer := seedCustomer(t, "customer@example.com", true, true)

	requestAppointment(t, r, customer.token)
	open := fetchAppointments(t, r, admin.token, true)
	if len(open) != 1 {
		t.Fatalf("unassigned appointments = %d, want 1", len(open))
	}

	w := doJSON(t, r, http.MethodPost, "/updated-appointments/", map[string]any{
		"appID":    open[0].ID,
		"accepted": true,
	}, interpreter.token)
	wantError(t, w, http.StatusBadRequest, "acceptance-error")
}

func TestDeclineLeavesOtherCandidates(t *testing.T) {
	r := newTestRouter(t)
	admin := seedAdmin(t, "admin@example.com")
	first := seedInterpreter(t, "first@example.com")
	second := seedInterpreter(t, "second@example.com")
	customer := seedCustomer(t, "customer@example.com", true, true)

	requestAppointment(t, r, customer.token)
	appID := fetchAppointments(t, r, admin.token, true)[0].ID

	for _, interp := range []account{first, second} {
		w := doJSON(t, r, http.MethodPost, "/offer-appointments/", map[string]any{
			"appID":         appID,
			"interpreterID": interp.interpreter.ID,
			"offer":         true,
		}, admin.token)
		wantSuccess(t, w, http.StatusOK)
	}

	w := doJSON(t, r, http.MethodPost, "/updated-appointments/", map[string]any{
		"appID":    appID,
		"accepted": false,
	}, first.token)
	wantSuccess(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodPost, "/offered-appointments/", nil, second.token)
	env := wantSuccess(t, w, http.StatusOK)
	var offered []appointmentRow
	unmarshalResult(t, env, &offered)
	if len(offered) != 1 {
		t.Errorf("surviving candidate offers = %d, want 1", len(offered))
	}

	// Still unassigned.
	if open := fetchAppointments(t, r, admin.token, true); len(open) != 1 {
		t.Errorf("unassigned after decline = %d, want 1", len(open))
	}
}

func TestFetchAppointmentsMissingFlag(t *testing.T) {
	r := newTestRouter(t)
	admin := seedAdmin(t, "admin@example.com")

	w := doJSON(t, r, http.MethodPost, "/fetch-appointments/", map[string]any{}, admin.token)
	wantError(t, w, http.StatusBadRequest, "assigned-null")
}

func TestToggleAppointmentInvoice(t *testing.T) {
	r := newTestRouter(t)
	admin := seedAdmin(t, "admin@example.com")
	customer := seedCustomer(t, "customer@example.com", true, true)

	requestAppointment(t, r, customer.token)
	appID := fetchAppointments(t, r, admin.token, true)[0].ID

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/toggle-appointment-invoice/",
			map[string]any{"appID": appID}, admin.token)
		wantSuccess(t, w, http.StatusOK)
	}

	var appointment models.Appointment
	if err := config.DB.First(&appointment, "id = ?", appID).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if appointment.InvoiceGenerated {
		t.Error("invoice flag not restored after double toggle")
	}
}

func TestEditAppointmentActuals(t *testing.T) {
	r := newTestRouter(t)
	admin := seedAdmin(t, "admin@example.com")
	interpreter := seedInterpreter(t, "editor@example.com")
	customer := seedCustomer(t, "customer@example.com", true, true)

	requestAppointment(t, r, customer.token)
	appID := fetchAppointments(t, r, admin.token, true)[0].ID

	w := doJSON(t, r, http.MethodPost, "/edit-appointments/", map[string]any{
		"appID":              appID,
		"appActualStartTime": "14:30",
		"appActualDuration":  "01:15",
	}, interpreter.token)
	wantSuccess(t, w, http.StatusOK)

	var appointment models.Appointment
	if err := config.DB.First(&appointment, "id = ?", appID).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if appointment.ActualStartTime == nil ||
		appointment.ActualStartTime.Hour() != 14 || appointment.ActualStartTime.Minute() != 30 {
		t.Errorf("actual start = %v, want 14:30 on the planned day", appointment.ActualStartTime)
	}
	if appointment.ActualDurationMins == nil || *appointment.ActualDurationMins != 75 {
		t.Errorf("actual duration = %v, want 75", appointment.ActualDurationMins)
	}

	// Empty strings clear both fields.
	w = doJSON(t, r, http.MethodPost, "/edit-appointments/", map[string]any{
		"appID":              appID,
		"appActualStartTime": "",
		"appActualDuration":  "",
	}, interpreter.token)
	wantSuccess(t, w, http.StatusOK)

	// Reload into a fresh struct: GORM preserves a reused destination's
	// prior pointer value when the column is NULL.
	var cleared models.Appointment
	if err := config.DB.First(&cleared, "id = ?", appID).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if cleared.ActualStartTime != nil || cleared.ActualDurationMins != nil {
		t.Error("actuals not cleared by empty strings")
	}
}

func requestTranslation(t *testing.T, r *gin.Engine, token string) {
	t.Helper()
	document := "data:text/plain;base64," +
		base64.StdEncoding.EncodeToString([]byte("source text to translate"))
	w := doJSON(t, r, http.MethodPost, "/translation-request/", map[string]any{
		"word_count":    640,
		"document":      document,
		"document_name": "witness-statement.txt",
		"language":      "Arabic",
	}, token)
	wantSuccess(t, w, http.StatusCreated)
}

func TestTranslationLifecycle(t *testing.T) {
	r := newTestRouter(t)
	t.Setenv("MEDIA_ROOT", t.TempDir())
	mailer := &recordingMailer{}
	services.Mail = mailer

	admin := seedAdmin(t, "admin@example.com")
	interpreter := seedInterpreter(t, "translator@example.com")
	customer := seedCustomer(t, "customer@example.com", true, true)

	requestTranslation(t, r, customer.token)

	// The uploaded document landed under the media root.
	var translation models.Translation
	if err := config.DB.First(&translation).Error; err != nil {
		t.Fatalf("load translation: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(config.MediaRoot(), translation.Document))
	if err != nil {
		t.Fatalf("read stored document: %v", err)
	}
	if string(data) != "source text to translate" {
		t.Error("stored document content mismatch")
	}

	w := doJSON(t, r, http.MethodPost, "/fetch-translations/",
		map[string]bool{"unassigned": true}, admin.token)
	env := wantSuccess(t, w, http.StatusOK)
	var rows []translationRow
	unmarshalResult(t, env, &rows)
	if len(rows) != 1 || rows[0].WordCount != 640 {
		t.Fatalf("unassigned translations = %+v, want the new request", rows)
	}
	trID := rows[0].ID

	w = doJSON(t, r, http.MethodPost, "/offer-translations/", map[string]any{
		"translationID": trID,
		"interpreterID": interpreter.interpreter.ID,
		"offer":         true,
	}, admin.token)
	wantSuccess(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodPost, "/offered-translations/", nil, interpreter.token)
	env = wantSuccess(t, w, http.StatusOK)
	unmarshalResult(t, env, &rows)
	if len(rows) != 1 {
		t.Fatalf("offered translations = %d, want 1", len(rows))
	}

	w = doJSON(t, r, http.MethodPost, "/update-translation/", map[string]any{
		"translationID": trID,
		"accepted":      true,
	}, interpreter.token)
	wantSuccess(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodPost, "/fetch-accepted-translations/", nil, interpreter.token)
	env = wantSuccess(t, w, http.StatusOK)
	unmarshalResult(t, env, &rows)
	if len(rows) != 1 {
		t.Fatalf("accepted translations = %d, want 1", len(rows))
	}

	// Record the real word count once done.
	w = doJSON(t, r, http.MethodPost, "/set-translations-actual-word-count/", map[string]any{
		"translationID":   trID,
		"actualWordCount": 598,
	}, interpreter.token)
	wantSuccess(t, w, http.StatusOK)

	if err := config.DB.First(&translation, "id = ?", trID).Error; err != nil {
		t.Fatalf("reload translation: %v", err)
	}
	if translation.ActualWordCount == nil || *translation.ActualWordCount != 598 {
		t.Errorf("actual word count = %v, want 598", translation.ActualWordCount)
	}
}

func TestSetActualWordCountErrors(t *testing.T) {
	r := newTestRouter(t)
	t.Setenv("MEDIA_ROOT", t.TempDir())
	interpreter := seedInterpreter(t, "translator@example.com")
	customer := seedCustomer(t, "customer@example.com", true, true)
	requestTranslation(t, r, customer.token)

	var translation models.Translation
	if err := config.DB.First(&translation).Error; err != nil {
		t.Fatalf("load translation: %v", err)
	}

	// Unknown id.
	w := doJSON(t, r, http.MethodPost, "/set-translations-actual-word-count/", map[string]any{
		"translationID":   uuid.New(),
		"actualWordCount": 100,
	}, interpreter.token)
	wantError(t, w, http.StatusBadRequest, "id-error")

	// Missing id.
	w = doJSON(t, r, http.MethodPost, "/set-translations-actual-word-count/", map[string]any{
		"actualWordCount": 100,
	}, interpreter.token)
	wantError(t, w, http.StatusBadRequest, "id-error")

	// Zero violates the non-zero invariant.
	w = doJSON(t, r, http.MethodPost, "/set-translations-actual-word-count/", map[string]any{
		"translationID":   translation.ID,
		"actualWordCount": 0,
	}, interpreter.token)
	wantError(t, w, http.StatusBadRequest, "input-errors")

	// Null clears an earlier value.
	count := uint(500)
	if err := config.DB.Model(&translation).Update("actual_word_count", &count).Error; err != nil {
		t.Fatalf("preset count: %v", err)
	}
	w = doJSON(t, r, http.MethodPost, "/set-translations-actual-word-count/", map[string]any{
		"translationID":   translation.ID,
		"actualWordCount": nil,
	}, interpreter.token)
	wantSuccess(t, w, http.StatusOK)

	if err := config.DB.First(&translation, "id = ?", translation.ID).Error; err != nil {
		t.Fatalf("reload translation: %v", err)
	}
	if translation.ActualWordCount != nil {
		t.Error("actual word count not cleared by null")
	}
}

func TestToggleTranslationInvoice(t *testing.T) {
	r := newTestRouter(t)
	t.Setenv("MEDIA_ROOT", t.TempDir())
	admin := seedAdmin(t, "admin@example.com")
	customer := seedCustomer(t, "customer@example.com", true, true)
	requestTranslation(t, r, customer.token)

	var translation models.Translation
	if err := config.DB.First(&translation).Error; err != nil {
		t.Fatalf("load translation: %v", err)
	}

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/toggle-translation-invoice/",
			map[string]any{"translationID": translation.ID}, admin.token)
		wantSuccess(t, w, http.StatusOK)
	}

	if err := config.DB.First(&translation, "id = ?", translation.ID).Error; err != nil {
		t.Fatalf("reload translation: %v", err)
	}
	if translation.InvoiceGenerated {
		t.Error("invoice flag not restored after double toggle")
	}
}

func TestRequestTranslationBadDocument(t *testing.T) {
	r := newTestRouter(t)
	t.Setenv("MEDIA_ROOT", t.TempDir())
	customer := seedCustomer(t, "customer@example.com", true, true)

	w := doJSON(t, r, http.MethodPost, "/translation-request/", map[string]any{
		"word_count":    100,
		"document":      "plain text, not a data url",
		"document_name": "doc.txt",
		"language":      "Arabic",
	}, customer.token)
	env := wantError(t, w, http.StatusBadRequest, "input-errors")
	if _, ok := env.Error.List["document"]; !ok {
		t.Errorf("error-list missing document entry: %v", env.Error.List)
	}
}
