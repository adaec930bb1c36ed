package controllers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lingualink-backend/config"
	"lingualink-backend/middleware"
	"lingualink-backend/models"
	"lingualink-backend/routes"
	"lingualink-backend/services"
	"lingualink-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "s0und-p4ssword!"

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter builds the full route table against a fresh in-memory
// database. Each test gets its own database; the mail dispatcher is reset
// to the no-op implementation.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "controllers-test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Admin{}, &models.Interpreter{}, &models.Customer{},
		&models.AuthToken{}, &models.Tag{}, &models.Language{},
		&models.Appointment{}, &models.Translation{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	config.DB = db

	services.Mail = services.NoopMailer{}
	t.Cleanup(func() { services.Mail = services.NoopMailer{} })

	return routes.SetupRouter()
}

type account struct {
	user        models.User
	admin       *models.Admin
	interpreter *models.Interpreter
	customer    *models.Customer
	token       string
}

func seedUser(t *testing.T, accountType models.AccountType, email string) models.User {
	t.Helper()
	user := models.User{
		Email:       email,
		Password:    testPassword,
		FirstName:   "Robin",
		LastName:    "Okafor",
		AccountType: accountType,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func sessionToken(t *testing.T, user models.User) string {
	t.Helper()
	token := models.AuthToken{Key: utils.GenerateAuthToken(), UserID: user.ID}
	if err := config.DB.Create(&token).Error; err != nil {
		t.Fatalf("create session token: %v", err)
	}
	return token.Key
}

func seedAdmin(t *testing.T, email string) account {
	t.Helper()
	user := seedUser(t, models.AccountTypeAdmin, email)
	admin := models.Admin{UserID: user.ID}
	if err := config.DB.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return account{user: user, admin: &admin, token: sessionToken(t, user)}
}

func seedInterpreter(t *testing.T, email string) account {
	t.Helper()
	user := seedUser(t, models.AccountTypeInterpreter, email)
	interpreter := models.Interpreter{
		UserID:   user.ID,
		Address:  "4 Mill Lane",
		Postcode: "LS2 8JT",
		Gender:   models.GenderOther,
	}
	if err := config.DB.Create(&interpreter).Error; err != nil {
		t.Fatalf("create interpreter: %v", err)
	}
	interpreter.User = user
	return account{user: user, interpreter: &interpreter, token: sessionToken(t, user)}
}

func seedCustomer(t *testing.T, email string, validated, approved bool) account {
	t.Helper()
	user := seedUser(t, models.AccountTypeCustomer, email)
	customer := models.Customer{
		UserID:         user.ID,
		Address:        "9 Garden Close",
		Postcode:       "M1 4BT",
		Organisation:   "Northern Health Trust",
		EmailValidated: validated,
		Approved:       approved,
	}
	if err := config.DB.Create(&customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	customer.User = user
	return account{user: user, customer: &customer, token: sessionToken(t, user)}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code     string            `json:"error-code"`
	HTTPCode int               `json:"error-http-code"`
	Message  string            `json:"error-message"`
	List     map[string]string `json:"error-list"`
}

type envelope struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
	Error  *errorBody      `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func wantSuccess(t *testing.T, w *httptest.ResponseRecorder, status int) envelope {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Status != "success" {
		t.Fatalf("envelope status = %q, want success (body %s)", env.Status, w.Body.String())
	}
	return env
}

func wantError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Status != "error" {
		t.Fatalf("envelope status = %q, want error (body %s)", env.Status, w.Body.String())
	}
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("error code = %+v, want %q (body %s)", env.Error, code, w.Body.String())
	}
	return env
}

func unmarshalResult(t *testing.T, env envelope, into any) {
	t.Helper()
	if err := json.Unmarshal(env.Result, into); err != nil {
		t.Fatalf("decode result %s: %v", env.Result, err)
	}
}

// recordingMailer captures notification sends so tests can assert on them,
// optionally failing every send.
type recordingMailer struct {
	fail bool

	offered    []string
	accepted   []string
	validation []string
	reset      []string

	// last link handed to SendValidation / SendPasswordReset.
	lastLink string
}

func (m *recordingMailer) err() error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

func (m *recordingMailer) SendAppointmentOffered(_ *models.Appointment, interpreter *models.User) error {
	if err := m.err(); err != nil {
		return err
	}
	m.offered = append(m.offered, interpreter.Email)
	return nil
}

func (m *recordingMailer) SendAppointmentAccepted(_ *models.Appointment, customer *models.User) error {
	if err := m.err(); err != nil {
		return err
	}
	m.accepted = append(m.accepted, customer.Email)
	return nil
}

func (m *recordingMailer) SendAppointmentReminder(_ *models.Appointment, interpreter *models.User) error {
	return m.err()
}

func (m *recordingMailer) SendValidation(user *models.User, link string) error {
	if err := m.err(); err != nil {
		return err
	}
	m.validation = append(m.validation, user.Email)
	m.lastLink = link
	return nil
}

func (m *recordingMailer) SendPasswordReset(user *models.User, link string) error {
	if err := m.err(); err != nil {
		return err
	}
	m.reset = append(m.reset, user.Email)
	m.lastLink = link
	return nil
}
