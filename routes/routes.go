package routes

import (
	"os"
	"strings"

	"lingualink-backend/config"
	"lingualink-backend/controllers"
	"lingualink-backend/middleware"
	"lingualink-backend/models"
	"lingualink-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(utils.RecoveryHandler))

	origins := []string{"http://localhost:5173", "http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())
	r.Use(middleware.CookieAuth())

	admin := middleware.RequireAccountType(models.AccountTypeAdmin)
	interpreter := middleware.RequireAccountType(models.AccountTypeInterpreter)
	customer := middleware.RequireAccountType(models.AccountTypeCustomer)

	// Authentication
	r.POST("/login/", controllers.Login)
	r.POST("/logout/", middleware.RequireAuth(), controllers.Logout)
	r.GET("/check-auth/", middleware.RequireAuth(), controllers.CheckAuth)

	// Registration and account approval
	r.POST("/register-customer/", controllers.RegisterCustomer)
	r.POST("/register-admin/", admin, controllers.RegisterByAdmin)
	r.POST("/approve/", admin, controllers.Approve)
	r.GET("/needs-approval/", admin, controllers.NeedsApproval)
	r.GET("/validate-email/:token", controllers.ValidateEmail)
	r.POST("/resend-email-verification/", controllers.ResendEmailVerification)
	r.POST("/send-password-reset-email/", controllers.SendPasswordResetEmail)
	r.POST("/update-password/", controllers.UpdatePassword)

	// Directory
	r.GET("/languages/", controllers.RetrieveLanguages)
	r.GET("/all-interpreters/", admin, controllers.AllInterpreters)
	r.GET("/emails/", admin, controllers.RetrieveEmails)

	// Appointments
	r.POST("/fetch-appointments/", admin, controllers.FetchAppointments)
	r.GET("/appointments/", customer, controllers.CustomerAppointments)
	r.POST("/appointment-request/", customer, controllers.RequestAppointment)
	r.POST("/offer-appointments/", admin, controllers.OfferAppointment)
	r.POST("/offered-appointments/", interpreter, controllers.OfferedAppointments)
	r.POST("/updated-appointments/", interpreter, controllers.RespondToAppointmentOffer)
	r.GET("/accepted-appointments/", interpreter, controllers.AcceptedAppointments)
	r.POST("/edit-appointments/", interpreter, controllers.EditAppointment)
	r.POST("/toggle-appointment-invoice/", admin, controllers.ToggleAppointmentInvoice)

	// Translations
	r.POST("/fetch-translations/", admin, controllers.FetchTranslations)
	r.GET("/translations/", customer, controllers.CustomerTranslations)
	r.POST("/translation-request/", customer, controllers.RequestTranslation)
	r.POST("/offer-translations/", admin, controllers.OfferTranslation)
	r.POST("/offered-translations/", interpreter, controllers.OfferedTranslations)
	r.POST("/update-translation/", interpreter, controllers.RespondToTranslationOffer)
	r.POST("/fetch-accepted-translations/", interpreter, controllers.AcceptedTranslations)
	r.POST("/set-translations-actual-word-count/", interpreter, controllers.SetTranslationActualWordCount)
	r.POST("/toggle-translation-invoice/", admin, controllers.ToggleTranslationInvoice)

	// Profile editing
	r.GET("/auth/get-user-edit-fields", middleware.RequireAuth(), controllers.GetUserEditFields)
	r.POST("/auth/edit-profile", middleware.RequireAuth(), controllers.EditProfile)

	// Uploaded documents
	r.GET("/protected-media/*path", middleware.RequireAuth(), controllers.ProtectedMedia)

	return r
}
