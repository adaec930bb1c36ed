package main

import (
	"fmt"
	"log"
	"os"

	"lingualink-backend/config"
	"lingualink-backend/models"
	"lingualink-backend/routes"
	"lingualink-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Interpreter{},
		&models.Customer{},
		&models.AuthToken{},
		&models.Tag{},
		&models.Language{},
		&models.Appointment{},
		&models.Translation{},
	)

	services.InitMailer()
}

func main() {
	services.NewReminderService(config.DB).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
