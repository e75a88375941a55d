package main

import (
	"fmt"
	"log"
	"os"

	"leadtrack-backend/config"
	"leadtrack-backend/models"
	"leadtrack-backend/routes"
	"leadtrack-backend/services"

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
		&models.Customer{},
		&models.FollowUp{},
		&models.Payment{},
	)
}

func main() {
	if os.Getenv("RECONCILE_CRON_DISABLED") == "" {
		reconciler := services.NewReconciliationService(config.DB)
		reconciler.StartScheduler()
	}

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
