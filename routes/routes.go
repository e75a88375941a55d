package routes

import (
	"os"
	"strings"

	"leadtrack-backend/config"
	"leadtrack-backend/controllers"
	"leadtrack-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
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

	auth := r.Group("/auth")
	{
		auth.POST("/login", controllers.Login)
		auth.POST("/logout", controllers.Logout)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)

			// Lifecycle transitions
			customers.POST("/:id/complete", controllers.CompleteCustomer)
			customers.PUT("/:id/stage", controllers.UpdateStage)

			// Follow-up log
			customers.POST("/:id/followups", controllers.AddFollowUp)
			customers.GET("/:id/followups", controllers.GetFollowUps)

			// Payment ledger
			customers.POST("/:id/payments", controllers.RecordPayment)
			customers.GET("/:id/payments", controllers.GetPayments)
		}

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// User administration (admin only)
		users := api.Group("/users", utils.AdminMiddleware())
		{
			users.GET("", controllers.GetUsers)
			users.GET("/names", controllers.GetUsernames)
			users.POST("", controllers.CreateUser)
			users.PUT("/:id", controllers.UpdateUser)
			users.DELETE("/:id", controllers.DeleteUser)
		}
	}

	return r
}
