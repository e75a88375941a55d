package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"leadtrack-backend/config"
	"leadtrack-backend/controllers"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB swaps config.DB for a sqlmock-backed gorm handle for the
// duration of the test.
func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	old := config.DB
	config.DB = gormDB
	t.Cleanup(func() {
		config.DB = old
		sqlDB.Close()
	})

	return mock
}

// newRouter builds a router with the production routes but a stub auth
// middleware seeding the given principal, so tests exercise owner scoping
// without minting real tokens.
func newRouter(userID, username, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("username", username)
		c.Set("role", role)
		c.Next()
	})

	api := r.Group("/api")
	{
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
			customers.POST("/:id/complete", controllers.CompleteCustomer)
			customers.PUT("/:id/stage", controllers.UpdateStage)
			customers.POST("/:id/followups", controllers.AddFollowUp)
			customers.GET("/:id/followups", controllers.GetFollowUps)
			customers.POST("/:id/payments", controllers.RecordPayment)
			customers.GET("/:id/payments", controllers.GetPayments)
		}
		api.GET("/dashboard", controllers.GetDashboardOverview)
		users := api.Group("/users")
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

func performRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
