package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"leadtrack-backend/config"
	"leadtrack-backend/models"
	"leadtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer.
// Contract fields are deliberately absent: the only way onto the contract
// stage is the complete-lead transition.
type CreateCustomerInput struct {
	Nickname       string `json:"nickname" binding:"required"`
	Contact        string `json:"contact"`
	Source         string `json:"source"`
	Intention      string `json:"intention"`
	Status         string `json:"status"`
	Age            *int   `json:"age"`
	Gender         string `json:"gender"`
	WorkExperience string `json:"workExperience"`
	Notes          string `json:"notes"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Nickname       *string `json:"nickname"`
	Contact        *string `json:"contact"`
	Source         *string `json:"source"`
	Intention      *string `json:"intention"`
	Status         *string `json:"status"`
	Age            *int    `json:"age"`
	Gender         *string `json:"gender"`
	WorkExperience *string `json:"workExperience"`
	Notes          *string `json:"notes"`
	Owner          *string `json:"owner"` // admins only
}

// Sortable columns per view. Anything else falls back to created_at.
var customerSortFields = map[string]bool{
	"created_at":        true,
	"updated_at":        true,
	"nickname":          true,
	"intention":         true,
	"age":               true,
	"status":            true,
	"real_name":         true,
	"wallet_balance":    true,
	"last_payment_time": true,
	"stage2_status":     true,
}

// scopedCustomers returns the base customer query for the acting principal.
// Employees are always pinned to their own rows; admins see everything.
func scopedCustomers(db *gorm.DB, username string, isAdmin bool) *gorm.DB {
	query := db.Model(&models.Customer{})
	if !isAdmin {
		query = query.Where("owner = ?", username)
	}
	return query
}

// GetCustomers lists customers for one of the two pipeline views.
// view=potential shows lead-stage rows (status != closed), view=contract
// shows contracted rows (status = closed). All filters are ANDed.
func GetCustomers(c *gin.Context) {
	username, isAdmin, ok := utils.CurrentPrincipal(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context")
		return
	}

	view := c.DefaultQuery("view", "potential")
	if view != "potential" && view != "contract" {
		utils.RespondWithError(c, http.StatusBadRequest, "view must be 'potential' or 'contract'")
		return
	}

	query := scopedCustomers(config.DB, username, isAdmin)

	if view == "contract" {
		query = query.Where("status = ?", models.StatusClosed)
	} else {
		query = query.Where("status <> ?", models.StatusClosed)
	}

	if search := c.Query("search"); search != "" {
		// Lead view searches the nickname, contract view the real name
		if view == "contract" {
			query = query.Where("real_name ILIKE ?", "%"+search+"%")
		} else {
			query = query.Where("nickname ILIKE ?", "%"+search+"%")
		}
	}

	if status := c.Query("status"); status != "" {
		if !models.IsValidStatus(status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown status filter")
			return
		}
		query = query.Where("status = ?", status)
	}

	if intention := c.Query("intention"); intention != "" {
		if !models.IsValidIntention(intention) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown intention filter")
			return
		}
		query = query.Where("intention = ?", intention)
	}

	if stage := c.Query("stage"); stage != "" {
		if !models.IsValidStage(stage) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown stage filter")
			return
		}
		query = query.Where("stage2_status = ?", stage)
	}

	if minAge := c.Query("minAge"); minAge != "" {
		if v, err := strconv.Atoi(minAge); err == nil && v >= 0 {
			query = query.Where("age >= ?", v)
		}
	}
	if maxAge := c.Query("maxAge"); maxAge != "" {
		if v, err := strconv.Atoi(maxAge); err == nil {
			query = query.Where("age <= ?", v)
		}
	}

	// Owner filter is an admin convenience; for employees the scope already
	// pins the owner and a supplied filter is ignored
	if owner := c.Query("owner"); owner != "" && isAdmin {
		query = query.Where("owner = ?", owner)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	sortField := c.DefaultQuery("sortField", "created_at")
	if !customerSortFields[sortField] {
		sortField = "created_at"
	}
	sortOrder := c.DefaultQuery("sortOrder", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	// Total matching rows before pagination, for the pagination UI
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	var customers []models.Customer
	if err := query.
		Order(sortField + " " + sortOrder).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Preload("FollowUps", func(db *gorm.DB) *gorm.DB {
			return db.Order("follow_ups.time ASC")
		}).
		Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"total":     total,
		"page":      page,
		"pageSize":  pageSize,
	})
}

// GetCustomer retrieves a specific customer by ID
func GetCustomer(c *gin.Context) {
	username, isAdmin, ok := utils.CurrentPrincipal(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context")
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var customer models.Customer
	if err := scopedCustomers(config.DB, username, isAdmin).
		Preload("FollowUps", func(db *gorm.DB) *gorm.DB {
			return db.Order("follow_ups.time ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payments.payment_time DESC")
		}).
		Where("id = ?", customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// CreateCustomer creates a new lead-stage customer. The owner is always the
// acting principal, regardless of anything in the payload.
func CreateCustomer(c *gin.Context) {
	username, _, ok := utils.CurrentPrincipal(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context")
		return
	}

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	status := input.Status
	if status == "" {
		status = models.StatusCommunicating
	}
	if !models.IsValidStatus(status) || status == models.StatusClosed {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status for a new lead")
		return
	}
	if input.Intention != "" && !models.IsValidIntention(input.Intention) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid intention value")
		return
	}
	if input.Gender != "" && !models.IsValidGender(input.Gender) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid gender value")
		return
	}

	customer := models.Customer{
		ID:             uuid.New(),
		Nickname:       input.Nickname,
		Contact:        input.Contact,
		Source:         input.Source,
		Intention:      input.Intention,
		Status:         status,
		Age:            input.Age,
		Gender:         input.Gender,
		WorkExperience: input.WorkExperience,
		Notes:          input.Notes,
		Owner:          username,
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer updates lead fields of an existing customer
func UpdateCustomer(c *gin.Context) {
	username, isAdmin, ok := utils.CurrentPrincipal(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context")
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := scopedCustomers(config.DB, username, isAdmin).
		Where("id = ?", customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Nickname != nil {
		customer.Nickname = *input.Nickname
	}
	if input.Contact != nil {
		customer.Contact = *input.Contact
	}
	if input.Source != nil {
		customer.Source = *input.Source
	}
	if input.Intention != nil {
		if !models.IsValidIntention(*input.Intention) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid intention value")
			return
		}
		customer.Intention = *input.Intention
	}
	if input.Status != nil {
		// Closing a deal goes through the complete-lead transition, which
		// enforces the contract field requirements; a bare status update
		// cannot skip it
		if !models.IsValidStatus(*input.Status) || *input.Status == models.StatusClosed {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status; use the complete endpoint to close a lead")
			return
		}
		customer.Status = *input.Status
	}
	if input.Age != nil {
		customer.Age = input.Age
	}
	if input.Gender != nil {
		if *input.Gender != "" && !models.IsValidGender(*input.Gender) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid gender value")
			return
		}
		customer.Gender = *input.Gender
	}
	if input.WorkExperience != nil {
		customer.WorkExperience = *input.WorkExperience
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}
	if input.Owner != nil && isAdmin {
		customer.Owner = *input.Owner
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer soft deletes a customer within the principal's scope
func DeleteCustomer(c *gin.Context) {
	username, isAdmin, ok := utils.CurrentPrincipal(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context")
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	result := scopedCustomers(config.DB, username, isAdmin).
		Where("id = ?", customerUUID).
		Delete(&models.Customer{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
