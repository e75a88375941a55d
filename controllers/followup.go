package controllers

import (
	"errors"
	"net/http"
	"time"

	"leadtrack-backend/config"
	"leadtrack-backend/models"
	"leadtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddFollowUpInput defines the expected JSON structure for a follow-up note
type AddFollowUpInput struct {
	Content string `json:"content" binding:"required"`
}

// AddFollowUp appends a follow-up note to a customer. Each note is its own
// row, so concurrent appends never lose each other.
func AddFollowUp(c *gin.Context) {
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

	var input AddFollowUpInput
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

	followUp := models.FollowUp{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		Time:       time.Now(),
		Content:    input.Content,
		CreatedBy:  username,
	}

	if err := config.DB.Create(&followUp).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add follow-up")
		return
	}

	c.JSON(http.StatusCreated, followUp)
}

// GetFollowUps lists a customer's follow-ups in insertion order, along with
// the derived count and last follow-up time.
func GetFollowUps(c *gin.Context) {
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
		Where("id = ?", customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var followUps []models.FollowUp
	if err := config.DB.Where("customer_id = ?", customer.ID).
		Order("time ASC").
		Find(&followUps).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve follow-ups")
		return
	}

	response := gin.H{
		"followUps": followUps,
		"count":     len(followUps),
	}
	if len(followUps) > 0 {
		response["lastFollowUpTime"] = followUps[len(followUps)-1].Time
	}

	c.JSON(http.StatusOK, response)
}
