package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"leadtrack-backend/config"
	"leadtrack-backend/models"
	"leadtrack-backend/services"
	"leadtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompleteCustomerInput carries the contract details required to close a lead
type CompleteCustomerInput struct {
	RealName      string   `json:"realName"`
	Phone         string   `json:"phone"`
	TargetCompany string   `json:"targetCompany"`
	HourlyRate    *float64 `json:"hourlyRate"`
}

// UpdateStageInput changes a contracted customer's stage-2 status
type UpdateStageInput struct {
	Stage2Status        string     `json:"stage2Status" binding:"required"`
	InterviewNoticeTime *time.Time `json:"interviewNoticeTime"`
}

// CompleteCustomer moves a lead into the contract stage. All four contract
// fields are required; nothing is written if any is missing. On success the
// customer becomes status=closed with a fresh stage-2 state and a zeroed
// wallet.
func CompleteCustomer(c *gin.Context) {
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

	var input CompleteCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate before any write
	var missing []string
	if strings.TrimSpace(input.RealName) == "" {
		missing = append(missing, "realName")
	}
	if strings.TrimSpace(input.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(input.TargetCompany) == "" {
		missing = append(missing, "targetCompany")
	}
	if input.HourlyRate == nil {
		missing = append(missing, "hourlyRate")
	}
	if len(missing) > 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Required fields missing: "+strings.Join(missing, ", "))
		return
	}
	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
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

	// Completing twice would zero a live wallet out from under the ledger
	if customer.IsContracted() {
		utils.RespondWithError(c, http.StatusBadRequest, "Customer is already contracted")
		return
	}

	// Regardless of prior lead field values: closed, awaiting interview,
	// empty wallet
	updates := map[string]interface{}{
		"status":                models.StatusClosed,
		"real_name":             strings.TrimSpace(input.RealName),
		"phone":                 strings.TrimSpace(input.Phone),
		"target_company":        strings.TrimSpace(input.TargetCompany),
		"hourly_rate":           *input.HourlyRate,
		"stage2_status":         models.StageAwaitingInterview,
		"wallet_balance":        0.0,
		"interview_notice_time": nil,
		"last_payment_time":     nil,
	}

	if err := config.DB.Model(&customer).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to complete customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateStage sets a contracted customer's stage-2 status. The interview
// notice time is stored iff the new stage is interview_notified; any other
// stage clears it, even when the caller supplied one.
func UpdateStage(c *gin.Context) {
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

	var input UpdateStageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !models.IsValidStage(input.Stage2Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown stage value")
		return
	}
	if input.Stage2Status == models.StageInterviewNotified && input.InterviewNoticeTime == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "interviewNoticeTime is required when notifying an interview")
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

	if !customer.IsContracted() {
		utils.RespondWithError(c, http.StatusBadRequest, "Customer is not contracted yet")
		return
	}

	updates := map[string]interface{}{
		"stage2_status":         input.Stage2Status,
		"interview_notice_time": nil,
	}
	if input.Stage2Status == models.StageInterviewNotified {
		updates["interview_notice_time"] = *input.InterviewNoticeTime
	}

	if err := config.DB.Model(&customer).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update stage")
		return
	}

	// Best-effort SMS to the customer; failures are logged, never surfaced
	if input.Stage2Status == models.StageInterviewNotified {
		go services.SendInterviewNotice(customer, *input.InterviewNoticeTime)
	}

	c.JSON(http.StatusOK, customer)
}
