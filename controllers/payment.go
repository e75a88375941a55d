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

// RecordPaymentInput defines the expected JSON structure for a ledger entry.
// Amount is signed: negative values are refunds. There is no bound on the
// amount and a refund may drive the wallet balance below zero.
type RecordPaymentInput struct {
	Amount      *float64   `json:"amount" binding:"required"`
	PaymentName string     `json:"paymentName"`
	PaymentTime *time.Time `json:"paymentTime"`
	Notes       string     `json:"notes"`
}

// RecordPayment appends a ledger entry and rolls the cached wallet balance
// forward. Both writes happen in one transaction so the ledger and the
// cached balance cannot diverge.
func RecordPayment(c *gin.Context) {
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

	var input RecordPaymentInput
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

	if !customer.IsContracted() {
		utils.RespondWithError(c, http.StatusBadRequest, "Payments can only be recorded for contracted customers")
		return
	}

	paymentTime := time.Now()
	if input.PaymentTime != nil {
		paymentTime = *input.PaymentTime
	}

	payment := models.Payment{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		Amount:      *input.Amount,
		PaymentName: input.PaymentName,
		PaymentTime: paymentTime,
		Notes:       input.Notes,
		CreatedBy:   username,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"wallet_balance":    gorm.Expr("wallet_balance + ?", *input.Amount),
			"last_payment_time": paymentTime,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update wallet balance")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetPayments lists all ledger entries for a customer, most recent payment
// first. Volume per customer is low, so there is no pagination.
func GetPayments(c *gin.Context) {
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

	// Resolve through the scope so an employee cannot read another owner's
	// ledger by guessing IDs
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

	var payments []models.Payment
	if err := config.DB.Where("customer_id = ?", customer.ID).
		Order("payment_time DESC").
		Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":      payments,
		"walletBalance": customer.WalletBalance,
	})
}
