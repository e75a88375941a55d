package controllers

import (
	"net/http"

	"leadtrack-backend/config"
	"leadtrack-backend/models"
	"leadtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardOverview struct {
	TotalCustomers  int64             `json:"totalCustomers"`
	Communicating   int64             `json:"communicating"`
	Closed          int64             `json:"closed"`
	Rejected        int64             `json:"rejected"`
	RecentCustomers []models.Customer `json:"recentCustomers"`
}

// GetDashboardOverview returns owner-scoped pipeline counts and the five
// most recently added customers.
func GetDashboardOverview(c *gin.Context) {
	username, isAdmin, ok := utils.CurrentPrincipal(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context")
		return
	}

	var overview DashboardOverview

	counts := []struct {
		status string
		dest   *int64
	}{
		{models.StatusCommunicating, &overview.Communicating},
		{models.StatusClosed, &overview.Closed},
		{models.StatusRejected, &overview.Rejected},
	}

	if err := scopedCustomers(config.DB, username, isAdmin).
		Count(&overview.TotalCustomers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	for _, count := range counts {
		if err := scopedCustomers(config.DB, username, isAdmin).
			Where("status = ?", count.status).
			Count(count.dest).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
			return
		}
	}

	if err := scopedCustomers(config.DB, username, isAdmin).
		Order("created_at DESC").
		Limit(5).
		Preload("FollowUps", func(db *gorm.DB) *gorm.DB {
			return db.Order("follow_ups.time ASC")
		}).
		Find(&overview.RecentCustomers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, overview)
}
