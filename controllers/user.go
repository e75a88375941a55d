package controllers

import (
	"errors"
	"net/http"

	"leadtrack-backend/config"
	"leadtrack-backend/models"
	"leadtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateUserInput defines the expected JSON structure for creating a staff account
type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

// UpdateUserInput defines the expected JSON structure for updating a staff account
type UpdateUserInput struct {
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// GetUsers lists all staff accounts, newest first. Admin only.
func GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUsernames returns just the usernames, for the owner-filter dropdown
// on the customer lists. Admin only.
func GetUsernames(c *gin.Context) {
	var usernames []string
	if err := config.DB.Model(&models.User{}).
		Order("username ASC").
		Pluck("username", &usernames).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"usernames": usernames})
}

// CreateUser adds a staff account. Admin only.
func CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !models.IsValidRole(input.Role) {
		utils.RespondWithError(c, http.StatusBadRequest, "Role must be 'admin' or 'employee'")
		return
	}

	var existing models.User
	if err := config.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	user := models.User{
		Username: input.Username,
		Password: input.Password, // Hashed in BeforeCreate hook
		Role:     input.Role,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// UpdateUser changes a staff account's role or password. Admin only.
func UpdateUser(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("id = ?", userUUID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	updates := map[string]interface{}{}
	if input.Role != nil {
		if !models.IsValidRole(*input.Role) {
			utils.RespondWithError(c, http.StatusBadRequest, "Role must be 'admin' or 'employee'")
			return
		}
		updates["role"] = *input.Role
	}
	if input.Password != nil {
		if len(*input.Password) < 6 {
			utils.RespondWithError(c, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		updates["password"] = hashed
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a staff account. Admin only; an admin cannot delete
// their own account.
func DeleteUser(c *gin.Context) {
	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if currentID, exists := c.Get("userId"); exists && currentID == userUUID.String() {
		utils.RespondWithError(c, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	result := config.DB.Where("id = ?", userUUID).Delete(&models.User{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
