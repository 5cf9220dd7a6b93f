package handlers

import (
	"net/http"

	deviceRepo "wildhaven/database/repository/device"
	"wildhaven/models"
	"wildhaven/utils"

	"github.com/gin-gonic/gin"
)

// Devices is wired in main before the router starts serving.
var Devices deviceRepo.DeviceRepository

// RegisterDevice records the FCM token for the caller's device so the
// confirmation push and check-in reminders can reach it.
func RegisterDevice(c *gin.Context) {
	var input struct {
		FCMToken string `json:"fcmToken" binding:"required"`
		Platform string `json:"platform"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, codeInvalidInput, "invalid input", err.Error())
		return
	}

	device := &models.Device{
		UserID:   userID(c),
		FCMToken: input.FCMToken,
		Platform: input.Platform,
	}
	if err := Devices.Upsert(device); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, codeInternal, "failed to register device", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "registered"})
}
