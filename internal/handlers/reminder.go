package handlers

import (
	"errors"
	"fmt"
	"kyndra/internal/database"
	"kyndra/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetReminder returns an event's reminder lead time
func GetReminder(c *gin.Context) {
	event, ok := requireEvent(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	var reminder models.EventReminder
	if err := db.Where("event_id = ?", event.ID).First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no reminder set"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminder", err)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// SetReminder sets or clears an event's reminder lead time. Zero means
// "None" and removes the row.
func SetReminder(c *gin.Context) {
	event, ok := requireEvent(c, c.Param("id"))
	if !ok {
		return
	}

	var req models.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	db := database.GetDB()
	if err := applyReminderMinutes(db, event, req.RemindMinutesBefore); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save reminder", err)
		return
	}

	if req.RemindMinutesBefore <= 0 {
		c.JSON(http.StatusOK, gin.H{"message": "reminder removed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event_id": event.ID, "remind_minutes_before": req.RemindMinutesBefore})
}

// DeleteReminder removes an event's reminder
func DeleteReminder(c *gin.Context) {
	event, ok := requireEvent(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	if err := db.Where("event_id = ?", event.ID).Delete(&models.EventReminder{}).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete reminder", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reminder removed"})
}
