package handlers

import (
	"fmt"
	"kyndra/internal/auth"
	"kyndra/internal/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// FeedbackRequest carries a free-form feedback message
type FeedbackRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
}

// SendFeedback relays a feedback message by email to the configured address
func SendFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	email := c.GetString(auth.CtxEmail)
	emailService := services.NewEmailService()
	if err := emailService.SendFeedbackEmail(email, message); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to send feedback", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "feedback sent"})
}
