package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chidubem/paylinq/internal/helpers"
	"github.com/chidubem/paylinq/internal/middleware"
)

// ListNotifications drains the caller's pending notifications.
func ListNotifications(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	n := middleware.GetNotifier(c)
	if n == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Notifier not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": n.Drain(userID.(string)),
	})
}
