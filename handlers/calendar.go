package handlers

import (
	"net/http"
	"time"

	"recruitmeet/middleware"
	"recruitmeet/models"
	"recruitmeet/services/calendar"
	"recruitmeet/services/session"
	"recruitmeet/utils"

	"github.com/gin-gonic/gin"
)

// CalendarHandler manages the session's single provider connection.
type CalendarHandler struct {
	Sessions session.Store
}

// NewCalendarHandler builds a CalendarHandler.
func NewCalendarHandler(sessions session.Store) *CalendarHandler {
	return &CalendarHandler{Sessions: sessions}
}

// ConnectProviderHandler stores a provider access token obtained by the
// client's OAuth flow. Any previously connected provider is replaced; at
// most one connection is active per session.
func (h *CalendarHandler) ConnectProviderHandler(c *gin.Context) {
	var input struct {
		Provider    string `json:"provider" binding:"required"`
		AccessToken string `json:"accessToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	provider, err := models.ParseProvider(input.Provider)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unknown provider", err.Error())
		return
	}

	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please sign in again"})
		return
	}

	sess.Connection = calendar.NewConnection(provider, input.AccessToken)
	if err := h.Sessions.Save(c.Request.Context(), sess); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Connection failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider":  sess.Connection.Provider,
		"account":   sess.Connection.Account,
		"expiresAt": sess.Connection.ExpiresAt.Format(time.RFC3339),
	})
}

// DisconnectProviderHandler drops the active provider connection.
func (h *CalendarHandler) DisconnectProviderHandler(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please sign in again"})
		return
	}

	sess.Connection = nil
	if err := h.Sessions.Save(c.Request.Context(), sess); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Disconnect failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "provider disconnected"})
}
