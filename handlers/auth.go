package handlers

import (
	"errors"
	"net/http"
	"time"

	"recruitmeet/middleware"
	"recruitmeet/models"
	"recruitmeet/services/backendapi"
	"recruitmeet/services/directory"
	"recruitmeet/services/session"
	"recruitmeet/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthHandler owns backend login/logout and session introspection.
type AuthHandler struct {
	Backend   backendapi.Client
	Sessions  session.Store
	Directory directory.Directory
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(backend backendapi.Client, sessions session.Store, dir directory.Directory) *AuthHandler {
	return &AuthHandler{Backend: backend, Sessions: sessions, Directory: dir}
}

// LoginHandler runs the two-step backend credential exchange and creates a
// server-side session holding the durable token and tenant.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Backend.RequestLoginToken(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, backendapi.ErrInvalidCredentials),
			errors.Is(err, backendapi.ErrLoginNotConfirmed):
			utils.JSONError(c, http.StatusUnauthorized, "Login failed", err.Error())
		default:
			utils.GetLogger().Error("login request failed", zap.Error(err))
			utils.JSONError(c, http.StatusBadGateway, "Login failed", "the recruiting system could not be reached")
		}
		return
	}

	sess := &models.Session{
		SessionID:    uuid.New().String(),
		BackendToken: result.Token,
		TenantID:     result.TenantID,
		CreatedAt:    time.Now(),
	}
	if err := h.Sessions.Save(c.Request.Context(), sess); err != nil {
		utils.GetLogger().Error("failed to persist session", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", "session could not be stored")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sess.SessionID,
		"tenantId":  sess.TenantID,
	})
}

// LogoutHandler clears the stored session and forgets the candidate snapshot.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionID)
	if err := h.Sessions.Clear(c.Request.Context(), sessionID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Logout failed", err.Error())
		return
	}
	h.Directory.Forget(sessionID)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// SessionHandler returns the rehydrated session summary.
func (h *AuthHandler) SessionHandler(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please sign in again"})
		return
	}

	summary := gin.H{
		"tenantId":  sess.TenantID,
		"loggedIn":  sess.LoggedIn(),
		"connected": sess.Connected(),
	}
	if sess.Connection != nil {
		summary["provider"] = sess.Connection.Provider
		summary["account"] = sess.Connection.Account
		summary["providerExpired"] = sess.Connection.Expired(time.Now())
	}
	c.JSON(http.StatusOK, summary)
}
