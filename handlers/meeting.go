package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"recruitmeet/middleware"
	"recruitmeet/models"
	"recruitmeet/services/backendapi"
	"recruitmeet/services/calendar"
	"recruitmeet/services/meeting"
	"recruitmeet/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MeetingHandler drives meeting creation and update through the orchestrator.
type MeetingHandler struct {
	Svc meeting.Service
}

// NewMeetingHandler builds a MeetingHandler.
func NewMeetingHandler(svc meeting.Service) *MeetingHandler {
	return &MeetingHandler{Svc: svc}
}

// CreateMeetingHandler submits a new meeting draft.
func (h *MeetingHandler) CreateMeetingHandler(c *gin.Context) {
	var draft models.MeetingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sessionID := c.GetString(middleware.ContextSessionID)
	result, err := h.Svc.SubmitCreate(c.Request.Context(), sessionID, draft)
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}
	if result.Status == meeting.StatusWarning {
		// Partial success: the external event exists, the backend record
		// does not. Distinct from full failure.
		c.JSON(http.StatusBadGateway, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UpdateMeetingHandler submits a diff-based update for an existing meeting.
func (h *MeetingHandler) UpdateMeetingHandler(c *gin.Context) {
	meetingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	var input struct {
		Original        models.MeetingDraft `json:"original" binding:"required"`
		Current         models.MeetingDraft `json:"current" binding:"required"`
		ExternalEventID string              `json:"externalEventId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	edit := models.EditSession{
		Original:        input.Original,
		MeetingID:       meetingID,
		ExternalEventID: input.ExternalEventID,
	}
	sessionID := c.GetString(middleware.ContextSessionID)
	result, err := h.Svc.SubmitUpdate(c.Request.Context(), sessionID, edit, input.Current)
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}
	if result.Status == meeting.StatusWarning {
		c.JSON(http.StatusBadGateway, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeSubmitError maps the error taxonomy onto HTTP statuses with short
// human-readable messages; nothing is swallowed.
func (h *MeetingHandler) writeSubmitError(c *gin.Context, err error) {
	var validationErr *meeting.ValidationError
	var providerErr *calendar.ProviderError
	var persistErr *backendapi.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, meeting.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, backendapi.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &providerErr):
		utils.JSONError(c, http.StatusBadGateway, "Calendar provider error", providerErr.Error())
	case errors.As(err, &persistErr):
		// Backend write failed before any external side effect.
		utils.JSONError(c, http.StatusBadGateway, "Saving the meeting failed", persistErr.Error())
	default:
		utils.GetLogger().Error("meeting submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
