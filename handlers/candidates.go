package handlers

import (
	"errors"
	"net/http"

	"recruitmeet/middleware"
	"recruitmeet/services/backendapi"
	"recruitmeet/services/directory"
	"recruitmeet/utils"

	"github.com/gin-gonic/gin"
)

// CandidateHandler exposes the local candidate search.
type CandidateHandler struct {
	Directory directory.Directory
}

// NewCandidateHandler builds a CandidateHandler.
func NewCandidateHandler(dir directory.Directory) *CandidateHandler {
	return &CandidateHandler{Directory: dir}
}

// SearchCandidatesHandler lazily loads the session's candidate snapshot
// (fetch-once) and filters it by the query term.
func (h *CandidateHandler) SearchCandidatesHandler(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please sign in again"})
		return
	}
	sessionID := c.GetString(middleware.ContextSessionID)

	if err := h.Directory.Load(c.Request.Context(), sessionID, sess.BackendToken); err != nil {
		if errors.Is(err, backendapi.ErrSessionExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		utils.JSONError(c, http.StatusBadGateway, "Candidate listing failed", err.Error())
		return
	}

	results := h.Directory.Search(sessionID, c.Query("term"))
	c.JSON(http.StatusOK, gin.H{
		"candidates": results,
		"count":      len(results),
	})
}
