package handlers

import (
	"recruitmeet/services/session"

	"github.com/gin-gonic/gin"
)

// HandlerBundle collects every endpoint handler for route registration.
type HandlerBundle struct {
	Sessions session.Store

	// Auth endpoints.
	LoginHandler   gin.HandlerFunc
	LogoutHandler  gin.HandlerFunc
	SessionHandler gin.HandlerFunc

	// Calendar provider endpoints.
	ConnectProviderHandler    gin.HandlerFunc
	DisconnectProviderHandler gin.HandlerFunc

	// Candidate endpoints.
	SearchCandidatesHandler gin.HandlerFunc

	// Meeting endpoints.
	CreateMeetingHandler gin.HandlerFunc
	UpdateMeetingHandler gin.HandlerFunc
}
