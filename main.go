// File: recruitmeet/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruitmeet/config"
	"recruitmeet/handlers"
	"recruitmeet/middleware"
	"recruitmeet/models"
	"recruitmeet/routes"
	"recruitmeet/services/backendapi"
	"recruitmeet/services/calendar"
	"recruitmeet/services/directory"
	"recruitmeet/services/meeting"
	"recruitmeet/services/session"
	"recruitmeet/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitRedis()
	utils.StartHealthMonitor(utils.GetSessionCacheClient())

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Session store.
	sessionStore := session.NewRedisStore(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.SessionTTLHours)*time.Hour,
	)

	// Backend client and candidate directory.
	backendClient := backendapi.NewHTTPClient(config.AppConfig.BackendBaseURL, sessionStore)
	candidateDirectory := directory.NewDefaultDirectory(backendClient)

	// Calendar provider adapters, resolved per session at submission time.
	pollPolicy := calendar.RetryPolicy{
		MaxAttempts: config.AppConfig.JoinLinkPollAttempts,
		Delay:       time.Duration(config.AppConfig.JoinLinkPollDelayMS) * time.Millisecond,
	}
	adapters := map[models.Provider]calendar.Adapter{
		models.ProviderOutlook: calendar.NewGraphAdapter(config.AppConfig.GraphBaseURL, pollPolicy),
		models.ProviderGoogle:  calendar.NewMeetAdapter(config.AppConfig.GoogleCalendarBaseURL),
	}

	// Meeting orchestrator.
	meetingService := &meeting.DefaultService{
		Sessions:          sessionStore,
		Backend:           backendClient,
		Adapters:          adapters,
		Timezone:          config.AppConfig.MeetingTimezone,
		DefaultUserInfoID: config.AppConfig.DefaultUserInfoID,
	}

	authHandler := handlers.NewAuthHandler(backendClient, sessionStore, candidateDirectory)
	calendarHandler := handlers.NewCalendarHandler(sessionStore)
	candidateHandler := handlers.NewCandidateHandler(candidateDirectory)
	meetingHandler := handlers.NewMeetingHandler(meetingService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Sessions: sessionStore,

		LoginHandler:   authHandler.LoginHandler,
		LogoutHandler:  authHandler.LogoutHandler,
		SessionHandler: authHandler.SessionHandler,

		ConnectProviderHandler:    calendarHandler.ConnectProviderHandler,
		DisconnectProviderHandler: calendarHandler.DisconnectProviderHandler,

		SearchCandidatesHandler: candidateHandler.SearchCandidatesHandler,

		CreateMeetingHandler: meetingHandler.CreateMeetingHandler,
		UpdateMeetingHandler: meetingHandler.UpdateMeetingHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
