package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/http/middleware"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	auth              *middleware.CredentialAuth
	interviewHandler  *Interview
	transcriptHandler *Transcript
	reportHandler     *Report
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	auth *middleware.CredentialAuth,
	interviewHandler *Interview,
	transcriptHandler *Transcript,
	reportHandler *Report,
) *Router {
	return &Router{
		cfg:               cfg,
		auth:              auth,
		interviewHandler:  interviewHandler,
		transcriptHandler: transcriptHandler,
		reportHandler:     reportHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// Rendered PDFs are retrievable at a stable per-session path
	e.Static("/reports", rt.cfg.Paths.ReportDir)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupInterviewRoutes(v1)
	rt.setupTranscriptRoutes(v1)
	rt.setupReportRoutes(v1)
}

func (rt *Router) setupInterviewRoutes(g *echo.Group) {
	group := g.Group("/interview")
	group.POST("/start", rt.interviewHandler.Start)
	group.GET("/:session_id/attention", rt.interviewHandler.AttentionSnapshot)
	group.POST("/:session_id/attention", rt.interviewHandler.RecordAttention, rt.auth.Authenticate)
}

func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	group := g.Group("/stt")
	group.POST("/append", rt.transcriptHandler.Append, rt.auth.Authenticate)
	// The websocket carries its credential as a query parameter, so the
	// bearer middleware does not guard it.
	group.GET("/stream/:session_id", rt.transcriptHandler.Stream)
}

func (rt *Router) setupReportRoutes(g *echo.Group) {
	group := g.Group("/report")
	group.POST("/finalize", rt.reportHandler.Finalize, rt.auth.Authenticate)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
