package ui

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ocev/app"
	"ocev/domain/core"
	apperrors "ocev/internal/errors"
	"ocev/internal/report"
)

// Server is the HTTP surface over the validation engine.
type Server struct {
	router  *gin.Engine
	service *app.ValidationService
	reports *report.Generator
}

// Config holds server settings.
type Config struct {
	Port    string
	GinMode string
}

// NewServer creates the gin server and registers routes.
func NewServer(config Config, service *app.ValidationService, reports *report.Generator) *Server {
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}

	s := &Server{
		router:  gin.Default(),
		service: service,
		reports: reports,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/validate/csv", s.handleValidateCSV)
		api.POST("/validate/evidence", s.handleValidateEvidence)
		api.POST("/generate/synthetic", s.handleGenerateSynthetic)

		api.GET("/results/:id", s.handleGetResults)
		api.GET("/runs", s.handleListRuns)

		api.GET("/report/:id/json", s.handleReportJSON)
		api.GET("/report/:id/ttl", s.handleReportTurtle)
		api.GET("/report/:id/html", s.handleReportHTML)
	}
}

// Run starts the HTTP listener and blocks.
func (s *Server) Run(port string) error {
	log.Printf("Starting evidence validation server on :%s", port)
	return s.router.Run(":" + port)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"components": []string{"ontology", "shacl", "scoring"},
	})
}

// respondError maps the pipeline's error taxonomy onto HTTP statuses.
// Validator failures surface as 502: the run failed, it was not scored.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeExternalService:
		status = http.StatusBadGateway
	case apperrors.CodeConfigInvalid:
		status = http.StatusServiceUnavailable
	}
	if errors.Is(err, core.ErrNotFound) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": apperrors.GetCode(err)})
}
