// Package api exposes simulation, reporting, and run inspection over HTTP,
// with progress streamed to listeners as Server-Sent Events.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nucgen/app"
	"nucgen/domain/core"
	"nucgen/internal"
	apperrors "nucgen/internal/errors"
	"nucgen/ports"
)

// NuclideLister enumerates the nuclides the data directory serves
type NuclideLister interface {
	List() ([]string, error)
}

// Server is the HTTP front end over the simulation and report services
type Server struct {
	router     *gin.Engine
	simulation *app.SimulationService
	reports    *app.ReportService
	lister     NuclideLister
	runs       ports.RunRepository
	hub        *SSEHub
	log        *internal.Logger
}

// NewServer wires the services into a routed gin engine. runs may be nil
// when persistence is not configured; the run endpoints then answer 503.
func NewServer(simulation *app.SimulationService, reports *app.ReportService, lister NuclideLister, runs ports.RunRepository, hub *SSEHub, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:     gin.Default(),
		simulation: simulation,
		reports:    reports,
		lister:     lister,
		runs:       runs,
		hub:        hub,
		log:        logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/nuclides", s.handleNuclideList)
	api.GET("/nuclides/:name/report", s.handleReport)
	api.GET("/nuclides/:name/slots", s.handleSlots)
	api.POST("/simulate", s.handleSimulate)
	api.GET("/simulate/stream", s.hub.HandleSSE)
	api.GET("/runs", s.handleRunList)
	api.GET("/runs/:id", s.handleRunGet)
}

// Start runs the server on addr
func (s *Server) Start(addr string) error {
	s.log.Info("Serving decay generator API on http://%s", addr)
	return s.router.Run(addr)
}

// Handler exposes the routed engine, mainly for tests and custom servers
func (s *Server) Handler() http.Handler { return s.router }

// renderError maps domain errors onto HTTP statuses with a stable code
func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := apperrors.CodeInternalError
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrUnknownLevel):
		status = http.StatusBadRequest
		code = apperrors.CodeValidationError
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
		code = apperrors.CodeNotFound
	case core.IsSchemeError(err), core.IsAtomicDataError(err), core.IsSpectrumError(err):
		// the deck exists but cannot be built into a generator
		status = http.StatusUnprocessableEntity
		code = apperrors.CodeDecayData
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed: %v", err)
	} else {
		s.log.Debug("request rejected (%d): %v", status, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
