package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"WTISentinel/internal/checklist"
	"WTISentinel/internal/collector"
	"WTISentinel/internal/model"
	"WTISentinel/internal/scheduler"
)

// Dashboard is the evaluation pipeline the API exposes.
type Dashboard interface {
	Evaluate(ctx context.Context) (*scheduler.Evaluation, error)
	Wave(ctx context.Context, interval model.Interval, window int) (model.WaveClassification, error)
	Technical(ctx context.Context) collector.TechnicalSignal
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	ProductionMode bool
}

// Server represents the HTTP dashboard API.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	dashboard  Dashboard
	checklist  *checklist.Manager
	config     ServerConfig
	startedAt  time.Time
}

// NewServer creates a new API server
func NewServer(config ServerConfig, dashboard Dashboard, cl *checklist.Manager) *Server {
	if config.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(requestLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(config.AllowedOrigins) == 0 || (len(config.AllowedOrigins) == 1 && config.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	router.Use(cors.New(corsConfig))

	s := &Server{
		router:    router,
		dashboard: dashboard,
		checklist: cl,
		config:    config,
		startedAt: time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/bias", s.handleBias)
		api.GET("/wave", s.handleWave)
		api.GET("/signal", s.handleSignal)
		api.GET("/checklist", s.handleGetChecklist)
		api.PUT("/checklist/:factor", s.handleSetFactor)
		api.DELETE("/checklist/:factor", s.handleClearFactor)
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("component", "api").Str("addr", s.config.Addr).Msg("starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Str("component", "api").Msg("shutting down HTTP server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("component", "api").
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
