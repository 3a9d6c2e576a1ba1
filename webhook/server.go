package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"restock/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Config holds webhook server configuration
type Config struct {
	Port           int
	Token          string  // optional shared secret; empty disables the check
	RateLimitRPS   float64 // per-IP sustained request rate
	RateLimitBurst int
	Environment    string
}

// Server accepts webhook POSTs and hands parsed payloads to the router
type Server struct {
	config Config
	router service.NotificationRouter
	engine *gin.Engine
	http   *http.Server
}

// NewServer creates the webhook ingress server
func NewServer(config Config, router service.NotificationRouter) *Server {
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		config: config,
		router: router,
		engine: engine,
	}

	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)

	notify := engine.Group("/notify")
	notify.Use(newRateLimitMiddleware(config.RateLimitRPS, config.RateLimitBurst))
	if config.Token != "" {
		notify.Use(newTokenMiddleware(config.Token))
	}
	notify.POST("", s.handleNotify)

	return s
}

// Start runs the HTTP server until the context is cancelled, then shuts it
// down gracefully. Deliveries already dispatched are not rolled back.
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Infof("Webhook server listening on :%d", s.config.Port)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("webhook server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("webhook server shutdown: %w", err)
	}
	log.Info("Webhook server stopped")
	return nil
}

// Handler exposes the gin engine for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "✅ Stock bot is running. Use POST /notify to send data.")
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
