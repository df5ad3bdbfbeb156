// Package server provides the HTTP API for the advisory backend.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/krishimitra/advisory/internal/config"
	"github.com/krishimitra/advisory/internal/server/sse"
)

const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	// Chat turns wait on the model, so this is generous.
	DefaultHTTPTimeout = 60 * time.Second

	// MaxRequestBodySize caps incoming request bodies.
	MaxRequestBodySize = 1 << 20
)

// Service is the HTTP API orchestrator.
type Service struct {
	version string
	config  *config.Config

	// Stores
	users         UserStore
	questions     QuestionStore
	notifications NotificationStore
	soil          SoilStore
	chats         ChatStore

	// Upstream clients
	advisor Advisor
	weather WeatherAPI

	// Realtime fan-out
	broadcaster *sse.Broadcaster

	// Health
	db HealthChecker

	router    *chi.Mux
	server    *http.Server
	metrics   *apiMetrics
	startTime time.Time
}

// Deps bundles the service's collaborators.
type Deps struct {
	Users         UserStore
	Questions     QuestionStore
	Notifications NotificationStore
	Soil          SoilStore
	Chats         ChatStore
	Advisor       Advisor
	Weather       WeatherAPI
	Broadcaster   *sse.Broadcaster
	DB            HealthChecker
}

// NewService creates the API service and wires its routes.
func NewService(version string, cfg *config.Config, deps Deps) *Service {
	broadcaster := deps.Broadcaster
	if broadcaster == nil {
		broadcaster = sse.NewBroadcaster()
	}

	svc := &Service{
		version:       version,
		config:        cfg,
		users:         deps.Users,
		questions:     deps.Questions,
		notifications: deps.Notifications,
		soil:          deps.Soil,
		chats:         deps.Chats,
		advisor:       deps.Advisor,
		weather:       deps.Weather,
		broadcaster:   broadcaster,
		db:            deps.DB,
		router:        chi.NewRouter(),
		metrics:       newAPIMetrics(),
		startTime:     time.Now(),
	}

	svc.setupMiddleware()
	svc.setupRoutes()

	return svc
}

// Broadcaster exposes the SSE fan-out for background jobs.
func (s *Service) Broadcaster() *sse.Broadcaster {
	return s.broadcaster
}

// Router exposes the configured handler, mainly for tests.
func (s *Service) Router() http.Handler {
	return s.router
}

// setupMiddleware configures HTTP middleware.
func (s *Service) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(CORS(s.config.AllowedOrigins))
	s.router.Use(MaxBodySize(MaxRequestBodySize))
	s.router.Use(RequireJSONContentType)
}

// setupRoutes configures HTTP routes.
func (s *Service) setupRoutes() {
	// Health check (both root and API-prefixed for compatibility)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/health", s.handleHealth)

	// SSE notification stream
	s.router.Get("/api/events", s.handleEvents)

	// Message catalogs
	s.router.Get("/api/i18n/{lang}", s.handleCatalog)

	// The chat endpoint blocks on the model; everything else gets the
	// standard timeout.
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(DefaultHTTPTimeout))

		// Auth
		r.Post("/api/auth", s.handleAuth)

		// Escalation. The route path is load-bearing: deployed clients
		// post to this exact spelling.
		r.Post("/api/esclate", s.handleEscalate)
		r.Post("/api/answer-escalated", s.handleAnswer)

		// Community board
		r.Get("/api/questions", s.handleListQuestions)
		r.Get("/api/questions/{id}", s.handleGetQuestion)

		// Chat
		r.Post("/api/chat", s.handleChat)
		r.Get("/api/chats", s.handleListChats)
		r.Get("/api/chats/{id}", s.handleGetChat)
		r.Delete("/api/chats/{id}", s.handleDeleteChat)

		// Weather
		r.Get("/api/weather", s.handleWeatherCurrent)
		r.Get("/api/weather/forecast", s.handleWeatherForecast)
		r.Get("/api/weather/full", s.handleWeatherFull)

		// Notifications
		r.Get("/api/notifications", s.handleListNotifications)
		r.Post("/api/notifications/{id}/read", s.handleMarkNotificationRead)
		r.Post("/api/notifications/read-all", s.handleMarkAllNotificationsRead)

		// Soil reports
		r.Get("/api/soil-reports/latest", s.handleLatestSoilReport)
	})
}

// Start launches the HTTP server. It returns once the listener
// goroutine is running.
func (s *Service) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.HTTPPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	log.Info().Int("port", s.config.HTTPPort).Msg("API server started")
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Info().Msg("Shutting down API server")
	return s.server.Shutdown(ctx)
}

// handleHealth reports process and database health, including pool
// saturation and round-trip latency.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":         "ok",
		"version":        s.version,
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
		"sse_clients":    s.broadcaster.ClientCount(),
	}

	code := http.StatusOK
	if s.db != nil {
		health := s.db.HealthCheck(r.Context())
		resp["database"] = health
		if health.Status == "unhealthy" {
			resp["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, resp)
}
