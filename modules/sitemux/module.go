// Package sitemux provides the chi router every HTTP-facing module of the
// site registers its routes on.
//
// The router applies its whole middleware stack during Init, before any
// other module can add routes, because chi rejects Use after the first
// route. Modules that need extra middleware for their own routes use
// chi.Router.Group or With.
//
// # Service Registration
//
//   - "router": the module itself, an http.Handler serving every route
//   - "chi.router": the underlying chi.Router for route registration
package sitemux

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GoCodeAlone/modular"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ModuleName is the module name and its config section.
const ModuleName = "sitemux"

const (
	RouterServiceName    = "router"
	ChiRouterServiceName = "chi.router"
)

// SiteMuxModule owns the chi router.
type SiteMuxModule struct {
	config  *SiteMuxConfig
	router  *chi.Mux
	logger  modular.Logger
	subject modular.Subject
}

// NewSiteMuxModule creates the router module.
func NewSiteMuxModule() modular.Module {
	return &SiteMuxModule{}
}

func (m *SiteMuxModule) Name() string {
	return ModuleName
}

// RegisterConfig registers the sitemux section with its defaults.
func (m *SiteMuxModule) RegisterConfig(app modular.Application) error {
	app.RegisterConfigSection(m.Name(), modular.NewStdConfigProvider(&SiteMuxConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type"},
		MaxAge:         300,
		Timeout:        30 * time.Second,
		Compress:       true,
	}))
	return nil
}

// Init builds the router and its middleware stack.
func (m *SiteMuxModule) Init(app modular.Application) error {
	m.logger = app.Logger()

	cfg, err := app.GetConfigSection(m.Name())
	if err != nil {
		return fmt.Errorf("failed to get config section '%s': %w", m.Name(), err)
	}
	m.config = cfg.GetConfig().(*SiteMuxConfig)

	m.router = chi.NewRouter()
	m.router.Use(middleware.RequestID)
	m.router.Use(middleware.RealIP)
	m.router.Use(m.requestLogger)
	m.router.Use(middleware.Recoverer)
	if m.config.Timeout > 0 {
		m.router.Use(middleware.Timeout(m.config.Timeout))
	}
	if m.config.Compress {
		m.router.Use(middleware.Compress(5, "text/html", "text/css", "application/json", "text/plain"))
	}
	m.router.Use(m.corsMiddleware())
	m.router.Use(m.requestMonitoringMiddleware())

	m.logger.Info("Sitemux module initialized",
		"allowedOrigins", m.config.AllowedOrigins,
		"timeout", m.config.Timeout,
		"compress", m.config.Compress)
	return nil
}

// Start reports the configuration and the router once observers are in
// place.
func (m *SiteMuxModule) Start(ctx context.Context) error {
	m.emitEvent(ctx, EventTypeConfigLoaded, map[string]interface{}{
		"allowed_origins": m.config.AllowedOrigins,
		"timeout":         m.config.Timeout.String(),
	})
	m.emitEvent(ctx, EventTypeRouterCreated, map[string]interface{}{
		"cors_enabled": len(m.config.AllowedOrigins) > 0,
		"compress":     m.config.Compress,
	})
	m.emitEvent(ctx, EventTypeRouterStarted, map[string]interface{}{
		"routes": len(m.router.Routes()),
	})
	return nil
}

func (m *SiteMuxModule) Stop(ctx context.Context) error {
	m.emitEvent(ctx, EventTypeRouterStopped, map[string]interface{}{
		"routes": len(m.router.Routes()),
	})
	return nil
}

// ProvidesServices exposes the router as a handler and as a chi.Router.
func (m *SiteMuxModule) ProvidesServices() []modular.ServiceProvider {
	return []modular.ServiceProvider{
		{
			Name:        RouterServiceName,
			Description: "HTTP handler serving every site route",
			Instance:    m,
		},
		{
			Name:        ChiRouterServiceName,
			Description: "Chi router for route registration",
			Instance:    m.ChiRouter(),
		},
	}
}

func (m *SiteMuxModule) RequiresServices() []modular.ServiceDependency {
	return nil
}

// ChiRouter returns the underlying router. It is nil before Init.
func (m *SiteMuxModule) ChiRouter() chi.Router {
	return m.router
}

func (m *SiteMuxModule) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.router.ServeHTTP(w, r)
}

// requestLogger logs each request at debug level with its request id.
func (m *SiteMuxModule) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		m.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"requestID", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

func (m *SiteMuxModule) corsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && m.originAllowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				if len(m.config.AllowedMethods) > 0 {
					w.Header().Set("Access-Control-Allow-Methods", strings.Join(m.config.AllowedMethods, ", "))
				}
				if len(m.config.AllowedHeaders) > 0 {
					w.Header().Set("Access-Control-Allow-Headers", strings.Join(m.config.AllowedHeaders, ", "))
				}
				if m.config.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(m.config.MaxAge))
				}
			}

			// preflight
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *SiteMuxModule) originAllowed(origin string) bool {
	for _, allowed := range m.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// requestMonitoringMiddleware emits an event per request outcome.
func (m *SiteMuxModule) requestMonitoringMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			m.emitEvent(ctx, EventTypeRequestReceived, map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})

			wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r)

			data := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": wrapper.statusCode,
			}
			if wrapper.statusCode >= http.StatusBadRequest {
				m.emitEvent(ctx, EventTypeRequestFailed, data)
				return
			}
			m.emitEvent(ctx, EventTypeRequestProcessed, data)
		})
	}
}

// responseWriterWrapper captures the status code written by a handler.
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
	wrote      bool
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	if !w.wrote {
		w.statusCode = statusCode
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// RegisterObservers implements modular.ObservableModule.
func (m *SiteMuxModule) RegisterObservers(subject modular.Subject) error {
	m.subject = subject
	return nil
}

// EmitEvent implements modular.ObservableModule.
func (m *SiteMuxModule) EmitEvent(ctx context.Context, event cloudevents.Event) error {
	if m.subject == nil {
		return ErrNoSubjectForEventEmission
	}
	if err := m.subject.NotifyObservers(ctx, event); err != nil {
		return fmt.Errorf("failed to notify observers: %w", err)
	}
	return nil
}

func (m *SiteMuxModule) emitEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if m.subject == nil {
		return
	}
	event := modular.NewCloudEvent(eventType, "sitemux-service", data, nil)
	if err := m.EmitEvent(ctx, event); err != nil && !errors.Is(err, ErrNoSubjectForEventEmission) {
		m.logger.Debug("Failed to emit sitemux event", "eventType", eventType, "error", err)
	}
}

// GetRegisteredEventTypes lists the events this module emits.
func (m *SiteMuxModule) GetRegisteredEventTypes() []string {
	return []string{
		EventTypeConfigLoaded,
		EventTypeRouterCreated,
		EventTypeRouterStarted,
		EventTypeRouterStopped,
		EventTypeRequestReceived,
		EventTypeRequestProcessed,
		EventTypeRequestFailed,
	}
}
