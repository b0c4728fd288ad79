// Package webserver serves the router over HTTP with graceful shutdown.
package webserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/GoCodeAlone/modular"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

const ModuleName = "webserver"

// Module serves the "router" handler.
type Module struct {
	config  *WebServerConfig
	handler http.Handler
	logger  modular.Logger
	subject modular.Subject

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	served   chan struct{}
}

func NewWebServer() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return ModuleName
}

func (m *Module) RegisterConfig(app modular.Application) error {
	app.RegisterConfigSection(ModuleName, modular.NewStdConfigProvider(&WebServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}))
	return nil
}

func (m *Module) Init(app modular.Application) error {
	app.Logger().Info("web server initialized", "address", m.config.Address())
	return nil
}

func (m *Module) Dependencies() []string {
	return []string{"sitemux"}
}

func (m *Module) RequiresServices() []modular.ServiceDependency {
	return []modular.ServiceDependency{
		{
			Name:               "router",
			Required:           true,
			SatisfiesInterface: reflect.TypeOf((*http.Handler)(nil)).Elem(),
		},
	}
}

func (m *Module) ProvidesServices() []modular.ServiceProvider {
	return []modular.ServiceProvider{
		{Name: ModuleName, Description: "HTTP server", Instance: m},
	}
}

func (m *Module) Constructor() modular.ModuleConstructor {
	return func(app modular.Application, services map[string]any) (modular.Module, error) {
		rtr, ok := services["router"].(http.Handler)
		if !ok {
			return nil, fmt.Errorf("%w. Detected type: %T", ErrRouterInvalidType, services["router"])
		}

		cp, err := app.GetConfigSection(ModuleName)
		if err != nil {
			return nil, fmt.Errorf("failed to get webserver config: %w", err)
		}

		m.config = cp.GetConfig().(*WebServerConfig)
		m.handler = rtr
		m.logger = app.Logger()
		return m, nil
	}
}

// Start binds the listener synchronously so a bad address fails startup,
// then serves in the background.
func (m *Module) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server != nil {
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", m.config.Address())
	if err != nil {
		m.emitEvent(ctx, EventTypeServerFailed, map[string]interface{}{"address": m.config.Address(), "error": err.Error()})
		return fmt.Errorf("webserver listen on %s: %w", m.config.Address(), err)
	}

	m.listener = ln
	m.served = make(chan struct{})
	m.server = &http.Server{
		Handler:           m.handler,
		ReadTimeout:       m.config.ReadTimeout,
		ReadHeaderTimeout: m.config.ReadTimeout,
		WriteTimeout:      m.config.WriteTimeout,
		IdleTimeout:       m.config.IdleTimeout,
	}

	server, served := m.server, m.served
	go func() {
		defer close(served)
		m.logger.Info("web server starting", "address", ln.Addr().String())
		if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("web server error", "error", err)
		}
	}()

	m.emitEvent(ctx, EventTypeServerStarted, map[string]interface{}{"address": ln.Addr().String()})
	return nil
}

// Stop shuts the server down, waiting at most ShutdownTimeout for active
// requests.
func (m *Module) Stop(ctx context.Context) error {
	m.mu.Lock()
	server, served := m.server, m.served
	m.server = nil
	m.mu.Unlock()
	if server == nil {
		return nil
	}

	m.logger.Info("web server stopping")
	shutdownCtx := ctx
	if m.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, m.config.ShutdownTimeout)
		defer cancel()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("webserver shutdown failed: %w", err)
	}
	<-served

	m.emitEvent(ctx, EventTypeServerStopped, nil)
	return nil
}

// Addr is the bound address, useful when the configured port is 0.
func (m *Module) Addr() (net.Addr, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server == nil {
		return nil, ErrServerNotStarted
	}
	return m.listener.Addr(), nil
}

func (m *Module) RegisterObservers(subject modular.Subject) error {
	m.subject = subject
	return nil
}

func (m *Module) EmitEvent(ctx context.Context, event cloudevents.Event) error {
	if m.subject == nil {
		return ErrNoSubjectForEventEmission
	}
	if err := m.subject.NotifyObservers(ctx, event); err != nil {
		return fmt.Errorf("failed to notify observers: %w", err)
	}
	return nil
}

func (m *Module) emitEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if m.subject == nil {
		return
	}
	if err := m.EmitEvent(ctx, modular.NewCloudEvent(eventType, "webserver-service", data, nil)); err != nil {
		m.logger.Debug("Failed to emit webserver event", "eventType", eventType, "error", err)
	}
}

func (m *Module) GetRegisteredEventTypes() []string {
	return []string{EventTypeServerStarted, EventTypeServerStopped, EventTypeServerFailed}
}
