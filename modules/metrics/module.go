// Package metrics observes every event the application publishes and
// exposes the counts, together with the live session gauge, in the
// Prometheus text format.
//
// The module owns a private registry so that several applications in one
// process (tests, mostly) never collide on metric names.
package metrics

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/GoCodeAlone/modular"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GoCodeAlone/verdant/modules/sessions"
	"github.com/GoCodeAlone/verdant/modules/sitemux"
	"github.com/GoCodeAlone/verdant/session"
)

const (
	ModuleName  = "metrics"
	ServiceName = "metrics.registry"
)

type Module struct {
	config *MetricsConfig
	router chi.Router
	store  *session.Store
	logger modular.Logger

	mu        sync.Mutex
	subject   modular.Subject
	observing bool

	registry  *prometheus.Registry
	events    *prometheus.CounterVec
	responses *prometheus.CounterVec
	sessions  prometheus.GaugeFunc
}

func NewModule() modular.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return ModuleName
}

func (m *Module) RegisterConfig(app modular.Application) error {
	if _, err := app.GetConfigSection(ModuleName); err == nil {
		return nil
	}
	app.RegisterConfigSection(ModuleName, modular.NewStdConfigProvider(&MetricsConfig{
		Path:      "/metrics",
		Namespace: "verdant",
	}))
	return nil
}

func (m *Module) Dependencies() []string {
	return []string{sitemux.ModuleName, sessions.ModuleName}
}

func (m *Module) RequiresServices() []modular.ServiceDependency {
	return []modular.ServiceDependency{
		{
			Name:               sitemux.ChiRouterServiceName,
			Required:           true,
			SatisfiesInterface: reflect.TypeOf((*chi.Router)(nil)).Elem(),
		},
		{Name: sessions.ServiceName, Required: true, Type: reflect.TypeOf((*session.Store)(nil))},
	}
}

func (m *Module) ProvidesServices() []modular.ServiceProvider {
	return []modular.ServiceProvider{
		{Name: ServiceName, Description: "Prometheus registry behind the metrics endpoint", Instance: m.registry},
	}
}

func (m *Module) Constructor() modular.ModuleConstructor {
	return func(app modular.Application, services map[string]any) (modular.Module, error) {
		router, ok := services[sitemux.ChiRouterServiceName].(chi.Router)
		if !ok {
			return nil, fmt.Errorf("%w. Detected type: %T", ErrRouterInvalidType, services[sitemux.ChiRouterServiceName])
		}
		store, ok := services[sessions.ServiceName].(*session.Store)
		if !ok {
			return nil, fmt.Errorf("%w. Detected type: %T", ErrSessionStoreInvalidType, services[sessions.ServiceName])
		}
		m.router = router
		m.store = store
		return m, nil
	}
}

func (m *Module) Init(app modular.Application) error {
	m.logger = app.Logger()
	cp, err := app.GetConfigSection(ModuleName)
	if err != nil {
		return fmt.Errorf("failed to get config section '%s': %w", ModuleName, err)
	}
	m.config = cp.GetConfig().(*MetricsConfig)

	m.registry = prometheus.NewRegistry()
	m.events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.config.Namespace,
		Name:      "events_total",
		Help:      "Application events observed, by CloudEvent type.",
	}, []string{"type"})
	m.responses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.config.Namespace,
		Name:      "http_responses_total",
		Help:      "HTTP responses written by the router, by status code.",
	}, []string{"code"})
	m.sessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: m.config.Namespace,
		Name:      "sessions_active",
		Help:      "Visitor sessions currently held in memory.",
	}, func() float64 {
		return float64(m.store.Len())
	})

	if err := m.registry.Register(m.events); err != nil {
		return fmt.Errorf("metrics: register events counter: %w", err)
	}
	if err := m.registry.Register(m.responses); err != nil {
		return fmt.Errorf("metrics: register responses counter: %w", err)
	}
	if err := m.registry.Register(m.sessions); err != nil {
		return fmt.Errorf("metrics: register sessions gauge: %w", err)
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m.router.Handle(m.config.Path, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: promLogger{m.logger},
	}))
	m.logger.Info("Metrics endpoint registered", "path", m.config.Path, "namespace", m.config.Namespace)
	return m.observe()
}

// RegisterObservers keeps the subject. The module subscribes to every event
// type once both the subject and the counters exist, whichever of Init and
// RegisterObservers comes last.
func (m *Module) RegisterObservers(subject modular.Subject) error {
	m.mu.Lock()
	m.subject = subject
	m.mu.Unlock()
	return m.observe()
}

func (m *Module) observe() error {
	m.mu.Lock()
	subject := m.subject
	if subject == nil || m.events == nil || m.observing {
		m.mu.Unlock()
		return nil
	}
	m.observing = true
	m.mu.Unlock()

	if err := subject.RegisterObserver(m); err != nil {
		return fmt.Errorf("metrics: register observer: %w", err)
	}
	return nil
}

// OnEvent implements modular.Observer.
func (m *Module) OnEvent(_ context.Context, event cloudevents.Event) error {
	m.events.WithLabelValues(event.Type()).Inc()

	switch event.Type() {
	case sitemux.EventTypeRequestProcessed, sitemux.EventTypeRequestFailed:
		var data struct {
			StatusCode int `json:"status_code"`
		}
		if err := event.DataAs(&data); err == nil && data.StatusCode > 0 {
			m.responses.WithLabelValues(strconv.Itoa(data.StatusCode)).Inc()
		}
	}

	if m.config.LogEvents {
		m.logger.Debug("Observed event", "type", event.Type(), "source", event.Source(), "id", event.ID())
	}
	return nil
}

// ObserverID implements modular.Observer.
func (m *Module) ObserverID() string {
	return ModuleName
}

// promLogger adapts modular.Logger to promhttp's error logger.
type promLogger struct {
	logger modular.Logger
}

func (l promLogger) Println(v ...any) {
	l.logger.Error("Metrics exposition failed", "error", fmt.Sprint(v...))
}
