// Package sessions hosts the per-visitor session store.
//
// Every state change a session makes is published to the application
// subject as a CloudEvent. The module also observes content reloads and
// pushes the new catalog into every live session.
package sessions

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/GoCodeAlone/modular"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/GoCodeAlone/verdant/contactform"
	"github.com/GoCodeAlone/verdant/content"
	"github.com/GoCodeAlone/verdant/modules/contentwatch"
	"github.com/GoCodeAlone/verdant/session"
)

const (
	ModuleName        = "sessions"
	ServiceName       = "sessions.store"
	DefaultCookieName = "verdant_session"
)

type Module struct {
	config  *SessionsConfig
	catalog *content.Store
	store   *session.Store
	logger  modular.Logger

	mu        sync.RWMutex
	subject   modular.Subject
	observing bool
}

func NewModule() modular.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return ModuleName
}

// RegisterConfig registers the defaults unless a section was supplied.
func (m *Module) RegisterConfig(app modular.Application) error {
	if _, err := app.GetConfigSection(ModuleName); err == nil {
		return nil
	}
	app.RegisterConfigSection(ModuleName, modular.NewStdConfigProvider(defaultConfig()))
	return nil
}

func (m *Module) Dependencies() []string {
	return []string{contentwatch.ModuleName}
}

func (m *Module) RequiresServices() []modular.ServiceDependency {
	return []modular.ServiceDependency{
		{
			Name:     contentwatch.ServiceName,
			Required: true,
			Type:     reflect.TypeOf((*content.Store)(nil)),
		},
	}
}

func (m *Module) Constructor() modular.ModuleConstructor {
	return func(app modular.Application, services map[string]any) (modular.Module, error) {
		catalog, ok := services[contentwatch.ServiceName].(*content.Store)
		if !ok {
			return nil, fmt.Errorf("%w. Detected type: %T", ErrContentStoreInvalidType, services[contentwatch.ServiceName])
		}
		m.catalog = catalog
		return m, nil
	}
}

func (m *Module) Init(app modular.Application) error {
	m.logger = app.Logger()

	cp, err := app.GetConfigSection(ModuleName)
	if err != nil {
		return fmt.Errorf("failed to get config section '%s': %w", ModuleName, err)
	}
	m.config = cp.GetConfig().(*SessionsConfig)

	m.store = session.NewStore(m.catalog, session.Deps{
		Config:      m.config.Session(),
		Publish:     m.publish,
		OnSubmitted: m.onSubmitted,
	}, m.config.TTL)

	m.logger.Info("Sessions module initialized", "ttl", m.config.TTL, "sweep", m.config.SweepSchedule)
	return m.observe()
}

func (m *Module) Start(_ context.Context) error {
	if err := m.store.StartSweeper(m.config.SweepSchedule); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	return nil
}

// Stop closes every session, which cancels their timers.
func (m *Module) Stop(_ context.Context) error {
	n := m.store.Len()
	m.store.Close()
	m.logger.Info("Sessions closed", "count", n)
	return nil
}

func (m *Module) ProvidesServices() []modular.ServiceProvider {
	return []modular.ServiceProvider{
		{Name: ServiceName, Description: "Per-visitor session store", Instance: m.store},
	}
}

// Store returns the session store. It is nil before Init.
func (m *Module) Store() *session.Store {
	return m.store
}

// Config returns the loaded section. It is nil before Init.
func (m *Module) Config() *SessionsConfig {
	return m.config
}

func (m *Module) onSubmitted(sessionID string, sub contactform.Submission) {
	m.logger.Info("Contact message received",
		"session", sessionID,
		"submission", sub.ID.String(),
		"company", sub.Fields.Company)
}

// publish turns a session change into a CloudEvent on the application
// subject.
func (m *Module) publish(eventType string, data map[string]any) {
	m.mu.RLock()
	subject := m.subject
	m.mu.RUnlock()
	if subject == nil {
		return
	}
	event := modular.NewCloudEvent(eventType, "sessions-service", data, nil)
	if err := m.EmitEvent(context.Background(), event); err != nil {
		m.logger.Debug("Failed to emit session event", "eventType", eventType, "error", err)
	}
}

// RegisterObservers keeps the subject for publishing. The content reload
// subscription waits until the store exists, whichever of Init and
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
	if subject == nil || m.store == nil || m.observing {
		m.mu.Unlock()
		return nil
	}
	m.observing = true
	m.mu.Unlock()

	if err := subject.RegisterObserver(m, contentwatch.EventTypeContentReloaded); err != nil {
		return fmt.Errorf("sessions: register observer: %w", err)
	}
	return nil
}

func (m *Module) EmitEvent(ctx context.Context, event cloudevents.Event) error {
	m.mu.RLock()
	subject := m.subject
	m.mu.RUnlock()
	if subject == nil {
		return ErrNoSubjectForEventEmission
	}
	if err := subject.NotifyObservers(ctx, event); err != nil {
		return fmt.Errorf("failed to notify observers: %w", err)
	}
	return nil
}

// OnEvent implements modular.Observer.
func (m *Module) OnEvent(ctx context.Context, event cloudevents.Event) error {
	if event.Type() != contentwatch.EventTypeContentReloaded {
		return nil
	}
	c := m.catalog.Load()
	if err := m.store.Invalidate(ctx, c); err != nil {
		return fmt.Errorf("sessions: invalidate content: %w", err)
	}
	m.logger.Info("Sessions picked up reloaded content", "sessions", m.store.Len(), "projects", len(c.Projects))
	return nil
}

// ObserverID implements modular.Observer.
func (m *Module) ObserverID() string {
	return ModuleName
}

func (m *Module) GetRegisteredEventTypes() []string {
	return session.EventTypes()
}
