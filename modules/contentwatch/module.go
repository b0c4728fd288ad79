// Package contentwatch loads the content catalog and keeps it current.
//
// The module provides "content.store". When a content file is configured
// with watch enabled, Start runs a content.Watcher that swaps each valid
// revision into the store and emits EventTypeContentReloaded so other
// modules can react.
package contentwatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GoCodeAlone/modular"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/GoCodeAlone/verdant/content"
)

const (
	ModuleName  = "contentwatch"
	ServiceName = "content.store"
)

type Module struct {
	config  *ContentWatchConfig
	logger  modular.Logger
	subject modular.Subject

	store   *content.Store
	watcher *content.Watcher

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewModule() modular.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return ModuleName
}

// RegisterConfig registers the defaults unless the application already
// supplied a section, as embedding programs and tests do.
func (m *Module) RegisterConfig(app modular.Application) error {
	if _, err := app.GetConfigSection(ModuleName); err == nil {
		return nil
	}
	app.RegisterConfigSection(ModuleName, modular.NewStdConfigProvider(&ContentWatchConfig{
		Watch:    true,
		Debounce: content.DefaultDebounce,
	}))
	return nil
}

// Init loads the catalog. A configured file that fails to load fails
// startup; there is no previous catalog to fall back to yet.
func (m *Module) Init(app modular.Application) error {
	m.logger = app.Logger()

	cp, err := app.GetConfigSection(ModuleName)
	if err != nil {
		return fmt.Errorf("failed to get config section '%s': %w", ModuleName, err)
	}
	m.config = cp.GetConfig().(*ContentWatchConfig)

	var c *content.Content
	if m.config.Path == "" {
		c, err = content.Default()
	} else {
		c, err = content.Load(m.config.Path)
	}
	if err != nil {
		return fmt.Errorf("contentwatch: %w", err)
	}
	m.store = content.NewStore(c)

	if m.config.Path != "" && m.config.Watch {
		m.watcher, err = content.NewWatcher(m.config.Path, m.store,
			content.WithDebounce(m.config.Debounce),
			content.WithLogger(m.logger),
			content.WithReloadHandler(m.onReload, m.onReloadFailed),
		)
		if err != nil {
			return fmt.Errorf("contentwatch: %w", err)
		}
	}

	m.logger.Info("Content catalog loaded",
		"source", m.source(),
		"services", len(c.Services),
		"projects", len(c.Projects),
		"watch", m.watcher != nil)
	return nil
}

func (m *Module) Start(ctx context.Context) error {
	m.emitEvent(ctx, EventTypeContentLoaded, map[string]interface{}{
		"source":   m.source(),
		"projects": len(m.store.Load().Projects),
	})
	if m.watcher == nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.watcher.Run(runCtx); err != nil {
			m.logger.Error("Content watcher stopped", "path", m.watcher.Path(), "error", err)
		}
	}()
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.wg.Wait()
	return nil
}

func (m *Module) ProvidesServices() []modular.ServiceProvider {
	return []modular.ServiceProvider{
		{Name: ServiceName, Description: "Current content catalog", Instance: m.store},
	}
}

func (m *Module) RequiresServices() []modular.ServiceDependency {
	return nil
}

// Store returns the catalog store. It is nil before Init.
func (m *Module) Store() *content.Store {
	return m.store
}

// Reload rereads the configured file immediately.
func (m *Module) Reload() (*content.Content, error) {
	if m.watcher == nil {
		return m.store.Load(), nil
	}
	c, err := m.watcher.Reload()
	if err != nil {
		return nil, fmt.Errorf("contentwatch reload: %w", err)
	}
	return c, nil
}

func (m *Module) source() string {
	if m.config.Path == "" {
		return "embedded"
	}
	return m.config.Path
}

func (m *Module) onReload(c *content.Content) {
	m.emitEvent(context.Background(), EventTypeContentReloaded, map[string]interface{}{
		"path":        m.config.Path,
		"projects":    len(c.Projects),
		"reloaded_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (m *Module) onReloadFailed(err error) {
	m.emitEvent(context.Background(), EventTypeContentReloadFailed, map[string]interface{}{
		"path":  m.config.Path,
		"error": err.Error(),
	})
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
	if err := m.EmitEvent(ctx, modular.NewCloudEvent(eventType, "contentwatch-service", data, nil)); err != nil {
		m.logger.Debug("Failed to emit content event", "eventType", eventType, "error", err)
	}
}

func (m *Module) GetRegisteredEventTypes() []string {
	return []string{EventTypeContentLoaded, EventTypeContentReloaded, EventTypeContentReloadFailed}
}
