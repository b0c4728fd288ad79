// Package site serves the pages and the session JSON API.
//
// Each visitor is tracked by a cookie naming their session. Page requests
// navigate the session to the requested path and render the resulting
// snapshot; API requests feed browser events (layout, scroll, filter,
// contact, gallery) into the same session and answer with the snapshot.
package site

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/GoCodeAlone/modular"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/GoCodeAlone/verdant/content"
	"github.com/GoCodeAlone/verdant/modules/contentwatch"
	"github.com/GoCodeAlone/verdant/modules/sessions"
	"github.com/GoCodeAlone/verdant/modules/sitemux"
	"github.com/GoCodeAlone/verdant/navigation"
	"github.com/GoCodeAlone/verdant/session"
)

const ModuleName = "site"

type Module struct {
	config  *SiteConfig
	router  chi.Router
	store   *session.Store
	catalog *content.Store
	table   *navigation.Table

	cookieName   string
	submitDelay  time.Duration
	successDelay time.Duration
	limiter      *rate.Limiter

	logger  modular.Logger
	subject modular.Subject
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
	app.RegisterConfigSection(ModuleName, modular.NewStdConfigProvider(&SiteConfig{
		ContactRate:  1,
		ContactBurst: 5,
		MaxBodyBytes: 64 << 10,
	}))
	return nil
}

func (m *Module) Dependencies() []string {
	return []string{sitemux.ModuleName, sessions.ModuleName, contentwatch.ModuleName}
}

func (m *Module) RequiresServices() []modular.ServiceDependency {
	return []modular.ServiceDependency{
		{
			Name:               sitemux.ChiRouterServiceName,
			Required:           true,
			SatisfiesInterface: reflect.TypeOf((*chi.Router)(nil)).Elem(),
		},
		{Name: sessions.ServiceName, Required: true, Type: reflect.TypeOf((*session.Store)(nil))},
		{Name: contentwatch.ServiceName, Required: true, Type: reflect.TypeOf((*content.Store)(nil))},
	}
}

func (m *Module) ProvidesServices() []modular.ServiceProvider {
	return nil
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
		catalog, ok := services[contentwatch.ServiceName].(*content.Store)
		if !ok {
			return nil, fmt.Errorf("%w. Detected type: %T", ErrContentStoreInvalidType, services[contentwatch.ServiceName])
		}
		m.router = router
		m.store = store
		m.catalog = catalog
		return m, nil
	}
}

// Init reads both its own section and the sessions section, which owns the
// cookie name and the contact timings, then registers every route.
func (m *Module) Init(app modular.Application) error {
	m.logger = app.Logger()
	m.table = navigation.DefaultTable()

	cp, err := app.GetConfigSection(ModuleName)
	if err != nil {
		return fmt.Errorf("failed to get config section '%s': %w", ModuleName, err)
	}
	m.config = cp.GetConfig().(*SiteConfig)

	scp, err := app.GetConfigSection(sessions.ModuleName)
	if err != nil {
		return fmt.Errorf("failed to get config section '%s': %w", sessions.ModuleName, err)
	}
	scfg, ok := scp.GetConfig().(*sessions.SessionsConfig)
	if !ok {
		return fmt.Errorf("%w. Detected type: %T", ErrSessionsConfigMissing, scp.GetConfig())
	}
	m.cookieName = scfg.CookieName
	m.submitDelay = scfg.SubmitDelay
	m.successDelay = scfg.SuccessDelay

	m.limiter = rate.NewLimiter(rate.Limit(m.config.ContactRate), m.config.ContactBurst)

	m.registerRoutes()
	m.logger.Info("Site routes registered", "routes", len(m.table.Routes()), "cookie", m.cookieName)
	return nil
}

func (m *Module) registerRoutes() {
	m.router.Get("/health", m.handleHealth)

	for _, route := range m.table.Routes() {
		m.router.Get(route.Pattern, m.handlePage)
	}
	m.router.Post("/contact", m.handleContactPost)
	m.router.NotFound(m.handlePage)

	m.router.Route("/api/session", func(r chi.Router) {
		r.Get("/", m.apiSnapshot)
		r.Post("/navigate", m.apiNavigate)
		r.Post("/layout", m.apiLayout)
		r.Post("/scroll", m.apiScroll)
		r.Post("/filter", m.apiFilter)
		r.Post("/contact", m.apiContact)
		r.Post("/gallery/next", m.apiGalleryNext)
		r.Post("/gallery/prev", m.apiGalleryPrev)
		r.Post("/gallery/show", m.apiGalleryShow)
	})
}

// refreshSeconds is how long the contact page waits before reloading to
// pick up the next phase of a submission.
func refreshSeconds(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 1)
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
	if err := m.EmitEvent(ctx, modular.NewCloudEvent(eventType, "site-service", data, nil)); err != nil {
		m.logger.Debug("Failed to emit site event", "eventType", eventType, "error", err)
	}
}

func (m *Module) GetRegisteredEventTypes() []string {
	return []string{EventTypePageRendered, EventTypeContactThrottled}
}
