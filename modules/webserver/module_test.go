package webserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/GoCodeAlone/modular"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/verdant/modules/sitemux"
)

func newTestApp(t *testing.T) modular.Application {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := modular.NewStdApplication(modular.NewStdConfigProvider(&struct{}{}), logger)
	app.RegisterModule(sitemux.NewSiteMuxModule())
	app.RegisterModule(NewWebServer())
	require.NoError(t, app.Init())

	cp, err := app.GetConfigSection(ModuleName)
	require.NoError(t, err)
	cfg := cp.GetConfig().(*WebServerConfig)
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	return app
}

func TestWebServer_ServesRouter(t *testing.T) {
	app := newTestApp(t)

	var r chi.Router
	require.NoError(t, app.GetService(sitemux.ChiRouterServiceName, &r))
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	require.NoError(t, app.Start())
	t.Cleanup(func() { _ = app.Stop() })

	var srv *Module
	require.NoError(t, app.GetService(ModuleName, &srv))
	addr, err := srv.Addr()
	require.NoError(t, err)

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", addr))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestWebServer_StopIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Start())

	var srv *Module
	require.NoError(t, app.GetService(ModuleName, &srv))
	require.NoError(t, srv.Stop(context.Background()))
	require.NoError(t, srv.Stop(context.Background()))

	_, err := srv.Addr()
	assert.ErrorIs(t, err, ErrServerNotStarted)
}

func TestWebServerConfig_Validate(t *testing.T) {
	assert.NoError(t, (&WebServerConfig{Port: 8080}).Validate())
	assert.ErrorIs(t, (&WebServerConfig{Port: 70000}).Validate(), ErrInvalidPort)
	assert.ErrorIs(t, (&WebServerConfig{ReadTimeout: -1}).Validate(), ErrInvalidTimeout)
	assert.Equal(t, "127.0.0.1:80", (&WebServerConfig{Host: "127.0.0.1", Port: 80}).Address())
}
