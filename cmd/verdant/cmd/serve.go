package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/GoCodeAlone/modular"
	"github.com/GoCodeAlone/modular/feeders"
	"github.com/spf13/cobra"

	"github.com/GoCodeAlone/verdant/modules/contentwatch"
	"github.com/GoCodeAlone/verdant/modules/metrics"
	"github.com/GoCodeAlone/verdant/modules/sessions"
	"github.com/GoCodeAlone/verdant/modules/site"
	"github.com/GoCodeAlone/verdant/modules/sitemux"
	"github.com/GoCodeAlone/verdant/modules/webserver"
)

var (
	ErrUnknownConfigFormat = errors.New("unknown config file format")
	ErrUnknownLogFormat    = errors.New("unknown log format")
	ErrUnknownLogLevel     = errors.New("unknown log level")
)

type serveOptions struct {
	configPath string
	logFormat  string
	logLevel   string
}

// NewServeCommand creates the command that runs the site until the command
// context is cancelled.
func NewServeCommand() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the site server",
		Long: `Run the site server. Configuration is read from the optional config file
(YAML, TOML or JSON, chosen by extension) and then from the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logFormat, opts.logLevel)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), opts.configPath, logger)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML, TOML or JSON config file")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	return cmd
}

func runServe(ctx context.Context, configPath string, logger *slog.Logger) error {
	app, err := NewApplication(configPath, logger)
	if err != nil {
		return err
	}
	if err := app.Init(); err != nil {
		return fmt.Errorf("initialise application: %w", err)
	}
	if err := app.Start(); err != nil {
		return fmt.Errorf("start application: %w", err)
	}

	<-ctx.Done()
	logger.Info("Shutting down", "reason", context.Cause(ctx))
	if err := app.Stop(); err != nil {
		return fmt.Errorf("stop application: %w", err)
	}
	return nil
}

// NewApplication builds the application with every site module registered.
// The config feeders are installed globally, as modular reads them from
// modular.ConfigFeeders during Init.
func NewApplication(configPath string, logger *slog.Logger) (modular.Application, error) {
	fs, err := configFeeders(configPath)
	if err != nil {
		return nil, err
	}
	modular.ConfigFeeders = fs

	app := modular.NewObservableApplication(modular.NewStdConfigProvider(&struct{}{}), logger)
	app.RegisterModule(sitemux.NewSiteMuxModule())
	app.RegisterModule(webserver.NewWebServer())
	app.RegisterModule(contentwatch.NewModule())
	app.RegisterModule(sessions.NewModule())
	app.RegisterModule(site.NewModule())
	app.RegisterModule(metrics.NewModule())
	return app, nil
}

func configFeeders(path string) ([]modular.Feeder, error) {
	if path == "" {
		return []modular.Feeder{feeders.NewEnvFeeder()}, nil
	}
	var file modular.Feeder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		file = feeders.NewYamlFeeder(path)
	case ".toml":
		file = feeders.NewTomlFeeder(path)
	case ".json":
		file = feeders.NewJSONFeeder(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownConfigFormat, path)
	}
	return []modular.Feeder{file, feeders.NewEnvFeeder()}, nil
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
	}
}
