package cmd

import (
	"fmt"

	"github.com/GoCodeAlone/modular"
	"github.com/spf13/cobra"

	"github.com/GoCodeAlone/verdant/modules/contentwatch"
	"github.com/GoCodeAlone/verdant/modules/metrics"
	"github.com/GoCodeAlone/verdant/modules/sessions"
	"github.com/GoCodeAlone/verdant/modules/site"
	"github.com/GoCodeAlone/verdant/modules/sitemux"
	"github.com/GoCodeAlone/verdant/modules/webserver"
)

// SampleConfig gathers every module section under its config key so that
// one sample file covers the whole application.
type SampleConfig struct {
	WebServer    webserver.WebServerConfig       `yaml:"webserver" toml:"webserver" json:"webserver"`
	SiteMux      sitemux.SiteMuxConfig           `yaml:"sitemux" toml:"sitemux" json:"sitemux"`
	ContentWatch contentwatch.ContentWatchConfig `yaml:"contentwatch" toml:"contentwatch" json:"contentwatch"`
	Sessions     sessions.SessionsConfig         `yaml:"sessions" toml:"sessions" json:"sessions"`
	Site         site.SiteConfig                 `yaml:"site" toml:"site" json:"site"`
	Metrics      metrics.MetricsConfig           `yaml:"metrics" toml:"metrics" json:"metrics"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.AddCommand(newConfigSampleCommand())
	return cmd
}

func newConfigSampleCommand() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a sample config with every default filled in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				if err := modular.SaveSampleConfig(&SampleConfig{}, format, output); err != nil {
					return fmt.Errorf("save sample config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sample config written to %s\n", output)
				return nil
			}
			data, err := modular.GenerateSampleConfig(&SampleConfig{}, format)
			if err != nil {
				return fmt.Errorf("generate sample config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml, toml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
