// Package cmd contains all CLI commands for site-admin.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-site-backend/internal/backend"
	"github.com/sirosfoundation/go-site-backend/internal/routing"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
	"github.com/sirosfoundation/go-site-backend/pkg/config"
	"github.com/sirosfoundation/go-site-backend/pkg/logging"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// console holds what every command needs once the pre-run phase has finished
type console struct {
	configFile string
	output     string

	cfg        *config.Config
	logger     *zap.Logger
	store      storage.Store
	router     *routing.RequestContext
	configured bool
}

// setup loads configuration, opens the settings store and points the router
// context at the project URL. It runs before every command.
func (c *console) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	c.cfg = cfg

	logger, err := logging.NewLogger(logging.FromConfig(cfg.Logging))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger

	store, err := backend.New(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}
	c.store = store

	c.router = routing.NewRequestContext()
	configurer := routing.NewConfigurer(store.Settings(), cfg.Router.DefaultURI, c.router, logger)
	c.configured = configurer.Configure(cmd.Context())
	return nil
}

func (c *console) teardown(_ *cobra.Command, _ []string) error {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

func (c *console) jsonOutput() bool {
	return c.output == "json"
}

// NewRootCmd builds the site-admin command tree
func NewRootCmd() *cobra.Command {
	c := &console{}

	rootCmd := &cobra.Command{
		Use:   "site-admin",
		Short: "Console for managing a site project",
		Long: `site-admin inspects and changes the settings of a site project.

Before any command runs, the router context is pointed at the project URL
(the core.url setting, or router.default_uri from the configuration) so that
generated URLs are absolute.

Examples:
  # Show the locales with translation files
  site-admin locales

  # Show which template renders a 404 page
  site-admin error-template 404

  # Build an absolute URL
  site-admin url /blog/feed.xml

  # Change a setting
  site-admin settings set core.url https://www.example.com

Environment Variables:
  SITE_ADMIN_CONFIG        Path to the configuration file (default: configs/config.yaml)
  SITE_ROUTER_DEFAULT_URI  Base URI used when core.url is not a valid URL`,
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}

	rootCmd.PersistentFlags().StringVarP(&c.configFile, "config", "c", getEnvOrDefault("SITE_ADMIN_CONFIG", "configs/config.yaml"), "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&c.output, "output", "o", "table", "Output format: table, json")

	rootCmd.AddCommand(
		newLocalesCmd(c),
		newErrorTemplateCmd(c),
		newURLCmd(c),
		newSettingsCmd(c),
		newVersionCmd(c),
	)
	return rootCmd
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// printJSON marshals v with indentation
func printJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var formatted bytes.Buffer
	if err := json.Indent(&formatted, data, "", "  "); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, formatted.String())
	return err
}

// printTable prints data in a simple table format
func printTable(w io.Writer, headers []string, rows [][]string) {
	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, 0, len(cells))
		for i, cell := range cells {
			if i < len(widths) {
				parts = append(parts, fmt.Sprintf("%-*s", widths[i], cell))
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	separators := make([]string, len(headers))
	for i := range headers {
		separators[i] = strings.Repeat("-", widths[i])
	}
	printRow(separators)
	for _, row := range rows {
		printRow(row)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
