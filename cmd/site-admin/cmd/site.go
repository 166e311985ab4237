package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sirosfoundation/go-site-backend/internal/errorpage"
	"github.com/sirosfoundation/go-site-backend/internal/locale"
	"github.com/sirosfoundation/go-site-backend/internal/theme"
)

func newLocalesCmd(c *console) *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List the locales that have translation files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locales := locale.NewDirScanner(c.cfg.Site.TranslationsDir, c.logger).Available()

			if c.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), map[string]any{"locales": locales})
			}

			rows := make([][]string, 0, len(locales))
			for _, code := range locales {
				isDefault := ""
				if code == locale.DefaultLocale {
					isDefault = "yes"
				}
				rows = append(rows, []string{code, isDefault})
			}
			printTable(cmd.OutOrStdout(), []string{"LOCALE", "DEFAULT"}, rows)
			return nil
		},
	}
}

func newErrorTemplateCmd(c *console) *cobra.Command {
	return &cobra.Command{
		Use:   "error-template <status>",
		Short: "Show the templates tried for an HTTP error status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := strconv.Atoi(args[0])
			if err != nil || status < 100 || status > 599 {
				return fmt.Errorf("invalid status code: %s", args[0])
			}

			settings, err := c.store.Settings().All(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			site := c.cfg.Site
			loader := theme.NewDirLoader(site.TemplatesDir, site.ThemesDir, site.Theme, c.logger)
			resolver := errorpage.NewResolver(loader, site.TemplateSuffix)

			candidates := resolver.Candidates(settings, status)
			resolved, found := resolver.Resolve(settings, status)

			if c.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"status":     status,
					"candidates": candidates,
					"template":   resolved,
					"found":      found,
				})
			}

			rows := make([][]string, 0, len(candidates))
			for i, name := range candidates {
				exists := "no"
				if loader.Exists(name) {
					exists = "yes"
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), name, exists})
			}
			out := cmd.OutOrStdout()
			printTable(out, []string{"#", "TEMPLATE", "EXISTS"}, rows)
			if found {
				fmt.Fprintf(out, "\nResolved: %s\n", resolved)
			} else {
				fmt.Fprintln(out, "\nResolved: none (built-in page)")
			}
			return nil
		},
	}
}

func newURLCmd(c *console) *cobra.Command {
	return &cobra.Command{
		Use:   "url [path]",
		Short: "Print the absolute URL of a site path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			if c.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"url":        c.router.URL(path),
					"base_url":   c.router.BaseURL(),
					"configured": c.configured,
				})
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), c.router.URL(path))
			return err
		},
	}
}

func newVersionCmd(c *console) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"version":    version,
					"build_time": buildTime,
				})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "site-admin %s (built %s)\n", version, buildTime)
			return err
		},
	}
}
