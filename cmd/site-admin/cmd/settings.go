package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
	"github.com/sirosfoundation/go-site-backend/internal/storage"
	"github.com/sirosfoundation/go-site-backend/pkg/uri"
)

func newSettingsCmd(c *console) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change project settings",
	}

	settingsCmd.AddCommand(
		newSettingsListCmd(c),
		newSettingsGetCmd(c),
		newSettingsSetCmd(c),
		newSettingsDeleteCmd(c),
	)
	return settingsCmd
}

func newSettingsListCmd(c *console) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all settings as dotted keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := c.store.Settings().All(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list settings: %w", err)
			}

			if c.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), settings)
			}

			flat := make(map[string]any)
			flatten("", map[string]any(settings), flat)
			keys := make([]string, 0, len(flat))
			for k := range flat {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			rows := make([][]string, 0, len(keys))
			for _, k := range keys {
				rows = append(rows, []string{k, fmt.Sprint(flat[k])})
			}
			printTable(cmd.OutOrStdout(), []string{"KEY", "VALUE"}, rows)
			return nil
		},
	}
}

func newSettingsGetCmd(c *console) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := c.store.Settings().Get(cmd.Context(), args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("setting %s is not set", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read setting: %w", err)
			}

			if c.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), map[string]any{"key": args[0], "value": value})
			}
			return printValue(cmd, value)
		},
	}
}

func newSettingsSetCmd(c *console) *cobra.Command {
	var raw bool

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change one setting. The value is parsed as YAML, so "true", "42" and
"{a: b}" store a boolean, a number and a map. Use --string to store the text as is.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, err := parseValue(args[1], raw)
			if err != nil {
				return err
			}

			if key == domain.SettingCoreURL && !uri.IsValidValue(value) {
				return fmt.Errorf("%s must be an absolute URL, got %q", key, args[1])
			}

			if err := c.store.Settings().Set(cmd.Context(), key, value); err != nil {
				return fmt.Errorf("failed to set %s: %w", key, err)
			}

			if c.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), map[string]any{"key": key, "value": value})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)
			return err
		},
	}
	setCmd.Flags().BoolVar(&raw, "string", false, "Store the value as a plain string")
	return setCmd
}

func newSettingsDeleteCmd(c *console) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.store.Settings().Delete(cmd.Context(), args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("setting %s is not set", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to delete setting: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return err
		},
	}
}

func parseValue(text string, raw bool) (any, error) {
	if raw {
		return text, nil
	}
	var value any
	if err := yaml.Unmarshal([]byte(text), &value); err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}
	if value == nil {
		return text, nil
	}
	return domain.Normalize(value), nil
}

func printValue(cmd *cobra.Command, value any) error {
	switch v := value.(type) {
	case map[string]any, []any:
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	default:
		_, err := fmt.Fprintln(cmd.OutOrStdout(), v)
		return err
	}
}

func flatten(prefix string, node map[string]any, out map[string]any) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok && len(child) > 0 {
			flatten(key, child, out)
			continue
		}
		out[key] = v
	}
}
