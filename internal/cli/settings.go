package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ppiankov/jdsort/internal/model"
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change stored application settings",
	Long: `Settings are kept in the database (unlike the config file).

excluded_paths, excluded_extensions and max_file_size_mb control how
directories are enumerated. ai_provider and ai_model choose the inference
backend when llm.provider and llm.model are not configured; changing
ai_provider clears ai_model so the new provider's default model is used.

theme, auto_backup, backup_location, preview_mode and confirm_moves are
stored for desktop clients sharing the database. jdsort never moves files
and does not read them.

Keys: ` + strings.Join(model.SettingKeys, ", "),
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if handled, err := printValue(out, settings); handled {
			return err
		}

		tw := newTable(out)
		tw.AppendHeader(table.Row{"Key", "Value"})
		tw.AppendRows([]table.Row{
			{"theme", settings.Theme},
			{"auto_backup", settings.AutoBackup},
			{"backup_location", settings.BackupLocation},
			{"ai_provider", settings.AIProvider},
			{"ai_model", settings.AIModel},
			{"preview_mode", settings.PreviewMode},
			{"confirm_moves", settings.ConfirmMoves},
			{"max_file_size_mb", settings.MaxFileSizeMB},
			{"excluded_extensions", strings.Join(settings.ExcludedExtensions, ",")},
			{"excluded_paths", strings.Join(settings.ExcludedPaths, ",")},
		})
		tw.Render()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Set changes one stored setting. List values are comma separated.

Example:
  jdsort settings set excluded_paths .git,node_modules,.DS_Store,vendor
  jdsort settings set max_file_size_mb 200`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		settings, err := s.LoadSettings(cmd.Context())
		if err != nil {
			return err
		}
		if err := settings.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := s.SaveSettings(cmd.Context(), settings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

// loadSettings reads the stored settings
func loadSettings(ctx context.Context) (model.Settings, error) {
	s, err := openStore(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	defer func() { _ = s.Close() }()
	return s.LoadSettings(ctx)
}
