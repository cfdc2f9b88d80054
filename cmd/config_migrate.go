package cmd

import (
	"context"
	"errors"

	kerrors "github.com/PolarWolf314/envelope/internal/errors"
	"github.com/PolarWolf314/envelope/internal/workflows"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert a legacy path.json to envelope.toml",
	Long: `Converts the nearest legacy path.json into envelope.toml in the same
directory. The original is kept as a timestamped backup, and the new config
enables the audit log.

Example:
  envelope config migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config migrate command")
		spinner, cleanup := startSpinnerWithFlags("Migrating configuration...", configVerbose, configDebug)
		defer cleanup()

		result, err := workflows.MigrateConfig(context.Background(), configFilePath)
		if errors.Is(err, kerrors.ErrInvalidConfig) {
			spinner.FinalMSG = color.YellowString("⚠") + " " + err.Error()
			return nil
		}
		if err != nil {
			ConfigLogger.Errorf("Config migrate failed: %v", err)
			spinner.FinalMSG = formatError(err)
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		spinner.FinalMSG = color.GreenString("✓") + " Migrated " + color.YellowString(result.LegacyPath) + "\n" +
			"  New config: " + color.YellowString(result.ConfigPath) + "\n" +
			"  Backup:     " + color.YellowString(result.BackupPath) + "\n" +
			color.CyanString("→") + " You can delete the backup once everything works"
		return nil
	},
}
