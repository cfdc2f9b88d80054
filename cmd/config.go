package cmd

import (
	logger "github.com/PolarWolf314/envelope/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configVerbose  bool
	configDebug    bool
	configFilePath string
	ConfigLogger   logger.Logger

	// ConfigCmd is the top-level config command.
	ConfigCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage envelope.toml",
		Long: `Provides commands for creating and inspecting the project configuration.

envelope.toml names the file behind every key and data path. Relative paths
are resolved against the directory containing envelope.toml.

Examples:
  # Create envelope.toml in the current directory
  envelope config init

  # Show the resolved configuration
  envelope config show

  # Convert a legacy path.json to envelope.toml
  envelope config migrate`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ConfigLogger = logger.Logger{
				Verbose: configVerbose,
				Debug:   configDebug,
			}
			ConfigLogger.Debugf("Initializing config command with verbose=%t, debug=%t", configVerbose, configDebug)
		},
	}
)

func init() {
	ConfigCmd.PersistentFlags().BoolVarP(&configVerbose, "verbose", "v", false, "enable verbose output")
	ConfigCmd.PersistentFlags().BoolVarP(&configDebug, "debug", "d", false, "enable debug output")
	ConfigCmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "path to envelope.toml (default: search upwards, or $ENVELOPE_CONFIG)")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configMigrateCmd)
}

// GetConfigCmd returns the ConfigCmd for testing.
func GetConfigCmd() *cobra.Command {
	return ConfigCmd
}

// ResetConfigState resets all config command global variables to their default values for testing.
func ResetConfigState() {
	configVerbose = false
	configDebug = false
	configFilePath = ""
	resetConfigInitState()
	resetConfigShowState()
	resetCobraFlagState(ConfigCmd)
}
