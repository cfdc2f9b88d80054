package cmd

import (
	logger "github.com/PolarWolf314/envelope/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	debug      bool
	configPath string
	Logger     logger.Logger
)

// addProjectFlags registers the flags shared by every command that works on
// a project and sets up Logger before the command runs.
func addProjectFlags(c *cobra.Command) {
	c.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	c.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	c.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to envelope.toml (default: search upwards, or $ENVELOPE_CONFIG)")
	c.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
		Logger.Debugf("Initializing %s command with verbose=%t, debug=%t, config=%q", cmd.Name(), verbose, debug, configPath)
	}
}

// Helper functions for testing

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	resetGenerateCommandState()
	resetUnwrapCommandState()
	resetEncryptCommandState()
	resetDecryptCommandState()
	resetLogCommandState()
	resetDoctorCommandState()
	for _, c := range []*cobra.Command{KeysCmd, FilesCmd, LogCmd, DoctorCmd} {
		resetCobraFlagState(c)
	}
}

// resetCobraFlagState clears the Changed marker on every flag of c and its
// subcommands to prevent test pollution.
func resetCobraFlagState(c *cobra.Command) {
	c.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
	c.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
