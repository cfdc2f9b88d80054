package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/envelope/internal/workflows"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the resolved configuration",
	Long: `Displays the configuration in use, with every path resolved against the
directory containing the config file.

Examples:
  envelope config show
  envelope config show --json
  envelope config show --config ./deploy/envelope.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config show command")
		ConfigLogger.Debugf("Flags: json=%t, config=%q", configShowJSON, configFilePath)

		result, err := workflows.ShowConfig(context.Background(), configFilePath)
		if err != nil {
			ConfigLogger.Errorf("Config show failed: %v", err)
			fmt.Println(formatError(err))
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		if configShowJSON {
			output, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
			}
			fmt.Println(string(output))
			return nil
		}

		outputConfigText(result)
		return nil
	},
}

// outputConfigText outputs the config in human-readable format.
func outputConfigText(result *workflows.ShowConfigResult) {
	fmt.Println(color.CyanString("Configuration") + " (" + result.ConfigPath + "):")
	fmt.Println()
	fmt.Printf("  %-16s %s\n", "Symmetric bits:", color.GreenString("%d", result.Bits))
	fmt.Println()

	rows := []struct {
		label string
		path  string
	}{
		{"symmetric_key", result.Paths.SymmetricKey},
		{"public_key", result.Paths.PublicKey},
		{"private_key", result.Paths.PrivateKey},
		{"initial_file", result.Paths.InitialFile},
		{"encrypted_file", result.Paths.EncryptedFile},
		{"decrypted_file", result.Paths.DecryptedFile},
		{"encrypted_key", result.Paths.EncryptedKey},
		{"decrypted_key", result.Paths.DecryptedKey},
		{"audit_log", result.Paths.AuditLog},
	}
	for _, row := range rows {
		value := color.YellowString(row.path)
		if row.path == "" {
			value = color.HiBlackString("(not set)")
		}
		fmt.Printf("  %-16s %s\n", row.label+":", value)
	}

	if result.Legacy {
		fmt.Println()
		fmt.Println(color.YellowString("⚠") + " This is a legacy path.json config")
		fmt.Println(color.CyanString("→") + " Run " + color.YellowString("envelope config migrate") + " to convert it")
	}
}
