package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/envelope/internal/workflows"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configInitForce bool
	configInitBits  int
	configInitDir   string
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing envelope.toml")
	configInitCmd.Flags().IntVarP(&configInitBits, "bits", "b", 0, "symmetric key size: 128, 192 or 256 (default 256)")
	configInitCmd.Flags().StringVar(&configInitDir, "dir", "", "directory to create envelope.toml in (default: current directory)")
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitForce = false
	configInitBits = 0
	configInitDir = ""
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create envelope.toml with default paths",
	Long: `Writes an envelope.toml with the default layout:

  keys/symmetric.key, keys/public.pem, keys/private.pem
  keys/symmetric.key.wrapped, keys/symmetric.key.unwrapped
  data/plain.txt, data/plain.txt.enc, data/plain.dec.txt
  .envelope/audit.jsonl

Edit the file afterwards to point at your own locations.

Examples:
  envelope config init
  envelope config init --bits 128
  envelope config init --dir ./deploy --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config init command")
		spinner, cleanup := startSpinnerWithFlags("Writing configuration...", configVerbose, configDebug)
		defer cleanup()

		result, err := workflows.InitConfig(context.Background(), workflows.InitConfigOptions{
			Dir:   configInitDir,
			Bits:  configInitBits,
			Force: configInitForce,
		})
		if errors.Is(err, os.ErrExist) {
			spinner.FinalMSG = color.RedString("✗") + " " + err.Error() + "\n" +
				color.CyanString("→") + " Use " + color.YellowString("--force") + " to overwrite it"
			return nil
		}
		if err != nil {
			ConfigLogger.Errorf("Config init failed: %v", err)
			spinner.FinalMSG = formatError(err)
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		ConfigLogger.Infof("Wrote %s", result.ConfigPath)
		spinner.FinalMSG = color.GreenString("✓") + " Created " + color.YellowString(result.ConfigPath) + "\n" +
			fmt.Sprintf("  Symmetric key size: %d-bit\n", result.Config.Keys.SymmetricBits) +
			color.CyanString("→") + " Run " + color.YellowString("envelope keys generate") + " to create your keys"
		return nil
	},
}
