package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envelope/internal/ui"
	"github.com/PolarWolf314/envelope/internal/workflows"

	"github.com/spf13/cobra"
)

var wrapCmd = &cobra.Command{
	Use:   "wrap",
	Short: "Wrap the symmetric key with the public key",
	Long: `Encrypts the symmetric key with the public key (RSA-OAEP, SHA-256) and
writes the result to paths.encrypted_key.

The wrapped key can be shared alongside encrypted files. Only the holder of
the matching private key can recover it with 'envelope keys unwrap'.

To wrap for someone else, point paths.public_key at their public key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting wrap command")
		spinner, cleanup := startSpinner("Wrapping symmetric key...", verbose)
		defer cleanup()

		result, err := workflows.WrapKey(context.Background(), workflows.WrapOptions{
			ConfigPath: configPath,
			Logger:     Logger,
		})
		if err != nil {
			Logger.Errorf("Wrap failed: %v", err)
			spinner.FinalMSG = formatError(err)
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		finalMessage := ui.Success.Sprint("✓") + " Symmetric key wrapped successfully!\n" +
			fmt.Sprintf("  Wrapped key: %s (%s)\n", ui.Path.Sprint(result.WrappedKeyPath), ui.FormatSize(int64(result.Size))) +
			"  Recipient:   " + ui.Fingerprint.Sprint(result.Fingerprint) + "\n" +
			ui.Info.Sprint("→") + " You can now safely share " + ui.Path.Sprint(result.WrappedKeyPath)
		spinner.FinalMSG = finalMessage
		return nil
	},
}
