package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envelope/internal/ui"
	"github.com/PolarWolf314/envelope/internal/utils"
	"github.com/PolarWolf314/envelope/internal/workflows"

	"github.com/spf13/cobra"
)

var unwrapPrivateKeyStdin bool

func init() {
	unwrapCmd.Flags().BoolVar(&unwrapPrivateKeyStdin, "private-key-stdin", false, "read private key from stdin instead of paths.private_key")
}

func resetUnwrapCommandState() {
	unwrapPrivateKeyStdin = false
}

var unwrapCmd = &cobra.Command{
	Use:   "unwrap",
	Short: "Recover the symmetric key with the private key",
	Long: `Decrypts paths.encrypted_key with the private key and writes the recovered
symmetric key to paths.decrypted_key. Use 'envelope files decrypt
--unwrapped-key' to decrypt files with it.

Private Key Input:
  By default, the private key is loaded from paths.private_key. Both PKCS#1
  PEM and OpenSSH private keys are accepted.
  Use --private-key-stdin to read the private key from stdin instead (useful
  for CI/CD pipelines or when the key is stored in a secrets manager).

  When using --private-key-stdin with a passphrase-protected key, the
  passphrase prompt will be read from /dev/tty (or CON on Windows), allowing
  you to pipe the key while still entering the passphrase interactively.

Examples:
  envelope keys unwrap
  cat ~/.ssh/id_rsa | envelope keys unwrap --private-key-stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting unwrap command")
		spinner, cleanup := startSpinner("Unwrapping symmetric key...", verbose)
		defer cleanup()

		// Read private key from stdin early, before anything else can consume stdin.
		var privateKeyData []byte
		if unwrapPrivateKeyStdin {
			Logger.Debugf("Reading private key from stdin")
			keyData, err := utils.ReadStdin()
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read private key from stdin: %v", err)
			}
			privateKeyData = keyData
			Logger.Infof("Read %d bytes of private key data from stdin", len(keyData))
		}

		prompt := utils.PassphrasePrompter("Enter passphrase for private key: ", unwrapPrivateKeyStdin)
		passphrase := func() ([]byte, error) {
			var (
				data []byte
				err  error
			)
			pauseSpinner(spinner, func() {
				data, err = prompt()
			})
			return data, err
		}

		result, err := workflows.UnwrapKey(context.Background(), workflows.UnwrapOptions{
			ConfigPath:     configPath,
			PrivateKeyData: privateKeyData,
			Passphrase:     passphrase,
			Logger:         Logger,
		})
		if err != nil {
			Logger.Errorf("Unwrap failed: %v", err)
			spinner.FinalMSG = formatError(err)
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		if result.PrivateKeyTooOpen {
			pauseSpinner(spinner, func() {
				Logger.WarnfAlways("Private key file has overly permissive permissions (%o), consider running 'chmod 600 %s'",
					result.PrivateKeyMode, result.PrivateKeyPath)
			})
		}

		finalMessage := ui.Success.Sprint("✓") + " Symmetric key unwrapped successfully!\n" +
			fmt.Sprintf("  Recovered key: %s (%s)\n", ui.Path.Sprint(result.UnwrappedKeyPath), ui.Highlight.Sprintf("%d-bit", result.Bits)) +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envelope files decrypt --unwrapped-key") + " to decrypt with it"
		spinner.FinalMSG = finalMessage
		return nil
	},
}
