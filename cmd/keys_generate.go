package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envelope/internal/ui"
	"github.com/PolarWolf314/envelope/internal/utils"
	"github.com/PolarWolf314/envelope/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	generateForce     bool
	generateBits      int
	generateCustomKey string
)

func init() {
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "overwrite existing key files")
	generateCmd.Flags().IntVarP(&generateBits, "bits", "b", 0, "symmetric key size: 128, 192 or 256 (default: keys.symmetric_bits)")
	generateCmd.Flags().StringVar(&generateCustomKey, "custom-key", "", "use the raw key in this file instead of a random one")
}

func resetGenerateCommandState() {
	generateForce = false
	generateBits = 0
	generateCustomKey = ""
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the symmetric key and RSA key pair",
	Long: `Generates a random symmetric key and a 2048-bit RSA key pair and writes them
to the paths in envelope.toml.

The private key is written with 0600 permissions. Existing key files are
never replaced unless --force is given.

Examples:
  envelope keys generate
  envelope keys generate --bits 128
  envelope keys generate --custom-key ./my.key --force`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting generate command")
	spinner, cleanup := startSpinner("Generating keys...", verbose)
	defer cleanup()

	result, err := workflows.Generate(context.Background(), workflows.GenerateOptions{
		ConfigPath:    configPath,
		Bits:          generateBits,
		CustomKeyPath: generateCustomKey,
		Force:         generateForce,
		Logger:        Logger,
	})
	if err != nil {
		Logger.Errorf("Generate failed: %v", err)
		spinner.FinalMSG = formatError(err)
		if isUnexpectedError(err) {
			return err
		}
		return nil
	}

	for _, path := range result.Overwritten {
		Logger.Infof("Replaced %s", path)
	}

	source := "random"
	if result.CustomKey {
		source = "custom"
	}
	finalMessage := ui.Success.Sprint("✓") + " Keys generated successfully!\n" +
		fmt.Sprintf("  Symmetric key: %s (%d-bit, %s)\n", ui.Path.Sprint(result.SymmetricKeyPath), result.Bits, source) +
		"  Public key:    " + ui.Path.Sprint(result.PublicKeyPath) + "\n" +
		"  Private key:   " + ui.Path.Sprint(result.PrivateKeyPath) + "\n" +
		"  Fingerprint:   " + ui.Fingerprint.Sprint(result.Fingerprint) + "\n"
	if n := len(result.Overwritten); n > 0 {
		finalMessage += ui.Warning.Sprint("⚠") + fmt.Sprintf(" Replaced %s\n", utils.Pluralize(n, "existing key file"))
	}
	finalMessage += ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envelope keys wrap") + " to share the symmetric key"

	spinner.FinalMSG = finalMessage
	return nil
}
