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
	decryptDryRun       bool
	decryptUnwrappedKey bool
)

func init() {
	decryptCmd.Flags().BoolVar(&decryptDryRun, "dry-run", false, "preview which files would be decrypted without making changes")
	decryptCmd.Flags().BoolVar(&decryptUnwrappedKey, "unwrapped-key", false, "decrypt with paths.decrypted_key (from 'envelope keys unwrap')")
}

func resetDecryptCommandState() {
	decryptDryRun = false
	decryptUnwrappedKey = false
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [files...]",
	Short: "Decrypt files with the symmetric key",
	Long: `Decrypts files produced by 'envelope files encrypt'.

Without arguments, paths.encrypted_file is decrypted to paths.decrypted_file.
Otherwise every matching .enc file is decrypted next to itself with the
suffix removed. Decrypted files are written with 0600 permissions.

A file encrypted with a different key normally fails with a padding error,
but can occasionally decrypt to garbage instead.

Examples:
  envelope files decrypt
  envelope files decrypt --unwrapped-key
  envelope files decrypt "services/**/*.enc"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		spinner, cleanup := startSpinner("Decrypting files...", verbose)
		defer cleanup()

		result, err := workflows.Decrypt(context.Background(), workflows.DecryptOptions{
			ConfigPath:      configPath,
			FilePatterns:    args,
			UseUnwrappedKey: decryptUnwrappedKey,
			DryRun:          decryptDryRun,
			Logger:          Logger,
		})
		if err != nil {
			Logger.Errorf("Decrypt failed: %v", err)
			spinner.FinalMSG = formatError(err)
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		if result.DryRun {
			spinner.FinalMSG = ""
			fmt.Println(ui.Warning.Sprint("[dry-run]") + " Would decrypt " + utils.Pluralize(len(result.SourceFiles), "file"))
			fmt.Println()
			printDryRunPairs(result.ProjectPath, result.SourceFiles, result.DecryptedFiles)
			printDryRunOverwrites(result.ProjectPath, result.ExistingFiles)
			fmt.Println()
			fmt.Println("No changes made. Run without " + ui.Flag.Sprint("--dry-run") + " to execute.")
			return nil
		}

		finalMessage := ui.Success.Sprint("✓") + " Files decrypted successfully!\n" +
			"The following files were created:" + utils.FormatPaths(relativePaths(result.ProjectPath, result.DecryptedFiles)) +
			ui.Warning.Sprint("⚠") + " Do not commit the decrypted files to version control"
		spinner.FinalMSG = finalMessage
		return nil
	},
}
