package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/envelope/internal/ui"
	"github.com/PolarWolf314/envelope/internal/utils"
	"github.com/PolarWolf314/envelope/internal/workflows"

	"github.com/spf13/cobra"
)

var encryptDryRun bool

func init() {
	encryptCmd.Flags().BoolVar(&encryptDryRun, "dry-run", false, "preview which files would be encrypted without making changes")
}

func resetEncryptCommandState() {
	encryptDryRun = false
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [files...]",
	Short: "Encrypt files with the symmetric key",
	Long: `Encrypts files with the project's symmetric key. Each output is a random
16-byte IV followed by the AES-CBC ciphertext.

Without arguments, paths.initial_file is encrypted to paths.encrypted_file.
Otherwise every matching file is encrypted next to itself with a .enc suffix.
Key files and the .envelope/ directory are always skipped.

Examples:
  envelope files encrypt
  envelope files encrypt config/secrets.yaml
  envelope files encrypt "services/**/*.env"
  envelope files encrypt --dry-run config/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		spinner, cleanup := startSpinner("Encrypting files...", verbose)
		defer cleanup()

		result, err := workflows.Encrypt(context.Background(), workflows.EncryptOptions{
			ConfigPath:   configPath,
			FilePatterns: args,
			DryRun:       encryptDryRun,
			Logger:       Logger,
		})
		if err != nil {
			Logger.Errorf("Encrypt failed: %v", err)
			spinner.FinalMSG = formatError(err)
			if isUnexpectedError(err) {
				return err
			}
			return nil
		}

		if result.DryRun {
			spinner.FinalMSG = ""
			printEncryptDryRun(result)
			return nil
		}

		finalMessage := ui.Success.Sprint("✓") + " Files encrypted successfully!\n" +
			"The following files were created:" + utils.FormatPaths(relativePaths(result.ProjectPath, result.EncryptedFiles)) +
			ui.Info.Sprint("→") + " You can now safely commit the encrypted files to version control"
		spinner.FinalMSG = finalMessage
		return nil
	},
}

func printEncryptDryRun(result *workflows.EncryptResult) {
	fmt.Println(ui.Warning.Sprint("[dry-run]") + " Would encrypt " + utils.Pluralize(len(result.SourceFiles), "file"))
	fmt.Println()
	printDryRunPairs(result.ProjectPath, result.SourceFiles, result.EncryptedFiles)
	printDryRunOverwrites(result.ProjectPath, result.ExistingFiles)
	fmt.Println()
	fmt.Println("No changes made. Run without " + ui.Flag.Sprint("--dry-run") + " to execute.")
}

func printDryRunPairs(projectPath string, sources, outputs []string) {
	fmt.Println("Files:")
	for i := range sources {
		fmt.Printf("  %s → %s\n", ui.Path.Sprint(relativePath(projectPath, sources[i])), ui.Success.Sprint(relativePath(projectPath, outputs[i])))
	}
}

func printDryRunOverwrites(projectPath string, existing []string) {
	if len(existing) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(ui.Warning.Sprint("⚠") + " These files already exist and would be overwritten:")
	for _, path := range existing {
		fmt.Printf("  %s\n", ui.Path.Sprint(relativePath(projectPath, path)))
	}
}

// relativePath shortens path to be relative to the project when it lies inside it.
func relativePath(projectPath, path string) string {
	rel, err := filepath.Rel(projectPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func relativePaths(projectPath string, paths []string) []string {
	out := make([]string, len(paths))
	for i, path := range paths {
		out[i] = relativePath(projectPath, path)
	}
	return out
}
