package cmd

import (
	"github.com/spf13/cobra"
)

// FilesCmd groups the file encryption commands.
var FilesCmd = &cobra.Command{
	Use:   "files",
	Short: "Encrypt and decrypt files",
	Long: `Encrypts and decrypts files with the project's symmetric key.

Without arguments, the files named in envelope.toml are used
(paths.initial_file, paths.encrypted_file and paths.decrypted_file).
Arguments may be files, directories or glob patterns (** is supported),
relative to the directory containing envelope.toml.`,
}

func init() {
	addProjectFlags(FilesCmd)

	FilesCmd.AddCommand(encryptCmd)
	FilesCmd.AddCommand(decryptCmd)
}

// GetFilesCmd returns the FilesCmd for testing.
func GetFilesCmd() *cobra.Command {
	return FilesCmd
}
