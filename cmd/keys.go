package cmd

import (
	"github.com/spf13/cobra"
)

// KeysCmd groups the key management commands.
var KeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate, wrap and unwrap keys",
	Long: `Manages the keys of an envelope project.

A project has a symmetric key that encrypts files, and an RSA key pair. The
symmetric key can be wrapped with a public key so that it can be shared, and
unwrapped again by whoever holds the matching private key.

Examples:
  # Create the symmetric key and key pair
  envelope keys generate

  # Wrap the symmetric key with the public key
  envelope keys wrap

  # Recover a wrapped key with your private key
  envelope keys unwrap`,
}

func init() {
	addProjectFlags(KeysCmd)

	KeysCmd.AddCommand(generateCmd)
	KeysCmd.AddCommand(wrapCmd)
	KeysCmd.AddCommand(unwrapCmd)
}

// GetKeysCmd returns the KeysCmd for testing.
func GetKeysCmd() *cobra.Command {
	return KeysCmd
}
