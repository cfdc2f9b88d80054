// Package workflows provides high-level orchestration for envelope commands.
//
// Workflows coordinate multiple operations across packages (configs,
// keystore, envelope, audit) to implement complete user-facing features.
// Each workflow handles a single command's business logic, independent of
// CLI concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Locating and loading envelope.toml
//   - Building the file-backed key store it describes
//   - Driving an envelope.Session through the operation
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Generate: Creates the symmetric key and RSA key pair
//   - Encrypt: Encrypts files with the symmetric key
//   - Decrypt: Decrypts files with the symmetric or unwrapped key
//   - WrapKey: Wraps the symmetric key for a recipient's public key
//   - UnwrapKey: Recovers a wrapped key with the private key
//   - InitConfig, ShowConfig, MigrateConfig: Manage envelope.toml
//   - Log: Reads the audit trail
//   - Doctor: Runs project health checks
//
// # Error Handling
//
// Workflows return sentinel errors from the internal/errors package, so the
// CLI layer can pick a message with errors.Is() instead of string matching:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrPadding) {
//	    // The key does not match the ciphertext
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// The context is checked before any file is touched.
package workflows
