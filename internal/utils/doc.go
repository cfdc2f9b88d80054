// Package utils provides small helpers shared by the envelope commands.
//
// # Filesystem
//
//   - FindConfigRoot: walks up directories looking for a config file
//   - FileExists: existence check that surfaces permission errors
//
// # Strings
//
//   - FormatPaths: bullet list of paths for CLI output
//   - Pluralize: "1 file" / "2 files"
//
// # System
//
//   - GetUsername, GetHostname: identity recorded in the audit log
//
// # I/O and Terminal
//
//   - ReadStdin: reads piped data such as a private key
//   - ReadPassphrase, ReadPassphraseFromTTY, PassphrasePrompter: hidden
//     input for passphrase-protected OpenSSH keys
package utils
