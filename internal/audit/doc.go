// Package audit records envelope operations in a JSON Lines file.
//
// Every key generation, file encryption or decryption, and key wrap or unwrap
// appends one entry to the log named by paths.audit_log in envelope.toml
// (".envelope/audit.jsonl" by default). Leaving the path empty disables
// auditing.
//
// Each entry carries:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Session ID, a UUID shared by every entry of one process
//   - User and host name
//   - Operation name and operation-specific details
//
// Key material is never written to the log; only file paths and public key
// fingerprints are.
//
// # Usage
//
//	entry := audit.NewEntry(audit.OpEncrypt)
//	entry.Files = encryptedFiles
//	audit.Log(entry)
//
// Logging is best-effort. If it fails the operation continues. ReadEntries
// skips malformed lines left by partial writes.
package audit
