// Package keystore stores envelope key material on disk and finds the data
// files commands operate on.
//
// FileStore implements envelope.KeyStore with one file per key, at the paths
// named in envelope.toml. Secret material (symmetric, private and unwrapped
// keys) is written 0600 and public material 0644; parent directories are
// created 0700. Loading a slot whose path is not configured fails with an
// error matching both ErrPathNotConfigured and fs.ErrNotExist, so the
// orchestrator reports it as a missing key.
//
// ResolveFiles expands file arguments for batch encryption and decryption.
// Directories are walked, globs support ** via doublestar, and the .envelope
// state directory is always skipped.
package keystore
