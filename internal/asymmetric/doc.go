// Package asymmetric wraps and unwraps short secrets with RSA-OAEP.
//
// A Wrapper holds up to one RSA key pair. It may hold only the public half
// (enough to Wrap), only the private half (from which the public half is
// derived), both, or neither.
//
// # Parameters
//
// Generated keys are 2048-bit with public exponent 65537. Wrapping uses
// OAEP with SHA-256 for both the hash and MGF1 and an empty label, so the
// largest input is 190 bytes and every wrapped key is 256 bytes.
//
// # Encoding
//
//   - Public keys: PEM "PUBLIC KEY" (SubjectPublicKeyInfo)
//   - Private keys: PEM "RSA PRIVATE KEY" (PKCS#1), not passphrase-protected
//
// ImportPrivate additionally reads PKCS#8 "PRIVATE KEY" blocks and OpenSSH
// private keys, so keys produced by ssh-keygen -t rsa can be used directly.
//
// # Errors
//
// Unwrap reports every failure as ErrUnwrap without the underlying cause, so
// callers cannot learn whether a padding check or a key mismatch failed.
package asymmetric
