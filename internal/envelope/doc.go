// Package envelope composes the symmetric and asymmetric engines into
// envelope encryption.
//
// A Session encrypts file contents with a symmetric key and wraps that key
// with an RSA public key so it can be stored next to the data. Key material
// is persisted through a KeyStore; the Session itself never sees file paths.
//
// # Operations
//
//   - Generate: create a key pair and a symmetric key and persist all three
//   - EncryptFile / DecryptFile: bulk data under the symmetric key
//   - WrapKey / UnwrapKey: protect and recover the symmetric key
//
// The operations may be called in any order; each one loads the key it needs
// from the KeyStore on first use and fails with ErrMissingKey if it is not
// there.
//
// A Session is not safe for concurrent use. Call Close when done so held
// keys are zeroed.
package envelope
