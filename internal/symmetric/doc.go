// Package symmetric encrypts and decrypts opaque byte payloads with AES in
// CBC mode.
//
// # Format
//
// Every call to Encrypt draws a fresh random 16-byte IV and returns
//
//	IV (16 bytes) || CBC(PKCS#7(plaintext))
//
// so the output is always at least 32 bytes and its body is block aligned.
// Decrypt reverses this and reports ErrInvalidCiphertextLength for inputs
// that cannot be valid and ErrPadding when the recovered padding is malformed.
//
// # Key Ownership
//
// An Engine owns a private copy of its key. LoadKey and GenerateKey replace
// and zero the previous key; Destroy zeroes the active one. An Engine is not
// safe for concurrent use.
//
// The mode is unauthenticated: a modified ciphertext either fails the padding
// check or decrypts to different bytes.
package symmetric
