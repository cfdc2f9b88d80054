// Package errors provides typed error values for envelope.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Key errors: ErrInvalidKeyLength, ErrMissingKey, ErrKeyParse
//   - Crypto errors: ErrMessageTooLarge, ErrInvalidCiphertextLength, ErrPadding, ErrUnwrap
//   - Configuration errors: ErrConfigNotFound, ErrInvalidConfig, ErrPathNotConfigured
//   - File errors: ErrNoFilesFound, ErrFileNotFound
//   - Input errors: ErrInvalidDateFormat
//
// ErrUnwrap is deliberately undifferentiated: a wrong key, a corrupted
// wrapped key and an OAEP padding failure all produce the same value.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return nil, fmt.Errorf("loading symmetric key: %w", kerrors.ErrInvalidKeyLength)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrPadding) {
//	    // Wrong key or corrupted file
//	}
package errors
