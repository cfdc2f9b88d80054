package errors

import "errors"

// Key errors indicate missing or malformed key material.
var (
	// ErrInvalidKeyLength indicates a symmetric key size other than 128, 192 or 256 bits.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")

	// ErrMissingKey indicates an operation needed a key half that is not loaded.
	ErrMissingKey = errors.New("required key is not loaded")

	// ErrKeyParse indicates PEM or key bytes could not be decoded.
	ErrKeyParse = errors.New("failed to parse key")

	// ErrPassphraseRequired indicates an OpenSSH private key is passphrase-protected.
	ErrPassphraseRequired = errors.New("private key is passphrase-protected")

	// ErrKeysExist indicates key files are already present and would be overwritten.
	ErrKeysExist = errors.New("key files already exist")
)

// Cryptographic errors indicate failures during encryption, decryption, wrapping or unwrapping.
var (
	// ErrMessageTooLarge indicates the input exceeds the RSA-OAEP message bound.
	ErrMessageTooLarge = errors.New("message too large for RSA-OAEP")

	// ErrInvalidCiphertextLength indicates a ciphertext shorter than one IV plus one block,
	// or a body that is not block aligned.
	ErrInvalidCiphertextLength = errors.New("invalid ciphertext length")

	// ErrPadding indicates malformed PKCS#7 padding after decryption.
	ErrPadding = errors.New("invalid padding")

	// ErrUnwrap indicates the wrapped key could not be recovered. The cause is
	// never attached.
	ErrUnwrap = errors.New("failed to unwrap key")
)

// Configuration errors indicate issues locating or reading the path configuration.
var (
	// ErrConfigNotFound indicates no configuration file could be located.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidConfig indicates the configuration file is malformed.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrPathNotConfigured indicates a required logical path has no value.
	ErrPathNotConfigured = errors.New("path is not configured")
)

// File errors indicate issues with file discovery or access.
var (
	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")
)

// Input errors indicate invalid user-provided values.
var (
	// ErrInvalidDateFormat indicates a --since or --until value is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
