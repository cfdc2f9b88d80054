package cmd

import (
	"errors"
	"os"

	kerrors "github.com/PolarWolf314/envelope/internal/errors"
	"github.com/PolarWolf314/envelope/internal/ui"
)

// formatError turns a workflow error into the message shown to the user.
func formatError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrConfigNotFound):
		return ui.Error.Sprint("✗") + " No " + ui.Path.Sprint("envelope.toml") + " found\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envelope config init") + " first, or pass " + ui.Flag.Sprint("--config")

	case errors.Is(err, kerrors.ErrInvalidConfig):
		return ui.Error.Sprint("✗") + " Invalid configuration\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrPathNotConfigured):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Set it in " + ui.Path.Sprint("envelope.toml")

	case errors.Is(err, kerrors.ErrKeysExist):
		return ui.Error.Sprint("✗") + " Key files already exist\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envelope keys generate --force") + " to replace them"

	case errors.Is(err, kerrors.ErrPassphraseRequired):
		return ui.Error.Sprint("✗") + " The private key is passphrase-protected and no passphrase was entered"

	case errors.Is(err, kerrors.ErrMissingKey):
		return ui.Error.Sprint("✗") + " A required key is missing\n" +
			ui.Error.Sprint("Error: ") + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envelope keys generate") + " or " + ui.Code.Sprint("envelope keys unwrap") + " first"

	case errors.Is(err, kerrors.ErrKeyParse):
		return ui.Error.Sprint("✗") + " Failed to parse key\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrInvalidKeyLength):
		return ui.Error.Sprint("✗") + " Invalid symmetric key: " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Keys must be 128, 192 or 256 bits"

	case errors.Is(err, kerrors.ErrMessageTooLarge):
		return ui.Error.Sprint("✗") + " The symmetric key is too large for this public key"

	case errors.Is(err, kerrors.ErrUnwrap):
		return ui.Error.Sprint("✗") + " Failed to unwrap the symmetric key\n" +
			ui.Info.Sprint("→") + " Was it wrapped for this key pair?"

	case errors.Is(err, kerrors.ErrInvalidCiphertextLength), errors.Is(err, kerrors.ErrPadding):
		return ui.Error.Sprint("✗") + " Failed to decrypt: the key does not match or the file is corrupt\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrFileNotFound), errors.Is(err, kerrors.ErrNoFilesFound):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, os.ErrExist):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return ui.Error.Sprint("✗") + " " + err.Error()
	}
}

// isUnexpectedError returns true if the error should cause a non-zero exit.
// Key and ciphertext failures always count as unexpected.
func isUnexpectedError(err error) bool {
	expected := []error{
		kerrors.ErrConfigNotFound,
		kerrors.ErrPathNotConfigured,
		kerrors.ErrKeysExist,
		kerrors.ErrFileNotFound,
		kerrors.ErrNoFilesFound,
		kerrors.ErrInvalidDateFormat,
		os.ErrExist,
	}
	for _, target := range expected {
		if errors.Is(err, target) {
			return false
		}
	}
	return true
}
