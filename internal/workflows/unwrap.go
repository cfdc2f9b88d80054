package workflows

import (
	"context"
	"io/fs"

	"github.com/PolarWolf314/envelope/internal/audit"
	"github.com/PolarWolf314/envelope/internal/envelope"
	"github.com/PolarWolf314/envelope/internal/keystore"
	logger "github.com/PolarWolf314/envelope/internal/logging"
)

// UnwrapOptions configures the unwrap workflow.
type UnwrapOptions struct {
	ConfigPath string

	// PrivateKeyData contains the private key bytes when reading from stdin.
	// If nil, the private key is loaded from paths.private_key.
	PrivateKeyData []byte

	// Passphrase is asked for when the private key is a protected OpenSSH
	// key. Nil means such keys fail with ErrPassphraseRequired.
	Passphrase envelope.PassphraseFunc

	Logger logger.Logger
}

// UnwrapResult contains the outcome of an unwrap operation.
type UnwrapResult struct {
	UnwrappedKeyPath string
	Bits             int

	// PrivateKeyPath is empty when the key came from stdin.
	PrivateKeyPath string

	// PrivateKeyMode is set when the private key file is readable by
	// anyone but its owner.
	PrivateKeyMode    fs.FileMode
	PrivateKeyTooOpen bool
}

// UnwrapKey recovers the symmetric key from paths.encrypted_key with the
// private key and writes it to paths.decrypted_key.
//
// Returns ErrConfigNotFound if no config can be located.
// Returns ErrMissingKey if the wrapped or private key does not exist.
// Returns ErrPassphraseRequired if the private key is protected and no passphrase is available.
// Returns ErrUnwrap if the wrapped key does not decrypt with this private key.
func UnwrapKey(ctx context.Context, opts UnwrapOptions) (*UnwrapResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, store, err := openProject(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	paths := store.Paths()

	result := &UnwrapResult{UnwrappedKeyPath: paths.UnwrappedKey}

	var keys envelope.KeyStore = store
	if len(opts.PrivateKeyData) > 0 {
		opts.Logger.Debugf("Using private key from stdin")
		keys = privateKeyOverride{KeyStore: store, privateKey: opts.PrivateKeyData}
	} else {
		result.PrivateKeyPath = paths.PrivateKey
		mode, tooOpen, err := keystore.CheckPrivateKeyPermissions(paths.PrivateKey)
		if err != nil {
			opts.Logger.Warnf("Could not check private key permissions: %v", err)
		}
		result.PrivateKeyMode = mode
		result.PrivateKeyTooOpen = tooOpen
	}

	var sessionOpts []envelope.Option
	if opts.Passphrase != nil {
		sessionOpts = append(sessionOpts, envelope.WithPassphrase(opts.Passphrase))
	}
	session := envelope.NewSession(keys, sessionOpts...)
	defer session.Close()

	key, err := session.UnwrapKey()
	if err != nil {
		return nil, err
	}
	result.Bits = len(key) * 8
	zero(key)
	opts.Logger.Infof("Recovered %d-bit symmetric key", result.Bits)

	entry := audit.NewEntry(audit.OpUnwrap)
	entry.Bits = result.Bits
	entry.OutputPath = result.UnwrappedKeyPath
	audit.Log(entry)

	return result, nil
}
