package workflows

import (
	"context"

	"github.com/PolarWolf314/envelope/internal/audit"
	"github.com/PolarWolf314/envelope/internal/envelope"
	logger "github.com/PolarWolf314/envelope/internal/logging"
)

// WrapOptions configures the wrap workflow.
type WrapOptions struct {
	ConfigPath string
	Logger     logger.Logger
}

// WrapResult contains the outcome of a wrap operation.
type WrapResult struct {
	WrappedKeyPath string
	Size           int
	Fingerprint    string
}

// WrapKey encrypts the symmetric key with the public key and writes it to
// paths.encrypted_key.
//
// Returns ErrConfigNotFound if no config can be located.
// Returns ErrMissingKey if the symmetric or public key file does not exist.
// Returns ErrKeyParse if the public key is malformed.
func WrapKey(ctx context.Context, opts WrapOptions) (*WrapResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, store, err := openProject(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	session := envelope.NewSession(store)
	defer session.Close()

	wrapped, err := session.WrapKey()
	if err != nil {
		return nil, err
	}
	fingerprint, err := session.Fingerprint()
	if err != nil {
		return nil, err
	}
	opts.Logger.Infof("Wrapped symmetric key for %s", fingerprint)

	result := &WrapResult{
		WrappedKeyPath: store.Paths().WrappedKey,
		Size:           len(wrapped),
		Fingerprint:    fingerprint,
	}

	entry := audit.NewEntry(audit.OpWrap)
	entry.Fingerprint = fingerprint
	entry.OutputPath = result.WrappedKeyPath
	audit.Log(entry)

	return result, nil
}
