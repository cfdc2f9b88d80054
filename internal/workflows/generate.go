package workflows

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/envelope/internal/audit"
	"github.com/PolarWolf314/envelope/internal/envelope"
	kerrors "github.com/PolarWolf314/envelope/internal/errors"
	logger "github.com/PolarWolf314/envelope/internal/logging"
)

// GenerateOptions configures the generate workflow.
type GenerateOptions struct {
	// ConfigPath selects the config file. Empty means discover it.
	ConfigPath string

	// Bits is the symmetric key size. 0 uses keys.symmetric_bits.
	Bits int

	// CustomKeyPath names a file holding a raw symmetric key to use instead
	// of a random one. Bits is ignored when set.
	CustomKeyPath string

	// Force overwrites existing key files.
	Force bool

	Logger logger.Logger
}

// GenerateResult contains the outcome of a generate operation.
type GenerateResult struct {
	SymmetricKeyPath string
	PublicKeyPath    string
	PrivateKeyPath   string

	Bits        int
	CustomKey   bool
	Fingerprint string

	// Overwritten lists key files that existed before and were replaced.
	Overwritten []string
}

// Generate creates an RSA key pair and a symmetric key and writes all three
// to the configured paths.
//
// Returns ErrConfigNotFound if no config can be located.
// Returns ErrKeysExist if key files are present and Force is not set.
// Returns ErrInvalidKeyLength if Bits or the custom key has an unsupported size.
// Returns ErrFileNotFound if CustomKeyPath does not exist.
func Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, store, err := openProject(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	paths := store.Paths()

	existing, err := store.ExistingKeys()
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 && !opts.Force {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrKeysExist, strings.Join(existing, ", "))
	}

	bits := opts.Bits
	if bits == 0 {
		bits = cfg.Keys.SymmetricBits
	}

	session := envelope.NewSession(store)
	defer session.Close()

	result := &GenerateResult{
		SymmetricKeyPath: paths.SymmetricKey,
		PublicKeyPath:    paths.PublicKey,
		PrivateKeyPath:   paths.PrivateKey,
		Overwritten:      existing,
	}

	if opts.CustomKeyPath != "" {
		opts.Logger.Debugf("Loading custom symmetric key from %s", opts.CustomKeyPath)
		key, err := os.ReadFile(opts.CustomKeyPath)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, opts.CustomKeyPath)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read custom key: %w", err)
		}
		defer zero(key)

		if err := session.GenerateWithKey(key); err != nil {
			return nil, err
		}
		result.Bits = len(key) * 8
		result.CustomKey = true
	} else {
		opts.Logger.Debugf("Generating %d-bit symmetric key and RSA key pair", bits)
		if err := session.Generate(bits); err != nil {
			return nil, err
		}
		result.Bits = bits
	}

	fingerprint, err := session.Fingerprint()
	if err != nil {
		return nil, err
	}
	result.Fingerprint = fingerprint
	opts.Logger.Infof("Generated key pair %s", fingerprint)

	entry := audit.NewEntry(audit.OpGenerate)
	entry.Bits = result.Bits
	entry.CustomKey = result.CustomKey
	entry.Fingerprint = fingerprint
	audit.Log(entry)

	return result, nil
}
