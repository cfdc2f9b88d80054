package workflows

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/envelope/internal/audit"
	"github.com/PolarWolf314/envelope/internal/configs"
	"github.com/PolarWolf314/envelope/internal/envelope"
	kerrors "github.com/PolarWolf314/envelope/internal/errors"
	"github.com/PolarWolf314/envelope/internal/keystore"
	logger "github.com/PolarWolf314/envelope/internal/logging"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	ConfigPath string

	// FilePatterns selects .enc files, directories or globs relative to the
	// project root. Empty means paths.encrypted_file -> paths.decrypted_file.
	FilePatterns []string

	// UseUnwrappedKey decrypts with the key recovered by `keys unwrap`
	// (paths.decrypted_key) instead of paths.symmetric_key.
	UseUnwrappedKey bool

	// DryRun previews which files would be decrypted without making changes.
	DryRun bool

	Logger logger.Logger
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	// SourceFiles and DecryptedFiles are parallel.
	SourceFiles    []string
	DecryptedFiles []string

	ProjectPath string
	DryRun      bool

	// ExistingFiles lists outputs that already exist and would be
	// overwritten. Only set for dry runs.
	ExistingFiles []string
}

// Decrypt reverses Encrypt. A file that fails to decrypt stops the batch and
// leaves no output for that file.
//
// Returns ErrConfigNotFound if no config can be located.
// Returns ErrNoFilesFound or ErrFileNotFound if nothing matches.
// Returns ErrMissingKey if the key file does not exist.
// Returns ErrInvalidCiphertextLength or ErrPadding for corrupt input or a wrong key.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	cfg, store, err := openProject(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	sources, outputs, err := resolveDecryptTargets(cfg, store, opts.FilePatterns)
	if err != nil {
		return nil, err
	}

	result := &DecryptResult{
		SourceFiles:    sources,
		DecryptedFiles: outputs,
		ProjectPath:    cfg.Dir(),
		DryRun:         opts.DryRun,
	}

	if opts.DryRun {
		result.ExistingFiles = findExistingFiles(outputs)
		return result, nil
	}

	var keys envelope.KeyStore = store
	if opts.UseUnwrappedKey {
		paths := store.Paths()
		if paths.UnwrappedKey == "" {
			return nil, fmt.Errorf("%w: paths.decrypted_key", kerrors.ErrPathNotConfigured)
		}
		paths.SymmetricKey = paths.UnwrappedKey
		keys = keystore.NewFileStore(paths)
		opts.Logger.Debugf("Using unwrapped key %s", paths.UnwrappedKey)
	}

	session := envelope.NewSession(keys)
	defer session.Close()

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opts.Logger.Debugf("Decrypting %s -> %s", src, outputs[i])
		if err := decryptFile(session, src, outputs[i]); err != nil {
			return nil, err
		}
	}
	opts.Logger.Infof("Decrypted %d files", len(sources))

	entry := audit.NewEntry(audit.OpDecrypt)
	entry.Files = sources
	audit.Log(entry)

	return result, nil
}

func resolveDecryptTargets(cfg *configs.Config, store *keystore.FileStore, patterns []string) ([]string, []string, error) {
	if len(patterns) == 0 {
		src := cfg.Resolve(cfg.Paths.EncryptedFile)
		if src == "" {
			return nil, nil, fmt.Errorf("%w: paths.encrypted_file (or pass files to decrypt)", kerrors.ErrPathNotConfigured)
		}
		if _, err := os.Stat(src); os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, src)
		}
		dst := cfg.Resolve(cfg.Paths.DecryptedFile)
		if dst == "" {
			if !keystore.IsEncryptedFile(src) {
				return nil, nil, fmt.Errorf("%w: paths.decrypted_file", kerrors.ErrPathNotConfigured)
			}
			dst = keystore.DecryptedName(src)
		}
		return []string{src}, []string{dst}, nil
	}

	sources, err := keystore.ResolveFiles(patterns, cfg.Dir(), false, excludedFiles(cfg, store)...)
	if err != nil {
		return nil, nil, err
	}
	outputs := make([]string, len(sources))
	for i, src := range sources {
		outputs[i] = keystore.DecryptedName(src)
	}
	return sources, outputs, nil
}

func decryptFile(session *envelope.Session, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	var out bytes.Buffer
	if err := session.DecryptFile(in, &out); err != nil {
		return fmt.Errorf("failed to decrypt %s: %w", src, err)
	}
	defer zero(out.Bytes())

	if err := writeOutput(dst, out.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
