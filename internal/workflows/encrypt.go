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

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	ConfigPath string

	// FilePatterns selects files, directories or globs relative to the
	// project root. Empty means paths.initial_file -> paths.encrypted_file.
	FilePatterns []string

	// DryRun previews which files would be encrypted without making changes.
	DryRun bool

	Logger logger.Logger
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// SourceFiles and EncryptedFiles are parallel: SourceFiles[i] was
	// written to EncryptedFiles[i].
	SourceFiles    []string
	EncryptedFiles []string

	ProjectPath string
	DryRun      bool

	// ExistingFiles lists outputs that already exist and would be
	// overwritten. Only set for dry runs.
	ExistingFiles []string
}

// Encrypt encrypts files with the project's symmetric key. Each output is
// IV || ciphertext.
//
// Returns ErrConfigNotFound if no config can be located.
// Returns ErrPathNotConfigured if no patterns are given and paths.initial_file is empty.
// Returns ErrNoFilesFound or ErrFileNotFound if nothing matches.
// Returns ErrMissingKey if the symmetric key file does not exist.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	cfg, store, err := openProject(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	sources, outputs, err := resolveEncryptTargets(cfg, store, opts.FilePatterns)
	if err != nil {
		return nil, err
	}

	result := &EncryptResult{
		SourceFiles:    sources,
		EncryptedFiles: outputs,
		ProjectPath:    cfg.Dir(),
		DryRun:         opts.DryRun,
	}

	if opts.DryRun {
		result.ExistingFiles = findExistingFiles(outputs)
		return result, nil
	}

	session := envelope.NewSession(store)
	defer session.Close()

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opts.Logger.Debugf("Encrypting %s -> %s", src, outputs[i])
		if err := encryptFile(session, src, outputs[i]); err != nil {
			return nil, err
		}
	}
	opts.Logger.Infof("Encrypted %d files", len(sources))

	entry := audit.NewEntry(audit.OpEncrypt)
	entry.Files = sources
	audit.Log(entry)

	return result, nil
}

func resolveEncryptTargets(cfg *configs.Config, store *keystore.FileStore, patterns []string) ([]string, []string, error) {
	if len(patterns) == 0 {
		src := cfg.Resolve(cfg.Paths.InitialFile)
		if src == "" {
			return nil, nil, fmt.Errorf("%w: paths.initial_file (or pass files to encrypt)", kerrors.ErrPathNotConfigured)
		}
		if _, err := os.Stat(src); os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, src)
		}
		dst := cfg.Resolve(cfg.Paths.EncryptedFile)
		if dst == "" {
			dst = keystore.EncryptedName(src)
		}
		return []string{src}, []string{dst}, nil
	}

	sources, err := keystore.ResolveFiles(patterns, cfg.Dir(), true, excludedFiles(cfg, store)...)
	if err != nil {
		return nil, nil, err
	}
	outputs := make([]string, len(sources))
	for i, src := range sources {
		outputs[i] = keystore.EncryptedName(src)
	}
	return sources, outputs, nil
}

func encryptFile(session *envelope.Session, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	var out bytes.Buffer
	if err := session.EncryptFile(in, &out); err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", src, err)
	}

	// #nosec G306 -- ciphertext is safe to share.
	if err := writeOutput(dst, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
