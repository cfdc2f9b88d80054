package workflows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/envelope/internal/asymmetric"
	"github.com/PolarWolf314/envelope/internal/configs"
	kerrors "github.com/PolarWolf314/envelope/internal/errors"
	"github.com/PolarWolf314/envelope/internal/keystore"
	"github.com/PolarWolf314/envelope/internal/symmetric"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	ConfigPath  string        `json:"config_path,omitempty"`
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	ConfigPath string
}

// Doctor runs health checks on the project's config and key files.
//
// The doctor workflow checks:
//   - Config file presence and format
//   - Symmetric key presence and length
//   - Public and private key presence, format and pairing
//   - Private key permissions
//   - Wrapped key presence and size
//   - Plaintext input left without an encrypted counterpart
//
// A missing config is reported as a failed check, not as an error.
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	configCheck := checkConfig(opts.ConfigPath)
	results := []CheckResult{configCheck}

	cfg := configs.ProjectEnvelopeSettings.Config
	if configCheck.Status != CheckError && cfg != nil {
		paths := keystore.PathsFromConfig(cfg)
		checks := []func() CheckResult{
			func() CheckResult { return checkSymmetricKey(paths.SymmetricKey) },
			func() CheckResult { return checkKeyPair(paths.PublicKey, paths.PrivateKey) },
			func() CheckResult { return checkPrivateKeyPermissions(paths.PrivateKey) },
			func() CheckResult { return checkWrappedKey(paths.WrappedKey, paths.PublicKey) },
			func() CheckResult { return checkUnencryptedInput(cfg) },
		}
		for _, check := range checks {
			results = append(results, check())
		}
	}

	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		ConfigPath:  configs.ProjectEnvelopeSettings.ConfigPath,
		Checks:      results,
		Summary:     calculateDoctorSummary(results),
		Suggestions: suggestions,
	}, nil
}

func checkConfig(configPath string) CheckResult {
	const name = "Config"

	err := configs.InitProjectSettings(configPath)
	switch {
	case errors.Is(err, kerrors.ErrConfigNotFound):
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    "No envelope.toml found",
			Suggestion: "Run 'envelope config init' to create one",
		}
	case err != nil:
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Config is invalid: %v", err),
			Suggestion: "Fix the config file or recreate it with 'envelope config init --force'",
		}
	}

	settings := configs.ProjectEnvelopeSettings
	if settings.Legacy {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Using legacy %s", settings.ConfigPath),
			Suggestion: "Run 'envelope config migrate' to convert it to envelope.toml",
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("Config loaded from %s", settings.ConfigPath),
	}
}

func checkSymmetricKey(path string) CheckResult {
	const name = "Symmetric key"

	if path == "" {
		return CheckResult{Name: name, Status: CheckError, Message: "paths.symmetric_key is not configured",
			Suggestion: "Set paths.symmetric_key in envelope.toml"}
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return CheckResult{Name: name, Status: CheckError, Message: "Symmetric key not found",
			Suggestion: "Run 'envelope keys generate' to create keys"}
	}
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("Failed to stat symmetric key: %v", err)}
	}
	if !symmetric.ValidKeyLength(int(info.Size())) {
		return CheckResult{Name: name, Status: CheckError,
			Message:    fmt.Sprintf("Symmetric key is %d bytes (expected 16, 24 or 32)", info.Size()),
			Suggestion: "Run 'envelope keys generate --force' to replace it"}
	}
	return CheckResult{Name: name, Status: CheckPass,
		Message: fmt.Sprintf("Symmetric key is %d bits", info.Size()*8)}
}

func checkKeyPair(publicPath, privatePath string) CheckResult {
	const name = "Key pair"

	public, err := loadPublicWrapper(publicPath)
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("Public key: %v", err),
			Suggestion: "Run 'envelope keys generate' to create keys"}
	}
	defer public.Destroy()

	data, err := os.ReadFile(privatePath)
	if os.IsNotExist(err) || privatePath == "" {
		// Recipients may only hold the public half.
		return CheckResult{Name: name, Status: CheckWarning, Message: "Private key not found; only wrapping is possible",
			Suggestion: "Provide the private key with 'envelope keys unwrap --private-key-stdin' when unwrapping"}
	}
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("Failed to read private key: %v", err)}
	}
	defer zero(data)

	private := asymmetric.NewWrapper()
	defer private.Destroy()
	err = private.ImportPrivate(bytes.NewReader(data))
	if errors.Is(err, kerrors.ErrPassphraseRequired) {
		return CheckResult{Name: name, Status: CheckWarning, Message: "Private key is passphrase-protected; pairing not verified"}
	}
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("Private key: %v", err),
			Suggestion: "Run 'envelope keys generate --force' to replace the key pair"}
	}

	publicFP, _ := public.Fingerprint()
	privateFP, _ := private.Fingerprint()
	if publicFP != privateFP {
		return CheckResult{Name: name, Status: CheckError, Message: "Public and private keys do not belong together",
			Suggestion: "Run 'envelope keys generate --force' to replace the key pair"}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: fmt.Sprintf("Key pair matches (%s)", publicFP)}
}

func checkPrivateKeyPermissions(path string) CheckResult {
	const name = "Private key permissions"

	if path == "" {
		return CheckResult{Name: name, Status: CheckPass, Message: "No private key configured"}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return CheckResult{Name: name, Status: CheckPass, Message: "Private key not present (skipping permissions check)"}
	}
	mode, tooOpen, err := keystore.CheckPrivateKeyPermissions(path)
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("Failed to stat private key: %v", err),
			Suggestion: "Check that the private key file is accessible"}
	}
	if tooOpen {
		return CheckResult{Name: name, Status: CheckWarning,
			Message:    fmt.Sprintf("Private key has insecure permissions (%04o)", mode),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s' to fix permissions", path)}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Private key has correct permissions (0600)"}
}

func checkWrappedKey(wrappedPath, publicPath string) CheckResult {
	const name = "Wrapped key"

	if wrappedPath == "" {
		return CheckResult{Name: name, Status: CheckPass, Message: "paths.encrypted_key is not configured"}
	}
	info, err := os.Stat(wrappedPath)
	if os.IsNotExist(err) {
		return CheckResult{Name: name, Status: CheckWarning, Message: "Symmetric key has not been wrapped yet",
			Suggestion: "Run 'envelope keys wrap' before sharing the symmetric key"}
	}
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("Failed to stat wrapped key: %v", err)}
	}

	want := 0
	if public, err := loadPublicWrapper(publicPath); err == nil {
		want = public.WrappedSize()
		public.Destroy()
	}
	if want != 0 && info.Size() != int64(want) {
		return CheckResult{Name: name, Status: CheckError,
			Message:    fmt.Sprintf("Wrapped key is %d bytes (expected %d)", info.Size(), want),
			Suggestion: "Run 'envelope keys wrap' to recreate it"}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: fmt.Sprintf("Wrapped key is %d bytes", info.Size())}
}

func checkUnencryptedInput(cfg *configs.Config) CheckResult {
	const name = "Unencrypted input"

	initial := cfg.Resolve(cfg.Paths.InitialFile)
	encrypted := cfg.Resolve(cfg.Paths.EncryptedFile)
	if initial == "" || encrypted == "" {
		return CheckResult{Name: name, Status: CheckPass, Message: "No default input configured"}
	}
	if _, err := os.Stat(initial); err != nil {
		return CheckResult{Name: name, Status: CheckPass, Message: "No plaintext input present"}
	}
	if _, err := os.Stat(encrypted); os.IsNotExist(err) {
		return CheckResult{Name: name, Status: CheckWarning,
			Message:    fmt.Sprintf("%s has no encrypted counterpart", initial),
			Suggestion: "Run 'envelope files encrypt' to encrypt it"}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Plaintext input has been encrypted"}
}

func loadPublicWrapper(path string) (*asymmetric.Wrapper, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: paths.public_key", kerrors.ErrPathNotConfigured)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("not found at %s", path)
	}
	if err != nil {
		return nil, err
	}
	w := asymmetric.NewWrapper()
	if err := w.ImportPublic(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return w, nil
}

// calculateDoctorSummary counts check results by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
