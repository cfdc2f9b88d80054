package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/envelope/internal/configs"
	"github.com/PolarWolf314/envelope/internal/utils"
	"github.com/google/uuid"
)

// Operation names recorded in the log.
const (
	OpGenerate = "generate"
	OpEncrypt  = "encrypt"
	OpDecrypt  = "decrypt"
	OpWrap     = "wrap"
	OpUnwrap   = "unwrap"
	OpMigrate  = "migrate"
)

// sessionID ties together all entries written by one process.
var sessionID = uuid.NewString()

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	SessionID string `json:"session"`
	User      string `json:"user"`
	Host      string `json:"host,omitempty"`
	Operation string `json:"op"`

	// Optional fields depending on operation.
	Files       []string `json:"files,omitempty"`       // For encrypt/decrypt.
	Bits        int      `json:"bits,omitempty"`        // For generate.
	Fingerprint string   `json:"fingerprint,omitempty"` // Public key used by generate/wrap/unwrap.
	CustomKey   bool     `json:"custom_key,omitempty"`  // For generate with --custom-key.
	OutputPath  string   `json:"output_path,omitempty"` // Wrapped or unwrapped key file.
}

// NewEntry returns an entry for op with the session, user and host filled in.
func NewEntry(op string) Entry {
	entry := Entry{Operation: op, SessionID: sessionID}
	if user, err := utils.GetUsername(); err == nil {
		entry.User = user
	}
	if host, err := utils.GetHostname(); err == nil {
		entry.Host = host
	}
	return entry
}

// Log appends an entry to the audit log.
// Failures are ignored: an operation never fails because auditing did.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.SessionID == "" {
		entry.SessionID = sessionID
	}

	logPath := LogPath()
	if logPath == "" {
		// No config or auditing disabled.
		return
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	// #nosec G302 -- the log holds no key material and may be shared.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the configured audit log path, or "" when there is no
// loaded config or it does not set paths.audit_log.
func LogPath() string {
	cfg := configs.ProjectEnvelopeSettings.Config
	if cfg == nil {
		return ""
	}
	return cfg.Resolve(cfg.Paths.AuditLog)
}

// SessionID returns the identifier stamped on entries from this process.
func SessionID() string {
	return sessionID
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Partial writes leave broken lines behind.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
