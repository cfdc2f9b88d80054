package envelope

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/PolarWolf314/envelope/internal/asymmetric"
	kerrors "github.com/PolarWolf314/envelope/internal/errors"
	"github.com/PolarWolf314/envelope/internal/symmetric"
)

// State is the furthest point a Session has reached.
type State int

const (
	StateUninitialized State = iota
	StateKeysReady
	StateFileEncrypted
	StateKeyWrapped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateKeysReady:
		return "keys-ready"
	case StateFileEncrypted:
		return "file-encrypted"
	case StateKeyWrapped:
		return "key-wrapped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// PassphraseFunc supplies the passphrase for a protected private key.
type PassphraseFunc func() ([]byte, error)

// Option configures a Session.
type Option func(*Session)

// WithPassphrase sets the callback used when the stored private key is a
// passphrase-protected OpenSSH key.
func WithPassphrase(fn PassphraseFunc) Option {
	return func(s *Session) {
		s.passphrase = fn
	}
}

// Session orchestrates envelope encryption over one KeyStore.
type Session struct {
	store      KeyStore
	symmetric  *symmetric.Engine
	wrapper    *asymmetric.Wrapper
	passphrase PassphraseFunc
	state      State
}

// NewSession returns a Session backed by store. No keys are loaded until an
// operation needs them.
func NewSession(store KeyStore, opts ...Option) *Session {
	s := &Session{
		store:     store,
		symmetric: symmetric.NewEngine(),
		wrapper:   asymmetric.NewWrapper(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports where the last transition left the Session. Loading keys on
// demand only moves an uninitialized Session to StateKeysReady.
func (s *Session) State() State {
	return s.state
}

// Generate creates a key pair and a symmetric key of the given size and
// persists all of them. If a save fails, keys already written are removed
// when the store implements KeyRemover.
func (s *Session) Generate(bits int) error {
	if _, err := symmetric.KeyLengthForBits(bits); err != nil {
		return err
	}
	if err := s.wrapper.GenerateKeyPair(); err != nil {
		return err
	}
	if _, err := s.symmetric.GenerateKey(bits); err != nil {
		return err
	}
	return s.persistGenerated()
}

// GenerateWithKey is Generate with a caller-supplied symmetric key instead of
// a random one.
func (s *Session) GenerateWithKey(key []byte) error {
	if !symmetric.ValidKeyLength(len(key)) {
		return fmt.Errorf("%w: got %d bytes (expected 16, 24 or 32)", kerrors.ErrInvalidKeyLength, len(key))
	}
	if err := s.wrapper.GenerateKeyPair(); err != nil {
		return err
	}
	if err := s.symmetric.LoadKey(key); err != nil {
		return err
	}
	return s.persistGenerated()
}

func (s *Session) persistGenerated() error {
	var priv, pub bytes.Buffer
	if err := s.wrapper.ExportPrivate(&priv); err != nil {
		return err
	}
	defer zero(priv.Bytes())
	if err := s.wrapper.ExportPublic(&pub); err != nil {
		return err
	}

	key, err := s.symmetric.Key()
	if err != nil {
		return err
	}
	defer zero(key)

	var saved []string
	if err := s.store.SavePrivateKey(priv.Bytes()); err != nil {
		return fmt.Errorf("failed to save private key: %w", err)
	}
	saved = append(saved, SlotPrivateKey)
	if err := s.store.SavePublicKey(pub.Bytes()); err != nil {
		return s.rollback(saved, fmt.Errorf("failed to save public key: %w", err))
	}
	saved = append(saved, SlotPublicKey)
	if err := s.store.SaveSymmetricKey(key); err != nil {
		return s.rollback(saved, fmt.Errorf("failed to save symmetric key: %w", err))
	}

	s.state = StateKeysReady
	return nil
}

// EncryptFile reads all of src, encrypts it and writes IV || ciphertext to dst.
func (s *Session) EncryptFile(src io.Reader, dst io.Writer) error {
	if err := s.ensureSymmetricKey(); err != nil {
		return err
	}

	plaintext, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read plaintext: %w", err)
	}
	defer zero(plaintext)

	ciphertext, err := s.symmetric.Encrypt(plaintext)
	if err != nil {
		return err
	}
	if _, err := dst.Write(ciphertext); err != nil {
		return fmt.Errorf("failed to write ciphertext: %w", err)
	}

	s.state = StateFileEncrypted
	return nil
}

// DecryptFile reads all of src, decrypts it and writes the plaintext to dst.
// Nothing is written when decryption fails.
func (s *Session) DecryptFile(src io.Reader, dst io.Writer) error {
	if err := s.ensureSymmetricKey(); err != nil {
		return err
	}

	ciphertext, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read ciphertext: %w", err)
	}

	plaintext, err := s.symmetric.Decrypt(ciphertext)
	if err != nil {
		return err
	}
	defer zero(plaintext)

	if _, err := dst.Write(plaintext); err != nil {
		return fmt.Errorf("failed to write plaintext: %w", err)
	}
	return nil
}

// WrapKey wraps the symmetric key with the public key, persists the result
// and returns it.
func (s *Session) WrapKey() ([]byte, error) {
	if err := s.ensureSymmetricKey(); err != nil {
		return nil, err
	}
	if err := s.ensurePublicKey(); err != nil {
		return nil, err
	}

	key, err := s.symmetric.Key()
	if err != nil {
		return nil, err
	}
	defer zero(key)

	wrapped, err := s.wrapper.Wrap(key)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveWrappedKey(wrapped); err != nil {
		return nil, fmt.Errorf("failed to save wrapped key: %w", err)
	}

	s.state = StateKeyWrapped
	return wrapped, nil
}

// UnwrapKey recovers the symmetric key from the stored wrapped key using the
// private key. The recovered key is persisted, becomes the Session's active
// symmetric key, and a copy is returned.
func (s *Session) UnwrapKey() ([]byte, error) {
	wrapped, err := s.store.LoadWrappedKey()
	if err != nil {
		return nil, missingOr(err, "wrapped key")
	}
	if err := s.ensurePrivateKey(); err != nil {
		return nil, err
	}

	key, err := s.wrapper.Unwrap(wrapped)
	if err != nil {
		return nil, err
	}
	if err := s.symmetric.LoadKey(key); err != nil {
		zero(key)
		return nil, err
	}
	if err := s.store.SaveUnwrappedKey(key); err != nil {
		zero(key)
		return nil, fmt.Errorf("failed to save unwrapped key: %w", err)
	}

	s.advance(StateKeysReady)
	return key, nil
}

// Fingerprint returns the fingerprint of the public key, loading it if needed.
func (s *Session) Fingerprint() (string, error) {
	if err := s.ensurePublicKey(); err != nil {
		return "", err
	}
	return s.wrapper.Fingerprint()
}

// Close zeroes all key material held by the Session.
func (s *Session) Close() {
	s.symmetric.Destroy()
	s.wrapper.Destroy()
	s.state = StateUninitialized
}

func (s *Session) ensureSymmetricKey() error {
	if s.symmetric.HasKey() {
		return nil
	}
	key, err := s.store.LoadSymmetricKey()
	if err != nil {
		return missingOr(err, "symmetric key")
	}
	defer zero(key)

	if err := s.symmetric.LoadKey(key); err != nil {
		return err
	}
	s.advance(StateKeysReady)
	return nil
}

func (s *Session) ensurePublicKey() error {
	if s.wrapper.HasPublic() {
		return nil
	}
	data, err := s.store.LoadPublicKey()
	if err != nil {
		return missingOr(err, "public key")
	}
	return s.wrapper.ImportPublic(bytes.NewReader(data))
}

func (s *Session) ensurePrivateKey() error {
	if s.wrapper.HasPrivate() {
		return nil
	}
	data, err := s.store.LoadPrivateKey()
	if err != nil {
		return missingOr(err, "private key")
	}
	defer zero(data)

	err = s.wrapper.ImportPrivate(bytes.NewReader(data))
	if errors.Is(err, kerrors.ErrPassphraseRequired) && s.passphrase != nil {
		passphrase, perr := s.passphrase()
		if perr != nil {
			return fmt.Errorf("failed to read passphrase: %w", perr)
		}
		defer zero(passphrase)
		err = s.wrapper.ImportPrivateWithPassphrase(bytes.NewReader(data), passphrase)
	}
	return err
}

// rollback removes the slots a failed Generate already wrote, so the store
// is not left with half a key set. Stores without KeyRemover keep them.
func (s *Session) rollback(slots []string, cause error) error {
	remover, ok := s.store.(KeyRemover)
	if !ok {
		return cause
	}
	for _, slot := range slots {
		if err := remover.RemoveKey(slot); err != nil {
			return fmt.Errorf("%w (cleanup of %s failed: %v)", cause, slot, err)
		}
	}
	return cause
}

// advance moves to next unless the Session is already further along.
func (s *Session) advance(next State) {
	if s.state < next {
		s.state = next
	}
}

// missingOr maps a not-found error from the store to ErrMissingKey.
func missingOr(err error, what string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s not found: %w", kerrors.ErrMissingKey, what, err)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
