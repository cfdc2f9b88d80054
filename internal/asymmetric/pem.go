package asymmetric

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"strings"

	kerrors "github.com/PolarWolf314/envelope/internal/errors"
	"golang.org/x/crypto/ssh"
)

const (
	publicKeyBlockType      = "PUBLIC KEY"
	pkcs1PublicKeyBlockType = "RSA PUBLIC KEY"
	pkcs1PrivateBlockType   = "RSA PRIVATE KEY"
	pkcs8PrivateBlockType   = "PRIVATE KEY"
	openSSHPrivateBlockType = "OPENSSH PRIVATE KEY"

	// maxKeyFileSize bounds how much is read from a key source.
	maxKeyFileSize = 64 * 1024
)

// ExportPublic writes the public key as a PEM SubjectPublicKeyInfo block.
func (w *Wrapper) ExportPublic(out io.Writer) error {
	if w.public == nil {
		return fmt.Errorf("%w: no public key loaded", kerrors.ErrMissingKey)
	}

	pubASN1, err := x509.MarshalPKIXPublicKey(w.public)
	if err != nil {
		return fmt.Errorf("failed to marshal public key: %w", err)
	}
	if err := pem.Encode(out, &pem.Block{Type: publicKeyBlockType, Bytes: pubASN1}); err != nil {
		return fmt.Errorf("failed to PEM encode public key: %w", err)
	}
	return nil
}

// ExportPrivate writes the private key as an unencrypted PEM PKCS#1 block.
func (w *Wrapper) ExportPrivate(out io.Writer) error {
	if w.private == nil {
		return fmt.Errorf("%w: no private key loaded", kerrors.ErrMissingKey)
	}

	privBytes := x509.MarshalPKCS1PrivateKey(w.private)
	defer zeroBytes(privBytes)

	if err := pem.Encode(out, &pem.Block{Type: pkcs1PrivateBlockType, Bytes: privBytes}); err != nil {
		return fmt.Errorf("failed to PEM encode private key: %w", err)
	}
	return nil
}

// ImportPublic reads a PEM public key. The private half, if any, is left untouched.
func (w *Wrapper) ImportPublic(in io.Reader) error {
	data, err := readKeySource(in)
	if err != nil {
		return err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return fmt.Errorf("%w: no PEM block containing a public key", kerrors.ErrKeyParse)
	}

	var publicKey *rsa.PublicKey
	switch block.Type {
	case publicKeyBlockType:
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return fmt.Errorf("%w: %v", kerrors.ErrKeyParse, err)
		}
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return fmt.Errorf("%w: not an RSA public key", kerrors.ErrKeyParse)
		}
		publicKey = rsaPub
	case pkcs1PublicKeyBlockType:
		publicKey, err = x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return fmt.Errorf("%w: %v", kerrors.ErrKeyParse, err)
		}
	default:
		return fmt.Errorf("%w: unexpected PEM block type %q", kerrors.ErrKeyParse, block.Type)
	}

	w.setPublic(publicKey)
	return nil
}

// ImportPrivate reads a private key and derives the public half from it.
// Passphrase-protected OpenSSH keys return ErrPassphraseRequired; use
// ImportPrivateWithPassphrase for those.
func (w *Wrapper) ImportPrivate(in io.Reader) error {
	return w.ImportPrivateWithPassphrase(in, nil)
}

// ImportPrivateWithPassphrase is ImportPrivate for keys that may be
// passphrase-protected. The passphrase is only consulted for OpenSSH keys.
func (w *Wrapper) ImportPrivateWithPassphrase(in io.Reader, passphrase []byte) error {
	data, err := readKeySource(in)
	if err != nil {
		return err
	}
	defer zeroBytes(data)

	privateKey, err := parsePrivateKey(data, passphrase)
	if err != nil {
		return err
	}

	if err := privateKey.Validate(); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrKeyParse, err)
	}

	w.setPrivate(privateKey)
	return nil
}

func parsePrivateKey(data, passphrase []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block containing a private key", kerrors.ErrKeyParse)
	}

	if strings.Contains(block.Headers["Proc-Type"], "ENCRYPTED") {
		return nil, fmt.Errorf("%w: legacy encrypted PEM private keys are not supported", kerrors.ErrKeyParse)
	}

	switch block.Type {
	case pkcs1PrivateBlockType:
		privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrKeyParse, err)
		}
		return privateKey, nil
	case pkcs8PrivateBlockType:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrKeyParse, err)
		}
		privateKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA private key", kerrors.ErrKeyParse)
		}
		return privateKey, nil
	case openSSHPrivateBlockType:
		return parseOpenSSHPrivateKey(data, passphrase)
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block type %q", kerrors.ErrKeyParse, block.Type)
	}
}

// parseOpenSSHPrivateKey parses an OpenSSH-format RSA private key.
// An empty passphrase is treated as no passphrase.
func parseOpenSSHPrivateKey(data, passphrase []byte) (*rsa.PrivateKey, error) {
	var (
		raw interface{}
		err error
	)
	if len(passphrase) > 0 {
		raw, err = ssh.ParseRawPrivateKeyWithPassphrase(data, passphrase)
	} else {
		raw, err = ssh.ParseRawPrivateKey(data)
	}
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, kerrors.ErrPassphraseRequired
		}
		return nil, fmt.Errorf("%w: %v", kerrors.ErrKeyParse, err)
	}

	privateKey, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported OpenSSH key type %T (only RSA is supported)", kerrors.ErrKeyParse, raw)
	}
	return privateKey, nil
}

// Fingerprint returns the OpenSSH-style SHA256 fingerprint of the public key.
func (w *Wrapper) Fingerprint() (string, error) {
	if w.public == nil {
		return "", fmt.Errorf("%w: no public key loaded", kerrors.ErrMissingKey)
	}
	sshPub, err := ssh.NewPublicKey(w.public)
	if err != nil {
		return "", fmt.Errorf("failed to convert public key: %w", err)
	}
	return ssh.FingerprintSHA256(sshPub), nil
}

func readKeySource(in io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(in, maxKeyFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	if len(data) > maxKeyFileSize {
		return nil, fmt.Errorf("%w: key data exceeds %d bytes", kerrors.ErrKeyParse, maxKeyFileSize)
	}
	return data, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
