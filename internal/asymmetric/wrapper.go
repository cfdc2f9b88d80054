package asymmetric

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"

	kerrors "github.com/PolarWolf314/envelope/internal/errors"
)

const (
	KeyBits        = 2048
	PublicExponent = 65537

	// oaepOverhead is 2*hLen+2 for SHA-256.
	oaepOverhead = 2*sha256.Size + 2
)

// Wrapper holds RSA key material and performs RSA-OAEP key wrapping.
type Wrapper struct {
	public  *rsa.PublicKey
	private *rsa.PrivateKey
	rand    io.Reader
}

// NewWrapper returns a Wrapper with no keys loaded.
func NewWrapper() *Wrapper {
	return &Wrapper{rand: rand.Reader}
}

// GenerateKeyPair creates a fresh 2048-bit key pair, replacing any held keys.
func (w *Wrapper) GenerateKeyPair() error {
	privateKey, err := rsa.GenerateKey(w.rand, KeyBits)
	if err != nil {
		return fmt.Errorf("failed to generate RSA key pair: %w", err)
	}
	w.setPrivate(privateKey)
	return nil
}

// HasPublic reports whether a public key is loaded.
func (w *Wrapper) HasPublic() bool {
	return w.public != nil
}

// HasPrivate reports whether a private key is loaded.
func (w *Wrapper) HasPrivate() bool {
	return w.private != nil
}

// PublicKey returns the loaded public key, or nil.
func (w *Wrapper) PublicKey() *rsa.PublicKey {
	return w.public
}

// MaxWrapSize returns the largest input Wrap accepts for the loaded public key.
func (w *Wrapper) MaxWrapSize() int {
	if w.public == nil {
		return 0
	}
	return w.public.Size() - oaepOverhead
}

// WrappedSize returns the length of every value Wrap produces.
func (w *Wrapper) WrappedSize() int {
	if w.public == nil {
		return 0
	}
	return w.public.Size()
}

// Wrap encrypts key with the public key using RSA-OAEP (SHA-256, MGF1-SHA-256, no label).
func (w *Wrapper) Wrap(key []byte) ([]byte, error) {
	if w.public == nil {
		return nil, fmt.Errorf("%w: no public key loaded", kerrors.ErrMissingKey)
	}
	if max := w.MaxWrapSize(); len(key) > max {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", kerrors.ErrMessageTooLarge, len(key), max)
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), w.rand, w.public, key, nil)
	if err != nil {
		if errors.Is(err, rsa.ErrMessageTooLong) {
			return nil, kerrors.ErrMessageTooLarge
		}
		return nil, fmt.Errorf("failed to wrap key: %w", err)
	}
	return wrapped, nil
}

// Unwrap recovers a key produced by Wrap. Any failure is reported as
// ErrUnwrap with no further detail.
func (w *Wrapper) Unwrap(wrapped []byte) ([]byte, error) {
	if w.private == nil {
		return nil, fmt.Errorf("%w: no private key loaded", kerrors.ErrMissingKey)
	}

	key, err := rsa.DecryptOAEP(sha256.New(), nil, w.private, wrapped, nil)
	if err != nil {
		return nil, kerrors.ErrUnwrap
	}
	return key, nil
}

// Destroy drops both halves and overwrites the private key's secret
// components. This is best effort: copies made by the runtime or the rsa
// package are out of reach.
func (w *Wrapper) Destroy() {
	if w.private != nil {
		zeroInt(w.private.D)
		for _, p := range w.private.Primes {
			zeroInt(p)
		}
		zeroInt(w.private.Precomputed.Dp)
		zeroInt(w.private.Precomputed.Dq)
		zeroInt(w.private.Precomputed.Qinv)
	}
	w.private = nil
	w.public = nil
}

func (w *Wrapper) setPrivate(privateKey *rsa.PrivateKey) {
	w.Destroy()
	w.private = privateKey
	w.public = &privateKey.PublicKey
}

func (w *Wrapper) setPublic(publicKey *rsa.PublicKey) {
	w.public = publicKey
}

func zeroInt(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
	x.SetInt64(0)
}
