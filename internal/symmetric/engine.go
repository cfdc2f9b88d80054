package symmetric

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/envelope/internal/errors"
)

const (
	BlockSize = aes.BlockSize // 16 bytes
	IVSize    = aes.BlockSize

	// MinCiphertextSize is one IV plus one padded block.
	MinCiphertextSize = IVSize + BlockSize
)

// Engine holds a single symmetric key and performs AES-CBC encryption with it.
type Engine struct {
	key  []byte
	rand io.Reader
}

// NewEngine returns an Engine with no key loaded.
func NewEngine() *Engine {
	return &Engine{rand: rand.Reader}
}

// KeyLengthForBits converts a key size in bits to bytes.
// Only 128, 192 and 256 are accepted.
func KeyLengthForBits(bits int) (int, error) {
	switch bits {
	case 128, 192, 256:
		return bits / 8, nil
	default:
		return 0, fmt.Errorf("%w: %d bits (expected 128, 192 or 256)", kerrors.ErrInvalidKeyLength, bits)
	}
}

// ValidKeyLength reports whether n is a valid key length in bytes.
func ValidKeyLength(n int) bool {
	return n == 16 || n == 24 || n == 32
}

// GenerateKey creates a new random key of the given size in bits, replacing
// any previously held key. It returns a copy of the new key.
func (e *Engine) GenerateKey(bits int) ([]byte, error) {
	size, err := KeyLengthForBits(bits)
	if err != nil {
		return nil, err
	}

	key := make([]byte, size)
	if _, err := io.ReadFull(e.rand, key); err != nil {
		return nil, fmt.Errorf("failed to generate symmetric key: %w", err)
	}

	e.setKey(key)
	return clone(key), nil
}

// LoadKey makes a copy of key the active key. The caller keeps ownership of
// the slice it passed in.
func (e *Engine) LoadKey(key []byte) error {
	if !ValidKeyLength(len(key)) {
		return fmt.Errorf("%w: got %d bytes (expected 16, 24 or 32)", kerrors.ErrInvalidKeyLength, len(key))
	}
	e.setKey(clone(key))
	return nil
}

// HasKey reports whether a key is loaded.
func (e *Engine) HasKey() bool {
	return len(e.key) > 0
}

// Key returns a copy of the active key.
func (e *Engine) Key() ([]byte, error) {
	if !e.HasKey() {
		return nil, fmt.Errorf("%w: no symmetric key loaded", kerrors.ErrMissingKey)
	}
	return clone(e.key), nil
}

// Encrypt pads plaintext and encrypts it under a fresh random IV.
// The result is IV || ciphertext body.
func (e *Engine) Encrypt(plaintext []byte) ([]byte, error) {
	block, err := e.block()
	if err != nil {
		return nil, err
	}

	padded := Pad(plaintext, BlockSize)
	out := make([]byte, IVSize+len(padded))
	iv := out[:IVSize]
	if _, err := io.ReadFull(e.rand, iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[IVSize:], padded)
	zero(padded)

	return out, nil
}

// Decrypt splits off the IV, decrypts the body and removes the padding.
func (e *Engine) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < MinCiphertextSize {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", kerrors.ErrInvalidCiphertextLength, len(ciphertext), MinCiphertextSize)
	}
	if (len(ciphertext)-IVSize)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: body of %d bytes is not a multiple of the block size", kerrors.ErrInvalidCiphertextLength, len(ciphertext)-IVSize)
	}

	block, err := e.block()
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:IVSize]
	body := ciphertext[IVSize:]

	padded := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, body)

	plaintext, err := Unpad(padded, BlockSize)
	if err != nil {
		zero(padded)
		return nil, err
	}

	return plaintext, nil
}

// Destroy zeroes and releases the key. The Engine may be reused after a new
// key is loaded.
func (e *Engine) Destroy() {
	zero(e.key)
	e.key = nil
}

func (e *Engine) block() (cipher.Block, error) {
	if !e.HasKey() {
		return nil, fmt.Errorf("%w: no symmetric key loaded", kerrors.ErrMissingKey)
	}
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return block, nil
}

func (e *Engine) setKey(key []byte) {
	zero(e.key)
	e.key = key
}

func clone(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// zero overwrites b in place.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
