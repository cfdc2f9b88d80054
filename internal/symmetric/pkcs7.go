package symmetric

import (
	"fmt"

	kerrors "github.com/PolarWolf314/envelope/internal/errors"
)

// Pad appends PKCS#7 padding so the result is a multiple of blockSize.
// A full block of padding is added when data is already aligned.
func Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// Unpad strips PKCS#7 padding. It returns ErrPadding if data is empty, not
// block aligned, or the trailing bytes are not a valid padding run.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: padded length %d is not a multiple of %d", kerrors.ErrPadding, len(data), blockSize)
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, kerrors.ErrPadding
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, kerrors.ErrPadding
		}
	}

	return data[:len(data)-padLen], nil
}
