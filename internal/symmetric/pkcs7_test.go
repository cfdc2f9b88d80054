package symmetric

import (
	"bytes"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/envelope/internal/errors"
)

func TestPad(t *testing.T) {
	testCases := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{"Empty", []byte{}, bytes.Repeat([]byte{16}, 16)},
		{"OneByte", []byte{0xAA}, append([]byte{0xAA}, bytes.Repeat([]byte{15}, 15)...)},
		{"FifteenBytes", bytes.Repeat([]byte{1}, 15), append(bytes.Repeat([]byte{1}, 15), 1)},
		{"FullBlock", bytes.Repeat([]byte{9}, 16), append(bytes.Repeat([]byte{9}, 16), bytes.Repeat([]byte{16}, 16)...)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			padded := Pad(tc.input, 16)
			if !bytes.Equal(padded, tc.expected) {
				t.Errorf("Pad(%x) = %x, expected %x", tc.input, padded, tc.expected)
			}
		})
	}
}

func TestPad_DoesNotAliasInput(t *testing.T) {
	input := make([]byte, 3, 16)
	_ = Pad(input, 16)
	if input[:cap(input)][3] != 0 {
		t.Error("Pad wrote into the caller's spare capacity")
	}
}

func TestUnpad_Valid(t *testing.T) {
	for n := 0; n <= 40; n++ {
		data := bytes.Repeat([]byte{0x5A}, n)
		unpadded, err := Unpad(Pad(data, 16), 16)
		if err != nil {
			t.Fatalf("Unpad(Pad(%d bytes)) failed: %v", n, err)
		}
		if !bytes.Equal(unpadded, data) {
			t.Errorf("Unpad(Pad(%d bytes)) mismatch", n)
		}
	}
}

func TestUnpad_Invalid(t *testing.T) {
	valid := Pad([]byte("hello"), 16)

	inconsistent := append([]byte(nil), valid...)
	inconsistent[len(inconsistent)-2] ^= 0xFF

	zeroPad := append([]byte(nil), valid...)
	zeroPad[len(zeroPad)-1] = 0

	oversized := append([]byte(nil), valid...)
	oversized[len(oversized)-1] = 17

	testCases := []struct {
		name string
		data []byte
	}{
		{"Empty", []byte{}},
		{"NotAligned", []byte{1, 2, 3}},
		{"InconsistentRun", inconsistent},
		{"ZeroLength", zeroPad},
		{"LongerThanBlock", oversized},
		{"AllFF", bytes.Repeat([]byte{0xFF}, 32)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Unpad(tc.data, 16); !errors.Is(err, kerrors.ErrPadding) {
				t.Errorf("expected ErrPadding, got %v", err)
			}
		})
	}
}
