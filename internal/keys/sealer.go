// Package keys seals tenant payment credentials at rest. The original
// platform leaned on a managed key service; here the same envelope shape
// (an ENCRYPTED(...) wrapper around base64 ciphertext) is kept, with
// NaCl secretbox under a platform master key doing the sealing.
package keys

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	encPrefix = "ENCRYPTED("
	encSuffix = ")"
)

// Sealer encrypts and decrypts credential strings with the platform
// master key.
type Sealer struct {
	key [32]byte
}

// NewSealer builds a Sealer from the 64-hex-char master key.
func NewSealer(masterKeyHex string) (*Sealer, error) {
	raw, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("master key is not valid hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("master key must be 32 bytes, got %d", len(raw))
	}

	s := &Sealer{}
	copy(s.key[:], raw)
	return s, nil
}

// IsSealed reports whether a stored value carries the envelope wrapper.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, encPrefix) && strings.HasSuffix(value, encSuffix)
}

// Seal encrypts plaintext and wraps it as ENCRYPTED(<base64>).
func (s *Sealer) Seal(plaintext string) (string, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return encPrefix + base64.StdEncoding.EncodeToString(sealed) + encSuffix, nil
}

// Open decrypts a stored value. Unwrapped values are returned as-is so
// rows written before sealing was introduced keep working.
func (s *Sealer) Open(value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}

	raw, err := base64.StdEncoding.DecodeString(value[len(encPrefix) : len(value)-len(encSuffix)])
	if err != nil {
		return "", fmt.Errorf("sealed value is not valid base64: %w", err)
	}
	if len(raw) < 24 {
		return "", fmt.Errorf("sealed value too short")
	}

	var nonce [24]byte
	copy(nonce[:], raw[:24])

	plaintext, ok := secretbox.Open(nil, raw[24:], &nonce, &s.key)
	if !ok {
		return "", fmt.Errorf("failed to decrypt sealed value")
	}
	return string(plaintext), nil
}

// Mask hides all but the last keep characters of a credential for
// admin display.
func Mask(s string, keep int) string {
	if s == "" {
		return s
	}
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-keep) + s[len(s)-keep:]
}
