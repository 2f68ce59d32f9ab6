package krypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	keyLen = 32

	// SecretMarker is a string we can look for in logs to see if the app
	// is accidentally exposing secrets.
	SecretMarker = "<!SECRET_REDACTED!>"
)

var ErrInvalidKey = errors.New("invalid key")

// redacted replaces the value of the embedding type with SecretMarker
// in fmt, text encoding and slog output.
type redacted struct{}

func (redacted) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, SecretMarker)
}

func (redacted) MarshalText() ([]byte, error) {
	return []byte(SecretMarker), nil
}

func (redacted) LogValue() slog.Value {
	return slog.StringValue(SecretMarker)
}

// Key is a 32 byte key used for encryption and blind indexes.
type Key struct {
	redacted
	value []byte
}

// ParseKey expects a hex encoded key of 32 bytes (64 characters).
func ParseKey(raw string) (Key, error) {
	if len(raw) != keyLen*2 {
		return Key{}, fmt.Errorf("%w: expected %d hex characters, got %d", ErrInvalidKey, keyLen*2, len(raw))
	}

	b, err := hex.DecodeString(raw)
	if err != nil {
		return Key{}, fmt.Errorf("%w: not hex encoded", ErrInvalidKey)
	}

	return Key{value: b}, nil
}

// ParseKeys parses a comma separated list of hex encoded keys.
// Whitespace around the keys is ignored.
func ParseKeys(raw string) ([]Key, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: need at least one key", ErrInvalidKey)
	}

	parts := strings.Split(raw, ",")
	keys := make([]Key, 0, len(parts))
	for i, part := range parts {
		k, err := ParseKey(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys = append(keys, k)
	}

	return keys, nil
}

// SecretValue returns the key as a byte slice. This is provided
// as an escape hatch for cases where the key needs to be provided
// to third party packages or libraries.
func (k Key) SecretValue() []byte {
	return k.value
}

// Secret is arbitrary sensitive data that needs to be passed
// around but not exposed. Things like API keys or passwords of
// email providers.
type Secret struct {
	redacted
	value []byte
}

func NewSecret(raw string) Secret {
	return Secret{value: []byte(raw)}
}

// SecretValue returns the raw secret, see Key.SecretValue.
func (s Secret) SecretValue() []byte {
	return s.value
}

// IsZero reports whether the secret is empty.
func (s Secret) IsZero() bool {
	return len(s.value) == 0
}
