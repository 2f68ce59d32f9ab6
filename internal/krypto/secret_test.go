package krypto_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/willemschots/accounts/internal/krypto"
)

const (
	testKeyHex  = "2b671594b775f371eab4050b4d58326682df6b1a6cc2e886717b1a26b4d6c45d"
	otherKeyHex = "cf55b868d8c7a640265365910093113edce9b6c9226f3bd7c87987d23062d421"
)

func Test_ParseKey(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		k, err := krypto.ParseKey(testKeyHex)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(k.SecretValue()) != 32 {
			t.Errorf("expected 32 byte key, got %d bytes", len(k.SecretValue()))
		}
	})

	failCases := map[string]string{
		"fail, empty string":          "",
		"fail, too short":             testKeyHex[1:],
		"fail, too long":              testKeyHex + "a",
		"fail, invalid hex character": "z" + testKeyHex[1:],
	}

	for name, val := range failCases {
		t.Run(name, func(t *testing.T) {
			_, err := krypto.ParseKey(val)
			if !errors.Is(err, krypto.ErrInvalidKey) {
				t.Fatalf("expected %v, got %v (via errors.Is)", krypto.ErrInvalidKey, err)
			}
		})
	}
}

func Test_ParseKeys(t *testing.T) {
	t.Run("ok, keeps order and ignores whitespace", func(t *testing.T) {
		keys, err := krypto.ParseKeys(testKeyHex + " , " + otherKeyHex)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(keys) != 2 {
			t.Fatalf("expected 2 keys, got %d", len(keys))
		}

		if !bytes.Equal(keys[1].SecretValue(), must(krypto.ParseKey(otherKeyHex)).SecretValue()) {
			t.Errorf("second key does not match")
		}
	})

	failCases := map[string]string{
		"fail, empty":          "",
		"fail, only spaces":    "  ",
		"fail, trailing comma": testKeyHex + ",",
		"fail, one bad key":    testKeyHex + ",abc",
	}

	for name, val := range failCases {
		t.Run(name, func(t *testing.T) {
			_, err := krypto.ParseKeys(val)
			if !errors.Is(err, krypto.ErrInvalidKey) {
				t.Fatalf("expected %v, got %v (via errors.Is)", krypto.ErrInvalidKey, err)
			}
		})
	}
}

func Test_PreventExposure(t *testing.T) {
	values := map[string]struct {
		val any
		raw string
	}{
		"key": {
			val: must(krypto.ParseKey(testKeyHex)),
			raw: testKeyHex,
		},
		"secret": {
			val: krypto.NewSecret("my secret"),
			raw: "my secret",
		},
	}

	for name, tc := range values {
		t.Run("ok, "+name, func(t *testing.T) {
			outputs := []string{
				fmt.Sprintf("%v", tc.val),
				fmt.Sprintf("%+v", tc.val),
				fmt.Sprintf("%#v", tc.val),
			}

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			logger.Info("logging a sensitive value", "value", tc.val)
			outputs = append(outputs, buf.String())

			b, err := json.Marshal(tc.val)
			if err != nil {
				t.Fatalf("failed to marshal: %v", err)
			}
			outputs = append(outputs, string(b))

			for _, out := range outputs {
				if strings.Contains(out, tc.raw) {
					t.Errorf("output\n%s\ncontains raw value", out)
				}
			}

			if !strings.Contains(buf.String(), krypto.SecretMarker) {
				t.Errorf("log output\n%s\ndoes not contain secret marker", buf.String())
			}
		})
	}

	t.Run("ok, secret is zero", func(t *testing.T) {
		if !krypto.NewSecret("").IsZero() {
			t.Error("expected empty secret to be zero")
		}
		if krypto.NewSecret("x").IsZero() {
			t.Error("expected non-empty secret not to be zero")
		}
	})
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
