package krypto_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/willemschots/accounts/internal/krypto"
)

func failTextToArgon2Hash() map[string]string {
	return map[string]string{
		"fail, wrong variant":           "$argon2i$v=19$m=47104,t=1,p=1$fYJT8cAysfuYCBjxTEmCkaCz0RfRtlLQOw2Fj8gM5Uw$DVpK1dNdPRmhL8oTSo+RlA",
		"fail, non-numeric version":     "$argon2id$v=abc$m=47104,t=1,p=1$fYJT8cAysfuYCBjxTEmCkaCz0RfRtlLQOw2Fj8gM5Uw$DVpK1dNdPRmhL8oTSo+RlA",
		"fail, non-matching version":    "$argon2id$v=18$m=47104,t=1,p=1$fYJT8cAysfuYCBjxTEmCkaCz0RfRtlLQOw2Fj8gM5Uw$DVpK1dNdPRmhL8oTSo+RlA",
		"fail, non-numeric memory":      "$argon2id$v=19$m=abc,t=1,p=1$fYJT8cAysfuYCBjxTEmCkaCz0RfRtlLQOw2Fj8gM5Uw$DVpK1dNdPRmhL8oTSo+RlA",
		"fail, non-numeric iterations":  "$argon2id$v=19$m=47104,t=abc,p=1$fYJT8cAysfuYCBjxTEmCkaCz0RfRtlLQOw2Fj8gM5Uw$DVpK1dNdPRmhL8oTSo+RlA",
		"fail, non-numeric parallelism": "$argon2id$v=19$m=47104,t=1,p=abc$fYJT8cAysfuYCBjxTEmCkaCz0RfRtlLQOw2Fj8gM5Uw$DVpK1dNdPRmhL8oTSo+RlA",
		"fail, non-base64 salt":         "$argon2id$v=19$m=47104,t=1,p=1$???????????????????????????????????????????$DVpK1dNdPRmhL8oTSo+RlA",
		"fail, non-base64 hash":         "$argon2id$v=19$m=47104,t=1,p=1$fYJT8cAysfuYCBjxTEmCkaCz0RfRtlLQOw2Fj8gM5Uw$??????????????????????",
	}
}

type argon2HashTest struct {
	raw     string
	hashStr string
	hash    krypto.Argon2Hash
}

func okTextToArgon2Hash() map[string]argon2HashTest {
	return map[string]argon2HashTest{
		"ascii": {
			raw:     "12345678",
			hashStr: "$argon2id$v=19$m=47104,t=1,p=1$vP9U4C5jsOzFQLj0gvUkYw$YLrSb2dGfcVohlm8syynqHs6/NHxXS9rt/t6TjL7pi0",
			hash: krypto.Argon2Hash{
				Variant:     "argon2id",
				Version:     19,
				MemoryKiB:   47104,
				Iterations:  1,
				Parallelism: 1,
				Salt: []byte{
					0xbc, 0xff, 0x54, 0xe0, 0x2e, 0x63, 0xb0, 0xec,
					0xc5, 0x40, 0xb8, 0xf4, 0x82, 0xf5, 0x24, 0x63,
				},
				Hash: []byte{
					0x60, 0xba, 0xd2, 0x6f, 0x67, 0x46, 0x7d, 0xc5,
					0x68, 0x86, 0x59, 0xbc, 0xb3, 0x2c, 0xa7, 0xa8,
					0x7b, 0x3a, 0xfc, 0xd1, 0xf1, 0x5d, 0x2f, 0x6b,
					0xb7, 0xfb, 0x7a, 0x4e, 0x32, 0xfb, 0xa6, 0x2d,
				},
			},
		},
		"non-ascii": {
			raw:     "ðŸ¥¸ðŸ¥¸ðŸ¥¸",
			hashStr: "$argon2id$v=19$m=47104,t=1,p=1$CkX5zzYLJMWm0y/17eScyw$Qfah+NewdsdeF0+iV72mShZhRO93Qwzdj17TUZCH6ZU",
			hash: krypto.Argon2Hash{
				Variant:     "argon2id",
				Version:     19,
				MemoryKiB:   47104,
				Iterations:  1,
				Parallelism: 1,
				Salt: []byte{
					0xa, 0x45, 0xf9, 0xcf, 0x36, 0xb, 0x24, 0xc5,
					0xa6, 0xd3, 0x2f, 0xf5, 0xed, 0xe4, 0x9c, 0xcb,
				},
				Hash: []byte{
					0x41, 0xf6, 0xa1, 0xf8, 0xd7, 0xb0, 0x76, 0xc7,
					0x5e, 0x17, 0x4f, 0xa2, 0x57, 0xbd, 0xa6, 0x4a,
					0x16, 0x61, 0x44, 0xef, 0x77, 0x43, 0xc, 0xdd,
					0x8f, 0x5e, 0xd3, 0x51, 0x90, 0x87, 0xe9, 0x95,
				},
			},
		},
	}
}

func Test_HashArgon2(t *testing.T) {
	for name, tc := range okTextToArgon2Hash() {
		t.Run("ok, "+name, func(t *testing.T) {
			got := must(krypto.HashArgon2([]byte(tc.raw)))

			// A fresh random salt gives a different hash for the same input.
			if reflect.DeepEqual(got, tc.hash) {
				t.Errorf("did not expect\n%#v\nto equal\n%#v\n", got, tc.hash)
			}

			if !got.MatchBytes([]byte(tc.raw)) {
				t.Errorf("expected raw value to match hash, but it did not")
			}

			if got.MatchBytes([]byte(tc.raw + "x")) {
				t.Errorf("expected other value not to match hash, but it did")
			}
		})
	}

	for name, raw := range map[string][]byte{"fail, nil": nil, "fail, empty": {}} {
		t.Run(name, func(t *testing.T) {
			_, err := krypto.HashArgon2(raw)
			if !errors.Is(err, krypto.ErrInvalidInput) {
				t.Fatalf("expected %v, but got %v (via errors.Is)", krypto.ErrInvalidInput, err)
			}
		})
	}

	t.Run("fail, zero hash matches nothing", func(t *testing.T) {
		if (krypto.Argon2Hash{}).MatchBytes([]byte("")) {
			t.Error("expected zero hash not to match")
		}
	})
}

func Test_HashArgon2WithKey(t *testing.T) {
	key := must(krypto.ParseKey(testKeyHex))

	t.Run("ok, deterministic", func(t *testing.T) {
		a := must(krypto.HashArgon2WithKey([]byte("alice@example.com"), key))
		b := must(krypto.HashArgon2WithKey([]byte("alice@example.com"), key))

		if !reflect.DeepEqual(a, b) {
			t.Errorf("expected equal hashes, got\n%s\n%s", a, b)
		}
	})

	t.Run("fail, zero key", func(t *testing.T) {
		_, err := krypto.HashArgon2WithKey([]byte("alice@example.com"), krypto.Key{})
		if !errors.Is(err, krypto.ErrInvalidKey) {
			t.Fatalf("expected %v, got %v (via errors.Is)", krypto.ErrInvalidKey, err)
		}
	})
}

// Test_Argon2Hash_Decode checks every way a hash is read back from its PHC string.
func Test_Argon2Hash_Decode(t *testing.T) {
	decoders := map[string]func(s string) (krypto.Argon2Hash, error){
		"parse": krypto.ParseArgon2Hash,
		"unmarshal text": func(s string) (krypto.Argon2Hash, error) {
			var h krypto.Argon2Hash
			err := h.UnmarshalText([]byte(s))
			return h, err
		},
		"scan string": func(s string) (krypto.Argon2Hash, error) {
			var h krypto.Argon2Hash
			err := h.Scan(s)
			return h, err
		},
		"scan bytes": func(s string) (krypto.Argon2Hash, error) {
			var h krypto.Argon2Hash
			err := h.Scan([]byte(s))
			return h, err
		},
	}

	for dName, decode := range decoders {
		for name, tc := range okTextToArgon2Hash() {
			t.Run(fmt.Sprintf("ok, %s %s", dName, name), func(t *testing.T) {
				got, err := decode(tc.hashStr)
				if err != nil {
					t.Fatalf("failed to decode argon2 hash: %v", err)
				}

				if !reflect.DeepEqual(got, tc.hash) {
					t.Errorf("wanted\n%#v\nbut got\n%#v\n", tc.hash, got)
				}

				if !got.MatchBytes([]byte(tc.raw)) {
					t.Errorf("expected raw value to match hash, but it did not")
				}
			})
		}

		for name, txt := range failTextToArgon2Hash() {
			t.Run(dName+" "+name, func(t *testing.T) {
				_, err := decode(txt)
				if !errors.Is(err, krypto.ErrInvalidInput) {
					t.Errorf("expected %v, got %v (via errors.Is)", krypto.ErrInvalidInput, err)
				}
			})
		}
	}

	t.Run("fail, scan unsupported type", func(t *testing.T) {
		var got krypto.Argon2Hash
		if err := got.Scan(42); err == nil {
			t.Fatalf("expected error to be non-nil")
		}
	})
}

func Test_Argon2Hash_Encode(t *testing.T) {
	for name, tc := range okTextToArgon2Hash() {
		t.Run("ok, "+name, func(t *testing.T) {
			txt := must(tc.hash.MarshalText())
			val := must(tc.hash.Value())

			for _, got := range []any{tc.hash.String(), string(txt), val} {
				if got != tc.hashStr {
					t.Errorf("got\n%v\nwant\n%s\n", got, tc.hashStr)
				}
			}
		})
	}
}
