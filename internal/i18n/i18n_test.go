package i18n_test

import (
	"testing"
	"testing/fstest"

	"github.com/willemschots/accounts/assets"
	"github.com/willemschots/accounts/internal/i18n"
	"golang.org/x/text/language"
)

func Test_Bundle_Match(t *testing.T) {
	b, err := i18n.Load(assets.LocaleFS, "en", "th")
	if err != nil {
		t.Fatalf("failed to load bundle: %v", err)
	}

	tests := map[string]struct {
		header string
		want   language.Tag
	}{
		"ok, no header":          {header: "", want: language.English},
		"ok, english":            {header: "en", want: language.English},
		"ok, thai":               {header: "th", want: language.Thai},
		"ok, thai with region":   {header: "th-TH", want: language.Thai},
		"ok, weighted list":      {header: "de;q=0.9, th;q=0.8", want: language.Thai},
		"ok, unsupported locale": {header: "de", want: language.English},
		"ok, malformed header":   {header: ";;;", want: language.English},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := b.Match(tc.header)
			base, _ := got.Base()
			wantBase, _ := tc.want.Base()
			if base != wantBase {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func Test_Bundle_Translator(t *testing.T) {
	fsys := fstest.MapFS{
		"en.json": {Data: []byte(`{"greeting": "Hello"}`)},
		"th.json": {Data: []byte(`{"greeting": "สวัสดี"}`)},
	}

	b, err := i18n.Load(fsys, "en", "th")
	if err != nil {
		t.Fatalf("failed to load bundle: %v", err)
	}

	t.Run("ok, translates per locale", func(t *testing.T) {
		if got := b.Translator(language.English)("greeting"); got != "Hello" {
			t.Errorf("got %q, want %q", got, "Hello")
		}

		if got := b.Translator(language.Thai)("greeting"); got != "สวัสดี" {
			t.Errorf("got %q, want %q", got, "สวัสดี")
		}
	})

	t.Run("ok, unknown key is returned as-is", func(t *testing.T) {
		if got := b.Translator(language.English)("unknown_key"); got != "unknown_key" {
			t.Errorf("got %q, want %q", got, "unknown_key")
		}
	})

	t.Run("ok, unsupported tag falls back to default", func(t *testing.T) {
		if got := b.Translator(language.German)("greeting"); got != "Hello" {
			t.Errorf("got %q, want %q", got, "Hello")
		}
	})
}

func Test_Load(t *testing.T) {
	failCases := map[string]struct {
		fsys    fstest.MapFS
		locales []string
	}{
		"fail, no locales": {
			fsys: fstest.MapFS{},
		},
		"fail, missing file": {
			fsys:    fstest.MapFS{},
			locales: []string{"en"},
		},
		"fail, invalid json": {
			fsys:    fstest.MapFS{"en.json": {Data: []byte(`{`)}},
			locales: []string{"en"},
		},
		"fail, invalid locale": {
			fsys:    fstest.MapFS{"@@.json": {Data: []byte(`{}`)}},
			locales: []string{"@@"},
		},
	}

	for name, tc := range failCases {
		t.Run(name, func(t *testing.T) {
			_, err := i18n.Load(tc.fsys, tc.locales...)
			if err == nil {
				t.Fatalf("expected an error, got <nil>")
			}
		})
	}

	t.Run("ok, embedded locales have the same keys", func(t *testing.T) {
		b, err := i18n.Load(assets.LocaleFS, "en", "th")
		if err != nil {
			t.Fatalf("failed to load bundle: %v", err)
		}

		en := b.Translator(language.English)
		th := b.Translator(language.Thai)
		for _, key := range []string{
			"username_null", "username_size", "email_null", "email_invalid", "email_inuse",
			"password_null", "password_size", "password_invalid", "user_create_success",
			"email_failure", "validation_failure", "account_activation_success",
			"account_activation_failure", "invalid_input", "internal_error",
			"not_found", "method_not_allowed",
		} {
			if en(key) == key {
				t.Errorf("missing english translation for %q", key)
			}
			if th(key) == key {
				t.Errorf("missing thai translation for %q", key)
			}
		}
	})
}
