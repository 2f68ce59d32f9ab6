// Package i18n resolves the locale of a request and looks up translated
// message strings for it.
package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
)

// Translator returns the translation of key for an already resolved locale.
// Unknown keys are returned as-is.
type Translator func(key string) string

// Bundle contains the translation tables of all supported locales.
// The first locale is the fallback when nothing else matches.
type Bundle struct {
	tags    []language.Tag
	tables  map[language.Tag]map[string]string
	matcher language.Matcher
}

// Load reads one <locale>.json file per locale from fsys. Each file is a flat
// object mapping message keys to translated strings. The first locale is used
// as the default.
func Load(fsys fs.FS, locales ...string) (*Bundle, error) {
	if len(locales) == 0 {
		return nil, errors.New("at least one locale is required")
	}

	b := &Bundle{
		tags:   make([]language.Tag, 0, len(locales)),
		tables: make(map[language.Tag]map[string]string, len(locales)),
	}

	for _, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", l, err)
		}

		data, err := fs.ReadFile(fsys, path.Join(".", l+".json"))
		if err != nil {
			return nil, fmt.Errorf("failed to read translations for %q: %w", l, err)
		}

		table := make(map[string]string)
		err = json.Unmarshal(data, &table)
		if err != nil {
			return nil, fmt.Errorf("failed to decode translations for %q: %w", l, err)
		}

		b.tags = append(b.tags, tag)
		b.tables[tag] = table
	}

	b.matcher = language.NewMatcher(b.tags)

	return b, nil
}

// Match resolves the locale for the value of an Accept-Language header.
// It falls back to the default locale if the header is empty, malformed
// or does not match any supported locale.
func (b *Bundle) Match(acceptLanguage string) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return b.tags[0]
	}

	_, index, confidence := b.matcher.Match(parseAcceptLanguage(acceptLanguage)...)
	if confidence == language.No {
		return b.tags[0]
	}

	return b.tags[index]
}

// Translator returns a Translator bound to tag. Unsupported tags get the
// default locale.
func (b *Bundle) Translator(tag language.Tag) Translator {
	table, ok := b.tables[tag]
	if !ok {
		table = b.tables[b.tags[0]]
	}

	return func(key string) string {
		if s, ok := table[key]; ok {
			return s
		}
		return key
	}
}

func parseAcceptLanguage(s string) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil {
		return nil
	}
	return tags
}
