// Package view renders email templates.
//
// Every template is a *.tmpl file in the root of a file system that defines
// a "subject" and a "body" block. The file name without extension is the
// name used to render it.
package view

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/willemschots/accounts/internal/email"
)

var ErrUnknownTemplate = errors.New("unknown email template")

// Templates is a set of email templates that were parsed up front.
// It is safe for concurrent use.
type Templates struct {
	byName map[string]*template.Template
}

// Load parses all templates in fsys. It fails on the first template
// that does not parse or misses one of the required blocks.
func Load(fsys fs.FS) (*Templates, error) {
	files, err := fs.Glob(fsys, "*.tmpl")
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, errors.New("no email templates found")
	}

	t := &Templates{
		byName: make(map[string]*template.Template, len(files)),
	}

	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".tmpl")
		if err := validateName(name); err != nil {
			return nil, err
		}

		tmpl, err := template.New(name).Option("missingkey=error").ParseFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}

		for _, el := range []email.TemplateElement{email.ElementSubject, email.ElementBody} {
			if tmpl.Lookup(string(el)) == nil {
				return nil, fmt.Errorf("template %s is missing the %s block", name, el)
			}
		}

		t.byName[name] = tmpl
	}

	return t, nil
}

// Render executes one element of the named template.
func (t *Templates) Render(w io.Writer, name string, element email.TemplateElement, data any) error {
	tmpl, ok := t.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	return tmpl.ExecuteTemplate(w, string(element), data)
}

// validateName only allows ascii letters, digits, dashes and underscores.
func validateName(name string) error {
	if name == "" {
		return errors.New("empty template name")
	}

	for _, r := range name {
		switch {
		case r == '-', r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return fmt.Errorf("invalid character %q in template name %q", r, name)
		}
	}

	return nil
}
