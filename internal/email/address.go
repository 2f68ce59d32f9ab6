package email

import (
	"errors"
	"net/mail"
	"strings"
)

// ErrInvalidEmail indicates an email address is not valid.
var ErrInvalidEmail = errors.New("invalid email address")

// Address is a bare email address, without display name or comments.
type Address string

// ParseAddress trims raw and checks that what remains is a single bare
// address as understood by net/mail. Whether the mailbox exists is not checked.
func ParseAddress(raw string) (Address, error) {
	s := strings.TrimSpace(raw)

	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" {
		return "", ErrInvalidEmail
	}

	parsed, err := mail.ParseAddress(s)
	if err != nil || parsed.Name != "" || parsed.Address != s {
		// Inputs like "Alice <alice@example.com>" parse, but are not bare.
		return "", ErrInvalidEmail
	}

	return Address(parsed.Address), nil
}

// Domain returns everything after the last @.
func (a Address) Domain() string {
	i := strings.LastIndexByte(string(a), '@')
	if i == -1 {
		return ""
	}
	return string(a)[i+1:]
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}
