package auth

import (
	"bytes"
	"encoding/json"
)

// FieldError links a field of the input to a translation key describing
// what is wrong with it.
type FieldError struct {
	Field string
	Key   string
}

// FieldErrors is an ordered list of field errors. It marshals to a JSON
// object with the fields in list order.
type FieldErrors []FieldError

// Get returns the key for the named field.
func (fe FieldErrors) Get(field string) (string, bool) {
	for _, e := range fe {
		if e.Field == field {
			return e.Key, true
		}
	}
	return "", false
}

// Fields returns the field names in order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for _, e := range fe {
		out = append(out, e.Field)
	}
	return out
}

// Map returns a copy of fe with f applied to every key.
func (fe FieldErrors) Map(f func(string) string) FieldErrors {
	out := make(FieldErrors, 0, len(fe))
	for _, e := range fe {
		out = append(out, FieldError{Field: e.Field, Key: f(e.Key)})
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (fe FieldErrors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range fe {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(e.Field)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
