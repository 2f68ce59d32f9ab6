package auth

import (
	"errors"
	"strings"
)

var (
	// ErrEmailDelivery indicates the activation email could not be handed
	// to the mail transport. Registration is rolled back when this happens.
	ErrEmailDelivery = errors.New("email delivery failed")

	// ErrActivationFailed indicates no inactive user was found for a token.
	// Unknown and already redeemed tokens are indistinguishable.
	ErrActivationFailed = errors.New("activation failed")
)

// ValidationError is returned when a registration does not pass validation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed:")
	for _, fe := range e.Fields {
		b.WriteString(" ")
		b.WriteString(fe.Field)
		b.WriteString("=")
		b.WriteString(fe.Key)
	}
	return b.String()
}
