package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/willemschots/accounts/internal/email"
	"github.com/willemschots/accounts/internal/krypto"
)

// ActivationTemplate is the name of the email template used for activation emails.
const ActivationTemplate = "user-activation"

// Emailer is used to send templated emails.
type Emailer interface {
	Send(ctx context.Context, template string, to email.Address, data any) error
}

// MailerConfig is the configuration for the Mailer.
type MailerConfig struct {
	// BaseURL is used to construct activation links.
	BaseURL *url.URL
	// SendTimeout bounds a single delivery attempt.
	SendTimeout time.Duration
}

// ActivationEmail is the data available to the activation email template.
type ActivationEmail struct {
	Email         email.Address
	Token         string
	ActivationURL string
}

// Mailer sends activation emails. Every failure is reported as ErrEmailDelivery,
// no retries are attempted.
type Mailer struct {
	emailer Emailer
	cfg     MailerConfig
}

func NewMailer(emailer Emailer, cfg MailerConfig) *Mailer {
	return &Mailer{
		emailer: emailer,
		cfg:     cfg,
	}
}

// SendActivation sends the activation email for token to addr.
func (m *Mailer) SendActivation(ctx context.Context, addr email.Address, token krypto.Token) error {
	if m.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.SendTimeout)
		defer cancel()
	}

	err := m.emailer.Send(ctx, ActivationTemplate, addr, ActivationEmail{
		Email:         addr,
		Token:         token.String(),
		ActivationURL: m.activationURL(token),
	})
	if err != nil {
		return deliveryErr(err)
	}

	return nil
}

func (m *Mailer) activationURL(token krypto.Token) string {
	if m.cfg.BaseURL == nil {
		return "/api/1.0/users/token/" + token.String()
	}

	return m.cfg.BaseURL.JoinPath("api", "1.0", "users", "token", token.String()).String()
}

func deliveryErr(err error) error {
	if errors.Is(err, ErrEmailDelivery) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
}
