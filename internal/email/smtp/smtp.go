// Package smtp sends emails to an SMTP relay.
package smtp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/willemschots/accounts/internal/email"
	"github.com/willemschots/accounts/internal/krypto"
)

const transport = "smtp"

// Settings contains the settings for the SMTP relay.
type Settings struct {
	Host     string
	Port     int
	Username string
	Password krypto.Secret
}

// Sender is an email sender that delivers emails to an SMTP relay.
type Sender struct {
	settings Settings

	// NowFunc is used for the Date header.
	// Exposed for testing purposes.
	NowFunc func() time.Time
}

// NewSender creates a new sender.
func NewSender(s Settings) *Sender {
	return &Sender{
		settings: s,
		NowFunc:  time.Now,
	}
}

// Send delivers a plain text email to the relay. A single delivery attempt
// is made, rejections are returned as *email.DeliveryError with the SMTP
// reply code as status.
func (s *Sender) Send(ctx context.Context, from, recipient email.Address, subject, body string) error {
	addr := net.JoinHostPort(s.settings.Host, strconv.Itoa(s.settings.Port))
	msg, err := s.message(from, recipient, subject, body)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if s.settings.Username != "" {
		auth = smtp.PlainAuth("", s.settings.Username, string(s.settings.Password.SecretValue()), s.settings.Host)
	}

	// smtp.SendMail does not accept a context, so it runs in its own goroutine
	// and is abandoned when ctx is done.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, string(from), []string{string(recipient)}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return deliveryError(err)
		}
		return nil
	case <-ctx.Done():
		return &email.DeliveryError{Transport: transport, Err: ctx.Err()}
	}
}

func (s *Sender) message(from, recipient email.Address, subject, body string) ([]byte, error) {
	id, err := krypto.GenerateToken()
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", id, from.Domain())
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", s.NowFunc().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.Bytes(), nil
}

func deliveryError(err error) error {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return &email.DeliveryError{Transport: transport, StatusCode: tpErr.Code, Err: err}
	}
	return &email.DeliveryError{Transport: transport, Err: err}
}
