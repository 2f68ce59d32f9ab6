package mailgun

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/willemschots/accounts/internal/email"
	"github.com/willemschots/accounts/internal/krypto"
)

const transport = "mailgun"

// Settings contains the settings for the Mailgun API.
type Settings struct {
	// APIHost is the host the API is reached on, including the scheme.
	// For example https://api.eu.mailgun.net.
	APIHost  string
	Domain   string
	Username string
	Password krypto.Secret
}

// Sender is an email sender that sends emails using the Mailgun API.
type Sender struct {
	client   *http.Client
	settings Settings
}

// NewSender creates a new sender.
func NewSender(client *http.Client, s Settings) *Sender {
	return &Sender{
		client:   client,
		settings: s,
	}
}

// Send sends an email using the Mailgun API.
func (s *Sender) Send(ctx context.Context, from, recipient email.Address, subject, body string) error {
	// We POST to the Mailgun API directly instead of using the Go mailgun package,
	// it brings in a lot of dependencies that we don't need.

	// The fields are written in a fixed order so requests are reproducible.
	fields := []struct {
		name  string
		value string
	}{
		{"from", string(from)},
		{"to", string(recipient)},
		{"subject", subject},
		{"text", body},
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		ff, err := w.CreateFormField(f.name)
		if err != nil {
			return err
		}
		_, err = io.Copy(ff, strings.NewReader(f.value))
		if err != nil {
			return err
		}
	}

	err := w.Close()
	if err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s/v3/%s/messages", strings.TrimSuffix(s.settings.APIHost, "/"), s.settings.Domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", w.FormDataContentType())
	req.SetBasicAuth(s.settings.Username, string(s.settings.Password.SecretValue()))

	resp, err := s.client.Do(req)
	if err != nil {
		return &email.DeliveryError{Transport: transport, Err: err}
	}
	defer resp.Body.Close()

	resBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &email.DeliveryError{Transport: transport, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &email.DeliveryError{
			Transport:  transport,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("request did not succeed: %s", string(resBody)),
		}
	}

	return nil
}
