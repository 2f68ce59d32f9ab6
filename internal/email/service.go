package email

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// TemplateElement is used by a renderer to identify the different parts of an email template.
type TemplateElement string

const (
	ElementSubject TemplateElement = "subject"
	ElementBody    TemplateElement = "body"
)

// Renderer is responsible for rendering email templates.
type Renderer interface {
	Render(w io.Writer, name string, element TemplateElement, data any) error
}

// Sender is responsible for actually sending an email.
type Sender interface {
	Send(ctx context.Context, sender, recipient Address, subject, body string) error
}

// ServiceConfig is the configuration for the Service.
type ServiceConfig struct {
	From Address
}

// Service renders templated emails and hands them to a Sender.
type Service struct {
	renderer Renderer
	sender   Sender
	cfg      ServiceConfig
}

func NewService(renderer Renderer, sender Sender, cfg ServiceConfig) *Service {
	return &Service{
		renderer: renderer,
		sender:   sender,
		cfg:      cfg,
	}
}

// Send renders the template with the given name and sends it to recipient.
// The email is sent exactly once, no retries are attempted.
func (s *Service) Send(ctx context.Context, template string, recipient Address, data any) error {
	var subject strings.Builder
	err := s.renderer.Render(&subject, template, ElementSubject, data)
	if err != nil {
		return fmt.Errorf("failed to render subject of %s: %w", template, err)
	}

	var body strings.Builder
	err = s.renderer.Render(&body, template, ElementBody, data)
	if err != nil {
		return fmt.Errorf("failed to render body of %s: %w", template, err)
	}

	return s.sender.Send(ctx, s.cfg.From, recipient, strings.TrimSpace(subject.String()), strings.TrimSpace(body.String()))
}
