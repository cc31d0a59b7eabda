package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"eventadmin/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendWelcomeMessage sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	if err := s.sendTemplate(data.Email, "welcome", data); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	log.Printf("[EMAIL] Welcome email sent to %s", data.Email)
	return nil
}

// SendPasswordReset sends the reset code using the "password_reset" template.
func (s *emailService) SendPasswordReset(ctx context.Context, data *domain.PasswordResetEmailData) error {
	if data == nil {
		return fmt.Errorf("password reset email data is nil")
	}
	if err := s.sendTemplate(data.Email, "password_reset", data); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	log.Printf("[EMAIL] Password reset code sent to %s", data.Email)
	return nil
}

// Deliver sends a plain-text message and reports whether it went out. Failures are logged, not returned.
func (s *emailService) Deliver(ctx context.Context, to, subject, body string) bool {
	to = strings.TrimSpace(to)
	log.Printf("[EMAIL] Sending %q to %s", subject, to)
	if !emailRegexp.MatchString(strings.ToLower(to)) {
		log.Printf("[EMAIL] Not sending to invalid address %q", to)
		return false
	}
	if err := ctx.Err(); err != nil {
		log.Printf("[EMAIL] Not sending to %s: %v", to, err)
		return false
	}
	if err := s.mailer.Send(to, subject, "", body); err != nil {
		log.Printf("[EMAIL] Failed to send to %s: %v", to, err)
		return false
	}
	return true
}

func (s *emailService) sendTemplate(to, name string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(name, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", name, err)
	}
	return s.mailer.Send(to, subject, htmlBody, textBody)
}
