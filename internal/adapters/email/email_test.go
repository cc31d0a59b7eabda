package email

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventadmin/internal/domain"
)

// fakeSES implements sesAPI and records the last input.
type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestTemplateRenderer_Render(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	subject, html, text, err := r.Render("password_reset", &domain.PasswordResetEmailData{
		Email:            "admin@example.com",
		Code:             "123456",
		ExpiresInMinutes: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, "Your password reset code", subject)
	assert.Contains(t, html, "<strong>123456</strong>")
	assert.Contains(t, text, "123456")
	assert.Contains(t, text, "15 minutes")

	subject, html, _, err = r.Render("welcome", &domain.WelcomeMessageEmailData{Email: "a@b.com", Name: "<Ann>"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Event Admin, <Ann>", subject)
	assert.Contains(t, html, "&lt;Ann&gt;", "html body is escaped")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)
	_, _, _, err = r.Render("missing", nil)
	assert.Error(t, err)
}

func TestSESMailer_Send(t *testing.T) {
	tests := []struct {
		name       string
		fromName   string
		html       string
		text       string
		clientErr  error
		wantSource string
		wantErr    bool
	}{
		{name: "html and text", fromName: "Event Admin", html: "<p>hi</p>", text: "hi", wantSource: "Event Admin <noreply@example.com>"},
		{name: "text only", text: "hi", wantSource: "noreply@example.com"},
		{name: "client error", text: "hi", clientErr: errors.New("throttled"), wantSource: "noreply@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSES{err: tt.clientErr}
			m := newSESMailer(client, "noreply@example.com", tt.fromName)

			err := m.Send("to@example.com", "Subject", tt.html, tt.text)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NotNil(t, client.input)
			assert.Equal(t, tt.wantSource, aws.ToString(client.input.Source))
			assert.Equal(t, []string{"to@example.com"}, client.input.Destination.ToAddresses)
			assert.Equal(t, "Subject", aws.ToString(client.input.Message.Subject.Data))
			assert.Equal(t, tt.html != "", client.input.Message.Body.Html != nil)
			assert.Equal(t, tt.text != "", client.input.Message.Body.Text != nil)
		})
	}
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: "noop"})
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)
	assert.NoError(t, m.Send("a@b.com", "s", "", "t"))

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"})
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: "ses"})
	assert.Error(t, err, "ses needs a from address")

	m, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "noreply@example.com", SES: SESConfig{Region: "eu-west-1"}})
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)
}
