package digest

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"icassist/lib/telemetry"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("digest")

type EmailConfig struct {
	Server   string   `json:"server" validate:"required"`
	Port     int      `json:"port" validate:"required"`
	Address  string   `json:"address" validate:"required,email"`
	Password string   `json:"password"`
	To       []string `json:"to" validate:"required,min=1,dive,email"`
}

func (c EmailConfig) addr() string {
	return fmt.Sprintf("%s:%d", c.Server, c.Port)
}

// Message builds the email for a digest.
func Message(config EmailConfig, d Digest) *email.Email {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Campus Digest <%s>", config.Address)
	mail.To = config.To
	mail.Subject = d.Subject()
	mail.Text = []byte(d.Text())
	mail.HTML = []byte(d.HTML())
	return mail
}

// Send mails the digest. Servers that don't support AUTH are sent to without
// credentials.
func Send(ctx context.Context, config EmailConfig, d Digest) error {
	_, span := tracer.Start(ctx, "digest:Send")
	defer span.End()

	mail := Message(config, d)
	err := mail.Send(
		config.addr(),
		smtp.PlainAuth("", config.Address, config.Password, config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(config.addr(), nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}
