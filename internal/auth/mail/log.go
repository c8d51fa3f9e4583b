package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes verification codes to the service log instead of
// sending mail. It stands in for the SMTP mailer when no relay is
// configured, which keeps local development and container tests working
// without mail infrastructure.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOTP(ctx context.Context, to, username, otp string) error {
	m.log.WarnContext(ctx, "smtp relay not configured, logging verification code instead",
		"to", to,
		"username", username,
		"otp", otp,
	)
	return nil
}

func (m *LogMailer) Verify(ctx context.Context) error { return nil }
