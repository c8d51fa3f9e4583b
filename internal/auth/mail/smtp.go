package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"time"
)

const defaultFromName = "IronWall Security"

// SMTPConfig holds connection settings for the outbound mail relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// From is the envelope and header sender address.
	From string

	// FromName is the display name on the From header. Defaults to the
	// service branding when empty.
	FromName string
}

// Addr returns the host:port dial address for the relay.
func (c SMTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

// Configured reports whether enough settings are present to attempt
// delivery at all.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

// SMTPMailer sends mail through a single SMTP relay, upgrading the
// connection with STARTTLS when the server offers it.
type SMTPMailer struct {
	cfg SMTPConfig
	log *slog.Logger

	// dialTimeout bounds connection establishment for Verify and sends.
	dialTimeout time.Duration
}

// NewSMTPMailer builds a mailer for the given relay settings.
func NewSMTPMailer(cfg SMTPConfig, log *slog.Logger) *SMTPMailer {
	if cfg.FromName == "" {
		cfg.FromName = defaultFromName
	}
	return &SMTPMailer{cfg: cfg, log: log, dialTimeout: 10 * time.Second}
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, username, otp string) error {
	msg := buildOTPMessage(m.cfg.FromName, m.cfg.From, to, username, otp, time.Now())

	if err := m.send(ctx, to, msg); err != nil {
		return fmt.Errorf("send otp mail to %s: %w", to, err)
	}

	m.log.InfoContext(ctx, "otp email sent", "to", to)
	return nil
}

// Verify dials the relay, negotiates TLS and authenticates, then quits
// without sending anything.
func (m *SMTPMailer) Verify(ctx context.Context) error {
	client, err := m.connect(ctx)
	if err != nil {
		return fmt.Errorf("verify smtp connection: %w", err)
	}
	defer client.Close()

	return client.Quit()
}

func (m *SMTPMailer) send(ctx context.Context, to string, msg []byte) error {
	client, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// connect dials the relay and runs the EHLO, STARTTLS and AUTH phases.
// Callers own the returned client and must Close it.
func (m *SMTPMailer) connect(ctx context.Context) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: m.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.cfg.Addr())
	if err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			client.Close()
			return nil, err
		}
	}

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, err
		}
	}

	return client, nil
}
