package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/config"
)

// SMTPSender delivers email over an authenticated STARTTLS connection to a
// fixed mail relay. One connection is opened per attempt and closed before
// the attempt's outcome is returned.
type SMTPSender struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	dialTimeout time.Duration
}

// Ensure SMTPSender implements the Sender interface
var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender creates a sender for the configured mail relay.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		host:        cfg.Host,
		port:        cfg.Port,
		username:    cfg.Username,
		password:    cfg.Password,
		from:        cfg.From,
		dialTimeout: 10 * time.Second,
	}
}

// Send performs one delivery attempt and classifies the result:
// a malformed recipient is a permanent Drop, a relay authentication
// failure is Fatal, and every other error (dial, disconnect, data
// transfer) is Transient.
func (s *SMTPSender) Send(ctx context.Context, job Job) Outcome {
	if _, err := mail.ParseAddress(job.Recipient); err != nil {
		return Drop(fmt.Errorf("invalid recipient address: %w", err))
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	dialer := &net.Dialer{Timeout: s.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return Transient(fmt.Errorf("failed to dial relay: %w", err))
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return Transient(fmt.Errorf("failed to open SMTP session: %w", err))
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return Transient(fmt.Errorf("failed to start TLS: %w", err))
		}
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return Fatal(fmt.Errorf("relay authentication failed: %w", err))
	}

	if err := client.Mail(s.from); err != nil {
		return Transient(fmt.Errorf("failed to set sender: %w", err))
	}
	if err := client.Rcpt(job.Recipient); err != nil {
		return Transient(fmt.Errorf("failed to set recipient: %w", err))
	}

	w, err := client.Data()
	if err != nil {
		return Transient(fmt.Errorf("failed to open data stream: %w", err))
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.from, job.Recipient, job.Subject, job.Body)
	if _, err := w.Write([]byte(msg)); err != nil {
		_ = w.Close()
		return Transient(fmt.Errorf("failed to write message: %w", err))
	}
	if err := w.Close(); err != nil {
		return Transient(fmt.Errorf("failed to finish data stream: %w", err))
	}

	if err := client.Quit(); err != nil {
		// The relay already accepted the message; a failed QUIT is not a
		// delivery failure.
		return Delivered()
	}

	return Delivered()
}
