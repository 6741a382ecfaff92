// Package mailer sends outbound email over SMTP.
package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/gobank/core/pkg/config"
)

// SMTPSender delivers mail over implicit TLS.
type SMTPSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers one message. It dials per call; notification volume here does
// not justify connection pooling.
func (s *SMTPSender) Send(to, subject, body string) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := s.cfg.Host + ":" + s.cfg.Port
	tlsConfig := &tls.Config{ServerName: s.cfg.Host}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return fmt.Errorf("dial smtp server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit() //nolint:errcheck

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
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
	return w.Close()
}
