package email

import (
	"fmt"
	"net/smtp"

	"go-jobsearch-backend/config"
)

// EmailService sends plain-text outreach mail over SMTP. A LAN relay with no
// auth works (leave username/password empty); hosted providers need both.
type EmailService struct {
	host       string
	port       string
	username   string
	password   string
	fromEmail  string
	senderName string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		username:   cfg.SMTPUsername,
		password:   cfg.SMTPPassword,
		fromEmail:  cfg.SMTPFromEmail,
		senderName: cfg.SenderName,
	}
}

// Send delivers a plain-text email to a single recipient. Failures are
// returned to the caller; there is no retry.
func (s *EmailService) Send(toAddr, subject, body string) error {
	from := s.fromEmail
	if s.senderName != "" {
		from = fmt.Sprintf("%s <%s>", s.senderName, s.fromEmail)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		from,
		toAddr,
		subject,
		body,
	))

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{toAddr}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has a usable SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.fromEmail != ""
}
