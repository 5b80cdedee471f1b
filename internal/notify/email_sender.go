package notify

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	gomail "gopkg.in/mail.v2"
)

// EmailSender delivers messages via SMTP.
type EmailSender struct {
	cfg    EmailConfig
	logger arbor.ILogger
}

func NewEmailSender(cfg EmailConfig, logger arbor.ILogger) *EmailSender {
	return &EmailSender{cfg: cfg, logger: logger}
}

func (s *EmailSender) Enabled() bool {
	return s.cfg.Enabled
}

// Send delivers an email with HTML body and plain text fallback. It is a no-op
// when email is disabled.
func (s *EmailSender) Send(msg *RenderedMessage) error {
	if !s.cfg.Enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" && msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
	} else {
		m.SetBody("text/plain", msg.Text)
	}

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("to", s.cfg.ToEmail).Str("subject", msg.Subject).Msg("Failed to send email")
		return fmt.Errorf("failed to send email to %s: %w", s.cfg.ToEmail, err)
	}

	s.logger.Info().Str("subject", msg.Subject).Msg("Email sent")
	return nil
}
