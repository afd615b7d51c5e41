// Package notify delivers intrusion alerts to the configured recipients.
package notify

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/rs/zerolog/log"
)

// Notifier sends an alert to a list of recipients.
type Notifier interface {
	Send(recipients []string) error
}

// Mailer sends alerts over plain SMTP.
type Mailer struct {
	// Server is the SMTP host:port.
	Server string
	// From is the envelope and header sender address.
	From string
}

// NewMailer creates an SMTP notifier.
func NewMailer(server, from string) *Mailer {
	return &Mailer{Server: server, From: from}
}

func (m *Mailer) Send(recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s\r\nSubject: pihome alarm\r\n\r\nDoor opened while armed at %s.\r\n",
		m.From, time.Now().Format(time.ANSIC))

	if err := smtp.SendMail(m.Server, nil, m.From, recipients, []byte(msg)); err != nil {
		return fmt.Errorf("send alarm mail: %w", err)
	}

	log.Info().Strs("recipients", recipients).Msg("alarm mail sent")
	return nil
}

// LogNotifier is used when no SMTP server is configured. Alerts are
// only logged.
type LogNotifier struct{}

func (LogNotifier) Send(recipients []string) error {
	log.Warn().Strs("recipients", recipients).Msg("alarm raised, mail delivery not configured")
	return nil
}
