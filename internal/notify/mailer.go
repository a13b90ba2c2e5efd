package notify

import (
	"fmt"
	"strings"

	"jadwal-backend/internal/service"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer e-mails sync run failures to the operations address.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     []string
	logger *zap.Logger
}

var _ service.Notifier = (*Mailer)(nil)

func NewMailer(host string, port int, user, pass, from, to string, logger *zap.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		to:     strings.Split(to, ","),
		logger: logger,
	}
}

func (m *Mailer) NotifyRunFailure(summary service.RunSummary) error {
	body := fmt.Sprintf(
		"Attendance sync failed.\n\nTriggered by: %s\nAttempts: %d\nDuration: %s\nError: %s\n",
		summary.TriggeredBy, summary.Attempts, summary.Duration, summary.Error,
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", "[jadwal-backend] attendance sync failed")
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send failure mail: %w", err)
	}
	m.logger.Info("sync failure notification sent", zap.Strings("to", m.to))
	return nil
}
