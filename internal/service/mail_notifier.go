package service

import (
	"context"

	"chatdesk/pkg/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// MailNotifier delivers hand-off alerts over SMTP. Delivery is best
// effort; the router logs failures and moves on.
type MailNotifier struct {
	dialer *gomail.Dialer
	sender string
	logger *zap.Logger
}

func NewMailNotifier(cfg *config.SMTPConfig, logger *zap.Logger) *MailNotifier {
	return &MailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		sender: cfg.Sender,
		logger: logger,
	}
}

func (n *MailNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.sender)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return err
	}

	n.logger.Info("Notification sent", zap.String("recipient", recipient), zap.String("subject", subject))
	return nil
}
