package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/fruitfulhq/storefront-backend/config"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
)

// SMTPMailer sends verification codes over plain SMTP. When no host is
// configured (local development) it logs the code instead of sending.
type SMTPMailer struct {
	cfg config.OTPConfig
}

func NewSMTPMailer(cfg config.OTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendOTP(ctx context.Context, email, code string) error {
	if m.cfg.SMTPHost == "" {
		logger.Warn("SMTP not configured, logging verification code instead", map[string]interface{}{
			"email": email,
			"code":  code,
		})
		return nil
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your Fruitful verification code\r\n\r\nYour verification code is %s. It expires in %s.\r\n",
		m.cfg.FromAddress, email, code, m.cfg.CodeTTL,
	))

	if err := smtp.SendMail(addr, auth, m.cfg.FromAddress, []string{email}, msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	logger.Debug("Verification email sent", map[string]interface{}{
		"email": email,
	})
	return nil
}
