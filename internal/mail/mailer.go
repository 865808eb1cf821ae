package mail

import (
	"wyzar-be/internal/config"
	"wyzar-be/internal/logger"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends transactional mail. Send failures come back as values so
// callers can log and continue; a lost OTP mail never fails the request
// that triggered it.
type Mailer interface {
	SendOTP(email, code string) error
	SendPasswordResetOTP(email, code string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		logger.L().Warn("SMTP host is empty, outgoing mail will fail")
	}

	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

func (m *smtpMailer) send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.L().Error("failed to send mail",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	logger.L().Info("mail sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

func (m *smtpMailer) SendOTP(email, code string) error {
	html, err := renderOTPMail(code)
	if err != nil {
		return err
	}
	return m.send(email, "Your WyZar Verification Code", html)
}

func (m *smtpMailer) SendPasswordResetOTP(email, code string) error {
	html, err := renderPasswordResetMail(code)
	if err != nil {
		return err
	}
	return m.send(email, "WyZar Password Reset Code", html)
}
