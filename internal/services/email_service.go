package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendOTPEmail(email, code string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendOTPEmail(email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your password reset code - Pharmacademy")

	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>Your one-time code is:</p>
		<p style="font-size:32px;font-weight:bold;letter-spacing:8px;font-family:monospace">%s</p>
		<p>The code expires in <strong>10 minutes</strong>.</p>
		<p>If you did not request a password reset, you can ignore this email.
		Your password will not be changed.</p>
	`, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	return nil
}
