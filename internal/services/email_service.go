package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"axiestudio/internal/config"
)

type EmailService interface {
	SendVerificationEmail(email, username, token string) error
	SendResetCodeEmail(email, username, code string) error
	SendWelcomeEmail(email, username string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return &emailService{
		dialer:      dialer,
		from:        cfg.FromEmail,
		frontendURL: cfg.FrontendURL,
	}
}

func (s *emailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendVerificationEmail(email, username, token string) error {
	link := fmt.Sprintf("%s/email/verify?token=%s", s.frontendURL, token)

	body := fmt.Sprintf(`
		<h2>Verify your AxieStudio account</h2>
		<p>Hello %s,</p>
		<p>Thank you for signing up. Please confirm your email address to activate your account.</p>
		<p><a href="%s">Confirm Email</a></p>
		<p>This link expires in 24 hours. If you did not create an account, you can ignore this email.</p>
		<p>Best regards,<br>The AxieStudio Team</p>
	`, username, link)

	if err := s.send(email, "Verify your AxieStudio account", body); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *emailService) SendResetCodeEmail(email, username, code string) error {
	body := fmt.Sprintf(`
		<h2>Password reset requested</h2>
		<p>Hello %s,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>Your verification code is: <strong style="font-size:24px;letter-spacing:4px">%s</strong></p>
		<p>The code expires in 10 minutes and can be used once.</p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, username, code)

	if err := s.send(email, "Your AxieStudio password reset code", body); err != nil {
		return fmt.Errorf("failed to send reset code email: %w", err)
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(email, username string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to AxieStudio, %s!</h2>
		<p>Your account is now active. We're excited to have you on board.</p>
		<p>Best regards,<br>The AxieStudio Team</p>
	`, username)

	if err := s.send(email, "Welcome to AxieStudio!", body); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
