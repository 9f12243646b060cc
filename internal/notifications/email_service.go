package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"dexotix/internal/shared/config"
	"dexotix/pkg/logger"
)

// EmailService delivers a rendered notification to its recipient.
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
}

type smtpEmailService struct {
	cfg       config.EmailConfig
	templates map[string]*template.Template
}

// NewEmailService returns the SMTP sender, or a log-only sender when SMTP is
// not configured (local development).
func NewEmailService(cfg config.EmailConfig) EmailService {
	if cfg.SMTPHost == "" {
		return &logEmailService{}
	}

	svc := &smtpEmailService{
		cfg:       cfg,
		templates: make(map[string]*template.Template),
	}
	svc.loadTemplates()
	return svc
}

func (s *smtpEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	tmpl, ok := s.templates[notification.TemplateName]
	if !ok {
		return fmt.Errorf("unknown email template %q", notification.TemplateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, notification.TemplateData); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return s.send(notification.RecipientEmail, notification.Subject, body.String())
}

func (s *smtpEmailService) send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: Dexotix <%s>\r\n", s.cfg.FromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpEmailService) loadTemplates() {
	for name, body := range defaultTemplates {
		s.templates[name] = template.Must(template.New(name).Parse(body))
	}
}

const (
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateBookingCancelled = "booking_cancelled"
	TemplatePaymentFailed    = "payment_failed"
	TemplatePaymentRefunded  = "payment_refunded"
)

var defaultTemplates = map[string]string{
	TemplateBookingConfirmed: `
<html><body>
<h2>Your booking is confirmed 🎉</h2>
<p>Booking reference: <strong>{{.BookingRef}}</strong></p>
<p>Tickets: {{.TicketCount}}</p>
<p>Amount paid: ₹{{printf "%.2f" .TotalPrice}}</p>
<p>Show this reference at the venue entrance.</p>
</body></html>`,

	TemplateBookingCancelled: `
<html><body>
<h2>Your booking has been cancelled</h2>
<p>Booking reference: <strong>{{.BookingRef}}</strong></p>
<p>If a payment was captured, the refund is on its way.</p>
</body></html>`,

	TemplatePaymentFailed: `
<html><body>
<h2>Payment failed</h2>
<p>The payment for booking <strong>{{.BookingID}}</strong> could not be completed.</p>
<p>Your seats are held until the booking expires; please retry the payment.</p>
</body></html>`,

	TemplatePaymentRefunded: `
<html><body>
<h2>Refund processed</h2>
<p>₹{{printf "%.2f" .Amount}} has been refunded for booking <strong>{{.BookingID}}</strong>.</p>
<p>It may take 5-7 business days to reflect in your account.</p>
</body></html>`,
}

// logEmailService writes notifications to the log instead of SMTP.
type logEmailService struct{}

func (logEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	logger.GetDefault().Info("Email notification (SMTP not configured)",
		"to", notification.RecipientEmail,
		"subject", notification.Subject,
		"template", notification.TemplateName)
	return nil
}
