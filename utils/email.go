// utils/email.go
package utils

import (
	"fmt"
	"strings"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"go-storefront/config"
	"go-storefront/models"
)

// Mailer delivers a single message
type Mailer interface {
	Send(toEmail, subject, htmlContent string) error
}

// EmailService renders storefront notifications and hands them to a Mailer
type EmailService struct {
	mailer Mailer
}

// NewEmailService picks the provider configured in cfg. An unknown or
// unconfigured provider falls back to logging messages instead of sending.
func NewEmailService(cfg config.EmailConfig) *EmailService {
	switch cfg.Provider {
	case "postmark":
		if cfg.PostmarkToken != "" {
			return &EmailService{mailer: &postmarkMailer{
				client: postmark.NewClient(cfg.PostmarkToken, ""),
				sender: cfg.Sender,
			}}
		}
		zap.L().Warn("POSTMARK_API_TOKEN is not set, emails will only be logged")
	case "sendgrid":
		if cfg.SendgridAPIKey != "" {
			return &EmailService{mailer: &sendgridMailer{
				client: sendgrid.NewSendClient(cfg.SendgridAPIKey),
				sender: cfg.Sender,
			}}
		}
		zap.L().Warn("SENDGRID_API_KEY is not set, emails will only be logged")
	}
	return &EmailService{mailer: logMailer{}}
}

// NewEmailServiceWith wraps a custom Mailer
func NewEmailServiceWith(m Mailer) *EmailService {
	return &EmailService{mailer: m}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if err := es.mailer.Send(toEmail, subject, htmlContent); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation - Jojo's Web-Store"
	var items strings.Builder
	for _, l := range order.Lines {
		fmt.Fprintf(&items, "<li>%d × %s ($%.2f)</li>", l.Quantity, l.Title, l.Subtotal())
	}
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed and will be delivered by <strong>%s</strong>.<ul>%s</ul>Subtotal: $%.2f<br>Tax: $%.2f<br>Total Amount: <strong>$%.2f</strong><br>Payment Method: <strong>%s</strong> (%s)",
		order.Shipping.Name,
		order.ID,
		order.DeliveryDate,
		items.String(),
		order.Subtotal,
		order.Tax,
		order.Total,
		order.PaymentMethod,
		order.PaymentStatus,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendPaymentStatusEmail tells the customer an admin changed the payment status
func (es *EmailService) SendPaymentStatusEmail(toEmail string, order models.Order) error {
	subject := "Payment Status Updated - Jojo's Web-Store"
	htmlContent := fmt.Sprintf(
		"Dear %s,<br><br>Your order (ID: %s) payment status has been updated to <strong>%s</strong>.<br><br>Thank you for shopping with us!",
		order.Shipping.Name, order.ID, order.PaymentStatus,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

type postmarkMailer struct {
	client *postmark.Client
	sender string
}

func (m *postmarkMailer) Send(toEmail, subject, htmlContent string) error {
	_, err := m.client.SendEmail(postmark.Email{
		From:     m.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	return err
}

type sendgridMailer struct {
	client *sendgrid.Client
	sender string
}

func (m *sendgridMailer) Send(toEmail, subject, htmlContent string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail("Jojo's Web-Store", m.sender),
		subject,
		mail.NewEmail("", toEmail),
		htmlContent,
		htmlContent,
	)
	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

type logMailer struct{}

func (logMailer) Send(toEmail, subject, _ string) error {
	zap.L().Info("email not sent, no provider configured",
		zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}
