package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"peerrent-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	logger.ExternalServiceResult("sendgrid", "Send", err)

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendRentalRequestNotification(ctx context.Context, email, name, customerName, productName string) error {
	subject := fmt.Sprintf("New Rental Request: %s", productName)
	plainText := fmt.Sprintf("Hello %s,\n\n%s has requested to rent your %s. Review the request in the app.\n\nBest regards,\nThe PeerRent Team", name, customerName, productName)
	htmlContent := fmt.Sprintf(`<p>Hello %s,</p><p><strong>%s</strong> has requested to rent your <strong>%s</strong>. Review the request in the app.</p>`, name, customerName, productName)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendRentalDecisionNotification(ctx context.Context, email, name, productName string, approved bool) error {
	decision := "approved"
	if !approved {
		decision = "rejected"
	}
	subject := fmt.Sprintf("Rental Request %s: %s", decision, productName)
	plainText := fmt.Sprintf("Hello %s,\n\nYour rental request for %s was %s.\n\nBest regards,\nThe PeerRent Team", name, productName, decision)
	htmlContent := fmt.Sprintf(`<p>Hello %s,</p><p>Your rental request for <strong>%s</strong> was %s.</p>`, name, productName, decision)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendInvoiceEmail(ctx context.Context, email, name, invoiceNumber, productName string, amountCents int32, currency string) error {
	subject := fmt.Sprintf("Invoice %s", invoiceNumber)
	amount := fmt.Sprintf("%.2f %s", float64(amountCents)/100, currency)
	plainText := fmt.Sprintf("Hello %s,\n\nYour payment of %s for renting %s is confirmed. Invoice number: %s.\n\nBest regards,\nThe PeerRent Team", name, amount, productName, invoiceNumber)
	htmlContent := fmt.Sprintf(`<p>Hello %s,</p><p>Your payment of <strong>%s</strong> for renting <strong>%s</strong> is confirmed.</p><p>Invoice number: %s</p>`, name, amount, productName, invoiceNumber)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendReturnConfirmationNotification(ctx context.Context, email, name, productName string) error {
	subject := fmt.Sprintf("Return Confirmed: %s", productName)
	plainText := fmt.Sprintf("Hello %s,\n\nYour return of %s has been confirmed by the owner.\n\nBest regards,\nThe PeerRent Team", name, productName)
	htmlContent := fmt.Sprintf(`<p>Hello %s,</p><p>Your return of <strong>%s</strong> has been confirmed by the owner.</p>`, name, productName)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendReturnReminderNotification(ctx context.Context, email, name, productName string, endDate time.Time) error {
	subject := fmt.Sprintf("Return Reminder: %s", productName)
	plainText := fmt.Sprintf("Hello %s,\n\nYour rental of %s ends on %s. Please arrange the return.\n\nBest regards,\nThe PeerRent Team", name, productName, endDate.Format("Jan 2, 2006"))
	htmlContent := fmt.Sprintf(`<p>Hello %s,</p><p>Your rental of <strong>%s</strong> ends on %s. Please arrange the return.</p>`, name, productName, endDate.Format("Jan 2, 2006"))
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}
