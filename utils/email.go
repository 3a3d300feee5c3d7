// utils/email.go
package utils

import (
	"fmt"
	"log"
	"zuka-backend/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService handles sending emails using SendGrid. When no API key
// is configured the service degrades to logging, so OTP flows keep
// working in development.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiKey, sender string) *EmailService {
	var client *sendgrid.Client
	if apiKey == "" {
		log.Println("SENDGRID_API_KEY not set; emails will be logged instead of sent")
	} else {
		client = sendgrid.NewSendClient(apiKey)
	}
	return &EmailService{
		client: client,
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, plainText, htmlContent string) error {
	if es.client == nil {
		log.Printf("email to %s skipped (no API key): %s", toEmail, subject)
		return nil
	}

	from := mail.NewEmail("ZUKA", es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email: status %d", resp.StatusCode)
	}
	return nil
}

// SendOTPEmail sends a one-time code for login or registration.
// Without an API key the code is logged to the console instead.
func (es *EmailService) SendOTPEmail(toEmail, code, purpose string) error {
	if es.client == nil {
		log.Printf("OTP for %s (%s): %s (expires in 5 minutes)", toEmail, purpose, code)
		return nil
	}

	subject := fmt.Sprintf("Your %s OTP Code", purpose)
	plainText := fmt.Sprintf(
		"Your OTP code is: %s\n\nThis code will expire in 5 minutes. Please do not share this code with anyone.",
		code,
	)
	htmlContent := fmt.Sprintf(
		"<strong>Your OTP code is: %s</strong><br><br>This code will expire in <strong>5 minutes</strong>. Please do not share this code with anyone.",
		code,
	)

	return es.SendEmail(toEmail, subject, plainText, htmlContent)
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order *models.Order) error {
	subject := "Order Confirmation"
	plainText := fmt.Sprintf(
		"Thank you for your purchase! Your order (ID: %s) has been placed successfully.\n\nTotal Amount: Rs. %.2f\nPayment Method: %s\n\nThank you for shopping with us!",
		order.ID.Hex(),
		order.TotalPrice,
		order.PaymentMethod,
	)
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br><br>Total Amount: <strong>Rs. %.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Thank you for shopping with us!",
		order.ID.Hex(),
		order.TotalPrice,
		order.PaymentMethod,
	)

	return es.SendEmail(toEmail, subject, plainText, htmlContent)
}
