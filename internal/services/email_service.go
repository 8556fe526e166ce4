package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/dsrealty/estate-api/internal/config"
	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

func (s *EmailService) SendRecoveryCode(ctx context.Context, user *models.User, code string) error {
	data := struct {
		Name    string
		Code    string
		Minutes int
		AppURL  string
	}{
		Name:    user.FullName,
		Code:    code,
		Minutes: 15,
		AppURL:  s.config.AppURL,
	}

	body, err := s.renderTemplate("reset_code.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{user.Email},
		Subject: "Your password reset code",
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error("failed to send email", "to", user.Email, "error", err)
		return err
	}

	logger.Info("email sent", "to", user.Email, "subject", "Your password reset code")
	return nil
}

func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User) error {
	data := struct {
		Name   string
		AppURL string
	}{
		Name:   user.FullName,
		AppURL: s.config.AppURL,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{user.Email},
		Subject: "Your account is ready",
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error("failed to send email", "to", user.Email, "error", err)
		return err
	}

	logger.Info("email sent", "to", user.Email, "subject", "Your account is ready")
	return nil
}

// SendBookingConfirmation sends the booking summary to the customer.
// Customers without an email address are skipped silently.
func (s *EmailService) SendBookingConfirmation(ctx context.Context, booking *models.Booking) error {
	if booking.Customer.Email == nil || *booking.Customer.Email == "" {
		return nil
	}

	data := struct {
		Name          string
		BookingNumber string
		ProjectName   string
		PlotNumber    string
		Area          string
		TotalAmount   string
		BookingDate   string
		AppURL        string
	}{
		Name:          booking.Customer.FullName,
		BookingNumber: booking.BookingNumber,
		ProjectName:   booking.Project.Name,
		PlotNumber:    booking.PlotNumber,
		Area:          fmt.Sprintf("%.2f %s", booking.Area, booking.Project.MeasurementUnit),
		TotalAmount:   fmt.Sprintf("Rs. %.2f", booking.TotalAmount()),
		BookingDate:   booking.BookingDate.Format("02/01/2006"),
		AppURL:        s.config.AppURL,
	}

	body, err := s.renderTemplate("booking_confirmed.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{*booking.Customer.Email},
		Subject: fmt.Sprintf("Booking %s confirmed", booking.BookingNumber),
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error("failed to send email", "to", *booking.Customer.Email, "error", err)
		return err
	}

	logger.Info("email sent", "to", *booking.Customer.Email, "subject", "Booking confirmed")
	return nil
}

// SendReceiptConfirmation acknowledges a recorded payment to the customer.
func (s *EmailService) SendReceiptConfirmation(ctx context.Context, payment *models.Payment) error {
	customer := payment.Booking.Customer
	if customer.Email == nil || *customer.Email == "" {
		return nil
	}

	data := struct {
		Name          string
		ReceiptNumber string
		BookingNumber string
		ProjectName   string
		Amount        string
		AmountWords   string
		PaymentDate   string
		PaymentMode   string
		AppURL        string
	}{
		Name:          customer.FullName,
		ReceiptNumber: payment.ReceiptNumber,
		BookingNumber: payment.Booking.BookingNumber,
		ProjectName:   payment.Booking.Project.Name,
		Amount:        fmt.Sprintf("Rs. %.2f", payment.Amount),
		AmountWords:   AmountToWords(payment.Amount),
		PaymentDate:   payment.PaymentDate.Format("02/01/2006"),
		PaymentMode:   payment.PaymentMode,
		AppURL:        s.config.AppURL,
	}

	body, err := s.renderTemplate("payment_receipt.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{*customer.Email},
		Subject: fmt.Sprintf("Payment received, receipt %s", payment.ReceiptNumber),
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error("failed to send email", "to", *customer.Email, "error", err)
		return err
	}

	logger.Info("email sent", "to", *customer.Email, "subject", "Payment received")
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
