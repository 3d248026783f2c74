package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentalops-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	// enabled is false when no API key is configured; sends become logged no-ops
	// so development environments work without a SendGrid account.
	enabled bool
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   apiKey != "",
	}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	if !s.enabled {
		logger.Info("Email sending disabled, skipping", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func dollars(cents int32) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, email, name string, bookingID int32, totalCents int32) error {
	subject := fmt.Sprintf("Booking #%d confirmed", bookingID)
	plainText := fmt.Sprintf("Hi %s, your booking #%d is confirmed. Total: %s.", name, bookingID, dollars(totalCents))
	htmlContent := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>Your booking <strong>#%d</strong> is confirmed.</p>
			<p>Total: <strong>%s</strong></p>
		</body>
		</html>`, name, bookingID, dollars(totalCents))
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendDepositCaptureNotice(ctx context.Context, email, name string, bookingID int32, capturedCents, releasedCents int32) error {
	subject := fmt.Sprintf("Deposit update for booking #%d", bookingID)
	plainText := fmt.Sprintf("Hi %s, %s of your deposit for booking #%d was applied to outstanding charges; %s was released back to your card.",
		name, dollars(capturedCents), bookingID, dollars(releasedCents))
	htmlContent := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p><strong>%s</strong> of your deposit for booking <strong>#%d</strong> was applied to outstanding charges.</p>
			<p><strong>%s</strong> was released back to your card.</p>
		</body>
		</html>`, name, dollars(capturedCents), bookingID, dollars(releasedCents))
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendDepositReleaseNotice(ctx context.Context, email, name string, bookingID int32, releasedCents int32) error {
	subject := fmt.Sprintf("Deposit released for booking #%d", bookingID)
	plainText := fmt.Sprintf("Hi %s, your full deposit of %s for booking #%d has been released.", name, dollars(releasedCents), bookingID)
	htmlContent := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>Your full deposit of <strong>%s</strong> for booking <strong>#%d</strong> has been released.</p>
		</body>
		</html>`, name, dollars(releasedCents), bookingID)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendCloseoutInvoice(ctx context.Context, email, name string, bookingID int32, invoiceRef string, finalAmountDueCents int32) error {
	subject := fmt.Sprintf("Final invoice %s for booking #%d", invoiceRef, bookingID)
	due := "Nothing further is due."
	if finalAmountDueCents > 0 {
		due = fmt.Sprintf("Remaining balance due: %s.", dollars(finalAmountDueCents))
	}
	plainText := fmt.Sprintf("Hi %s, your rental #%d is closed. Invoice reference: %s. %s", name, bookingID, invoiceRef, due)
	htmlContent := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>Your rental <strong>#%d</strong> is closed.</p>
			<p>Invoice reference: <strong>%s</strong></p>
			<p>%s</p>
		</body>
		</html>`, name, bookingID, invoiceRef, due)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendPointsAwardNotice(ctx context.Context, email, name string, points int32, balance int32) error {
	subject := fmt.Sprintf("You earned %d points", points)
	plainText := fmt.Sprintf("Hi %s, you earned %d points on your recent rental. Your balance is now %d points.", name, points, balance)
	htmlContent := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>You earned <strong>%d points</strong> on your recent rental.</p>
			<p>Your balance is now <strong>%d points</strong>.</p>
		</body>
		</html>`, name, points, balance)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}
