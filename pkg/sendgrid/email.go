package sendgrid

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService interface {
	Send(ctx context.Context, req *models.EmailNotificationRequest) error
	SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error
	GetSendGridClient() *sendgrid.Client
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey string, fromEmail string, fromName string) EmailService {
	return &emailService{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

func (e *emailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {

	from := mail.NewEmail(e.fromName, e.fromEmail)
	to := mail.NewEmail("", req.To)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(to)

	for _, cc := range req.CC {
		personalization.AddCCs(mail.NewEmail("", cc))
	}

	for _, bcc := range req.BCC {
		personalization.AddBCCs(mail.NewEmail("", bcc))
	}

	personalization.Subject = req.Subject
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", req.Content))

	if req.HTMLContent != "" {
		message.AddContent(mail.NewContent("text/html", req.HTMLContent))
	}

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}

// SendOrderConfirmation mails the customer a summary of a confirmed order.
func (e *emailService) SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error {
	var text, rows strings.Builder

	fmt.Fprintf(&text, "Hi %s,\n\nThank you for your order #%s.\n\n", user.FirstName, order.ID)

	for _, item := range order.Items {
		fmt.Fprintf(&text, "- %s (%s) x%d  %s\n", item.Name, item.Size, item.Quantity, item.Price.StringFixed(2))
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s</td><td>%d</td><td>%s</td></tr>",
			html.EscapeString(item.Name), html.EscapeString(item.Size), item.Quantity, item.Price.StringFixed(2))
	}

	fmt.Fprintf(&text, "\nShipping: %s\nTax: %s\nTotal: %s\n", order.ShippingPrice.StringFixed(2), order.TaxPrice.StringFixed(2), order.TotalAmount.StringFixed(2))

	htmlBody := fmt.Sprintf(
		"<h2>Thank you for your order, %s</h2><p>Order #%s</p><table>%s</table><p>Total: <strong>%s</strong></p>",
		html.EscapeString(user.FirstName), html.EscapeString(order.ID), rows.String(), order.TotalAmount.StringFixed(2),
	)

	return e.Send(ctx, &models.EmailNotificationRequest{
		To:          user.Email,
		Subject:     fmt.Sprintf("Order #%s confirmed", order.ID),
		Content:     text.String(),
		HTMLContent: htmlBody,
	})
}

func (e *emailService) GetSendGridClient() *sendgrid.Client {
	return e.client
}
