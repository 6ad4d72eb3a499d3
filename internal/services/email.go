package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"
)

const resendDefaultBaseURL = "https://api.resend.com"

// ResendConfig represents Resend email service configuration
type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	// BaseURL overrides the API endpoint; empty means the public API.
	BaseURL string
}

// ResendEmailService sends transactional email via the Resend API
type ResendEmailService struct {
	config ResendConfig
	client *http.Client
}

// NewResendEmailService creates a new Resend email service
func NewResendEmailService(config ResendConfig) *ResendEmailService {
	if config.BaseURL == "" {
		config.BaseURL = resendDefaultBaseURL
	}
	return &ResendEmailService{
		config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ResendEmailRequest represents the request structure for Resend API
type ResendEmailRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html,omitempty"`
	Text        string             `json:"text,omitempty"`
	Tags        []ResendTag        `json:"tags,omitempty"`
	Attachments []ResendAttachment `json:"attachments,omitempty"`
}

// ResendTag represents a tag for email categorization
type ResendTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResendAttachment is a base64-encoded file attached to an email
type ResendAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

func (s *ResendEmailService) getFromField() string {
	if s.config.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}
	return s.config.FromEmail
}

// SendOrderConfirmation sends the booking confirmation with QR codes and
// the receipt attached
func (s *ResendEmailService) SendOrderConfirmation(msg *OrderConfirmationEmail) error {
	var lines strings.Builder
	var textLines strings.Builder
	for _, line := range msg.Lines {
		fmt.Fprintf(&lines, "<li>%dx %s (%s) &mdash; EUR %.2f each</li>",
			line.Quantity, html.EscapeString(line.EventTitle), html.EscapeString(line.TicketName), float64(line.Price)/100.0)
		fmt.Fprintf(&textLines, "- %dx %s (%s) at EUR %.2f each\n",
			line.Quantity, line.EventTitle, line.TicketName, float64(line.Price)/100.0)
		if line.QRFallback != "" {
			escaped := html.EscapeString(line.QRFallback)
			fmt.Fprintf(&lines, "<li>QR code: <a href=\"%s\">%s</a></li>", escaped, escaped)
			fmt.Fprintf(&textLines, "  QR code: %s\n", line.QRFallback)
		}
	}

	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Order Confirmation</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #059669; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .booking-code { font-size: 24px; font-weight: bold; letter-spacing: 2px; text-align: center; padding: 12px; background-color: #fff; border: 1px dashed #059669; }
        .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Your tickets are confirmed</h1>
        </div>
        <div class="content">
            <p>Dear %s,</p>
            <p>Thank you for your order. Your booking code is:</p>
            <div class="booking-code">%s</div>
            <ul>%s</ul>
            <p>Total: EUR %.2f</p>
            <p>Your tickets are attached to this email. Present the QR code of each seat at the entrance.</p>
        </div>
        <div class="footer">
            <p>Event Marketplace</p>
        </div>
    </div>
</body>
</html>`, html.EscapeString(msg.Name), msg.BookingCode, lines.String(), float64(msg.Total)/100.0)

	textContent := fmt.Sprintf(`Your tickets are confirmed

Dear %s,

Thank you for your order. Your booking code is: %s

%s
Total: EUR %.2f

Your tickets are attached to this email. Present the QR code of each seat at the entrance.

Event Marketplace`, msg.Name, msg.BookingCode, textLines.String(), float64(msg.Total)/100.0)

	request := ResendEmailRequest{
		From:    s.getFromField(),
		To:      []string{msg.To},
		Subject: fmt.Sprintf("Order confirmation %s", msg.BookingCode),
		HTML:    htmlContent,
		Text:    textContent,
		Tags: []ResendTag{
			{Name: "category", Value: "order_confirmation"},
		},
	}
	for _, att := range msg.Attachments {
		request.Attachments = append(request.Attachments, ResendAttachment{
			Filename: att.Filename,
			Content:  base64.StdEncoding.EncodeToString(att.Content),
		})
	}

	return s.sendEmail(request)
}

// SendAccountCreated notifies a buyer that an account was created for them
// during checkout
func (s *ResendEmailService) SendAccountCreated(email, name string) error {
	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Account Created</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #7C3AED; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Welcome</h1>
        </div>
        <div class="content">
            <p>Dear %s,</p>
            <p>An account was created for you during checkout using this email address. You can sign in with the password you chose to see your orders at any time.</p>
        </div>
        <div class="footer">
            <p>Event Marketplace</p>
        </div>
    </div>
</body>
</html>`, html.EscapeString(name))

	textContent := fmt.Sprintf(`Welcome

Dear %s,

An account was created for you during checkout using this email address. You can sign in with the password you chose to see your orders at any time.

Event Marketplace`, name)

	request := ResendEmailRequest{
		From:    s.getFromField(),
		To:      []string{email},
		Subject: "Welcome to Event Marketplace",
		HTML:    htmlContent,
		Text:    textContent,
		Tags: []ResendTag{
			{Name: "category", Value: "account_created"},
		},
	}

	return s.sendEmail(request)
}

// sendEmail sends an email via Resend API
func (s *ResendEmailService) sendEmail(request ResendEmailRequest) error {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorResp ResendErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errorResp); err != nil {
			return fmt.Errorf("failed to send email, status: %d", resp.StatusCode)
		}
		return fmt.Errorf("failed to send email: %s", errorResp.Message)
	}

	var response ResendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
