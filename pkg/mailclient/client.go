/**
 * @description
 * This package wraps the Resend transactional email API for the internal
 * notifications the platform sends to its own support inbox (support
 * requests, moderation reports).
 *
 * When no API key is configured the client is still constructed but every
 * send is logged and dropped, so environments without email wired keep
 * working.
 *
 * @dependencies
 * - github.com/resend/resend-go/v2: The Resend SDK.
 */
package mailclient

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// Client sends plain-text operational emails to the support inbox.
type Client struct {
	resend       *resend.Client
	supportEmail string
}

// NewClient creates a mail client. An empty apiKey yields a no-op client.
func NewClient(apiKey, supportEmail string) *Client {
	c := &Client{supportEmail: supportEmail}
	if apiKey != "" {
		c.resend = resend.NewClient(apiKey)
	}
	return c
}

// SendSupportEmail delivers a plain-text email to the support inbox.
func (c *Client) SendSupportEmail(ctx context.Context, subject, body string) error {
	if c.resend == nil {
		log.Printf("level=warn component=mailclient msg=\"email not configured, dropping message\" subject=%q", subject)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("MigRent <%s>", c.supportEmail),
		To:      []string{c.supportEmail},
		Subject: subject,
		Text:    body,
	}

	if _, err := c.resend.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send support email: %w", err)
	}
	return nil
}
