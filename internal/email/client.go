// Package email implements the outbound email-delivery client. Delivery is
// best-effort per recipient: one HTTP call per message, a bounded timeout,
// no retries.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ignite/newsletter/internal/domain"
)

// Sender is the delivery contract consumed by the subscription and
// newsletter services.
type Sender interface {
	Send(ctx context.Context, to domain.Email, subject, htmlBody, textBody string) error
}

// Client sends email through a Postmark-style HTTP delivery API.
// The embedded http.Client pools connections, so a single Client should be
// shared across requests.
type Client struct {
	httpClient  *http.Client
	baseURL     *url.URL
	sender      domain.Email
	serverToken string
}

// NewClient validates the base URL and builds a delivery client with the
// given request timeout. A stalled delivery API fails the calling request
// after the timeout instead of blocking it indefinitely.
func NewClient(baseURL string, sender domain.Email, serverToken string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse email API base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("email API base URL %q is not absolute", baseURL)
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     u,
		sender:      sender,
		serverToken: serverToken,
	}, nil
}

type sendRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

// Send delivers a single message. A non-2xx response is an error.
func (c *Client) Send(ctx context.Context, to domain.Email, subject, htmlBody, textBody string) error {
	body, err := json.Marshal(sendRequest{
		From:     c.sender.String(),
		To:       to.String(),
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("encode send request: %w", err)
	}

	endpoint := c.baseURL.JoinPath("/email")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email API request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("email API returned %d", resp.StatusCode)
	}
	return nil
}
