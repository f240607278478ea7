package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultSendTimeout = 10 * time.Second

// Sender delivers a single transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one transactional email to a single recipient.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
}

// BrevoSender delivers emails through the Brevo transactional-email HTTP API.
type BrevoSender struct {
	apiURL    string
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

// NewBrevoSender creates a sender targeting apiURL (the smtp/email endpoint)
// authenticated with apiKey. All messages are sent from fromName <fromEmail>.
func NewBrevoSender(apiURL, apiKey, fromName, fromEmail string) *BrevoSender {
	return &BrevoSender{
		apiURL:    apiURL,
		apiKey:    apiKey,
		fromName:  fromName,
		fromEmail: fromEmail,
		client:    &http.Client{Timeout: defaultSendTimeout},
	}
}

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	TextContent string         `json:"textContent"`
}

// Send posts the message to the Brevo API. A non-2xx response is an error.
func (s *BrevoSender) Send(ctx context.Context, msg Message) error {
	payload := brevoRequest{
		Sender:      brevoAddress{Name: s.fromName, Email: s.fromEmail},
		To:          []brevoAddress{{Name: msg.ToName, Email: msg.ToEmail}},
		Subject:     msg.Subject,
		TextContent: msg.Text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
