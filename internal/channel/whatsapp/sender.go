package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// graphAPIBase is the Meta Graph API endpoint version used for sends.
const graphAPIBase = "https://graph.facebook.com/v20.0"

// Sender posts outbound text messages through the Graph API.
type Sender struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	client        *http.Client
}

// NewSender creates a Graph API sender with a bounded request timeout.
func NewSender(accessToken, phoneNumberID string, timeout time.Duration) *Sender {
	return &Sender{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		baseURL:       graphAPIBase,
		client:        &http.Client{Timeout: timeout},
	}
}

type outboundMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             outboundText `json:"text"`
}

type outboundText struct {
	Body string `json:"body"`
}

// Send delivers a text message to the recipient.
func (s *Sender) Send(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(outboundMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             outboundText{Body: body},
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send message: unexpected status %d", resp.StatusCode)
	}
	return nil
}
