package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bpollak/podboard/config"
)

// Mailer posts transactional email through a Resend-style HTTP API.
type Mailer struct {
	APIKey  string
	BaseURL string
	From    string
	To      string
	Client  *http.Client
}

func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{
		APIKey:  cfg.MailAPIKey,
		BaseURL: cfg.MailBaseURL,
		From:    cfg.MailFrom,
		To:      cfg.MailTo,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *Mailer) Configured() bool {
	return m.APIKey != "" && m.To != ""
}

type mailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html"`
}

type mailResponse struct {
	ID string `json:"id"`
}

// Send delivers one message and returns the provider's message id.
// Any non-2xx status is an error so the caller's retry policy can kick in.
func (m *Mailer) Send(ctx context.Context, subject, text, html string) (string, error) {
	payload, err := json.Marshal(mailRequest{
		From:    m.From,
		To:      []string{m.To},
		Subject: subject,
		Text:    text,
		HTML:    html,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)

	resp, err := m.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("mail API returned %d: %s", resp.StatusCode, string(body))
	}

	var out mailResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("mail API response: %w", err)
	}
	return out.ID, nil
}
