package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aromaten/aromaten-backend/pkg/config"
	"github.com/aromaten/aromaten-backend/pkg/logger"
)

const sendTimeout = 10 * time.Second

// Email is one outbound message.
type Email struct {
	To      string `json:"-"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ResendClient delivers email through the Resend HTTP API.
type ResendClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
	logg       *logger.Logger
}

// NewResendClient builds a client from the mail configuration.
func NewResendClient(cfg config.MailConfig, logg *logger.Logger) (*ResendClient, error) {
	if !cfg.Enabled() {
		return nil, errors.New("resend api key is required")
	}
	return &ResendClient{
		httpClient: &http.Client{Timeout: sendTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		logg:       logg,
	}, nil
}

// Send posts the email and fails on any non-2xx response.
func (c *ResendClient) Send(ctx context.Context, email Email) error {
	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("encoding email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && c.logg != nil {
			c.logg.Warn(ctx, "closing resend response body failed")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("resend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
