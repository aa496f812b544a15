package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// EmailChannel sends due-subscription alerts through an HTTP email API.
type EmailChannel struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// NewEmailChannel creates an email channel backed by a JSON email API.
func NewEmailChannel(apiURL, apiKey, from string) *EmailChannel {
	return &EmailChannel{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *EmailChannel) Name() string { return "email" }

// Send emails the user one message listing every due subscription.
func (c *EmailChannel) Send(ctx context.Context, n Notification) error {
	if n.Email == "" {
		return fmt.Errorf("email: user %s has no email address", n.UserID)
	}

	var lines []string
	for _, item := range n.Items {
		when := "tomorrow"
		if item.DaysUntilDue == 0 {
			when = "today"
		}
		lines = append(lines, fmt.Sprintf("<li><strong>%s</strong> is due %s (%.2f %s)</li>",
			item.Subscription.Name, when, item.Subscription.Price, item.Subscription.Currency))
	}

	payload := emailPayload{
		From:    c.from,
		To:      []string{n.Email},
		Subject: fmt.Sprintf("%d subscription(s) due soon", len(n.Items)),
		HTML:    fmt.Sprintf("<p>Heads up, these renewals are coming:</p><ul>%s</ul>", strings.Join(lines, "")),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("email: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("email: api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email: api returned status %d", resp.StatusCode)
	}
	return nil
}
