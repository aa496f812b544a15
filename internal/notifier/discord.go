package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Discord embed colors for the two urgency windows.
const (
	discordColorDueToday    = 15548997
	discordColorDueTomorrow = 16776960
)

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

type discordPayload struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds"`
}

// DiscordChannel posts due-subscription alerts to a Discord webhook.
type DiscordChannel struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordChannel creates a Discord webhook channel.
func NewDiscordChannel(webhookURL string) *DiscordChannel {
	return &DiscordChannel{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *DiscordChannel) Name() string { return "discord" }

// Send posts one webhook message with an embed per due subscription.
func (c *DiscordChannel) Send(ctx context.Context, n Notification) error {
	payload := discordPayload{
		Content: fmt.Sprintf("You have %d subscription(s) coming up", len(n.Items)),
	}
	for _, item := range n.Items {
		color := discordColorDueTomorrow
		when := "tomorrow"
		if item.DaysUntilDue == 0 {
			color = discordColorDueToday
			when = "today"
		}
		payload.Embeds = append(payload.Embeds, discordEmbed{
			Title: fmt.Sprintf("%s is due %s", item.Subscription.Name, when),
			Description: fmt.Sprintf("%.2f %s on %s",
				item.Subscription.Price, item.Subscription.Currency, item.Subscription.NextBillingDate),
			Color: color,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("discord: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord: webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
