package notify

import (
	"context"
	"fmt"
	"time"

	"robux-monitor/internal/types"

	"github.com/go-resty/resty/v2"
)

const webhookUsername = "Robux Price Monitor"

// DiscordNotifier posts the alert as an embed to a Discord webhook.
type DiscordNotifier struct {
	http       *resty.Client
	webhookURL string
	logger     types.Logger
}

// NewDiscordNotifier builds the webhook client.
func NewDiscordNotifier(webhookURL string, logger types.Logger) *DiscordNotifier {
	c := resty.New()
	c.SetTimeout(10 * time.Second)
	return &DiscordNotifier{http: c, webhookURL: webhookURL, logger: logger}
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	Color       int            `json:"color"`
	Timestamp   string         `json:"timestamp"`
	Fields      []discordField `json:"fields"`
	Footer      discordFooter  `json:"footer"`
}

type discordPayload struct {
	Content  string         `json:"content"`
	Embeds   []discordEmbed `json:"embeds"`
	Username string         `json:"username"`
}

// buildPayload maps the neutral alert onto the webhook wire format.
func buildPayload(a Alert) discordPayload {
	embed := discordEmbed{
		Title:       a.Title,
		Description: a.Description,
		URL:         a.URL,
		Color:       a.Color,
		Timestamp:   a.Timestamp.UTC().Format(time.RFC3339),
		Footer:      discordFooter{Text: a.Footer},
	}
	for _, f := range a.Fields {
		embed.Fields = append(embed.Fields, discordField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}

	content := ""
	if a.Mention {
		content = "@everyone"
	}
	return discordPayload{
		Content:  content,
		Embeds:   []discordEmbed{embed},
		Username: webhookUsername,
	}
}

// Send posts the embed. A non-2xx response is an error for the caller
// to log; it never aborts the run.
func (d *DiscordNotifier) Send(ctx context.Context, alert Alert) error {
	res, err := d.http.R().SetContext(ctx).SetBody(buildPayload(alert)).Post(d.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	if !res.IsSuccess() {
		return fmt.Errorf("webhook returned status %d", res.StatusCode())
	}
	d.logger.Debugf("discord alert sent: %s", alert.Title)
	return nil
}
