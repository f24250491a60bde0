package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobhound/internal/pipeline"
)

// DiscordSender posts the top matches to a Discord webhook.
type DiscordSender struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscordSender creates a sender; an empty URL disables it.
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title     string         `json:"title"`
	Color     int            `json:"color"`
	Timestamp string         `json:"timestamp"`
	Footer    struct {
		Text string `json:"text"`
	} `json:"footer"`
	Fields []discordField `json:"fields"`
}

type discordPayload struct {
	Username string         `json:"username"`
	Embeds   []discordEmbed `json:"embeds"`
}

// Send posts an embed with the top five matches.
func (d *DiscordSender) Send(ctx context.Context, res *pipeline.Result) error {
	if d.webhookURL == "" {
		return nil
	}

	top := res.Ranked
	if len(top) > 5 {
		top = top[:5]
	}

	embed := discordEmbed{
		Title:     "New job matches",
		Color:     0x00d4aa,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	embed.Footer.Text = fmt.Sprintf("Found %d total matches, %d new", res.Summary.Qualified, res.Summary.NewPostings)

	for i, p := range top {
		embed.Fields = append(embed.Fields, discordField{
			Name:  fmt.Sprintf("%d. %s", i+1, p.Title),
			Value: fmt.Sprintf("%s\n%s\nScore: %.1f\n[View posting](%s)", p.Company, p.Location, p.Score, p.URL),
		})
	}

	body, err := json.Marshal(discordPayload{Username: "jobhound", Embeds: []discordEmbed{embed}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
