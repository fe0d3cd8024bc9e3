package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fieldbooking/internal/utils"
)

const pushEndpoint = "https://api.line.me/v2/bot/message/push"

// LinePusher sends text notifications through the LINE Messaging API.
// Every method is best-effort: failures are logged and never returned to
// booking flows.
type LinePusher struct {
	AccessToken string
	Client      *http.Client
}

func NewLinePusher(accessToken string) *LinePusher {
	return &LinePusher{
		AccessToken: accessToken,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []pushMessage `json:"messages"`
}

type pushMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PushMessage sends text to each recipient in turn. Unconfigured token or
// empty recipient list is a silent no-op.
func (p *LinePusher) PushMessage(ctx context.Context, recipients []string, text string) {
	if p == nil || p.AccessToken == "" {
		return
	}
	for _, to := range recipients {
		if to == "" {
			continue
		}
		if err := p.pushOne(ctx, to, text); err != nil {
			utils.LogEvent("", "notify", "line_push", fmt.Sprintf("push to %s failed: %v", to, err))
		}
	}
}

func (p *LinePusher) pushOne(ctx context.Context, to, text string) error {
	body, err := json.Marshal(pushRequest{
		To:       to,
		Messages: []pushMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pushEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.AccessToken)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("line push status %d", res.StatusCode)
	}
	return nil
}
