package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	config "github.com/maheshrc27/propertyhub-api/configs"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelWhatsapp = "whatsapp"
)

// Dispatcher posts lead notifications to the configured channel webhooks.
type Dispatcher struct {
	client *http.Client
	cfg    config.Notifications
}

func NewDispatcher(cfg config.Notifications, client *http.Client) *Dispatcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Dispatcher{client: client, cfg: cfg}
}

func (d *Dispatcher) url(channel string) string {
	switch channel {
	case ChannelEmail:
		return d.cfg.EmailWebhookURL
	case ChannelSMS:
		return d.cfg.SMSWebhookURL
	case ChannelWhatsapp:
		return d.cfg.WhatsappWebhookURL
	}
	return ""
}

// Channels lists the channels that have a webhook URL, in delivery order.
func (d *Dispatcher) Channels() []string {
	var channels []string
	for _, c := range []string{ChannelEmail, ChannelSMS, ChannelWhatsapp} {
		if d.url(c) != "" {
			channels = append(channels, c)
		}
	}
	return channels
}

func (d *Dispatcher) Payload(channel string, n *transfer.LeadNotification) any {
	if channel != ChannelWhatsapp {
		return n
	}
	if d.cfg.WhatsappTemplateName != "" {
		return whatsappTemplate(d.cfg.WhatsappTemplateName, d.cfg.WhatsappTemplateLanguage, n)
	}
	return whatsappText(n)
}

// Send makes one delivery attempt. Any non 2xx reply is an error.
func (d *Dispatcher) Send(ctx context.Context, channel string, n *transfer.LeadNotification) error {
	url := d.url(channel)
	if url == "" {
		return fmt.Errorf("channel %q is not configured", channel)
	}

	body, err := json.Marshal(d.Payload(channel, n))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s webhook: %w", channel, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s webhook returned %d", channel, resp.StatusCode)
	}
	return nil
}
