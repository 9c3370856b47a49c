package notify

import (
	"fmt"

	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

type whatsappParam struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type whatsappComponent struct {
	Type       string          `json:"type"`
	Parameters []whatsappParam `json:"parameters"`
}

type whatsappLanguage struct {
	Code string `json:"code"`
}

type whatsappTemplateBody struct {
	Name       string              `json:"name"`
	Language   whatsappLanguage    `json:"language"`
	Components []whatsappComponent `json:"components"`
}

type WhatsappTemplateMessage struct {
	Type     string                     `json:"type"`
	Template whatsappTemplateBody       `json:"template"`
	Raw      *transfer.LeadNotification `json:"raw"`
}

type WhatsappTextMessage struct {
	Type string                     `json:"type"`
	Text string                     `json:"text"`
	Raw  *transfer.LeadNotification `json:"raw"`
}

func whatsappTemplate(name, language string, n *transfer.LeadNotification) *WhatsappTemplateMessage {
	if language == "" {
		language = "en"
	}
	email := n.Email
	if email == "" {
		email = "N/A"
	}
	listing := "Listing"
	if n.Listing != nil && n.Listing.Title != "" {
		listing = fmt.Sprintf("%s (%s, %s)", n.Listing.Title, n.Listing.City, n.Listing.State)
	}

	text := func(s string) whatsappParam { return whatsappParam{Type: "text", Text: s} }
	return &WhatsappTemplateMessage{
		Type: "template",
		Template: whatsappTemplateBody{
			Name:     name,
			Language: whatsappLanguage{Code: language},
			Components: []whatsappComponent{{
				Type:       "body",
				Parameters: []whatsappParam{text(n.FullName), text(n.Phone), text(email), text(listing), text(n.Message)},
			}},
		},
		Raw: n,
	}
}

func whatsappText(n *transfer.LeadNotification) *WhatsappTextMessage {
	title := "listing"
	if n.Listing != nil && n.Listing.Title != "" {
		title = n.Listing.Title
	}
	return &WhatsappTextMessage{
		Type: "text",
		Text: fmt.Sprintf("New lead from %s (%s) for %s. Message: %s", n.FullName, n.Phone, title, n.Message),
		Raw:  n,
	}
}
