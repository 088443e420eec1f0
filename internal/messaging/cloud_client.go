package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/config"
)

// CloudClient sends messages through the WhatsApp Cloud (Graph) API.
type CloudClient struct {
	endpoint string
	token    string
	http     *http.Client
	logger   *zap.Logger
}

// NewCloudClient builds a client posting to {base}/{phoneNumberID}/messages.
func NewCloudClient(cfg config.WhatsAppConfig, httpClient *http.Client, logger *zap.Logger) *CloudClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &CloudClient{
		endpoint: fmt.Sprintf("%s/%s/messages", strings.TrimRight(cfg.APIBaseURL, "/"), cfg.PhoneNumberID),
		token:    cfg.AccessToken,
		http:     httpClient,
		logger:   logger,
	}
}

type outboundMessage struct {
	MessagingProduct string               `json:"messaging_product"`
	RecipientType    string               `json:"recipient_type,omitempty"`
	To               string               `json:"to"`
	Type             string               `json:"type"`
	Text             *outboundText        `json:"text,omitempty"`
	Interactive      *outboundInteractive `json:"interactive,omitempty"`
}

type outboundText struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type outboundInteractive struct {
	Type   string         `json:"type"`
	Body   outboundBody   `json:"body"`
	Action outboundAction `json:"action"`
}

type outboundBody struct {
	Text string `json:"text"`
}

type outboundAction struct {
	Button   string            `json:"button,omitempty"`
	Buttons  []outboundButton  `json:"buttons,omitempty"`
	Sections []outboundSection `json:"sections,omitempty"`
}

type outboundButton struct {
	Type  string      `json:"type"`
	Reply outboundRow `json:"reply"`
}

type outboundSection struct {
	Title string        `json:"title,omitempty"`
	Rows  []outboundRow `json:"rows"`
}

type outboundRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// SendText delivers a plain text message.
func (c *CloudClient) SendText(ctx context.Context, to, body string) error {
	return c.post(ctx, outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &outboundText{Body: body, PreviewURL: true},
	})
}

// SendChoice delivers reply buttons or a list depending on the choice shape.
func (c *CloudClient) SendChoice(ctx context.Context, to, body string, choice Choice) error {
	return c.post(ctx, outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive:      renderChoice(body, choice),
	})
}

func renderChoice(body string, choice Choice) *outboundInteractive {
	if choice.AsButtons() {
		buttons := make([]outboundButton, 0, len(choice.Sections[0].Options))
		for _, opt := range choice.Sections[0].Options {
			buttons = append(buttons, outboundButton{
				Type:  "reply",
				Reply: outboundRow{ID: opt.ID, Title: truncate(opt.Title, MaxButtonTitle)},
			})
		}
		return &outboundInteractive{
			Type:   "button",
			Body:   outboundBody{Text: body},
			Action: outboundAction{Buttons: buttons},
		}
	}

	label := choice.Button
	if label == "" {
		label = defaultListButtonTxt
	}
	sections := make([]outboundSection, 0, len(choice.Sections))
	for _, s := range choice.Sections {
		rows := make([]outboundRow, 0, len(s.Options))
		for _, opt := range s.Options {
			rows = append(rows, outboundRow{
				ID:          opt.ID,
				Title:       truncate(opt.Title, MaxRowTitle),
				Description: truncate(opt.Description, MaxRowDescription),
			})
		}
		sections = append(sections, outboundSection{Title: truncate(s.Title, MaxListSectionTitle), Rows: rows})
	}
	return &outboundInteractive{
		Type:   "list",
		Body:   outboundBody{Text: body},
		Action: outboundAction{Button: truncate(label, MaxListButton), Sections: sections},
	}
}

func (c *CloudClient) post(ctx context.Context, msg outboundMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send %s message to %s: %w", msg.Type, msg.To, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("send %s message to %s: status %d: %s", msg.Type, msg.To, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	c.logger.Debug("message sent", zap.String("to", msg.To), zap.String("type", msg.Type))
	return nil
}
