package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"worklistmon/models"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram sends messages through the Bot API sendMessage endpoint.
type Telegram struct {
	token   string
	client  *http.Client
	baseURL string
}

// NewTelegram builds a sender for the given bot token.
func NewTelegram(token string) *Telegram {
	return &Telegram{
		token:   token,
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: telegramAPIBase,
	}
}

// NewTelegramWithBase is used by tests to point the sender at a local server.
func NewTelegramWithBase(token, baseURL string, client *http.Client) *Telegram {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Telegram{token: token, client: client, baseURL: baseURL}
}

type sendMessageRequest struct {
	ChatID              int64  `json:"chat_id"`
	Text                string `json:"text"`
	DisableNotification bool   `json:"disable_notification"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts one message to one chat.
func (t *Telegram) Send(text string, contact models.Contact) models.DeliveryResult {
	result := models.DeliveryResult{Recipient: contact.Name, ChatID: contact.ChatID}

	body, err := json.Marshal(sendMessageRequest{ChatID: contact.ChatID, Text: text})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	resp, err := t.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	var parsed sendMessageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		result.Error = fmt.Sprintf("bad API response (status %d)", resp.StatusCode)
		return result
	}

	if !parsed.OK {
		result.Error = fmt.Sprintf("send rejected (status %d): %s", resp.StatusCode, parsed.Description)
		return result
	}

	result.Delivered = true
	return result
}
