package telegram

import "encoding/json"

// Message is an outgoing chat message.
type Message struct {
	ChatID         string
	ThreadID       int64
	Text           string
	HTML           bool
	DisablePreview bool
}

type Update struct {
	UpdateID int64         `json:"update_id"`
	Message  *IncomingText `json:"message,omitempty"`
}

type IncomingText struct {
	MessageID int64  `json:"message_id"`
	ThreadID  int64  `json:"message_thread_id,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	MessageThreadID       int64  `json:"message_thread_id,omitempty"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
}
