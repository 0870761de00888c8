package botapi

import (
	"context"
	"encoding/json"
	"fmt"
)

// SendMessageParams are the fields of the sendMessage method we use.
type SendMessageParams struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Message is the subset of the Bot API message object we care about.
type Message struct {
	ID   int64 `json:"message_id"`
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
}

// User is the subset of the Bot API user object we care about.
type User struct {
	ID       int64  `json:"id"`
	IsBot    bool   `json:"is_bot"`
	Username string `json:"username"`
}

// SendMessage sends a text message.
func (c *Client) SendMessage(ctx context.Context, params SendMessageParams) (*Message, error) {
	raw, err := c.Call(ctx, "sendMessage", params)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("decode sendMessage result: %w", err)
	}
	return &msg, nil
}

// GetMe returns the bot's own account, useful as a startup health check.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	raw, err := c.Call(ctx, "getMe", nil)
	if err != nil {
		return nil, err
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode getMe result: %w", err)
	}
	return &u, nil
}
