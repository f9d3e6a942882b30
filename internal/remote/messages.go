package remote

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/joshua-takyi/jocky/internal/models"
)

type SendMessageInput struct {
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text"`
	EventID    string `json:"event_id,omitempty"`
}

func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var res struct {
		Conversations []models.Conversation `json:"conversations"`
	}
	if err := c.do(ctx, http.MethodGet, "/messages/conversations", nil, &res); err != nil {
		return nil, err
	}
	return res.Conversations, nil
}

func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var res struct {
		Messages []models.Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/messages/"+url.PathEscape(conversationID), nil, &res); err != nil {
		return nil, err
	}
	return res.Messages, nil
}

func (c *Client) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		return nil, &models.ValidationError{Field: "text", Message: "message is empty"}
	}
	if in.ReceiverID == "" {
		return nil, &models.ValidationError{Field: "receiver_id", Message: "recipient is required"}
	}
	var res struct {
		Message models.Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/messages", in, &res); err != nil {
		return nil, err
	}
	return &res.Message, nil
}

// MarkRead flags the conversation's incoming messages as read and returns
// how many changed.
func (c *Client) MarkRead(ctx context.Context, conversationID string) (int, error) {
	var res struct {
		Updated int `json:"updated"`
	}
	path := "/messages/" + url.PathEscape(conversationID) + "/read"
	if err := c.do(ctx, http.MethodPost, path, nil, &res); err != nil {
		return 0, err
	}
	return res.Updated, nil
}
