package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshua-takyi/jocky/internal/models"
)

type MessageService struct {
	messages models.MessageRepo
	events   models.EventRepo
}

func NewMessageService(messages models.MessageRepo, events models.EventRepo) *MessageService {
	return &MessageService{messages: messages, events: events}
}

type SendMessageInput struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Text       string `json:"text" binding:"required"`
	EventID    string `json:"event_id"`
}

// Conversations builds the inbox of userID from its message history.
func (ms *MessageService) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	msgs, err := ms.messages.ListMessagesFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.BuildConversations(msgs, userID), nil
}

// Messages returns one thread; only its two participants may read it.
func (ms *MessageService) Messages(ctx context.Context, conversationID, userID string) ([]models.Message, error) {
	if !participant(conversationID, userID) {
		return nil, models.ErrForbidden
	}
	return ms.messages.ListConversation(ctx, conversationID)
}

// Send appends a message. The event name is copied for display when the
// message refers to an event.
func (ms *MessageService) Send(ctx context.Context, sender *models.User, in SendMessageInput) (*models.Message, error) {
	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: models.ConversationID(sender.ID, in.ReceiverID),
		SenderID:       sender.ID,
		SenderName:     sender.Name,
		ReceiverID:     strings.TrimSpace(in.ReceiverID),
		Text:           in.Text,
		SentAt:         time.Now().UTC(),
		EventID:        in.EventID,
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if msg.ReceiverID == sender.ID {
		return nil, &models.ValidationError{Field: "receiver_id", Message: "cannot message yourself"}
	}
	if in.EventID != "" && ms.events != nil {
		ev, err := ms.events.GetEvent(ctx, in.EventID)
		if err != nil {
			return nil, err
		}
		msg.EventName = ev.Name
	}
	return ms.messages.CreateMessage(ctx, msg)
}

func (ms *MessageService) MarkRead(ctx context.Context, conversationID, userID string) (int64, error) {
	if !participant(conversationID, userID) {
		return 0, models.ErrForbidden
	}
	return ms.messages.MarkRead(ctx, conversationID, userID)
}

func participant(conversationID, userID string) bool {
	a, b, ok := strings.Cut(conversationID, ":")
	return ok && userID != "" && (a == userID || b == userID)
}
