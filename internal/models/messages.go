package models

import (
	"sort"
	"strings"
	"time"
)

// Message is append-only. Conversations are built from them, never stored.
type Message struct {
	ID             string    `json:"id" bson:"_id"`
	ConversationID string    `json:"conversation_id" bson:"conversation_id" validate:"required"`
	SenderID       string    `json:"sender_id" bson:"sender_id" validate:"required"`
	SenderName     string    `json:"sender_name" bson:"sender_name"`
	ReceiverID     string    `json:"receiver_id" bson:"receiver_id" validate:"required,nefield=SenderID"`
	Text           string    `json:"text" bson:"text" validate:"required,max=4000"`
	SentAt         time.Time `json:"timestamp" bson:"timestamp"`
	Read           bool      `json:"read" bson:"read"`
	EventID        string    `json:"event_id,omitempty" bson:"event_id,omitempty"`
	EventName      string    `json:"event_name,omitempty" bson:"event_name,omitempty"`
}

func (m *Message) Validate() error {
	m.Text = strings.TrimSpace(m.Text)
	if err := Validate.Struct(m); err != nil {
		return fromValidator(err)
	}
	return nil
}

// ConversationID derives a stable thread id for a pair of users, independent
// of who writes first.
func ConversationID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

type Conversation struct {
	ID            string    `json:"id"`
	ArtistID      string    `json:"artist_id"`
	ArtistName    string    `json:"artist_name"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_time"`
	Unread        int       `json:"unread"`
	EventID       string    `json:"event_id,omitempty"`
	EventName     string    `json:"event_name,omitempty"`
}

// BuildConversations aggregates message history into one row per thread as
// seen by viewerID. The counterpart is whoever in the thread is not the
// viewer. Rows are ordered newest first.
func BuildConversations(messages []Message, viewerID string) []Conversation {
	byID := make(map[string]*Conversation)
	var order []string
	for _, m := range messages {
		c, ok := byID[m.ConversationID]
		if !ok {
			c = &Conversation{ID: m.ConversationID}
			byID[m.ConversationID] = c
			order = append(order, m.ConversationID)
		}
		if m.SenderID == viewerID {
			c.ArtistID = m.ReceiverID
		} else {
			c.ArtistID = m.SenderID
			if m.SenderName != "" {
				c.ArtistName = m.SenderName
			}
		}
		if !m.SentAt.Before(c.LastMessageAt) {
			c.LastMessage = m.Text
			c.LastMessageAt = m.SentAt
		}
		if m.EventID != "" {
			c.EventID = m.EventID
			c.EventName = m.EventName
		}
		if m.ReceiverID == viewerID && !m.Read {
			c.Unread++
		}
	}

	out := make([]Conversation, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out
}
