package models

import (
	"fmt"
	"time"
)

type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusSeen      MessageStatus = "seen"
)

func (s MessageStatus) rank() int {
	switch s {
	case MessageStatusSent:
		return 1
	case MessageStatusDelivered:
		return 2
	case MessageStatusSeen:
		return 3
	default:
		return 0
	}
}

func (s MessageStatus) Valid() bool { return s.rank() > 0 }

// Advances reports whether moving from s to next is a forward transition.
func (s MessageStatus) Advances(next MessageStatus) bool {
	return next.rank() > s.rank()
}

func ParseMessageStatus(v string) (MessageStatus, error) {
	s := MessageStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown message status %q", v)
	}
	return s, nil
}

type Message struct {
	ID             string        `json:"id"`
	ConversationID string        `json:"conversation_id"`
	SenderID       string        `json:"sender_id"`
	RecipientID    string        `json:"recipient_id"`
	Content        string        `json:"content"`
	MediaURL       *string       `json:"media_url,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	Status         MessageStatus `json:"status"`
}
