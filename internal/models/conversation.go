package models

import (
	"time"
)

// Conversation is a 1:1 thread between two users. At most one row exists per
// unordered participant pair.
type Conversation struct {
	ID             string
	Participant1ID string
	Participant2ID string
	CreatedAt      time.Time
	LastMessageAt  *time.Time
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.Participant1ID == userID || c.Participant2ID == userID
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.Participant1ID == userID {
		return c.Participant2ID
	}
	return c.Participant1ID
}

type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type MessagePreview struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	HasMedia  bool      `json:"has_media"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationSummary is one row of the conversation list as returned by
// get_conversations_with_unread_status.
type ConversationSummary struct {
	ID            string          `json:"id"`
	OtherUser     Profile         `json:"other_user"`
	LastMessage   *MessagePreview `json:"last_message,omitempty"`
	LastMessageAt *time.Time      `json:"last_message_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UnreadCount   int             `json:"unread_count"`
}

// ActiveAt is the ordering key of the conversation list.
func (s ConversationSummary) ActiveAt() time.Time {
	if s.LastMessageAt != nil {
		return *s.LastMessageAt
	}
	return s.CreatedAt
}
