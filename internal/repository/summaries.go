package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"airwaves/messaging-service/internal/models"
)

// ParseConversationSummaries decodes the result of
// get_conversations_with_unread_status. The payload may arrive as a native
// JSON array or as a JSON string that itself encodes the array; NULL and
// empty payloads decode to an empty list.
func ParseConversationSummaries(raw []byte) ([]models.ConversationSummary, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []models.ConversationSummary{}, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("decode string-encoded summaries: %w", err)
		}
		return ParseConversationSummaries([]byte(inner))
	}

	summaries := make([]models.ConversationSummary, 0)
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return nil, fmt.Errorf("decode summaries: %w", err)
	}
	return summaries, nil
}
