package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_ParseConversationSummaries(t *testing.T) {
	native := `[{"id":"c1","other_user":{"id":"u2","display_name":"DJ Night Owl","avatar_url":""},` +
		`"last_message":{"id":"m1","sender_id":"u2","content":"on air in 5","has_media":false,"created_at":"2026-03-01T20:00:00.123456+00:00"},` +
		`"last_message_at":"2026-03-01T20:00:00.123456+00:00","created_at":"2026-02-01T10:00:00+00:00","unread_count":2}]`

	t.Run("native array", func(t *testing.T) {
		req := require.New(t)
		summaries, err := ParseConversationSummaries([]byte(native))
		req.NoError(err)
		req.Len(summaries, 1)
		req.Equal("c1", summaries[0].ID)
		req.Equal("DJ Night Owl", summaries[0].OtherUser.DisplayName)
		req.Equal(2, summaries[0].UnreadCount)
		req.NotNil(summaries[0].LastMessage)
		req.Equal("on air in 5", summaries[0].LastMessage.Content)
		req.True(summaries[0].LastMessageAt.Equal(time.Date(2026, 3, 1, 20, 0, 0, 123456000, time.UTC)))
	})

	t.Run("string encoded array", func(t *testing.T) {
		req := require.New(t)
		encoded := `"` + escape(native) + `"`
		summaries, err := ParseConversationSummaries([]byte(encoded))
		req.NoError(err)
		req.Len(summaries, 1)
		req.Equal("u2", summaries[0].OtherUser.ID)
	})

	t.Run("null and empty payloads", func(t *testing.T) {
		req := require.New(t)
		for _, raw := range []string{"", "null", "  ", "[]", `"[]"`} {
			summaries, err := ParseConversationSummaries([]byte(raw))
			req.NoError(err, raw)
			req.NotNil(summaries)
			req.Empty(summaries)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseConversationSummaries([]byte(`{"id":`))
		require.Error(t, err)
	})
}

func escape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
