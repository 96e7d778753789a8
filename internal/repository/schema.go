package repository

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS conversations (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	participant1_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	participant2_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_message_at TIMESTAMPTZ,
	CHECK (participant1_id <> participant2_id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_pair ON conversations (
	LEAST(participant1_id, participant2_id),
	GREATEST(participant1_id, participant2_id)
);
CREATE INDEX IF NOT EXISTS idx_conversations_p1 ON conversations(participant1_id);
CREATE INDEX IF NOT EXISTS idx_conversations_p2 ON conversations(participant2_id);

CREATE TABLE IF NOT EXISTS messages (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	seq BIGSERIAL,
	conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	sender_id UUID NOT NULL,
	recipient_id UUID NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	media_url TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
	status TEXT NOT NULL DEFAULT 'sent' CHECK (status IN ('sent', 'delivered', 'seen'))
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at, seq);
CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id, created_at);

CREATE TABLE IF NOT EXISTS user_conversation_read_status (
	user_id UUID NOT NULL,
	conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	last_read_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, conversation_id)
);

CREATE OR REPLACE FUNCTION get_conversations_with_unread_status(p_user_id UUID)
RETURNS JSON
LANGUAGE sql STABLE
AS $fn$
SELECT COALESCE(json_agg(row_to_json(s) ORDER BY s.active_at DESC, s.id), '[]'::json)
FROM (
	SELECT
		c.id,
		c.created_at,
		c.last_message_at,
		COALESCE(c.last_message_at, c.created_at) AS active_at,
		json_build_object(
			'id', o.other_id,
			'display_name', COALESCE(u.display_name, ''),
			'avatar_url', COALESCE(u.avatar_url, '')
		) AS other_user,
		(
			SELECT json_build_object(
				'id', m.id,
				'sender_id', m.sender_id,
				'content', m.content,
				'has_media', m.media_url IS NOT NULL,
				'created_at', m.created_at
			)
			FROM messages m
			WHERE m.conversation_id = c.id
			ORDER BY m.created_at DESC, m.seq DESC
			LIMIT 1
		) AS last_message,
		(
			SELECT COUNT(*)
			FROM messages m
			LEFT JOIN user_conversation_read_status r
				ON r.user_id = p_user_id AND r.conversation_id = c.id
			WHERE m.conversation_id = c.id
				AND m.recipient_id = p_user_id
				AND (r.last_read_at IS NULL OR m.created_at > r.last_read_at)
		)::int AS unread_count
	FROM conversations c
	CROSS JOIN LATERAL (
		SELECT CASE WHEN c.participant1_id = p_user_id THEN c.participant2_id ELSE c.participant1_id END AS other_id
	) o
	LEFT JOIN users u ON u.id = o.other_id
	WHERE c.participant1_id = p_user_id OR c.participant2_id = p_user_id
) s
$fn$;
`
