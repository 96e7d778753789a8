//go:generate go run go.uber.org/mock/mockgen -source=chat_repository.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repository

import (
	"context"
	"database/sql"
	"time"

	"airwaves/messaging-service/internal/apperrors"
	"airwaves/messaging-service/internal/models"

	"github.com/pkg/errors"
)

type ChatRepository interface {
	InitializeTables(ctx context.Context) error
	GetConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	GetConversationByParticipants(ctx context.Context, userID1, userID2 string) (*models.Conversation, error)
	UpsertConversation(ctx context.Context, conv *models.Conversation) (bool, error)
	GetConversationsWithUnreadStatus(ctx context.Context, userID string) ([]models.ConversationSummary, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetConversationMessages(ctx context.Context, viewerID, conversationID string) ([]*models.Message, error)
	GetMessagePage(ctx context.Context, viewerID, conversationID string, limit int, beforeMessageID string) ([]*models.Message, error)
	UpdateMessageStatus(ctx context.Context, recipientID, messageID string, status models.MessageStatus) (bool, error)
	MarkConversationSeen(ctx context.Context, conversationID, recipientID string) (int, error)
	UpsertReadStatus(ctx context.Context, userID, conversationID string) (time.Time, error)
}

type chatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) ChatRepository {
	return &chatRepository{
		db: db,
	}
}

func (r *chatRepository) InitializeTables(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS pgcrypto`); err != nil {
		return errors.Wrap(err, "chatRepo.InitializeTables.Extension")
	}
	_, err := r.db.ExecContext(ctx, schema)
	return errors.Wrap(err, "chatRepo.InitializeTables")
}

const conversationColumns = `id, participant1_id, participant2_id, created_at, last_message_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	var conv models.Conversation
	var lastMessageAt sql.NullTime
	if err := row.Scan(&conv.ID, &conv.Participant1ID, &conv.Participant2ID, &conv.CreatedAt, &lastMessageAt); err != nil {
		return nil, err
	}
	if lastMessageAt.Valid {
		conv.LastMessageAt = &lastMessageAt.Time
	}
	return &conv, nil
}

func (r *chatRepository) GetConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`

	conv, err := scanConversation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, classify(err, "chatRepo.GetConversationByID")
	}
	return conv, nil
}

func (r *chatRepository) GetConversationByParticipants(ctx context.Context, userID1, userID2 string) (*models.Conversation, error) {
	query := `
	SELECT ` + conversationColumns + `
	FROM conversations
	WHERE (participant1_id = $1 AND participant2_id = $2) OR (participant1_id = $2 AND participant2_id = $1)
	LIMIT 1
	`

	conv, err := scanConversation(r.db.QueryRowContext(ctx, query, userID1, userID2))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, classify(err, "chatRepo.GetConversationByParticipants")
	}
	return conv, nil
}

// UpsertConversation inserts conv unless a row for the same unordered pair
// already exists, in which case conv is overwritten with the existing row.
// It reports whether a new row was created.
func (r *chatRepository) UpsertConversation(ctx context.Context, conv *models.Conversation) (bool, error) {
	query := `
	INSERT INTO conversations (id, participant1_id, participant2_id)
	VALUES ($1, $2, $3)
	ON CONFLICT (LEAST(participant1_id, participant2_id), GREATEST(participant1_id, participant2_id))
	DO UPDATE SET participant1_id = conversations.participant1_id
	RETURNING ` + conversationColumns + `, (xmax = 0) AS inserted
	`

	var lastMessageAt sql.NullTime
	var inserted bool
	err := r.db.QueryRowContext(ctx, query, conv.ID, conv.Participant1ID, conv.Participant2ID).Scan(
		&conv.ID, &conv.Participant1ID, &conv.Participant2ID, &conv.CreatedAt, &lastMessageAt, &inserted,
	)
	if err != nil {
		return false, classify(err, "chatRepo.UpsertConversation")
	}
	conv.LastMessageAt = nil
	if lastMessageAt.Valid {
		conv.LastMessageAt = &lastMessageAt.Time
	}
	return inserted, nil
}

func (r *chatRepository) GetConversationsWithUnreadStatus(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT get_conversations_with_unread_status($1)`, userID).Scan(&raw)
	if err != nil {
		return nil, classify(err, "chatRepo.GetConversationsWithUnreadStatus")
	}

	summaries, err := ParseConversationSummaries(raw)
	if err != nil {
		return nil, errors.Wrap(err, "chatRepo.GetConversationsWithUnreadStatus.Parse")
	}
	return summaries, nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "chatRepo.CreateMessage.Begin")
	}
	defer func() { _ = tx.Rollback() }()

	if msg.Status == "" {
		msg.Status = models.MessageStatusSent
	}

	// the row is only written when sender and recipient are the conversation's participants
	query := `
	INSERT INTO messages (id, conversation_id, sender_id, recipient_id, content, media_url, created_at, status)
	SELECT $1::uuid, c.id, $3::uuid, $4::uuid, $5::text, $6::text, COALESCE($7::timestamptz, clock_timestamp()), $8::text
	FROM conversations c
	WHERE c.id = $2::uuid
		AND ((c.participant1_id = $3::uuid AND c.participant2_id = $4::uuid)
			OR (c.participant1_id = $4::uuid AND c.participant2_id = $3::uuid))
	RETURNING id, created_at
	`

	createdAt := sql.NullTime{Time: msg.CreatedAt, Valid: !msg.CreatedAt.IsZero()}
	err = tx.QueryRowContext(ctx, query,
		msg.ID, msg.ConversationID, msg.SenderID, msg.RecipientID, msg.Content, msg.MediaURL, createdAt, string(msg.Status),
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrNotParticipant
		}
		return classify(err, "chatRepo.CreateMessage.Insert")
	}

	updateConversationQuery := `
	UPDATE conversations
	SET last_message_at = GREATEST(COALESCE(last_message_at, $2), $2)
	WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, updateConversationQuery, msg.ConversationID, msg.CreatedAt); err != nil {
		return errors.Wrap(err, "chatRepo.CreateMessage.TouchConversation")
	}

	return errors.Wrap(tx.Commit(), "chatRepo.CreateMessage.Commit")
}

// authorize applies the access rule for message reads: only the two
// participants of a conversation may see its messages.
func (r *chatRepository) authorize(ctx context.Context, viewerID, conversationID string) error {
	conv, err := r.GetConversationByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(viewerID) {
		return apperrors.ErrNotParticipant
	}
	return nil
}

const messageColumns = `id, conversation_id, sender_id, recipient_id, content, media_url, created_at, status`

func scanMessages(rows *sql.Rows) ([]*models.Message, error) {
	messages := make([]*models.Message, 0)
	for rows.Next() {
		var msg models.Message
		var mediaURL sql.NullString
		var status string
		err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.RecipientID, &msg.Content, &mediaURL, &msg.CreatedAt, &status,
		)
		if err != nil {
			return nil, err
		}
		if mediaURL.Valid {
			msg.MediaURL = &mediaURL.String
		}
		if msg.Status, err = models.ParseMessageStatus(status); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

func (r *chatRepository) GetConversationMessages(ctx context.Context, viewerID, conversationID string) ([]*models.Message, error) {
	if err := r.authorize(ctx, viewerID, conversationID); err != nil {
		return nil, err
	}

	query := `
	SELECT ` + messageColumns + `
	FROM messages
	WHERE conversation_id = $1
	ORDER BY created_at ASC, seq ASC
	`

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, classify(err, "chatRepo.GetConversationMessages")
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	return messages, errors.Wrap(err, "chatRepo.GetConversationMessages.Scan")
}

func (r *chatRepository) GetMessagePage(ctx context.Context, viewerID, conversationID string, limit int, beforeMessageID string) ([]*models.Message, error) {
	if err := r.authorize(ctx, viewerID, conversationID); err != nil {
		return nil, err
	}

	var query string
	var args []interface{}

	if beforeMessageID != "" {
		var anchored bool
		err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1 AND conversation_id = $2)`,
			beforeMessageID, conversationID,
		).Scan(&anchored)
		if err != nil {
			return nil, classify(err, "chatRepo.GetMessagePage.Anchor")
		}
		if !anchored {
			return nil, apperrors.ErrMessageNotFound
		}

		query = `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE conversation_id = $1
			AND (created_at, seq) < (SELECT created_at, seq FROM messages WHERE id = $2 AND conversation_id = $1)
		ORDER BY created_at DESC, seq DESC
		LIMIT $3
		`
		args = []interface{}{conversationID, beforeMessageID, limit}
	} else {
		query = `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2
		`
		args = []interface{}{conversationID, limit}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "chatRepo.GetMessagePage")
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, errors.Wrap(err, "chatRepo.GetMessagePage.Scan")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// UpdateMessageStatus moves a message forward along sent → delivered → seen.
// Backward or repeated transitions are ignored and reported as false.
func (r *chatRepository) UpdateMessageStatus(ctx context.Context, recipientID, messageID string, status models.MessageStatus) (bool, error) {
	query := `
	UPDATE messages
	SET status = $3
	WHERE id = $1 AND recipient_id = $2
		AND (CASE status WHEN 'sent' THEN 1 WHEN 'delivered' THEN 2 WHEN 'seen' THEN 3 ELSE 0 END)
			< (CASE $3::text WHEN 'sent' THEN 1 WHEN 'delivered' THEN 2 WHEN 'seen' THEN 3 ELSE 0 END)
	`

	result, err := r.db.ExecContext(ctx, query, messageID, recipientID, string(status))
	if err != nil {
		return false, classify(err, "chatRepo.UpdateMessageStatus")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "chatRepo.UpdateMessageStatus.RowsAffected")
	}
	return rowsAffected > 0, nil
}

func (r *chatRepository) MarkConversationSeen(ctx context.Context, conversationID, recipientID string) (int, error) {
	query := `
	UPDATE messages
	SET status = 'seen'
	WHERE conversation_id = $1 AND recipient_id = $2 AND status <> 'seen'
	`

	result, err := r.db.ExecContext(ctx, query, conversationID, recipientID)
	if err != nil {
		return 0, classify(err, "chatRepo.MarkConversationSeen")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "chatRepo.MarkConversationSeen.RowsAffected")
	}
	return int(rowsAffected), nil
}

// UpsertReadStatus stores "read up to now" for the pair. The marker never
// moves backwards.
func (r *chatRepository) UpsertReadStatus(ctx context.Context, userID, conversationID string) (time.Time, error) {
	query := `
	INSERT INTO user_conversation_read_status (user_id, conversation_id, last_read_at)
	SELECT $1::uuid, c.id, clock_timestamp()
	FROM conversations c
	WHERE c.id = $2::uuid AND (c.participant1_id = $1::uuid OR c.participant2_id = $1::uuid)
	ON CONFLICT (user_id, conversation_id)
	DO UPDATE SET last_read_at = GREATEST(user_conversation_read_status.last_read_at, EXCLUDED.last_read_at)
	RETURNING last_read_at
	`

	var lastReadAt time.Time
	if err := r.db.QueryRowContext(ctx, query, userID, conversationID).Scan(&lastReadAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, apperrors.ErrNotParticipant
		}
		return time.Time{}, classify(err, "chatRepo.UpsertReadStatus")
	}
	return lastReadAt, nil
}
