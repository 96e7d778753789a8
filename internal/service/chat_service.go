//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/servicemocks/mock_chat_service.go -package=servicemocks
package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"airwaves/messaging-service/internal/apperrors"
	"airwaves/messaging-service/internal/cache"
	"airwaves/messaging-service/internal/models"
	"airwaves/messaging-service/internal/realtime"
	"airwaves/messaging-service/internal/repository"
	"airwaves/messaging-service/internal/storage"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const (
	defaultPageSize       = 50
	maxPageSize           = 100
	defaultThreadCacheTTL = 30 * time.Second
)

var errStorageNotConfigured = errors.New("media storage is not configured")

type SendMessageInput struct {
	ConversationID string
	SenderID       string
	RecipientID    string
	Content        string
	Media          *models.MediaFile
}

type ChatService interface {
	ListConversations(ctx context.Context, userID string) ([]models.ConversationSummary, error)
	CachedConversations(userID string) ([]models.ConversationSummary, bool)
	TotalUnreadCount(ctx context.Context, userID string) (int, error)
	InvalidateConversations(userID string)
	OnConversationsInvalidated(fn func(userID string)) (unsubscribe func())

	FetchMessages(ctx context.Context, viewerID, conversationID string) ([]*models.Message, error)
	FetchMessagePage(ctx context.Context, viewerID, conversationID string, limit int, beforeMessageID string) ([]*models.Message, error)
	SendMessage(ctx context.Context, input SendMessageInput) (*models.Message, error)
	UpdateMessageStatus(ctx context.Context, recipientID, messageID string, status models.MessageStatus) (bool, error)
	InvalidateMessages(viewerID, conversationID string)

	MarkConversationRead(ctx context.Context, conversationID, userID string) (int, error)

	StartOrCreateConversation(ctx context.Context, currentUserID, targetUserID string) (string, bool, error)
	GetConversation(ctx context.Context, viewerID, conversationID string) (*models.Conversation, error)
}

type Options struct {
	PageSize int
	// ThreadCacheTTL bounds how long a fetched thread is served without
	// asking the store again.
	ThreadCacheTTL time.Duration
}

type chatService struct {
	repository repository.ChatRepository
	uploader   storage.Uploader
	broker     realtime.Broker
	logger     *logrus.Logger
	pageSize   int

	conversations *cache.Store[[]models.ConversationSummary]
	messages      *cache.Store[[]*models.Message]
	sendLocks     *keyedMutex
}

// NewChatService wires the sync layer. uploader and broker may be nil: sends
// with media then fail with a media upload error and no realtime events are
// published.
func NewChatService(
	repo repository.ChatRepository,
	uploader storage.Uploader,
	broker realtime.Broker,
	logger *logrus.Logger,
	opts Options,
) ChatService {
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	threadTTL := opts.ThreadCacheTTL
	if threadTTL <= 0 {
		threadTTL = defaultThreadCacheTTL
	}

	return &chatService{
		repository:    repo,
		uploader:      uploader,
		broker:        broker,
		logger:        logger,
		pageSize:      pageSize,
		conversations: cache.New[[]models.ConversationSummary](),
		messages:      cache.NewWithMaxAge[[]*models.Message](threadTTL),
		sendLocks:     newKeyedMutex(),
	}
}

func (s *chatService) ListConversations(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	if userID == "" {
		return nil, apperrors.ErrNoSession
	}

	summaries, err := s.repository.GetConversationsWithUnreadStatus(ctx, userID)
	if err != nil {
		return nil, s.remoteError(err, "failed to load conversations", logrus.Fields{"user_id": userID})
	}
	if summaries == nil {
		summaries = []models.ConversationSummary{}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].ActiveAt().After(summaries[j].ActiveAt())
	})

	s.conversations.Set(cache.ConversationsKey(userID), summaries)
	return cloneSummaries(summaries), nil
}

// CachedConversations returns the last fetched list even if it has been
// invalidated since.
func (s *chatService) CachedConversations(userID string) ([]models.ConversationSummary, bool) {
	summaries, ok := s.conversations.GetStale(cache.ConversationsKey(userID))
	if !ok {
		return nil, false
	}
	return cloneSummaries(summaries), true
}

func (s *chatService) TotalUnreadCount(ctx context.Context, userID string) (int, error) {
	summaries, ok := s.conversations.Get(cache.ConversationsKey(userID))
	if !ok {
		var err error
		if summaries, err = s.ListConversations(ctx, userID); err != nil {
			return 0, err
		}
	}

	return lo.SumBy(summaries, func(c models.ConversationSummary) int {
		return c.UnreadCount
	}), nil
}

func (s *chatService) InvalidateConversations(userID string) {
	s.conversations.Invalidate(cache.ConversationsKey(userID))
}

// OnConversationsInvalidated calls fn with the user id whenever a user's
// conversation list is invalidated. fn runs on the invalidating goroutine.
func (s *chatService) OnConversationsInvalidated(fn func(userID string)) func() {
	return s.conversations.Subscribe(func(key cache.Key) {
		fn(key.ID)
	})
}

func (s *chatService) InvalidateMessages(viewerID, conversationID string) {
	s.messages.Invalidate(cache.MessagesKey(viewerID, conversationID))
}

func (s *chatService) FetchMessages(ctx context.Context, viewerID, conversationID string) ([]*models.Message, error) {
	if viewerID == "" {
		return nil, apperrors.ErrNoSession
	}
	if conversationID == "" {
		return nil, apperrors.ErrMissingConversation
	}
	if err := checkID(conversationID, "conversation id"); err != nil {
		return nil, err
	}

	key := cache.MessagesKey(viewerID, conversationID)
	if cached, ok := s.messages.Get(key); ok {
		return cloneMessages(cached), nil
	}

	messages, err := s.repository.GetConversationMessages(ctx, viewerID, conversationID)
	if err != nil {
		return nil, s.remoteError(err, "failed to load messages", logrus.Fields{
			"conversation_id": conversationID,
			"viewer_id":       viewerID,
		})
	}
	if messages == nil {
		messages = []*models.Message{}
	}

	s.messages.Set(key, messages)
	return cloneMessages(messages), nil
}

func (s *chatService) FetchMessagePage(ctx context.Context, viewerID, conversationID string, limit int, beforeMessageID string) ([]*models.Message, error) {
	if viewerID == "" {
		return nil, apperrors.ErrNoSession
	}
	if conversationID == "" {
		return nil, apperrors.ErrMissingConversation
	}
	if err := checkID(conversationID, "conversation id"); err != nil {
		return nil, err
	}
	if beforeMessageID != "" {
		if err := checkID(beforeMessageID, "before message id"); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	messages, err := s.repository.GetMessagePage(ctx, viewerID, conversationID, limit, beforeMessageID)
	if err != nil {
		return nil, s.remoteError(err, "failed to load messages", logrus.Fields{
			"conversation_id": conversationID,
			"viewer_id":       viewerID,
		})
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	return messages, nil
}

func (s *chatService) SendMessage(ctx context.Context, input SendMessageInput) (*models.Message, error) {
	if strings.TrimSpace(input.RecipientID) == "" {
		return nil, apperrors.ErrRecipientMissing
	}
	if input.SenderID == "" {
		return nil, apperrors.ErrNoSession
	}
	if input.ConversationID == "" {
		return nil, apperrors.ErrMissingConversation
	}
	if err := checkID(input.ConversationID, "conversation id"); err != nil {
		return nil, err
	}
	if err := checkID(input.RecipientID, "recipient id"); err != nil {
		return nil, err
	}
	if input.SenderID == input.RecipientID {
		return nil, apperrors.Validation("cannot send a message to yourself")
	}
	content := strings.TrimSpace(input.Content)
	if content == "" && input.Media == nil {
		return nil, apperrors.ErrEmptyMessage
	}

	// one sender's messages are inserted in the order they were submitted
	unlock := s.sendLocks.Lock(input.SenderID)
	defer unlock()

	var mediaURL *string
	if input.Media != nil {
		url, err := s.upload(ctx, *input.Media)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"conversation_id": input.ConversationID,
				"sender_id":       input.SenderID,
				"filename":        input.Media.Filename,
			}).Warn("Media upload failed, message not sent")
			return nil, apperrors.MediaUpload(err)
		}
		mediaURL = &url
	}

	msg := &models.Message{
		ID:             uuid.New().String(),
		ConversationID: input.ConversationID,
		SenderID:       input.SenderID,
		RecipientID:    input.RecipientID,
		Content:        content,
		MediaURL:       mediaURL,
		Status:         models.MessageStatusSent,
	}

	if err := s.repository.CreateMessage(ctx, msg); err != nil {
		return nil, s.remoteError(err, "failed to send message", logrus.Fields{
			"conversation_id": input.ConversationID,
			"sender_id":       input.SenderID,
		})
	}

	for _, viewerID := range []string{msg.SenderID, msg.RecipientID} {
		s.messages.UpdateValid(cache.MessagesKey(viewerID, msg.ConversationID), func(list []*models.Message) []*models.Message {
			if lo.ContainsBy(list, func(m *models.Message) bool { return m.ID == msg.ID }) {
				return list
			}
			next := make([]*models.Message, 0, len(list)+1)
			next = append(next, list...)
			return append(next, cloneMessage(msg))
		})
	}
	s.InvalidateConversations(msg.SenderID)
	s.InvalidateConversations(msg.RecipientID)

	s.publish(ctx, msg)

	s.logger.WithFields(logrus.Fields{
		"message_id":      msg.ID,
		"conversation_id": msg.ConversationID,
		"sender_id":       msg.SenderID,
		"has_media":       msg.MediaURL != nil,
	}).Info("Message sent")

	return msg, nil
}

func (s *chatService) upload(ctx context.Context, file models.MediaFile) (string, error) {
	if s.uploader == nil {
		return "", errStorageNotConfigured
	}
	return s.uploader.Upload(ctx, file)
}

func (s *chatService) publish(ctx context.Context, msg *models.Message) {
	if s.broker == nil {
		return
	}
	// the row is committed, a cancelled request must not suppress the event
	if err := s.broker.Publish(context.WithoutCancel(ctx), realtime.MessageInserted(cloneMessage(msg))); err != nil {
		s.logger.WithError(err).WithField("message_id", msg.ID).Warn("Failed to publish message event")
	}
}

func (s *chatService) UpdateMessageStatus(ctx context.Context, recipientID, messageID string, status models.MessageStatus) (bool, error) {
	if recipientID == "" {
		return false, apperrors.ErrNoSession
	}
	if messageID == "" {
		return false, apperrors.Validation("message id is required")
	}
	if !status.Valid() {
		return false, apperrors.Validation("unknown message status")
	}

	changed, err := s.repository.UpdateMessageStatus(ctx, recipientID, messageID, status)
	if err != nil {
		return false, s.remoteError(err, "failed to update message status", logrus.Fields{
			"message_id": messageID,
			"status":     status,
		})
	}
	return changed, nil
}

// MarkConversationRead moves the user's read marker to now and reports how
// many incoming messages turned seen. The cached unread count is zeroed
// whether or not the marker could be stored; the next list fetch reconciles.
func (s *chatService) MarkConversationRead(ctx context.Context, conversationID, userID string) (int, error) {
	if userID == "" {
		return 0, apperrors.ErrNoSession
	}
	if conversationID == "" {
		return 0, apperrors.ErrMissingConversation
	}
	if err := checkID(conversationID, "conversation id"); err != nil {
		return 0, err
	}

	_, err := s.repository.UpsertReadStatus(ctx, userID, conversationID)
	s.zeroUnread(userID, conversationID)
	if err != nil {
		return 0, s.remoteError(err, "failed to mark conversation as read", logrus.Fields{
			"conversation_id": conversationID,
			"user_id":         userID,
		})
	}

	seen, err := s.repository.MarkConversationSeen(ctx, conversationID, userID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"conversation_id": conversationID,
			"user_id":         userID,
			"marker_stored":   true,
			"reported_seen":   0,
		}).Warn("Failed to mark messages as seen, read marker kept")
		return 0, nil
	}
	if seen > 0 {
		s.markSeenInCache(conversationID, userID)
	}

	s.logger.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"user_id":         userID,
		"seen":            seen,
	}).Debug("Conversation marked as read")

	return seen, nil
}

func (s *chatService) zeroUnread(userID, conversationID string) {
	s.conversations.Update(cache.ConversationsKey(userID), func(list []models.ConversationSummary) []models.ConversationSummary {
		next := cloneSummaries(list)
		for i := range next {
			if next[i].ID == conversationID {
				next[i].UnreadCount = 0
			}
		}
		return next
	})
}

func (s *chatService) markSeenInCache(conversationID, userID string) {
	s.messages.Update(cache.MessagesKey(userID, conversationID), func(list []*models.Message) []*models.Message {
		return lo.Map(list, func(m *models.Message, _ int) *models.Message {
			if m.RecipientID != userID || !m.Status.Advances(models.MessageStatusSeen) {
				return m
			}
			c := cloneMessage(m)
			c.Status = models.MessageStatusSeen
			return c
		})
	})
}

// StartOrCreateConversation returns the conversation between the two users,
// creating it if needed. Starting a conversation with oneself is a no-op that
// returns an empty id.
func (s *chatService) StartOrCreateConversation(ctx context.Context, currentUserID, targetUserID string) (string, bool, error) {
	if currentUserID == "" {
		return "", false, apperrors.ErrNoSession
	}
	if targetUserID == "" {
		return "", false, apperrors.ErrRecipientMissing
	}
	if err := checkID(targetUserID, "target user id"); err != nil {
		return "", false, err
	}
	if currentUserID == targetUserID {
		s.logger.WithField("user_id", currentUserID).Debug("Ignoring conversation with self")
		return "", false, nil
	}

	existing, err := s.repository.GetConversationByParticipants(ctx, currentUserID, targetUserID)
	if err == nil {
		return existing.ID, false, nil
	}
	if !apperrors.IsNotFound(err) {
		return "", false, s.remoteError(err, "failed to look up conversation", logrus.Fields{
			"user_id1": currentUserID,
			"user_id2": targetUserID,
		})
	}

	conv := &models.Conversation{
		ID:             uuid.New().String(),
		Participant1ID: currentUserID,
		Participant2ID: targetUserID,
	}
	created, err := s.repository.UpsertConversation(ctx, conv)
	if err != nil {
		return "", false, s.remoteError(err, "failed to create conversation", logrus.Fields{
			"user_id1": currentUserID,
			"user_id2": targetUserID,
		})
	}

	s.InvalidateConversations(currentUserID)
	s.InvalidateConversations(targetUserID)

	if created {
		s.logger.WithFields(logrus.Fields{
			"conversation_id": conv.ID,
			"user_id1":        currentUserID,
			"user_id2":        targetUserID,
		}).Info("Conversation created")
	}

	return conv.ID, created, nil
}

func (s *chatService) GetConversation(ctx context.Context, viewerID, conversationID string) (*models.Conversation, error) {
	if viewerID == "" {
		return nil, apperrors.ErrNoSession
	}
	if conversationID == "" {
		return nil, apperrors.ErrMissingConversation
	}
	if err := checkID(conversationID, "conversation id"); err != nil {
		return nil, err
	}

	conv, err := s.repository.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, s.remoteError(err, "failed to get conversation", logrus.Fields{"conversation_id": conversationID})
	}
	if !conv.HasParticipant(viewerID) {
		return nil, apperrors.ErrNotParticipant
	}
	return conv, nil
}

// checkID rejects identifiers the store could never match.
func checkID(id, field string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validation(field + " is not a valid id")
	}
	return nil
}

// remoteError passes classified errors through and turns anything else from
// the store into a logged network error.
func (s *chatService) remoteError(err error, msg string, fields logrus.Fields) error {
	if apperrors.CodeOf(err) != apperrors.CodeUnknown {
		return err
	}
	s.logger.WithError(err).WithFields(fields).Error(msg)
	return apperrors.Network(msg, err)
}

func cloneSummaries(in []models.ConversationSummary) []models.ConversationSummary {
	out := make([]models.ConversationSummary, len(in))
	copy(out, in)
	return out
}

func cloneMessage(m *models.Message) *models.Message {
	c := *m
	return &c
}

func cloneMessages(in []*models.Message) []*models.Message {
	return lo.Map(in, func(m *models.Message, _ int) *models.Message { return cloneMessage(m) })
}
