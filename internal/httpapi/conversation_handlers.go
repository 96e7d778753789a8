package httpapi

import (
	"net/http"
	"strconv"

	"airwaves/messaging-service/internal/apperrors"
	"airwaves/messaging-service/internal/models"
	"airwaves/messaging-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const mediaField = "media"

type conversationListResponse struct {
	Conversations []models.ConversationSummary `json:"conversations"`
	TotalUnread   int                          `json:"total_unread"`
	Stale         bool                         `json:"stale"`
}

type startConversationRequest struct {
	TargetUserID string `json:"target_user_id" validate:"required"`
}

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" form:"recipient_id"`
	Content     string `json:"content" form:"content" validate:"max=4000"`
}

func (s *Server) handleListConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		if c.Query("refresh") == "true" {
			s.Chat.InvalidateConversations(userID)
		}

		list, err := s.Chat.ListConversations(c.Request.Context(), userID)
		if err != nil {
			// a network failure still serves the last known list
			cached, ok := s.Chat.CachedConversations(userID)
			if !apperrors.IsNetwork(err) || !ok {
				respondError(c, err)
				return
			}
			s.Logger.WithError(err).WithField("user_id", userID).Warn("Serving cached conversation list")
			c.JSON(http.StatusOK, conversationListResponse{
				Conversations: cached,
				TotalUnread:   totalUnread(cached),
				Stale:         true,
			})
			return
		}

		c.JSON(http.StatusOK, conversationListResponse{
			Conversations: lo.Ternary(list == nil, []models.ConversationSummary{}, list),
			TotalUnread:   totalUnread(list),
		})
	}
}

func totalUnread(list []models.ConversationSummary) int {
	return lo.SumBy(list, func(c models.ConversationSummary) int { return c.UnreadCount })
}

func (s *Server) handleStartConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startConversationRequest
		if !s.bind(c, &req) {
			return
		}

		id, created, err := s.Chat.StartOrCreateConversation(c.Request.Context(), currentUserID(c), req.TargetUserID)
		if err != nil {
			respondError(c, err)
			return
		}
		if id == "" {
			respondError(c, apperrors.Validation("cannot start a conversation with yourself"))
			return
		}

		c.JSON(lo.Ternary(created, http.StatusCreated, http.StatusOK), gin.H{
			"conversation_id": id,
			"created":         created,
		})
	}
}

func (s *Server) handleGetMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		conversationID := c.Param("id")

		var (
			messages []*models.Message
			err      error
		)
		limitParam, before := c.Query("limit"), c.Query("before")
		if limitParam == "" && before == "" {
			messages, err = s.Chat.FetchMessages(c.Request.Context(), userID, conversationID)
		} else {
			limit := 0
			if limitParam != "" {
				if limit, err = strconv.Atoi(limitParam); err != nil || limit < 0 {
					respondError(c, apperrors.Validation("limit must be a non-negative integer"))
					return
				}
			}
			messages, err = s.Chat.FetchMessagePage(c.Request.Context(), userID, conversationID, limit, before)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": lo.Ternary(messages == nil, []*models.Message{}, messages),
		})
	}
}

func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		input := service.SendMessageInput{
			ConversationID: c.Param("id"),
			SenderID:       currentUserID(c),
		}

		if c.ContentType() == gin.MIMEMultipartPOSTForm {
			if err := c.ShouldBind(&req); err != nil {
				respondError(c, bindingError(err))
				return
			}
			header, err := c.FormFile(mediaField)
			if err != nil && err != http.ErrMissingFile {
				respondError(c, apperrors.Validation("invalid media attachment"))
				return
			}
			if header != nil {
				file, err := header.Open()
				if err != nil {
					respondError(c, apperrors.MediaUpload(err))
					return
				}
				defer file.Close()
				input.Media = &models.MediaFile{
					Filename:    header.Filename,
					ContentType: header.Header.Get("Content-Type"),
					Size:        header.Size,
					Body:        file,
				}
			}
		} else if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, bindingError(err))
			return
		}
		if err := s.validate.Struct(req); err != nil {
			respondError(c, bindingError(err))
			return
		}

		input.RecipientID = req.RecipientID
		input.Content = req.Content

		msg, err := s.Chat.SendMessage(c.Request.Context(), input)
		if err != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"conversation_id": input.ConversationID,
				"sender_id":       input.SenderID,
			}).Warn("Send message failed")
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": msg})
	}
}

func (s *Server) handleMarkRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := s.Chat.MarkConversationRead(c.Request.Context(), c.Param("id"), currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"marked_count": count})
	}
}
