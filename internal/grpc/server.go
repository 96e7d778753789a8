package grpc

import (
	"context"

	"airwaves/messaging-service/internal/apperrors"
	"airwaves/messaging-service/internal/auth"
	"airwaves/messaging-service/internal/models"
	"airwaves/messaging-service/internal/service"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	pb "github.com/kegazani/metachat-proto/chat"
)

type ChatServer struct {
	pb.UnimplementedChatServiceServer
	service service.ChatService
	logger  *logrus.Logger
}

func NewChatServer(svc service.ChatService, logger *logrus.Logger) *ChatServer {
	return &ChatServer{
		service: svc,
		logger:  logger,
	}
}

func (s *ChatServer) CreateChat(ctx context.Context, req *pb.CreateChatRequest) (*pb.CreateChatResponse, error) {
	s.logger.WithFields(logrus.Fields{
		"user_id1": req.UserId1,
		"user_id2": req.UserId2,
	}).Info("Creating chat via gRPC")

	userID, err := actor(ctx, req.UserId1)
	if err != nil {
		return nil, err
	}

	id, _, err := s.service.StartOrCreateConversation(ctx, userID, req.UserId2)
	if err != nil {
		return nil, s.toStatus(err, "failed to create chat")
	}
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "cannot create chat with yourself")
	}

	conv, err := s.service.GetConversation(ctx, userID, id)
	if err != nil {
		return nil, s.toStatus(err, "failed to create chat")
	}

	return &pb.CreateChatResponse{
		Chat: conversationToProto(conv),
	}, nil
}

func (s *ChatServer) GetChat(ctx context.Context, req *pb.GetChatRequest) (*pb.GetChatResponse, error) {
	s.logger.WithField("chat_id", req.ChatId).Info("Getting chat via gRPC")

	userID, err := actor(ctx, "")
	if err != nil {
		return nil, err
	}

	conv, err := s.service.GetConversation(ctx, userID, req.ChatId)
	if err != nil {
		return nil, s.toStatus(err, "failed to get chat")
	}

	return &pb.GetChatResponse{
		Chat: conversationToProto(conv),
	}, nil
}

func (s *ChatServer) GetUserChats(ctx context.Context, req *pb.GetUserChatsRequest) (*pb.GetUserChatsResponse, error) {
	s.logger.WithField("user_id", req.UserId).Info("Getting user chats via gRPC")

	userID, err := actor(ctx, req.UserId)
	if err != nil {
		return nil, err
	}

	summaries, err := s.service.ListConversations(ctx, userID)
	if err != nil {
		return nil, s.toStatus(err, "failed to get user chats")
	}

	return &pb.GetUserChatsResponse{
		Chats: lo.Map(summaries, func(c models.ConversationSummary, _ int) *pb.Chat {
			return summaryToProto(userID, c)
		}),
	}, nil
}

func (s *ChatServer) SendMessage(ctx context.Context, req *pb.SendMessageRequest) (*pb.SendMessageResponse, error) {
	s.logger.WithFields(logrus.Fields{
		"chat_id":   req.ChatId,
		"sender_id": req.SenderId,
	}).Info("Sending message via gRPC")

	senderID, err := actor(ctx, req.SenderId)
	if err != nil {
		return nil, err
	}

	conv, err := s.service.GetConversation(ctx, senderID, req.ChatId)
	if err != nil {
		return nil, s.toStatus(err, "failed to send message")
	}

	msg, err := s.service.SendMessage(ctx, service.SendMessageInput{
		ConversationID: conv.ID,
		SenderID:       senderID,
		RecipientID:    conv.OtherParticipant(senderID),
		Content:        req.Content,
	})
	if err != nil {
		return nil, s.toStatus(err, "failed to send message")
	}

	return &pb.SendMessageResponse{
		Message: messageToProto(msg),
	}, nil
}

func (s *ChatServer) GetChatMessages(ctx context.Context, req *pb.GetChatMessagesRequest) (*pb.GetChatMessagesResponse, error) {
	s.logger.WithField("chat_id", req.ChatId).Info("Getting chat messages via gRPC")

	userID, err := actor(ctx, "")
	if err != nil {
		return nil, err
	}

	messages, err := s.service.FetchMessagePage(ctx, userID, req.ChatId, int(req.Limit), req.BeforeMessageId)
	if err != nil {
		return nil, s.toStatus(err, "failed to get chat messages")
	}

	return &pb.GetChatMessagesResponse{
		Messages: lo.Map(messages, func(m *models.Message, _ int) *pb.Message {
			return messageToProto(m)
		}),
	}, nil
}

func (s *ChatServer) MarkMessagesAsRead(ctx context.Context, req *pb.MarkMessagesAsReadRequest) (*pb.MarkMessagesAsReadResponse, error) {
	s.logger.WithFields(logrus.Fields{
		"chat_id": req.ChatId,
		"user_id": req.UserId,
	}).Info("Marking messages as read via gRPC")

	userID, err := actor(ctx, req.UserId)
	if err != nil {
		return nil, err
	}

	count, err := s.service.MarkConversationRead(ctx, req.ChatId, userID)
	if err != nil {
		return nil, s.toStatus(err, "failed to mark messages as read")
	}

	return &pb.MarkMessagesAsReadResponse{
		MarkedCount: int32(count),
	}, nil
}

// actor resolves the calling user. The authenticated identity wins; a user id
// in the request must match it.
func actor(ctx context.Context, claimed string) (string, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		if claimed == "" {
			return "", status.Error(codes.Unauthenticated, "no valid session")
		}
		return claimed, nil
	}
	if claimed != "" && claimed != userID {
		return "", status.Error(codes.PermissionDenied, "cannot act on behalf of another user")
	}
	return userID, nil
}

func (s *ChatServer) toStatus(err error, msg string) error {
	code := codeOf(err)
	if code == codes.Internal || code == codes.Unavailable {
		s.logger.WithError(err).Error(msg)
	} else {
		s.logger.WithError(err).Warn(msg)
	}
	return status.Error(code, err.Error())
}

func codeOf(err error) codes.Code {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidArgument:
		return codes.InvalidArgument
	case apperrors.CodeNotFound:
		return codes.NotFound
	case apperrors.CodeAlreadyExists:
		return codes.AlreadyExists
	case apperrors.CodePermissionDenied:
		return codes.PermissionDenied
	case apperrors.CodeUnauthenticated:
		return codes.Unauthenticated
	case apperrors.CodeUnavailable:
		return codes.Unavailable
	case apperrors.CodeMediaUpload:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

func conversationToProto(conv *models.Conversation) *pb.Chat {
	updatedAt := conv.CreatedAt
	if conv.LastMessageAt != nil {
		updatedAt = *conv.LastMessageAt
	}
	return &pb.Chat{
		Id:        conv.ID,
		UserId1:   conv.Participant1ID,
		UserId2:   conv.Participant2ID,
		CreatedAt: timestamppb.New(conv.CreatedAt),
		UpdatedAt: timestamppb.New(updatedAt),
	}
}

func summaryToProto(userID string, c models.ConversationSummary) *pb.Chat {
	return &pb.Chat{
		Id:        c.ID,
		UserId1:   userID,
		UserId2:   c.OtherUser.ID,
		CreatedAt: timestamppb.New(c.CreatedAt),
		UpdatedAt: timestamppb.New(c.ActiveAt()),
	}
}

func messageToProto(msg *models.Message) *pb.Message {
	return &pb.Message{
		Id:        msg.ID,
		ChatId:    msg.ConversationID,
		SenderId:  msg.SenderID,
		Content:   msg.Content,
		CreatedAt: timestamppb.New(msg.CreatedAt),
	}
}
