package auth_test

import (
	"context"
	"testing"
	"time"

	"airwaves/messaging-service/internal/apperrors"
	"airwaves/messaging-service/internal/auth"
	"airwaves/messaging-service/internal/mocks"

	pb "github.com/kegazani/metachat-proto/chat"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestUnaryInterceptor(t *testing.T) {
	handler := func(ctx context.Context, req any) (any, error) {
		return ctx, nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/chat.ChatService/GetUserChats"}

	t.Run("public methods skip authentication", func(t *testing.T) {
		svc := mocks.NewMockService(gomock.NewController(t))
		interceptor := auth.UnaryInterceptor(svc, "/grpc.health.v1.Health/Check")

		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
		require.NoError(t, err)
	})

	t.Run("missing metadata", func(t *testing.T) {
		svc := mocks.NewMockService(gomock.NewController(t))

		_, err := auth.UnaryInterceptor(svc)(context.Background(), nil, info, handler)
		require.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("missing authorization header", func(t *testing.T) {
		svc := mocks.NewMockService(gomock.NewController(t))
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-other", "1"))

		_, err := auth.UnaryInterceptor(svc)(ctx, nil, info, handler)
		require.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("invalid session", func(t *testing.T) {
		svc := mocks.NewMockService(gomock.NewController(t))
		svc.EXPECT().GetSession(gomock.Any(), "bad").Return(nil, apperrors.ErrNoSession)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer bad"))

		_, err := auth.UnaryInterceptor(svc)(ctx, nil, info, handler)
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid or expired token")
	})

	t.Run("valid session injects the caller", func(t *testing.T) {
		req := require.New(t)
		svc := mocks.NewMockService(gomock.NewController(t))
		session := &auth.Session{Token: "good", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
		svc.EXPECT().GetSession(gomock.Any(), "good").Return(session, nil)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer good"))

		res, err := auth.UnaryInterceptor(svc)(ctx, &pb.GetUserChatsRequest{}, info, handler)
		req.NoError(err)

		userID, ok := auth.UserIDFromContext(res.(context.Context))
		req.True(ok)
		req.Equal("user-1", userID)

		got, ok := auth.SessionFromContext(res.(context.Context))
		req.True(ok)
		req.Same(session, got)
	})
}
