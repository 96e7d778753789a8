package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"airwaves/messaging-service/internal/apperrors"
	"airwaves/messaging-service/internal/auth"
	"airwaves/messaging-service/internal/config"
	"airwaves/messaging-service/internal/mocks"
	"airwaves/messaging-service/internal/mocks/servicemocks"
	"airwaves/messaging-service/internal/models"
	"airwaves/messaging-service/internal/realtime"
	"airwaves/messaging-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	alice      = "11111111-1111-1111-1111-111111111111"
	bob        = "22222222-2222-2222-2222-222222222222"
	aliceToken = "alice-token"
)

type fixture struct {
	chat     *servicemocks.MockChatService
	auth     *mocks.MockService
	broker   *realtime.LocalBroker
	sessions *service.SessionManager
	router   *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	logger, _ := test.NewNullLogger()

	f := &fixture{
		chat:   servicemocks.NewMockChatService(ctrl),
		auth:   mocks.NewMockService(ctrl),
		broker: realtime.NewLocalBroker(),
	}
	f.chat.EXPECT().OnConversationsInvalidated(gomock.Any()).Return(func() {}).AnyTimes()
	f.sessions = service.NewSessionManager(f.chat, f.broker, logger, 0)
	t.Cleanup(func() {
		f.sessions.CloseAll()
		_ = f.broker.Close()
	})

	srv := NewServer(f.chat, f.auth, f.sessions, config.HTTPConfig{AllowedOrigins: []string{"*"}}, logger)
	f.router = srv.Router()

	f.auth.EXPECT().GetSession(gomock.Any(), aliceToken).Return(&auth.Session{
		Token: aliceToken, UserID: alice, ExpiresAt: time.Now().Add(time.Hour),
	}, nil).AnyTimes()
	return f
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) apperrors.Code {
	return decode[struct {
		Error errorResponse `json:"error"`
	}](t, rec).Error.Code
}

func TestAuthorize(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		f := newFixture(t)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, apperrors.CodeUnauthenticated, errorCode(t, rec))
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newFixture(t)
		f.auth.EXPECT().GetSession(gomock.Any(), "stale").Return(nil, apperrors.ErrNoSession)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSignup(t *testing.T) {
	t.Run("registers and signs in", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		user := &models.User{ID: bob, Email: "dj@airwaves.fm", DisplayName: "DJ Bob"}
		f.auth.EXPECT().Register(gomock.Any(), "dj@airwaves.fm", "s3cret-pass", "DJ Bob").Return(user, nil)
		f.auth.EXPECT().SignIn(gomock.Any(), "dj@airwaves.fm", "s3cret-pass").Return(&auth.Session{Token: "t", UserID: bob, User: user}, nil)

		rec := f.do(http.MethodPost, "/api/v1/auth/signup", gin.H{
			"email": "dj@airwaves.fm", "password": "s3cret-pass", "display_name": "DJ Bob",
		})
		req.Equal(http.StatusCreated, rec.Code)

		body := decode[sessionResponse](t, rec)
		req.Equal("t", body.Session.Token)
		req.Equal("DJ Bob", body.User.DisplayName)
	})

	t.Run("invalid email never reaches the service", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/api/v1/auth/signup", gin.H{"email": "nope", "password": "s3cret-pass"})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, apperrors.CodeInvalidArgument, errorCode(t, rec))
	})
}

func TestSignout(t *testing.T) {
	f := newFixture(t)
	f.auth.EXPECT().SignOut(gomock.Any(), aliceToken).Return(nil)

	rec := f.do(http.MethodPost, "/api/v1/auth/signout", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListConversations(t *testing.T) {
	list := []models.ConversationSummary{
		{ID: "c1", OtherUser: models.Profile{ID: bob}, UnreadCount: 2},
		{ID: "c2", OtherUser: models.Profile{ID: "carol"}, UnreadCount: 3},
	}

	t.Run("fresh list", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.chat.EXPECT().ListConversations(gomock.Any(), alice).Return(list, nil)

		rec := f.do(http.MethodGet, "/api/v1/conversations", nil)
		req.Equal(http.StatusOK, rec.Code)

		body := decode[conversationListResponse](t, rec)
		req.Len(body.Conversations, 2)
		req.Equal(5, body.TotalUnread)
		req.False(body.Stale)
	})

	t.Run("refresh invalidates first", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.chat.EXPECT().InvalidateConversations(alice),
			f.chat.EXPECT().ListConversations(gomock.Any(), alice).Return(nil, nil),
		)

		rec := f.do(http.MethodGet, "/api/v1/conversations?refresh=true", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, decode[conversationListResponse](t, rec).Conversations)
	})

	t.Run("network failure serves cached list", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.chat.EXPECT().ListConversations(gomock.Any(), alice).Return(nil, apperrors.Network("fetch failed", errors.New("timeout")))
		f.chat.EXPECT().CachedConversations(alice).Return(list, true)

		rec := f.do(http.MethodGet, "/api/v1/conversations", nil)
		req.Equal(http.StatusOK, rec.Code)
		req.True(decode[conversationListResponse](t, rec).Stale)
	})

	t.Run("network failure without cache", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().ListConversations(gomock.Any(), alice).Return(nil, apperrors.Network("fetch failed", errors.New("timeout")))
		f.chat.EXPECT().CachedConversations(alice).Return(nil, false)

		rec := f.do(http.MethodGet, "/api/v1/conversations", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestStartConversation(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().StartOrCreateConversation(gomock.Any(), alice, bob).Return("c1", true, nil)

		rec := f.do(http.MethodPost, "/api/v1/conversations", gin.H{"target_user_id": bob})
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "c1", decode[map[string]any](t, rec)["conversation_id"])
	})

	t.Run("existing", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().StartOrCreateConversation(gomock.Any(), alice, bob).Return("c1", false, nil)

		rec := f.do(http.MethodPost, "/api/v1/conversations", gin.H{"target_user_id": bob})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("self", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().StartOrCreateConversation(gomock.Any(), alice, alice).Return("", false, nil)

		rec := f.do(http.MethodPost, "/api/v1/conversations", gin.H{"target_user_id": alice})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing target", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/api/v1/conversations", gin.H{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetMessages(t *testing.T) {
	t.Run("full history", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().FetchMessages(gomock.Any(), alice, "c1").Return([]*models.Message{{ID: "m1"}, {ID: "m2"}}, nil)

		rec := f.do(http.MethodGet, "/api/v1/conversations/c1/messages", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decode[map[string][]models.Message](t, rec)["messages"], 2)
	})

	t.Run("page", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().FetchMessagePage(gomock.Any(), alice, "c1", 10, "m9").Return(nil, nil)

		rec := f.do(http.MethodGet, "/api/v1/conversations/c1/messages?limit=10&before=m9", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"messages":[]}`, rec.Body.String())
	})

	t.Run("bad limit", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodGet, "/api/v1/conversations/c1/messages?limit=ten", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("outsider", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().FetchMessages(gomock.Any(), alice, "c9").Return(nil, apperrors.ErrNotParticipant)

		rec := f.do(http.MethodGet, "/api/v1/conversations/c9/messages", nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestSendMessage(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().SendMessage(gomock.Any(), service.SendMessageInput{
			ConversationID: "c1", SenderID: alice, RecipientID: bob, Content: "requesting the late show",
		}).Return(&models.Message{ID: "m1", Content: "requesting the late show", Status: models.MessageStatusSent}, nil)

		rec := f.do(http.MethodPost, "/api/v1/conversations/c1/messages", gin.H{
			"recipient_id": bob, "content": "requesting the late show",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "m1", decode[map[string]models.Message](t, rec)["message"].ID)
	})

	t.Run("missing recipient", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(nil, apperrors.ErrRecipientMissing)

		rec := f.do(http.MethodPost, "/api/v1/conversations/c1/messages", gin.H{"content": "hi"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Recipient information is missing",
			decode[struct {
				Error errorResponse `json:"error"`
			}](t, rec).Error.Message)
	})

	t.Run("multipart media", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		req.NoError(w.WriteField("recipient_id", bob))
		part, err := w.CreateFormFile("media", "jingle.mp3")
		req.NoError(err)
		_, err = part.Write([]byte("ID3 fake audio"))
		req.NoError(err)
		req.NoError(w.Close())

		f.chat.EXPECT().SendMessage(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in service.SendMessageInput) (*models.Message, error) {
				req.Equal(bob, in.RecipientID)
				req.NotNil(in.Media)
				req.Equal("jingle.mp3", in.Media.Filename)
				data, err := io.ReadAll(in.Media.Body)
				req.NoError(err)
				req.Equal("ID3 fake audio", string(data))
				url := "https://cdn.airwaves.fm/dm-media/x.mp3"
				return &models.Message{ID: "m2", MediaURL: &url}, nil
			})

		httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/c1/messages", &body)
		httpReq.Header.Set("Content-Type", w.FormDataContentType())
		httpReq.Header.Set("Authorization", "Bearer "+aliceToken)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httpReq)

		req.Equal(http.StatusCreated, rec.Code)
	})

	t.Run("upload failure", func(t *testing.T) {
		f := newFixture(t)
		f.chat.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(nil, apperrors.MediaUpload(errors.New("bucket gone")))

		rec := f.do(http.MethodPost, "/api/v1/conversations/c1/messages", gin.H{"recipient_id": bob, "content": "x"})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t)
	f.chat.EXPECT().MarkConversationRead(gomock.Any(), "c1", alice).Return(4, nil)

	rec := f.do(http.MethodPost, "/api/v1/conversations/c1/read", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"marked_count":4}`, rec.Body.String())
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, http.StatusConflict, statusOf(apperrors.ErrEmailTaken))
	require.Equal(t, http.StatusNotFound, statusOf(apperrors.ErrConversationNotFound))
	require.Equal(t, http.StatusInternalServerError, statusOf(errors.New("boom")))
	require.True(t, strings.HasPrefix(errorBody(errors.New("boom")).Message, "internal"))
}
