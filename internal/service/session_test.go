package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"airwaves/messaging-service/internal/auth"
	"airwaves/messaging-service/internal/cache"
	"airwaves/messaging-service/internal/mocks"
	"airwaves/messaging-service/internal/models"
	"airwaves/messaging-service/internal/realtime"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type failingBroker struct{ realtime.Broker }

type recordingBroker struct {
	*realtime.LocalBroker

	mu   sync.Mutex
	subs []*realtime.Subscription
}

func (b *recordingBroker) Subscribe(ctx context.Context, recipientID string) (*realtime.Subscription, error) {
	sub, err := b.LocalBroker.Subscribe(ctx, recipientID)
	if err == nil {
		b.mu.Lock()
		b.subs = append(b.subs, sub)
		b.mu.Unlock()
	}
	return sub, err
}

func (b *recordingBroker) subscriptions() []*realtime.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*realtime.Subscription(nil), b.subs...)
}

func requireClosed(t *testing.T, sub *realtime.Subscription) {
	t.Helper()
	select {
	case <-sub.Done():
	default:
		t.Fatal("subscription is still open")
	}
}

func (failingBroker) Subscribe(context.Context, string) (*realtime.Subscription, error) {
	return nil, errors.New("websocket closed")
}

func incoming(id string) realtime.Event {
	return realtime.MessageInserted(&models.Message{
		ID: id, ConversationID: convA, SenderID: bob, RecipientID: alice, Content: "hey", Status: models.MessageStatusSent,
	})
}

func TestSessionManager_IncomingMessage(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	logger, _ := test.NewNullLogger()
	sessions := NewSessionManager(f.svc, f.broker, logger, 10*time.Millisecond)
	defer sessions.CloseAll()

	f.svc.conversations.Set(cache.ConversationsKey(alice), summaries())
	f.svc.messages.Set(cache.MessagesKey(alice, convA), []*models.Message{})

	delivered := make(chan string, 1)
	refreshed := make(chan struct{}, 4)
	f.repo.EXPECT().UpdateMessageStatus(gomock.Any(), alice, "m1", models.MessageStatusDelivered).DoAndReturn(
		func(_ context.Context, _, id string, _ models.MessageStatus) (bool, error) {
			delivered <- id
			return true, nil
		})
	f.repo.EXPECT().GetConversationsWithUnreadStatus(gomock.Any(), alice).DoAndReturn(
		func(context.Context, string) ([]models.ConversationSummary, error) {
			refreshed <- struct{}{}
			return summaries(), nil
		})

	req.NoError(sessions.Open(context.Background(), alice))
	req.True(sessions.Subscribed(alice))

	forwarded := make(chan realtime.Event, 1)
	detach, err := sessions.Attach(context.Background(), alice, func(evt realtime.Event) { forwarded <- evt })
	req.NoError(err)
	defer detach()

	req.NoError(f.broker.Publish(context.Background(), incoming("m1")))

	select {
	case id := <-delivered:
		req.Equal("m1", id)
	case <-time.After(time.Second):
		req.Fail("message was not marked delivered")
	}
	select {
	case evt := <-forwarded:
		req.Equal("m1", evt.Message.ID)
	case <-time.After(time.Second):
		req.Fail("event was not forwarded")
	}
	select {
	case <-refreshed:
	case <-time.After(time.Second):
		req.Fail("conversation list was not refreshed")
	}

	_, fresh := f.svc.messages.Get(cache.MessagesKey(alice, convA))
	req.False(fresh, "the thread cache must be invalidated by an incoming message")
}

func TestSessionManager_RefreshesOnAnyInvalidation(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	logger, _ := test.NewNullLogger()
	sessions := NewSessionManager(f.svc, f.broker, logger, 0)
	defer sessions.CloseAll()

	refreshed := make(chan struct{}, 1)
	f.repo.EXPECT().GetConversationsWithUnreadStatus(gomock.Any(), alice).DoAndReturn(
		func(context.Context, string) ([]models.ConversationSummary, error) {
			refreshed <- struct{}{}
			return summaries(), nil
		})

	req.NoError(sessions.Open(context.Background(), alice))

	// bob has no session, nothing is scheduled for him
	f.svc.InvalidateConversations(bob)
	f.svc.InvalidateConversations(alice)

	select {
	case <-refreshed:
	case <-time.After(time.Second):
		req.Fail("invalidation did not schedule a refresh")
	}
	req.Eventually(func() bool {
		_, fresh := f.svc.conversations.Get(cache.ConversationsKey(alice))
		return fresh
	}, time.Second, 10*time.Millisecond)
}

func TestSessionManager_CoalescesRefreshes(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	logger, _ := test.NewNullLogger()
	sessions := NewSessionManager(f.svc, f.broker, logger, 200*time.Millisecond)
	defer sessions.CloseAll()

	refreshed := make(chan struct{}, 8)
	delivered := make(chan struct{}, 5)
	f.repo.EXPECT().UpdateMessageStatus(gomock.Any(), alice, gomock.Any(), models.MessageStatusDelivered).DoAndReturn(
		func(context.Context, string, string, models.MessageStatus) (bool, error) {
			delivered <- struct{}{}
			return true, nil
		}).Times(5)
	f.repo.EXPECT().GetConversationsWithUnreadStatus(gomock.Any(), alice).DoAndReturn(
		func(context.Context, string) ([]models.ConversationSummary, error) {
			refreshed <- struct{}{}
			return summaries(), nil
		}).MinTimes(1).MaxTimes(2)

	req.NoError(sessions.Open(context.Background(), alice))
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5"} {
		req.NoError(f.broker.Publish(context.Background(), incoming(id)))
	}

	for i := 0; i < 5; i++ {
		select {
		case <-delivered:
		case <-time.After(time.Second):
			req.FailNow("messages were not marked delivered")
		}
	}
	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		req.Fail("conversation list was not refreshed")
	}
	sessions.Close(alice)
}

func TestSessionManager_SubscriptionErrorIsNotFatal(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	logger, hook := test.NewNullLogger()
	sessions := NewSessionManager(f.svc, failingBroker{}, logger, 0)
	defer sessions.CloseAll()

	req.NoError(sessions.Open(context.Background(), alice))
	req.True(sessions.IsOpen(alice))
	req.False(sessions.Subscribed(alice))
	req.Equal(logrus.WarnLevel, hook.LastEntry().Level)
}

func TestSessionManager_Lifecycle(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	logger, _ := test.NewNullLogger()
	broker := &recordingBroker{LocalBroker: f.broker}
	sessions := NewSessionManager(f.svc, broker, logger, 0)

	req.NoError(sessions.Open(context.Background(), alice))
	req.NoError(sessions.Open(context.Background(), alice))
	req.Len(broker.subscriptions(), 1)

	sessions.Close(alice)
	req.False(sessions.IsOpen(alice))
	requireClosed(t, broker.subscriptions()[0])

	req.NoError(sessions.Open(context.Background(), bob))
	sessions.CloseAll()
	req.Len(broker.subscriptions(), 2)
	requireClosed(t, broker.subscriptions()[1])
	req.ErrorIs(sessions.Open(context.Background(), bob), ErrSessionsClosed)

	// no longer listening for invalidations
	f.svc.InvalidateConversations(alice)
}

func TestSessionManager_BindAuth(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	logger, _ := test.NewNullLogger()
	sessions := NewSessionManager(f.svc, f.broker, logger, 0)
	defer sessions.CloseAll()

	authSvc := mocks.NewMockService(gomock.NewController(t))
	var listener func(auth.Event)
	authSvc.EXPECT().OnAuthStateChange(gomock.Any()).DoAndReturn(func(fn func(auth.Event)) func() {
		listener = fn
		return func() {}
	})

	unbind := sessions.BindAuth(authSvc)
	defer unbind()

	listener(auth.Event{Type: auth.SignedIn, UserID: alice})
	req.True(sessions.IsOpen(alice))

	listener(auth.Event{Type: auth.SignedOut, UserID: alice})
	req.False(sessions.IsOpen(alice))
}
