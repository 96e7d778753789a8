package realtime

import (
	"context"
	"testing"
	"time"

	"airwaves/messaging-service/internal/models"

	"github.com/stretchr/testify/require"
)

func TestLocalBroker_DeliversToRecipientOnly(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	b := NewLocalBroker()
	defer b.Close()

	bobSub, err := b.Subscribe(ctx, "bob")
	req.NoError(err)
	carolSub, err := b.Subscribe(ctx, "carol")
	req.NoError(err)

	msg := &models.Message{ID: "m1", SenderID: "alice", RecipientID: "bob", Content: "tune in"}
	req.NoError(b.Publish(ctx, MessageInserted(msg)))

	select {
	case evt := <-bobSub.Events():
		req.Equal(EventMessageInserted, evt.Type)
		req.Equal("m1", evt.Message.ID)
	case <-time.After(time.Second):
		t.Fatal("bob did not receive the event")
	}

	select {
	case <-carolSub.Events():
		t.Fatal("carol must not receive bob's event")
	default:
	}
}

func TestLocalBroker_CloseSubscription(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	b := NewLocalBroker()

	sub, err := b.Subscribe(ctx, "bob")
	req.NoError(err)
	req.Len(b.subs["bob"], 1)

	sub.Close()
	sub.Close()
	req.NotContains(b.subs, "bob")

	req.NoError(b.Publish(ctx, Event{Type: EventMessageInserted, RecipientID: "bob"}))
	select {
	case <-sub.Events():
		t.Fatal("closed subscription received an event")
	default:
	}
	<-sub.Done()
}

func TestLocalBroker_SlowSubscriberDropsAndReports(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	b := NewLocalBroker()
	sub, err := b.Subscribe(ctx, "bob")
	req.NoError(err)

	for i := 0; i < subscriptionBuffer+1; i++ {
		req.NoError(b.Publish(ctx, Event{Type: EventMessageInserted, RecipientID: "bob"}))
	}

	select {
	case err := <-sub.Errors():
		req.Error(err)
	case <-time.After(time.Second):
		t.Fatal("expected a dropped-event error")
	}
	req.Len(sub.Events(), subscriptionBuffer)
}

func TestLocalBroker_Closed(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	b := NewLocalBroker()
	sub, err := b.Subscribe(ctx, "bob")
	req.NoError(err)

	req.NoError(b.Close())
	<-sub.Done()

	_, err = b.Subscribe(ctx, "bob")
	req.ErrorIs(err, ErrBrokerClosed)
	req.ErrorIs(b.Publish(ctx, Event{Type: EventMessageInserted, RecipientID: "bob"}), ErrBrokerClosed)
}

func TestEventCodec(t *testing.T) {
	req := require.New(t)
	media := "https://cdn.airwaves.fm/dm-media/x.jpg"
	evt := MessageInserted(&models.Message{ID: "m1", RecipientID: "bob", MediaURL: &media, Status: models.MessageStatusSent})

	payload, err := encodeEvent(evt)
	req.NoError(err)
	decoded, err := decodeEvent(payload)
	req.NoError(err)
	req.Equal("bob", decoded.RecipientID)
	req.Equal(media, *decoded.Message.MediaURL)
	req.Equal("dm:recipient:bob", channelFor("bob"))

	_, err = decodeEvent([]byte(`{"recipient_id":"bob"}`))
	req.Error(err)
}
