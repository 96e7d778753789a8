package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const channelPrefix = "dm:recipient:"

func channelFor(recipientID string) string { return channelPrefix + recipientID }

// RedisBroker carries events between service instances over Redis pub/sub.
type RedisBroker struct {
	client *redis.Client
}

// NewRedisBroker connects to the Redis server at url and verifies it with a ping.
func NewRedisBroker(ctx context.Context, url string) (*RedisBroker, error) {
	if url == "" {
		return nil, errors.New("redis: url is not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	c := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisBroker{client: c}, nil
}

var _ Broker = (*RedisBroker)(nil)

func (b *RedisBroker) Publish(ctx context.Context, evt Event) error {
	payload, err := encodeEvent(evt)
	if err != nil {
		return fmt.Errorf("redis: encode event: %w", err)
	}
	return b.client.Publish(ctx, channelFor(evt.RecipientID), payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, recipientID string) (*Subscription, error) {
	ps := b.client.Subscribe(ctx, channelFor(recipientID))

	// Wait for the subscribe confirmation so callers know the subscription
	// is live before they rely on push invalidation.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis: subscribe %s: %w", recipientID, err)
	}

	sub := newSubscription(recipientID, func() { _ = ps.Close() })
	go pump(ps.Channel(), sub)
	return sub, nil
}

func pump(ch <-chan *redis.Message, sub *Subscription) {
	for {
		select {
		case <-sub.done:
			return
		case msg, ok := <-ch:
			if !ok {
				sub.Close()
				return
			}
			evt, err := decodeEvent([]byte(msg.Payload))
			if err != nil {
				sub.reportError(fmt.Errorf("redis: decode event: %w", err))
				continue
			}
			sub.deliver(evt)
		}
	}
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
