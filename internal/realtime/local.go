package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// LocalBroker fans events out to subscribers living in the same process.
type LocalBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[string]*Subscription // recipientID -> subscriptionID -> subscription
	closed bool
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[string]*Subscription)}
}

var _ Broker = (*LocalBroker)(nil)

func (b *LocalBroker) Publish(_ context.Context, evt Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBrokerClosed
	}
	for _, sub := range b.subs[evt.RecipientID] {
		sub.deliver(evt)
	}
	return nil
}

func (b *LocalBroker) Subscribe(_ context.Context, recipientID string) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBrokerClosed
	}

	id := uuid.NewString()
	sub := newSubscription(recipientID, func() { b.remove(recipientID, id) })

	room := b.subs[recipientID]
	if room == nil {
		room = make(map[string]*Subscription)
		b.subs[recipientID] = room
	}
	room[id] = sub
	return sub, nil
}

func (b *LocalBroker) remove(recipientID, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	room := b.subs[recipientID]
	if room == nil {
		return
	}
	delete(room, id)
	if len(room) == 0 {
		delete(b.subs, recipientID)
	}
}

func (b *LocalBroker) Close() error {
	b.mu.Lock()
	subs := make([]*Subscription, 0)
	for _, room := range b.subs {
		for _, sub := range room {
			subs = append(subs, sub)
		}
	}
	b.subs = make(map[string]map[string]*Subscription)
	b.closed = true
	b.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() { close(sub.done) })
	}
	return nil
}
