package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"airwaves/messaging-service/internal/models"
)

type EventType string

const (
	EventMessageInserted EventType = "message.inserted"
)

// Event is a change notification delivered to the recipient of a message.
type Event struct {
	Type        EventType       `json:"type"`
	RecipientID string          `json:"recipient_id"`
	Message     *models.Message `json:"message,omitempty"`
}

func MessageInserted(msg *models.Message) Event {
	return Event{Type: EventMessageInserted, RecipientID: msg.RecipientID, Message: msg}
}

func encodeEvent(evt Event) ([]byte, error) { return json.Marshal(evt) }

func decodeEvent(payload []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, err
	}
	if evt.Type == "" {
		return Event{}, errors.New("realtime: event without type")
	}
	return evt, nil
}

// Broker delivers events to subscribers keyed by recipient id.
type Broker interface {
	Publish(ctx context.Context, evt Event) error
	// Subscribe returns once the subscription is established. An error means
	// the subscription could not be set up.
	Subscribe(ctx context.Context, recipientID string) (*Subscription, error)
	Close() error
}

var ErrBrokerClosed = errors.New("realtime: broker closed")

const subscriptionBuffer = 64

// Subscription receives events for one recipient until closed. Errors are
// non-fatal delivery problems (dropped or undecodable events).
type Subscription struct {
	RecipientID string

	events  chan Event
	errs    chan error
	done    chan struct{}
	once    sync.Once
	onClose func()
}

func newSubscription(recipientID string, onClose func()) *Subscription {
	return &Subscription{
		RecipientID: recipientID,
		events:      make(chan Event, subscriptionBuffer),
		errs:        make(chan error, 8),
		done:        make(chan struct{}),
		onClose:     onClose,
	}
}

func (s *Subscription) Events() <-chan Event { return s.events }

func (s *Subscription) Errors() <-chan error { return s.errs }

// Done is closed when the subscription is torn down.
func (s *Subscription) Done() <-chan struct{} { return s.done }

func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// deliver never blocks: a slow subscriber loses the event and is told so.
func (s *Subscription) deliver(evt Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.events <- evt:
		return true
	default:
		s.reportError(errors.New("realtime: subscriber buffer full, event dropped"))
		return false
	}
}

func (s *Subscription) reportError(err error) {
	select {
	case s.errs <- err:
	default:
	}
}
