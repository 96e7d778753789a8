package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"airwaves/messaging-service/internal/auth"
	"airwaves/messaging-service/internal/models"
	"airwaves/messaging-service/internal/realtime"

	"github.com/sirupsen/logrus"
)

var ErrSessionsClosed = errors.New("session manager is closed")

// Listener receives the realtime events of one user's session.
type Listener func(realtime.Event)

// SessionManager keeps one realtime subscription per signed-in user. Incoming
// messages invalidate the user's conversation list and thread and are marked
// delivered. Any invalidation of an open session's list, from this manager or
// from a send, schedules a coalesced background refresh.
type SessionManager struct {
	chat         ChatService
	broker       realtime.Broker
	logger       *logrus.Logger
	refreshDelay time.Duration
	unsubscribe  func()

	mu       sync.Mutex
	sessions map[string]*userSession
	closed   bool
}

type userSession struct {
	userID string
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	refresh chan struct{}

	mu         sync.Mutex
	sub        *realtime.Subscription
	listeners  map[int]Listener
	nextID     int
	subscribed bool
}

func NewSessionManager(chat ChatService, broker realtime.Broker, logger *logrus.Logger, refreshDelay time.Duration) *SessionManager {
	m := &SessionManager{
		chat:         chat,
		broker:       broker,
		logger:       logger,
		refreshDelay: refreshDelay,
		sessions:     make(map[string]*userSession),
	}
	m.unsubscribe = chat.OnConversationsInvalidated(m.scheduleRefresh)
	return m
}

func (m *SessionManager) scheduleRefresh(userID string) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return
	}
	select {
	case sess.refresh <- struct{}{}:
	default:
	}
}

// BindAuth opens a session on sign-in and closes it on sign-out.
func (m *SessionManager) BindAuth(svc auth.Service) (unbind func()) {
	return svc.OnAuthStateChange(func(evt auth.Event) {
		switch evt.Type {
		case auth.SignedIn:
			if err := m.Open(context.Background(), evt.UserID); err != nil {
				m.logger.WithError(err).WithField("user_id", evt.UserID).Warn("Failed to open messaging session")
			}
		case auth.SignedOut:
			m.Close(evt.UserID)
		}
	})
}

// Open subscribes to the user's realtime topic. Opening an open session is a
// no-op. A failed subscription is logged and the session stays open without
// push invalidation.
func (m *SessionManager) Open(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrSessionsClosed
	}
	if _, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return nil
	}
	sessCtx, cancel := context.WithCancel(context.Background())
	sess := &userSession{
		userID:    userID,
		ctx:       sessCtx,
		cancel:    cancel,
		refresh:   make(chan struct{}, 1),
		listeners: make(map[int]Listener),
	}
	m.sessions[userID] = sess
	m.mu.Unlock()

	sess.wg.Add(1)
	go m.refreshLoop(sess)

	log := m.logger.WithField("user_id", userID)

	sub, err := m.broker.Subscribe(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Realtime subscription failed, conversation list will not be pushed")
		return nil
	}

	sess.mu.Lock()
	if sessCtx.Err() != nil {
		sess.mu.Unlock()
		sub.Close()
		return nil
	}
	sess.sub = sub
	sess.subscribed = true
	sess.wg.Add(1)
	sess.mu.Unlock()

	log.Info("Realtime subscription established")

	go m.consume(sess, sub)
	return nil
}

// Close tears down the user's subscription. Requests already in flight are
// not aborted.
func (m *SessionManager) Close(userID string) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()

	if ok {
		m.shutdown(sess)
		m.logger.WithField("user_id", userID).Info("Messaging session closed")
	}
}

func (m *SessionManager) CloseAll() {
	m.unsubscribe()

	m.mu.Lock()
	m.closed = true
	sessions := make([]*userSession, 0, len(m.sessions))
	for id, sess := range m.sessions {
		sessions = append(sessions, sess)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, sess := range sessions {
		m.shutdown(sess)
	}
	m.logger.WithField("sessions", len(sessions)).Info("Messaging sessions closed")
}

func (m *SessionManager) shutdown(sess *userSession) {
	sess.mu.Lock()
	sess.cancel()
	sub := sess.sub
	sess.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	sess.wg.Wait()
}

func (m *SessionManager) IsOpen(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[userID]
	return ok
}

// Subscribed reports whether the user's session receives realtime events.
func (m *SessionManager) Subscribed(userID string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.subscribed
}

// Attach opens the user's session if needed and registers l for its events.
func (m *SessionManager) Attach(ctx context.Context, userID string, l Listener) (detach func(), err error) {
	if err := m.Open(ctx, userID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	sess, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionsClosed
	}

	sess.mu.Lock()
	id := sess.nextID
	sess.nextID++
	sess.listeners[id] = l
	sess.mu.Unlock()

	return func() {
		sess.mu.Lock()
		delete(sess.listeners, id)
		sess.mu.Unlock()
	}, nil
}

func (m *SessionManager) consume(sess *userSession, sub *realtime.Subscription) {
	defer sess.wg.Done()

	log := m.logger.WithField("user_id", sess.userID)
	for {
		select {
		case <-sess.ctx.Done():
			return
		case <-sub.Done():
			return
		case err := <-sub.Errors():
			log.WithError(err).Warn("Realtime subscription error")
		case evt := <-sub.Events():
			m.handle(sess, evt)
		}
	}
}

func (m *SessionManager) handle(sess *userSession, evt realtime.Event) {
	if evt.Type != realtime.EventMessageInserted || evt.Message == nil || evt.RecipientID != sess.userID {
		return
	}

	m.chat.InvalidateConversations(sess.userID)
	m.chat.InvalidateMessages(sess.userID, evt.Message.ConversationID)

	if _, err := m.chat.UpdateMessageStatus(sess.ctx, sess.userID, evt.Message.ID, models.MessageStatusDelivered); err != nil {
		m.logger.WithError(err).WithField("message_id", evt.Message.ID).Debug("Failed to mark message delivered")
	}

	sess.mu.Lock()
	listeners := make([]Listener, 0, len(sess.listeners))
	for _, l := range sess.listeners {
		listeners = append(listeners, l)
	}
	sess.mu.Unlock()

	for _, l := range listeners {
		l(evt)
	}
}

// refreshLoop re-fetches the conversation list at most once per burst of
// invalidations.
func (m *SessionManager) refreshLoop(sess *userSession) {
	defer sess.wg.Done()

	for {
		select {
		case <-sess.ctx.Done():
			return
		case <-sess.refresh:
		}

		if m.refreshDelay > 0 {
			timer := time.NewTimer(m.refreshDelay)
			select {
			case <-sess.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		select {
		case <-sess.refresh:
		default:
		}

		if _, err := m.chat.ListConversations(sess.ctx, sess.userID); err != nil {
			if sess.ctx.Err() != nil {
				return
			}
			m.logger.WithError(err).WithField("user_id", sess.userID).Warn("Background conversation refresh failed")
		}
	}
}
