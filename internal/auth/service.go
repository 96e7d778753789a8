//go:generate go run go.uber.org/mock/mockgen -source=service.go -destination=../mocks/mock_auth_service.go -package=mocks
package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"airwaves/messaging-service/internal/apperrors"
	"airwaves/messaging-service/internal/models"
	"airwaves/messaging-service/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type EventType string

const (
	SignedIn  EventType = "SIGNED_IN"
	SignedOut EventType = "SIGNED_OUT"
)

// Event is emitted when a user's first session starts and when the last one
// ends.
type Event struct {
	Type   EventType
	UserID string
}

type Session struct {
	Token     string       `json:"token"`
	UserID    string       `json:"user_id"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"-"`
}

const minPasswordLength = 8

type Service interface {
	Register(ctx context.Context, email, password, displayName string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*Session, error)
	OnAuthStateChange(fn func(Event)) (unsubscribe func())
}

type service struct {
	users  repository.UserRepository
	tokens *TokenManager
	logger *logrus.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	perUser  map[string]int
	expiry   map[string]*time.Timer

	listenersMu sync.Mutex
	listeners   map[int]func(Event)
	nextID      int
}

func NewService(users repository.UserRepository, tokens *TokenManager, logger *logrus.Logger) Service {
	return &service{
		users:     users,
		tokens:    tokens,
		logger:    logger,
		sessions:  make(map[string]*Session),
		perUser:   make(map[string]int),
		expiry:    make(map[string]*time.Timer),
		listeners: make(map[int]func(Event)),
	}
}

func (s *service) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.Validation("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if apperrors.IsConflict(err) {
			return nil, err
		}
		s.logger.WithError(err).WithField("email", email).Error("Failed to create user")
		return nil, apperrors.Network("failed to create user", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	return user, nil
}

func (s *service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrInvalidCredentials
		}
		s.logger.WithError(err).Error("Failed to load user for sign-in")
		return nil, apperrors.Network("failed to sign in", err)
	}

	ok, err := ComparePassword(password, user.PasswordHash)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Stored password hash is unreadable")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to issue session token", err)
	}

	session := &Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.perUser[user.ID]++
	first := s.perUser[user.ID] == 1
	// a client that never returns must still end its session at expiry
	s.expiry[token] = time.AfterFunc(time.Until(session.ExpiresAt), func() { s.expire(token) })
	s.mu.Unlock()

	s.logger.WithField("user_id", user.ID).Info("User signed in")

	if first {
		s.emit(Event{Type: SignedIn, UserID: user.ID})
	}
	return session, nil
}

func (s *service) SignOut(ctx context.Context, token string) error {
	session, last := s.revoke(token)
	if session == nil {
		return apperrors.ErrNoSession
	}

	s.logger.WithField("user_id", session.UserID).Info("User signed out")

	if last {
		s.emit(Event{Type: SignedOut, UserID: session.UserID})
	}
	return nil
}

func (s *service) GetSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, apperrors.ErrNoSession
	}

	if _, err := s.tokens.Validate(token); err != nil {
		s.expire(token)
		return nil, apperrors.ErrNoSession
	}

	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNoSession
	}
	return session, nil
}

// OnAuthStateChange registers fn for sign-in and sign-out events. Listeners
// run synchronously on the caller's goroutine.
func (s *service) OnAuthStateChange(fn func(Event)) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// expire drops an expired session. It is a no-op for tokens already revoked.
func (s *service) expire(token string) {
	session, last := s.revoke(token)
	if session == nil {
		return
	}

	s.logger.WithField("user_id", session.UserID).Info("Session expired")

	if last {
		s.emit(Event{Type: SignedOut, UserID: session.UserID})
	}
}

func (s *service) revoke(token string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	delete(s.sessions, token)
	if timer, ok := s.expiry[token]; ok {
		timer.Stop()
		delete(s.expiry, token)
	}

	s.perUser[session.UserID]--
	if s.perUser[session.UserID] > 0 {
		return session, false
	}
	delete(s.perUser, session.UserID)
	return session, true
}

func (s *service) emit(evt Event) {
	s.listenersMu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(evt)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
