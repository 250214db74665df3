package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/metrics"
)

type EventType string

const (
	SignedIn  EventType = "SIGNED_IN"
	SignedOut EventType = "SIGNED_OUT"
)

type Event struct {
	Type    EventType
	Session Session
}

type Listener func(Event)

// AdoptedSessionTTL bounds how long a token verified with the auth service is
// trusted when it carries no readable expiry.
const AdoptedSessionTTL = 15 * time.Minute

type StoreOption func(*SessionStore)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) StoreOption {
	return func(s *SessionStore) {
		s.now = now
	}
}

// SessionStore holds the sessions signed in through this process, keyed by
// access token, and tells subscribers when one starts or ends.
type SessionStore struct {
	auth Authenticator
	now  func() time.Time

	mu        sync.RWMutex
	sessions  map[string]*Session
	listeners map[int]Listener
	nextID    int
}

func NewSessionStore(a Authenticator, opts ...StoreOption) *SessionStore {
	s := &SessionStore{
		auth:      a,
		now:       time.Now,
		sessions:  make(map[string]*Session),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameAuth, zap.String(common.LoggerFieldCategory, common.LoggerCategorySession))
}

// Subscribe registers l for session changes and returns its unsubscribe func.
func (s *SessionStore) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *SessionStore) notify(e Event) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(e)
	}
}

func (s *SessionStore) remember(session *Session) {
	s.mu.Lock()
	_, existed := s.sessions[session.AccessToken]
	s.sessions[session.AccessToken] = session
	s.mu.Unlock()

	if !existed {
		metrics.SessionsActive.Inc()
		s.logger().Info("Session started", zap.String("user_id", session.User.ID))
		s.notify(Event{Type: SignedIn, Session: *session})
	}
}

func (s *SessionStore) forget(token string) (*Session, bool) {
	s.mu.Lock()
	session, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		metrics.SessionsActive.Dec()
		s.logger().Info("Session ended", zap.String("user_id", session.User.ID))
		s.notify(Event{Type: SignedOut, Session: *session})
	}
	return session, ok
}

func (s *SessionStore) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingAuthInput
	}

	session, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.logger().Warn("Sign in failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.remember(session)
	return session, nil
}

// SignUp registers a user. A user returned without identities means the
// project does not accept sign-ups.
func (s *SessionStore) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingAuthInput
	}

	result, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if result.User != nil && result.User.Identities != nil && len(result.User.Identities) == 0 {
		return nil, ErrSignupsDisabled
	}

	if result.Session != nil {
		s.remember(result.Session)
	}
	return result, nil
}

// SignOut drops the session locally even when the auth service call fails,
// since the caller has asked to leave.
func (s *SessionStore) SignOut(ctx context.Context, token string) error {
	if _, ok := s.forget(token); !ok {
		return ErrNoSession
	}

	if err := s.auth.SignOut(ctx, token); err != nil {
		s.logger().Warn("Remote sign out failed", zap.Error(err))
		return err
	}
	return nil
}

// Current returns the live session for token. Tokens issued to another
// process are verified with the auth service and adopted.
func (s *SessionStore) Current(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if ok {
		if session.Expired(s.now()) {
			s.forget(token)
			return nil, ErrSessionExpired
		}
		return session, nil
	}

	user, err := s.auth.GetUser(ctx, token)
	if err != nil {
		return nil, ErrNoSession
	}

	s.pruneExpired()
	session = &Session{AccessToken: token, User: *user, ExpiresAt: s.adoptedExpiry(token)}
	s.remember(session)
	return session, nil
}

// adoptedExpiry reads the exp claim of an access token. The signature was
// already checked by the auth service in GetUser.
func (s *SessionStore) adoptedExpiry(token string) time.Time {
	fallback := s.now().Add(AdoptedSessionTTL)

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return fallback
	}
	return claims.ExpiresAt.Time
}

// pruneExpired ends every session past its expiry, so tokens that are never
// presented again do not stay in memory.
func (s *SessionStore) pruneExpired() {
	now := s.now()

	s.mu.RLock()
	var expired []string
	for token, session := range s.sessions {
		if session.Expired(now) {
			expired = append(expired, token)
		}
	}
	s.mu.RUnlock()

	for _, token := range expired {
		s.forget(token)
	}
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
