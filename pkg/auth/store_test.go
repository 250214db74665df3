package auth_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/kalaiprof897-eng/management/pkg/auth"
	"github.com/kalaiprof897-eng/management/pkg/auth/mocks"
	"github.com/kalaiprof897-eng/management/pkg/common"
	_ "github.com/kalaiprof897-eng/management/pkg/testing"
)

func newStore(t *testing.T) (*auth.SessionStore, *mocks.MockAuthenticator) {
	ctrl := gomock.NewController(t)
	a := mocks.NewMockAuthenticator(ctrl)
	return auth.NewSessionStore(a), a
}

func session(token, userID string) *auth.Session {
	return &auth.Session{AccessToken: token, User: auth.User{ID: userID}}
}

func TestSignInNotifiesSubscribers(t *testing.T) {
	buf := &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zap.InfoLevel)

	store, a := newStore(t)
	a.EXPECT().SignIn(gomock.Any(), "ops@example.com", "pw").Return(session("t1", "u1"), nil)

	var events []auth.Event
	unsubscribe := store.Subscribe(func(e auth.Event) { events = append(events, e) })

	s, err := store.SignIn(context.Background(), "  ops@example.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "t1", s.AccessToken)
	assert.Equal(t, 1, store.Count())

	require.Len(t, events, 1)
	assert.Equal(t, auth.SignedIn, events[0].Type)
	assert.Equal(t, "u1", events[0].Session.User.ID)

	unsubscribe()
	unsubscribe()

	a.EXPECT().SignOut(gomock.Any(), "t1").Return(nil)
	require.NoError(t, store.SignOut(context.Background(), "t1"))
	assert.Len(t, events, 1)
	assert.Equal(t, 0, store.Count())

	assert.True(t, common.HasLog(common.ParseLogs(buf), map[string]any{
		"msg":                      "Session started",
		common.LoggerFieldCategory: common.LoggerCategorySession,
		"user_id":                  "u1",
	}))
}

func TestSignInMissingInput(t *testing.T) {
	common.SetTestLoggerNop()
	store, _ := newStore(t)

	_, err := store.SignIn(context.Background(), "   ", "pw")
	assert.ErrorIs(t, err, auth.ErrMissingAuthInput)
	_, err = store.SignUp(context.Background(), "a@b.c", "")
	assert.ErrorIs(t, err, auth.ErrMissingAuthInput)
}

func TestSignInFailure(t *testing.T) {
	common.SetTestLoggerNop()
	store, a := newStore(t)
	a.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &auth.Error{Status: 400, Message: "Invalid login credentials"})

	_, err := store.SignIn(context.Background(), "ops@example.com", "bad")
	var authErr *auth.Error
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, 0, store.Count())
}

func TestSignUp(t *testing.T) {
	common.SetTestLoggerNop()

	t.Run("disabled", func(t *testing.T) {
		store, a := newStore(t)
		a.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&auth.SignUpResult{User: &auth.User{ID: "u1", Identities: []auth.Identity{}}}, nil)

		_, err := store.SignUp(context.Background(), "new@example.com", "pw")
		assert.ErrorIs(t, err, auth.ErrSignupsDisabled)
		assert.Equal(t, "Signups are currently disabled for this project.", err.Error())
	})

	t.Run("confirmation pending", func(t *testing.T) {
		store, a := newStore(t)
		a.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&auth.SignUpResult{User: &auth.User{ID: "u1", Identities: []auth.Identity{{ID: "i1", Provider: "email"}}}}, nil)

		res, err := store.SignUp(context.Background(), "new@example.com", "pw")
		require.NoError(t, err)
		assert.Nil(t, res.Session)
		assert.Equal(t, 0, store.Count())
	})

	t.Run("auto confirmed", func(t *testing.T) {
		store, a := newStore(t)
		s := session("t9", "u9")
		a.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&auth.SignUpResult{User: &s.User, Session: s}, nil)

		var events []auth.Event
		store.Subscribe(func(e auth.Event) { events = append(events, e) })

		_, err := store.SignUp(context.Background(), "new@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, 1, store.Count())
		assert.Len(t, events, 1)
	})
}

func TestSignOutUnknownToken(t *testing.T) {
	common.SetTestLoggerNop()
	store, _ := newStore(t)

	assert.ErrorIs(t, store.SignOut(context.Background(), "nope"), auth.ErrNoSession)
}

func TestSignOutRemoteFailureStillForgets(t *testing.T) {
	common.SetTestLoggerNop()
	store, a := newStore(t)
	a.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(session("t1", "u1"), nil)
	a.EXPECT().SignOut(gomock.Any(), "t1").Return(errors.New("network down"))

	_, err := store.SignIn(context.Background(), "ops@example.com", "pw")
	require.NoError(t, err)

	assert.Error(t, store.SignOut(context.Background(), "t1"))
	assert.Equal(t, 0, store.Count())
}

func TestCurrent(t *testing.T) {
	common.SetTestLoggerNop()

	t.Run("empty token", func(t *testing.T) {
		store, _ := newStore(t)
		_, err := store.Current(context.Background(), "")
		assert.ErrorIs(t, err, auth.ErrNoSession)
	})

	t.Run("adopts verified token", func(t *testing.T) {
		store, a := newStore(t)
		a.EXPECT().GetUser(gomock.Any(), "t2").Return(&auth.User{ID: "u2"}, nil).Times(1)

		var events []auth.Event
		store.Subscribe(func(e auth.Event) { events = append(events, e) })

		s, err := store.Current(context.Background(), "t2")
		require.NoError(t, err)
		assert.Equal(t, "u2", s.User.ID)

		// cached after the first lookup
		_, err = store.Current(context.Background(), "t2")
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("rejected token", func(t *testing.T) {
		store, a := newStore(t)
		a.EXPECT().GetUser(gomock.Any(), "bad").Return(nil, &auth.Error{Status: 401, Message: "invalid JWT"})

		_, err := store.Current(context.Background(), "bad")
		assert.ErrorIs(t, err, auth.ErrNoSession)
	})

	t.Run("expired", func(t *testing.T) {
		store, a := newStore(t)
		s := session("t3", "u3")
		s.ExpiresAt = time.Now().Add(-time.Minute)
		a.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(s, nil)

		var events []auth.Event
		store.Subscribe(func(e auth.Event) { events = append(events, e) })

		_, err := store.SignIn(context.Background(), "ops@example.com", "pw")
		require.NoError(t, err)

		_, err = store.Current(context.Background(), "t3")
		assert.ErrorIs(t, err, auth.ErrSessionExpired)
		assert.Equal(t, 0, store.Count())
		require.Len(t, events, 2)
		assert.Equal(t, auth.SignedOut, events[1].Type)
	})
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func accessToken(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestAdoptedSessionExpires(t *testing.T) {
	common.SetTestLoggerNop()

	clock := &fakeClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	ctrl := gomock.NewController(t)
	a := mocks.NewMockAuthenticator(ctrl)
	store := auth.NewSessionStore(a, auth.WithClock(clock.Now))

	exp := clock.now.Add(time.Hour)
	token := accessToken(t, "u5", exp)
	a.EXPECT().GetUser(gomock.Any(), token).Return(&auth.User{ID: "u5"}, nil).Times(1)

	var events []auth.Event
	store.Subscribe(func(e auth.Event) { events = append(events, e) })

	s, err := store.Current(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, exp.Unix(), s.ExpiresAt.Unix())

	clock.now = clock.now.Add(59 * time.Minute)
	_, err = store.Current(context.Background(), token)
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Minute)
	_, err = store.Current(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrSessionExpired)
	assert.Equal(t, 0, store.Count())

	require.Len(t, events, 2)
	assert.Equal(t, auth.SignedIn, events[0].Type)
	assert.Equal(t, auth.SignedOut, events[1].Type)
	assert.Equal(t, "u5", events[1].Session.User.ID)
}

func TestAdoptedOpaqueTokenUsesTTL(t *testing.T) {
	common.SetTestLoggerNop()

	clock := &fakeClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	ctrl := gomock.NewController(t)
	a := mocks.NewMockAuthenticator(ctrl)
	store := auth.NewSessionStore(a, auth.WithClock(clock.Now))

	a.EXPECT().GetUser(gomock.Any(), "opaque").Return(&auth.User{ID: "u6"}, nil)

	s, err := store.Current(context.Background(), "opaque")
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(auth.AdoptedSessionTTL), s.ExpiresAt)

	clock.now = clock.now.Add(auth.AdoptedSessionTTL + time.Second)
	_, err = store.Current(context.Background(), "opaque")
	assert.ErrorIs(t, err, auth.ErrSessionExpired)
}

func TestAdoptionPrunesExpiredSessions(t *testing.T) {
	common.SetTestLoggerNop()

	clock := &fakeClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	ctrl := gomock.NewController(t)
	a := mocks.NewMockAuthenticator(ctrl)
	store := auth.NewSessionStore(a, auth.WithClock(clock.Now))

	stale := accessToken(t, "u7", clock.now.Add(time.Minute))
	fresh := accessToken(t, "u8", clock.now.Add(2*time.Hour))
	a.EXPECT().GetUser(gomock.Any(), stale).Return(&auth.User{ID: "u7"}, nil)
	a.EXPECT().GetUser(gomock.Any(), fresh).Return(&auth.User{ID: "u8"}, nil)

	_, err := store.Current(context.Background(), stale)
	require.NoError(t, err)

	var events []auth.Event
	store.Subscribe(func(e auth.Event) { events = append(events, e) })

	clock.now = clock.now.Add(time.Hour)
	_, err = store.Current(context.Background(), fresh)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Count())
	require.Len(t, events, 2)
	assert.Equal(t, auth.SignedOut, events[0].Type)
	assert.Equal(t, "u7", events[0].Session.User.ID)
	assert.Equal(t, auth.SignedIn, events[1].Type)
}
