package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID1 = "2b1c7f9e-4a1d-4c1e-9a55-0e6f3f1d2a01"
	userID2 = "2b1c7f9e-4a1d-4c1e-9a55-0e6f3f1d2a02"
	userID3 = "2b1c7f9e-4a1d-4c1e-9a55-0e6f3f1d2a03"
	userID4 = "2b1c7f9e-4a1d-4c1e-9a55-0e6f3f1d2a04"
)

func fakeGoTrue(t *testing.T, handler http.HandlerFunc) *GoTrueClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewGoTrueClient(server.URL+"/", "anon-key")
	require.NoError(t, err)
	return c
}

func TestNewGoTrueClientMissingConfig(t *testing.T) {
	for _, tc := range [][2]string{{"", "key"}, {"https://x.supabase.co", ""}, {"  ", "  "}} {
		_, err := NewGoTrueClient(tc[0], tc[1])

		var initErr *InitError
		require.True(t, errors.As(err, &initErr))
		assert.Equal(t, "Supabase URL or anonymous key is missing. Please check your configuration.", initErr.Error())
	}
}

func TestGoTrueSignIn(t *testing.T) {
	c := fakeGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ops@example.com", body.Email)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at-1",
			"refresh_token": "rt-1",
			"expires_in":    3600,
			"user":          map[string]any{"id": userID1, "email": "ops@example.com"},
		})
	})

	before := time.Now()
	s, err := c.SignIn(context.Background(), "ops@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "at-1", s.AccessToken)
	assert.Equal(t, "rt-1", s.RefreshToken)
	assert.Equal(t, userID1, s.User.ID)
	assert.WithinDuration(t, before.Add(time.Hour), s.ExpiresAt, 5*time.Second)
	assert.False(t, s.Expired(time.Now()))
}

func TestGoTrueSignInRejected(t *testing.T) {
	c := fakeGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := c.SignIn(context.Background(), "ops@example.com", "wrong")

	var authErr *Error
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
	assert.Equal(t, "Invalid login credentials", authErr.Message)
}

func TestGoTrueSignUp(t *testing.T) {
	t.Run("confirmation pending", func(t *testing.T) {
		c := fakeGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/signup", r.URL.Path)
			_, _ = w.Write([]byte(`{"id":"`+userID2+`","email":"new@example.com","identities":[{"id":"i-1","provider":"email"}]}`))
		})

		res, err := c.SignUp(context.Background(), "new@example.com", "pw")
		require.NoError(t, err)
		assert.Nil(t, res.Session)
		assert.Equal(t, userID2, res.User.ID)
		assert.Len(t, res.User.Identities, 1)
	})

	t.Run("auto confirmed", func(t *testing.T) {
		c := fakeGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"access_token":"at-2","expires_at":4102444800,"user":{"id":"`+userID3+`"}}`))
		})

		res, err := c.SignUp(context.Background(), "new@example.com", "pw")
		require.NoError(t, err)
		require.NotNil(t, res.Session)
		assert.Equal(t, "at-2", res.Session.AccessToken)
		assert.Equal(t, userID3, res.User.ID)
		assert.Equal(t, int64(4102444800), res.Session.ExpiresAt.Unix())
	})

	t.Run("signups disabled", func(t *testing.T) {
		c := fakeGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"`+userID4+`","identities":[]}`))
		})

		res, err := c.SignUp(context.Background(), "new@example.com", "pw")
		require.NoError(t, err)
		assert.NotNil(t, res.User.Identities)
		assert.Empty(t, res.User.Identities)
	})
}

func TestGoTrueGetUserAndSignOut(t *testing.T) {
	c := fakeGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		switch r.URL.Path {
		case "/auth/v1/user":
			_, _ = w.Write([]byte(`{"id":"`+userID1+`","email":"ops@example.com"}`))
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	user, err := c.GetUser(context.Background(), "at-1")
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", user.Email)

	_, err = c.GetUser(context.Background(), "stale")
	var authErr *Error
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "invalid JWT (status 401)", authErr.Error())

	assert.NoError(t, c.SignOut(context.Background(), "at-1"))
}

func TestGoTrueTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	c, err := NewGoTrueClient(server.URL, "anon-key")
	require.NoError(t, err)
	server.Close()

	_, err = c.SignIn(context.Background(), "ops@example.com", "pw")
	require.Error(t, err)
	var authErr *Error
	assert.False(t, errors.As(err, &authErr))
}

func TestGoTrueCanceledContext(t *testing.T) {
	c := fakeGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SignIn(ctx, "ops@example.com", "pw")
	assert.ErrorIs(t, err, context.Canceled)
}
