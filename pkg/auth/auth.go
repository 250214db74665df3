// Package auth wraps the hosted authentication service and keeps the
// signed in sessions of this process.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Identities []Identity `json:"identities,omitempty"`
}

type Identity struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         User      `json:"user"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// SignUpResult carries the created user and, when the project confirms
// sign-ups automatically, the session that came with it.
type SignUpResult struct {
	User    *User
	Session *Session
}

//go:generate mockgen -destination=mocks/mock_auth.go -package=mocks . Authenticator

// Authenticator is the auth collaborator.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*User, error)
}

var (
	ErrNoSession        = errors.New("not authenticated")
	ErrSignupsDisabled  = errors.New("Signups are currently disabled for this project.")
	ErrSessionExpired   = errors.New("session expired")
	ErrMissingAuthInput = errors.New("email and password are required")
)

// InitError means the auth client could not be constructed. It is fatal for
// the whole application: no data operation may be attempted.
type InitError struct {
	Reason string
}

func (e *InitError) Error() string {
	return e.Reason
}

// Error is a failure reported by the auth service itself.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}
