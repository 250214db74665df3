package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	gotrue "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"
)

// GoTrueClient talks to the Supabase auth endpoints of one project.
type GoTrueClient struct {
	client gotrue.Client
}

func NewGoTrueClient(projectURL, anonKey string) (*GoTrueClient, error) {
	projectURL = strings.TrimRight(strings.TrimSpace(projectURL), "/")
	anonKey = strings.TrimSpace(anonKey)
	if projectURL == "" || anonKey == "" {
		return nil, &InitError{Reason: "Supabase URL or anonymous key is missing. Please check your configuration."}
	}

	// the project reference is unused once the auth URL is set explicitly
	client := gotrue.New("", anonKey).
		WithCustomAuthURL(projectURL + "/auth/v1").
		WithClient(http.Client{Timeout: 15 * time.Second})
	return &GoTrueClient{client: client}, nil
}

// The client reports non-success answers as "response status code N: body".
var statusErrorPattern = regexp.MustCompile(`(?s)^response status code (\d+): (.*)$`)

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// asError turns a status failure of the auth service into an *Error. Transport
// failures are returned unchanged.
func asError(err error) error {
	if err == nil {
		return nil
	}

	m := statusErrorPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	status, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return err
	}

	var body errorResponse
	_ = json.Unmarshal([]byte(m[2]), &body)
	msg := body.text()
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Status: status, Message: msg}
}

func toUser(u types.User) User {
	user := User{ID: u.ID.String(), Email: u.Email}
	if u.Identities != nil {
		user.Identities = make([]Identity, 0, len(u.Identities))
		for _, i := range u.Identities {
			user.Identities = append(user.Identities, Identity{ID: i.ID, Provider: i.Provider})
		}
	}
	return user
}

func toSession(s types.Session, now time.Time) *Session {
	session := &Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         toUser(s.User),
	}
	switch {
	case s.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(s.ExpiresAt, 0)
	case s.ExpiresIn > 0:
		session.ExpiresAt = now.Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return session
}

func (c *GoTrueClient) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := c.client.Signup(types.SignupRequest{Email: email, Password: password})
	if err != nil {
		return nil, asError(err)
	}

	// with auto-confirm the service answers with a session, otherwise with the bare user
	if resp.Session.AccessToken != "" {
		s := toSession(resp.Session, time.Now())
		return &SignUpResult{User: &s.User, Session: s}, nil
	}

	user := toUser(resp.User)
	return &SignUpResult{User: &user}, nil
}

func (c *GoTrueClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := c.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, asError(err)
	}
	if resp.AccessToken == "" {
		return nil, &Error{Status: http.StatusOK, Message: "auth service returned no access token"}
	}
	return toSession(resp.Session, time.Now()), nil
}

func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return asError(c.client.WithToken(accessToken).Logout())
}

func (c *GoTrueClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, errors.New("access token is required")
	}

	resp, err := c.client.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, asError(err)
	}
	user := toUser(resp.User)
	return &user, nil
}
