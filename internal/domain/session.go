package domain

import (
	"strings"

	"golang.org/x/oauth2"
)

// User is the identity returned by the identity provider.
type User struct {
	ID    string
	Email string
}

// Session is the signed-in state issued by the identity provider. It is
// read-only for the orchestrator and re-fetched before each authenticated call.
type Session struct {
	UserID string
	Email  string
	Token  *oauth2.Token
}

// AccessToken returns the bearer credential, or "" when the session has none.
func (s *Session) AccessToken() string {
	if s == nil || s.Token == nil {
		return ""
	}
	return strings.TrimSpace(s.Token.AccessToken)
}

// Valid reports whether the session carries an unexpired access token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != nil && s.Token.Valid()
}
