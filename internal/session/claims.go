package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// emailClaims carries the only claim the console reads from the token.
type emailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Email returns the email claim of the stored token for display purposes.
//
// The token is decoded WITHOUT signature verification: the value is shown in
// the header greeting and nothing else. It is never used for an authorization
// decision; the backend authorizes every call by validating the bearer
// itself. Returns "" when no token is stored or the token does not decode.
func (s *Store) Email() string {
	token := s.Token()
	if token == "" {
		return ""
	}

	claims := &emailClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return ""
	}

	return claims.Email
}
