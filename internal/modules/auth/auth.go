package auth

import (
	"context"
	"errors"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/cloture-backend/internal/modules/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrUnknownUser        = errors.New("unknown user")
)

// Claims are carried by session tokens.
type Claims struct {
	Pseudo string       `json:"pseudo"`
	Role   session.Role `json:"role"`
	jwt.StandardClaims
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login checks the password, marks the user connected and opens a session.
	Login(ctx context.Context, pseudo, password string) (session.Session, error)
	// Logout marks the user disconnected. Tokens issued earlier stop working.
	Logout(ctx context.Context, pseudo string) error
	// Verify resolves a token into the session of a connected user.
	Verify(ctx context.Context, token string) (session.Session, error)
}
