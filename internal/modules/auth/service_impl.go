package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/cloture-backend/internal/modules/session"
	"github.com/georgemunganga/cloture-backend/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	userRepo user.Repository
	jwtKey   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a new auth service signing tokens with secret.
func NewService(userRepo user.Repository, secret string, ttl time.Duration) Service {
	return &service{userRepo: userRepo, jwtKey: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *service) Login(ctx context.Context, pseudo, password string) (session.Session, error) {
	u, err := s.userRepo.GetUserByPseudo(ctx, pseudo)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return session.Session{}, ErrInvalidCredentials
		}
		return session.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return session.Session{}, ErrInvalidCredentials
	}

	now := s.now()
	claims := &Claims{
		Pseudo: u.Pseudo,
		Role:   u.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return session.Session{}, err
	}

	if err := s.userRepo.SetConnected(ctx, u.ID.String(), true); err != nil {
		return session.Session{}, fmt.Errorf("mark %s connected: %w", u.Pseudo, err)
	}

	sess := u.Session()
	sess.Token = tokenString
	return sess, nil
}

func (s *service) Logout(ctx context.Context, pseudo string) error {
	u, err := s.userRepo.GetUserByPseudo(ctx, pseudo)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownUser, pseudo)
		}
		return err
	}
	return s.userRepo.SetConnected(ctx, u.ID.String(), false)
}

func (s *service) Verify(ctx context.Context, tokenString string) (session.Session, error) {
	claims := &Claims{}
	parser := &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return session.Session{}, ErrInvalidToken
	}

	// The stored account decides: deleted, demoted or logged-out users lose access.
	u, err := s.userRepo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return session.Session{}, ErrInvalidToken
		}
		return session.Session{}, err
	}
	if !u.Connected {
		return session.Session{}, ErrInvalidToken
	}

	sess := u.Session()
	sess.Token = tokenString
	return sess, nil
}
