package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/georgemunganga/cloture-backend/internal/modules/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo Repository
	cost int
}

// NewService creates a new user service hashing passwords at the given bcrypt
// cost. Out-of-range costs fall back to bcrypt.DefaultCost.
func NewService(repo Repository, cost int) Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &service{repo: repo, cost: cost}
}

func (s *service) RegisterUser(ctx context.Context, pseudo, password string, role session.Role) (*User, error) {
	pseudo = strings.TrimSpace(pseudo)
	if pseudo == "" {
		return nil, fmt.Errorf("%w: pseudo is required", ErrInvalid)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: mot_de_passe is required", ErrInvalid)
	}
	if role == "" {
		role = session.RoleAgent
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %s", ErrInvalid, role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Pseudo:       pseudo,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *service) UpdateUser(ctx context.Context, id string, upd Update) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Pseudo != nil {
		pseudo := strings.TrimSpace(*upd.Pseudo)
		if pseudo == "" {
			return nil, fmt.Errorf("%w: pseudo is required", ErrInvalid)
		}
		user.Pseudo = pseudo
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %s", ErrInvalid, *upd.Role)
		}
		user.Role = *upd.Role
	}
	if upd.Password != nil && *upd.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), s.cost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}

func (s *service) EnsureAdmin(ctx context.Context, pseudo, password string) (bool, error) {
	_, err := s.repo.GetUserByPseudo(ctx, pseudo)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if _, err := s.RegisterUser(ctx, pseudo, password, session.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
