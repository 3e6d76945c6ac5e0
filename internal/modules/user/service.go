package user

import (
	"context"

	"github.com/georgemunganga/cloture-backend/internal/modules/session"
)

// Service defines the interface for user-related business logic.
type Service interface {
	RegisterUser(ctx context.Context, pseudo, password string, role session.Role) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id string, upd Update) (*User, error)
	DeleteUser(ctx context.Context, id string) error
	// EnsureAdmin creates the administrator account unless the pseudo already
	// exists. It reports whether an account was created.
	EnsureAdmin(ctx context.Context, pseudo, password string) (bool, error)
}
