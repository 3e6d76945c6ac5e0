package user

import "context"

// Repository stores users. Lookups of a missing user return ErrNotFound, and
// writes that reuse a pseudo return ErrDuplicatePseudo.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByPseudo(ctx context.Context, pseudo string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id string) error
	SetConnected(ctx context.Context, id string, connected bool) error
}
