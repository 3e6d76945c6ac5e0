package user

import (
	"errors"
	"time"

	"github.com/georgemunganga/cloture-backend/internal/modules/session"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrDuplicatePseudo = errors.New("pseudo already taken")
	ErrInvalid         = errors.New("invalid user")
)

// User represents an agent or an administrator.
// @Description User information
// @Description with id, pseudo, role, connecte, created_at, and updated_at
type User struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Pseudo       string       `json:"pseudo" db:"pseudo"`
	PasswordHash string       `json:"-" db:"password_hash"`
	Role         session.Role `json:"role" db:"role"`
	Connected    bool         `json:"connecte" db:"connecte"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// Session returns the session opened by this user.
func (u User) Session() session.Session {
	return session.Session{UserID: u.ID.String(), Pseudo: u.Pseudo, Role: u.Role}
}

// Update lists the attributes changed by an administrator. Nil fields, and an
// empty password, are left unchanged.
type Update struct {
	Pseudo   *string       `json:"pseudo,omitempty"`
	Password *string       `json:"mot_de_passe,omitempty"`
	Role     *session.Role `json:"role,omitempty"`
}
