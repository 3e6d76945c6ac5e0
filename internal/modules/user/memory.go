package user

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
	order []string
}

// NewMemoryRepository returns a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: map[string]User{}}
}

func (r *memoryRepository) CreateUser(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pseudoTaken(user.Pseudo, "") {
		return fmt.Errorf("%w: %s", ErrDuplicatePseudo, user.Pseudo)
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	id := user.ID.String()
	r.users[id] = *user
	r.order = append(r.order, id)
	return nil
}

func (r *memoryRepository) GetUserByPseudo(ctx context.Context, pseudo string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if u := r.users[id]; u.Pseudo == pseudo {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, pseudo)
}

func (r *memoryRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &u, nil
}

func (r *memoryRepository) ListUsers(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out, nil
}

func (r *memoryRepository) UpdateUser(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := user.ID.String()
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if r.pseudoTaken(user.Pseudo, id) {
		return fmt.Errorf("%w: %s", ErrDuplicatePseudo, user.Pseudo)
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[id] = *user
	return nil
}

func (r *memoryRepository) DeleteUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.users, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryRepository) SetConnected(ctx context.Context, id string, connected bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	u.Connected = connected
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

// pseudoTaken must be called with the lock held.
func (r *memoryRepository) pseudoTaken(pseudo, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && u.Pseudo == pseudo {
			return true
		}
	}
	return false
}
