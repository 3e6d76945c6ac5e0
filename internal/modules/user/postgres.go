package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const selectUsers = `
	SELECT id, pseudo, password_hash, role, connecte, created_at, updated_at
	FROM users`

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, pseudo, password_hash, role, connecte)
		VALUES (:id, :pseudo, :password_hash, :role, :connecte)
		RETURNING created_at, updated_at
	`
	rows, err := r.db.NamedQueryContext(ctx, query, user)
	if err != nil {
		return mapWriteError(err, user.Pseudo)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *postgresRepository) GetUserByPseudo(ctx context.Context, pseudo string) (*User, error) {
	user := &User{}
	if err := r.db.GetContext(ctx, user, selectUsers+` WHERE pseudo = $1`, pseudo); err != nil {
		return nil, mapReadError(err, pseudo)
	}
	return user, nil
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	user := &User{}
	if err := r.db.GetContext(ctx, user, selectUsers+` WHERE id = $1`, parsedID); err != nil {
		return nil, mapReadError(err, id)
	}
	return user, nil
}

func (r *postgresRepository) ListUsers(ctx context.Context) ([]User, error) {
	users := []User{}
	if err := r.db.SelectContext(ctx, &users, selectUsers+` ORDER BY created_at ASC, id ASC`); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *postgresRepository) UpdateUser(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET pseudo = :pseudo, password_hash = :password_hash, role = :role, updated_at = NOW()
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return mapWriteError(err, user.Pseudo)
	}
	return expectOne(res, user.ID.String())
}

func (r *postgresRepository) DeleteUser(ctx context.Context, id string) error {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, parsedID)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

func (r *postgresRepository) SetConnected(ctx context.Context, id string, connected bool) error {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET connecte = $2, updated_at = NOW() WHERE id = $1`, parsedID, connected)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func mapReadError(err error, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return err
}

func mapWriteError(err error, pseudo string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicatePseudo, pseudo)
	}
	return err
}
