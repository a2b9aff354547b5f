package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/englajimmy/rsvp-api/internal/domain/user"
)

const createUserSQL = `INSERT INTO users (email, name, is_active)
	VALUES ($1, $2, $3)
	RETURNING id, created_at`

const upsertUserSQL = `INSERT INTO users (email, name, is_active)
	VALUES ($1, $2, $3)
	ON CONFLICT (email) DO UPDATE SET
		name = EXCLUDED.name,
		is_active = EXCLUDED.is_active`

const listUsersSQL = `SELECT id, email, name, is_active, created_at
	FROM users ORDER BY created_at DESC`

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user. A unique violation on the email column is
// mapped to user.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, nu user.NewUser) (*user.User, error) {
	u := &user.User{
		Email:    nu.Email,
		Name:     nu.Name,
		IsActive: nu.IsActive,
	}

	err := r.pool.QueryRow(ctx, createUserSQL, nu.Email, nu.Name, nu.IsActive).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, user.ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user %q: %w", nu.Email, err)
	}

	return u, nil
}

// Upsert inserts the user or refreshes name and is_active when the email
// already exists.
func (r *UserRepository) Upsert(ctx context.Context, nu user.NewUser) error {
	if _, err := r.pool.Exec(ctx, upsertUserSQL, nu.Email, nu.Name, nu.IsActive); err != nil {
		return fmt.Errorf("upserting user %q: %w", nu.Email, err)
	}
	return nil
}

// List returns all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var list []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
