// Package user holds the user domain model.
package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/englajimmy/rsvp-api/internal/domain/validate"
)

// ErrEmailTaken indicates another user already owns the email address.
var ErrEmailTaken = errors.New("email already registered")

// User is an account row as stored in the database.
type User struct {
	ID        int64
	Email     string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// NewUser holds the input for creating a user. IsActive defaults to true at
// the API edge, matching the column default.
type NewUser struct {
	Email    string
	Name     string
	IsActive bool
}

// Validate checks NewUser against the schema bounds.
func (n NewUser) Validate() error {
	if err := validate.Email("email", n.Email, 255); err != nil {
		return err
	}
	return validate.Required("name", n.Name, 255)
}

// Repository persists users.
type Repository interface {
	// Create inserts a new user. Returns ErrEmailTaken when the email is
	// already registered.
	Create(ctx context.Context, nu NewUser) (*User, error)

	// Upsert inserts the user or, when the email already exists, refreshes
	// name and is_active on the existing row. Used by seeding and bulk
	// ingest, where re-runs must not fail.
	Upsert(ctx context.Context, nu NewUser) error

	// List returns all users, newest first.
	List(ctx context.Context) ([]User, error)
}
