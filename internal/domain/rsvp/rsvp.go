// Package rsvp holds the RSVP domain model and submission rules.
package rsvp

import (
	"context"
	"time"
)

// RSVP is a guest's attendance record as stored in the database.
type RSVP struct {
	ID              int64
	Name            string
	Email           string
	Coming          bool
	Allergies       *string
	TransportAssist bool
	CreatedAt       time.Time
}

// Submission holds the input for submitting an RSVP. A (Name, Email) pair may
// RSVP only once; resubmitting replaces the previous answer.
type Submission struct {
	Name            string
	Email           string
	Coming          bool
	Allergies       *string
	TransportAssist bool
}

// Repository persists RSVPs.
type Repository interface {
	// Upsert inserts the submission, or replaces the existing row with the
	// same (name, email). The updated flag reports which of the two happened.
	Upsert(ctx context.Context, sub Submission) (rec *RSVP, updated bool, err error)

	// List returns all RSVPs, newest first.
	List(ctx context.Context) ([]RSVP, error)
}
