package rsvp

import (
	"context"
	"fmt"

	"github.com/englajimmy/rsvp-api/internal/domain/validate"
)

// Column bounds declared in the schema.
const (
	maxNameLen      = 255
	maxEmailLen     = 255
	maxAllergiesLen = 500
)

// Receipt is the outcome of a submission.
type Receipt struct {
	RSVP    *RSVP
	Updated bool
}

// Service encapsulates RSVP submission and listing.
type Service struct {
	rsvps Repository
}

// NewService creates an RSVP Service backed by the given repository.
func NewService(rsvps Repository) *Service {
	return &Service{rsvps: rsvps}
}

// Submit validates the submission and upserts it. The same (name, email) pair
// replaces its previous answer rather than creating a second row.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Receipt, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	rec, updated, err := s.rsvps.Upsert(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("upsert rsvp: %w", err)
	}

	return &Receipt{RSVP: rec, Updated: updated}, nil
}

// List returns all RSVPs, newest first.
func (s *Service) List(ctx context.Context) ([]RSVP, error) {
	list, err := s.rsvps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	return list, nil
}

func validateSubmission(sub Submission) error {
	if err := validate.Required("name", sub.Name, maxNameLen); err != nil {
		return err
	}
	if err := validate.Email("email", sub.Email, maxEmailLen); err != nil {
		return err
	}
	if sub.Allergies != nil {
		if err := validate.MaxLen("allergies", *sub.Allergies, maxAllergiesLen); err != nil {
			return err
		}
	}
	return nil
}
