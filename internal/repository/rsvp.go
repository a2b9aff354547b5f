package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/englajimmy/rsvp-api/internal/domain/rsvp"
)

// xmax = 0 distinguishes a fresh insert from a conflict-triggered update.
const upsertRSVPSQL = `INSERT INTO rsvps (name, email, coming, allergies, transport_assist, created_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (name, email) DO UPDATE SET
		coming = EXCLUDED.coming,
		allergies = EXCLUDED.allergies,
		transport_assist = EXCLUDED.transport_assist,
		created_at = now()
	RETURNING id, created_at, (xmax = 0) AS inserted`

const listRSVPsSQL = `SELECT id, name, email, coming, allergies, transport_assist, created_at
	FROM rsvps ORDER BY created_at DESC`

var _ rsvp.Repository = (*RSVPRepository)(nil)

// RSVPRepository implements rsvp.Repository backed by PostgreSQL.
type RSVPRepository struct {
	pool *pgxpool.Pool
}

// NewRSVPRepository returns an RSVPRepository that uses the given pool.
func NewRSVPRepository(pool *pgxpool.Pool) *RSVPRepository {
	return &RSVPRepository{pool: pool}
}

// Upsert inserts the submission or replaces the row with the same
// (name, email) pair, refreshing created_at to the time of the resubmission.
func (r *RSVPRepository) Upsert(ctx context.Context, sub rsvp.Submission) (*rsvp.RSVP, bool, error) {
	rec := &rsvp.RSVP{
		Name:            sub.Name,
		Email:           sub.Email,
		Coming:          sub.Coming,
		Allergies:       sub.Allergies,
		TransportAssist: sub.TransportAssist,
	}

	var inserted bool
	err := r.pool.QueryRow(ctx, upsertRSVPSQL,
		sub.Name, sub.Email, sub.Coming, sub.Allergies, sub.TransportAssist,
	).Scan(&rec.ID, &rec.CreatedAt, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("upserting rsvp for %q: %w", sub.Email, err)
	}

	return rec, !inserted, nil
}

// List returns all RSVPs, newest first.
func (r *RSVPRepository) List(ctx context.Context) ([]rsvp.RSVP, error) {
	rows, err := r.pool.Query(ctx, listRSVPsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing rsvps: %w", err)
	}
	defer rows.Close()

	var list []rsvp.RSVP
	for rows.Next() {
		var rec rsvp.RSVP
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Email, &rec.Coming,
			&rec.Allergies, &rec.TransportAssist, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning rsvp row: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
