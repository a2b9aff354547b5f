// Package repository implements PostgreSQL-backed persistence for the RSVP
// service.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/englajimmy/rsvp-api/db"
)

// connectTimeout bounds the initial reachability check so a misconfigured
// DATABASE_URL fails fast instead of hanging.
const connectTimeout = 10 * time.Second

// NewPool creates a pgxpool.Pool and verifies the database is reachable.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// Bootstrap applies the embedded DDL and then upgrades a legacy rsvps table
// in place. Both steps are no-ops on an already-initialized database, so
// Bootstrap is safe to run on every start.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, db.Schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	if err := upgradeRSVPs(ctx, pool); err != nil {
		return fmt.Errorf("upgrading rsvps table: %w", err)
	}
	return nil
}

// upgradeRSVPs migrates a live rsvps table created before the composite
// (name, email) constraint existed:
//
//   - attending is renamed to coming
//   - the free-text message column is dropped in favour of allergies
//   - allergies and transport_assist are added when missing
//   - the email-only unique constraint is replaced by UNIQUE (name, email)
//
// Every step checks catalog state first, so duplicate submissions that were
// legal under the old schema only start being rejected once the constraint
// is actually in place.
func upgradeRSVPs(ctx context.Context, pool *pgxpool.Pool) error {
	cols, err := tableColumns(ctx, pool, "rsvps")
	if err != nil {
		return err
	}

	if cols["attending"] && !cols["coming"] {
		if _, err := pool.Exec(ctx, `ALTER TABLE rsvps RENAME COLUMN attending TO coming`); err != nil {
			return fmt.Errorf("renaming attending to coming: %w", err)
		}
	}
	if cols["message"] {
		if _, err := pool.Exec(ctx, `ALTER TABLE rsvps DROP COLUMN IF EXISTS message`); err != nil {
			return fmt.Errorf("dropping message column: %w", err)
		}
	}
	if !cols["allergies"] {
		if _, err := pool.Exec(ctx, `ALTER TABLE rsvps ADD COLUMN IF NOT EXISTS allergies VARCHAR(500)`); err != nil {
			return fmt.Errorf("adding allergies column: %w", err)
		}
	}
	if !cols["transport_assist"] {
		if _, err := pool.Exec(ctx, `ALTER TABLE rsvps ADD COLUMN IF NOT EXISTS transport_assist BOOLEAN DEFAULT false`); err != nil {
			return fmt.Errorf("adding transport_assist column: %w", err)
		}
	}

	// The legacy schema deduplicated on email alone. The replacement keys on
	// the (name, email) pair so the same email may answer under several names.
	hasLegacy, err := constraintExists(ctx, pool, "rsvps_email_key")
	if err != nil {
		return err
	}
	if hasLegacy {
		if _, err := pool.Exec(ctx, `ALTER TABLE rsvps DROP CONSTRAINT rsvps_email_key`); err != nil {
			return fmt.Errorf("dropping legacy email constraint: %w", err)
		}
	}

	hasPair, err := constraintExists(ctx, pool, "rsvps_name_email_key")
	if err != nil {
		return err
	}
	if !hasPair {
		// The old schema allowed repeated submissions as independent rows.
		// The constraint cannot be added while those exist, so keep only the
		// most recent answer per pair, consistent with the upsert semantics.
		if _, err := pool.Exec(ctx, dropSupersededRSVPsSQL); err != nil {
			return fmt.Errorf("removing superseded rsvps: %w", err)
		}
		if _, err := pool.Exec(ctx, `ALTER TABLE rsvps ADD CONSTRAINT rsvps_name_email_key UNIQUE (name, email)`); err != nil {
			return fmt.Errorf("adding (name, email) constraint: %w", err)
		}
	}

	return nil
}

const dropSupersededRSVPsSQL = `DELETE FROM rsvps a
	USING rsvps b
	WHERE a.name = b.name AND a.email = b.email
	  AND (a.created_at < b.created_at
	       OR (a.created_at = b.created_at AND a.id < b.id))`

func tableColumns(ctx context.Context, pool *pgxpool.Pool, table string) (map[string]bool, error) {
	rows, err := pool.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_name = $1`, table)
	if err != nil {
		return nil, fmt.Errorf("listing %s columns: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning column name: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

func constraintExists(ctx context.Context, pool *pgxpool.Pool, name string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conrelid = 'rsvps'::regclass AND conname = $1)`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking constraint %s: %w", name, err)
	}
	return exists, nil
}
