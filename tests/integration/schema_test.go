//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/englajimmy/rsvp-api/internal/repository"
)

func TestBootstrapIsIdempotent(t *testing.T) {
	ctx := context.Background()

	// TestMain already ran Bootstrap once; running it again must be a no-op.
	if err := repository.Bootstrap(ctx, pool); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if err := repository.Bootstrap(ctx, pool); err != nil {
		t.Fatalf("third bootstrap: %v", err)
	}

	var tables int
	err := pool.QueryRow(ctx,
		`SELECT count(*) FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_name IN ('users', 'rsvps')`,
	).Scan(&tables)
	if err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if tables != 2 {
		t.Fatalf("expected 2 tables, got %d", tables)
	}
}

// recreateRSVPs drops the rsvps table and recreates it with the given DDL
// and seed statements.
func recreateRSVPs(t *testing.T, stmts ...string) {
	t.Helper()
	ctx := context.Background()

	all := append([]string{`DROP TABLE rsvps`}, stmts...)
	for _, stmt := range all {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("prepare legacy table: %v", err)
		}
	}
}

func rsvpColumns(t *testing.T) map[string]bool {
	t.Helper()

	rows, err := pool.Query(context.Background(),
		`SELECT column_name FROM information_schema.columns WHERE table_name = 'rsvps'`)
	if err != nil {
		t.Fatalf("list columns: %v", err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan column: %v", err)
		}
		cols[name] = true
	}
	return cols
}

// The oldest deployed shape: attending/message columns and a unique
// constraint on email alone.
func TestBootstrapUpgradesEmailKeyedRSVPs(t *testing.T) {
	ctx := context.Background()

	recreateRSVPs(t,
		`CREATE TABLE rsvps (
			id         SERIAL PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			email      VARCHAR(255) NOT NULL,
			attending  BOOLEAN DEFAULT true,
			message    VARCHAR(1000),
			created_at TIMESTAMPTZ DEFAULT now(),
			CONSTRAINT rsvps_email_key UNIQUE (email)
		)`,
		`INSERT INTO rsvps (name, email, attending, message)
		 VALUES ('Alice', 'alice@example.com', false, 'old style note')`,
	)

	if err := repository.Bootstrap(ctx, pool); err != nil {
		t.Fatalf("bootstrap over legacy table: %v", err)
	}

	// attending was renamed, message dropped, new columns added.
	cols := rsvpColumns(t)
	for _, want := range []string{"coming", "allergies", "transport_assist"} {
		if !cols[want] {
			t.Errorf("expected column %q after upgrade", want)
		}
	}
	for _, gone := range []string{"attending", "message"} {
		if cols[gone] {
			t.Errorf("column %q should have been removed", gone)
		}
	}

	// Existing data survived the rename.
	var coming bool
	err := pool.QueryRow(ctx,
		`SELECT coming FROM rsvps WHERE email = 'alice@example.com'`).Scan(&coming)
	if err != nil {
		t.Fatalf("read migrated row: %v", err)
	}
	if coming {
		t.Error("attending=false should have become coming=false")
	}

	// The email-only constraint is gone: same email under a second name is
	// now allowed.
	_, err = pool.Exec(ctx,
		`INSERT INTO rsvps (name, email) VALUES ('Alice Plus One', 'alice@example.com')`)
	if err != nil {
		t.Fatalf("insert same email under new name: %v", err)
	}

	// And the (name, email) pair constraint is in place.
	_, err = pool.Exec(ctx,
		`INSERT INTO rsvps (name, email) VALUES ('Alice', 'alice@example.com')`)
	if err == nil {
		t.Fatal("duplicate (name, email) should violate the new constraint")
	}

	resetTables(t)
}

// The unconstrained shape: no uniqueness at all, so repeated submissions
// piled up as independent rows. The upgrade keeps only the most recent
// answer per (name, email) pair so the constraint can be added.
func TestBootstrapDeduplicatesUnconstrainedRSVPs(t *testing.T) {
	ctx := context.Background()

	recreateRSVPs(t,
		`CREATE TABLE rsvps (
			id               SERIAL PRIMARY KEY,
			name             VARCHAR(255) NOT NULL,
			email            VARCHAR(255) NOT NULL,
			coming           BOOLEAN DEFAULT true,
			allergies        VARCHAR(500),
			transport_assist BOOLEAN DEFAULT false,
			created_at       TIMESTAMPTZ DEFAULT now()
		)`,
		`INSERT INTO rsvps (name, email, coming, created_at)
		 VALUES ('Alice', 'alice@example.com', true, now() - interval '1 hour')`,
		`INSERT INTO rsvps (name, email, coming, created_at)
		 VALUES ('Alice', 'alice@example.com', false, now())`,
		`INSERT INTO rsvps (name, email)
		 VALUES ('Bob', 'bob@example.com')`,
	)

	if err := repository.Bootstrap(ctx, pool); err != nil {
		t.Fatalf("bootstrap over unconstrained table: %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM rsvps`).Scan(&count); err != nil {
		t.Fatalf("count rsvps: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows after dedup, got %d", count)
	}

	// The surviving Alice row is the newest one.
	var coming bool
	err := pool.QueryRow(ctx,
		`SELECT coming FROM rsvps WHERE email = 'alice@example.com'`).Scan(&coming)
	if err != nil {
		t.Fatalf("read deduped row: %v", err)
	}
	if coming {
		t.Error("dedup should have kept the most recent answer (coming=false)")
	}

	resetTables(t)
}
