// Command seed-db applies the schema and loads a handful of sample users.
// Safe to re-run: users are keyed on email and refreshed in place.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/englajimmy/rsvp-api/internal/domain/user"
	"github.com/englajimmy/rsvp-api/internal/repository"
)

var sampleUsers = []user.NewUser{
	{Email: "alice@example.com", Name: "Alice", IsActive: true},
	{Email: "bob@example.com", Name: "Bob", IsActive: true},
	{Email: "charlie@example.com", Name: "Charlie", IsActive: false},
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("bootstrapping schema")

	if err := repository.Bootstrap(ctx, pool); err != nil {
		return errors.Wrap(err, "bootstrap schema")
	}

	users := repository.NewUserRepository(pool)

	slog.Info("upserting sample users", slog.Int("count", len(sampleUsers)))

	for _, nu := range sampleUsers {
		if err := nu.Validate(); err != nil {
			return errors.Wrapf(err, "validate user %s", nu.Email)
		}
		if err := users.Upsert(ctx, nu); err != nil {
			return errors.Wrapf(err, "upsert user %s", nu.Email)
		}

		slog.Info("upserted user", slog.String("email", nu.Email), slog.String("name", nu.Name))
	}

	return nil
}
