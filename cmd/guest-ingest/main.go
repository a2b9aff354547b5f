// Command guest-ingest bulk-loads gzipped guest-list CSV exports into the
// users table. Duplicate emails within and across files are dropped, and the
// insert is an upsert keyed on email, so re-running an import is harmless.
// Imported guests start inactive until they confirm.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/englajimmy/rsvp-api/internal/domain/user"
	"github.com/englajimmy/rsvp-api/internal/ingest"
	"github.com/englajimmy/rsvp-api/internal/repository"
)

const progressEvery = 10_000

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] guestlist.csv.gz [more.csv.gz ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, flag.Args()); err != nil {
		slog.Error("guest ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("guest ingest completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("reading guest lists", slog.Int("files", len(files)))

	guests, err := ingest.Load(ctx, files)
	if err != nil {
		return errors.Wrap(err, "load guest lists")
	}

	slog.Info("unique guests found", slog.Int("count", len(guests)))

	if len(guests) == 0 {
		slog.Info("no guests to import")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.Bootstrap(ctx, pool); err != nil {
		return errors.Wrap(err, "bootstrap schema")
	}

	users := repository.NewUserRepository(pool)

	for i, guest := range guests {
		nu := user.NewUser{Email: guest.Email, Name: guest.Name, IsActive: false}
		if err := users.Upsert(ctx, nu); err != nil {
			return errors.Wrapf(err, "upsert guest %s", guest.Email)
		}

		if (i+1)%progressEvery == 0 {
			slog.Info("import progress", slog.Int("imported", i+1), slog.Int("total", len(guests)))
		}
	}

	slog.Info("imported guests", slog.Int("count", len(guests)))
	return nil
}
