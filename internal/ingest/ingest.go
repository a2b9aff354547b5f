// Package ingest reads gzipped guest-list CSV files and deduplicates them by
// email address so very large invitation exports can be loaded in one pass.
package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"
)

// Bloom filter sizing for the dedup pass. The false positive rate trades a
// vanishingly small chance of skipping a new address against not having to
// hold every email in memory as an exact set.
const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.0001
)

// Guest is one row of a guest list: a display name and an email address.
type Guest struct {
	Name  string
	Email string
}

// Deduper tracks emails already seen across files using a bloom filter.
type Deduper struct {
	filter *bloom.BloomFilter
}

// NewDeduper creates a Deduper sized for expected addresses with the given
// false positive rate.
func NewDeduper(capacity uint, fpr float64) *Deduper {
	return &Deduper{filter: bloom.NewWithEstimates(capacity, fpr)}
}

// Seen records email and reports whether it was (probably) seen before.
// Emails are compared case-insensitively.
func (d *Deduper) Seen(email string) bool {
	return d.filter.TestAndAddString(strings.ToLower(email))
}

// ReadFile parses one gzipped CSV guest list. Each record is "name,email";
// records with a missing field or an implausible email are dropped, since
// exported lists routinely contain header rows and half-filled entries.
func ReadFile(ctx context.Context, path string) ([]Guest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open guest list")
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "open gzip stream")
	}
	defer gz.Close()

	r := csv.NewReader(gz)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var guests []Guest
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv record")
		}

		g, ok := guestFromRecord(record)
		if !ok {
			continue
		}
		guests = append(guests, g)
	}

	return guests, nil
}

// Load reads all files concurrently and merges them in argument order,
// dropping guests whose email was already seen.
func Load(ctx context.Context, paths []string) ([]Guest, error) {
	perFile := make([][]Guest, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			guests, err := ReadFile(ctx, path)
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}
			perFile[i] = guests
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dedup := NewDeduper(bloomCapacity, bloomFPR)
	var merged []Guest
	for _, guests := range perFile {
		for _, guest := range guests {
			if dedup.Seen(guest.Email) {
				continue
			}
			merged = append(merged, guest)
		}
	}

	return merged, nil
}

func guestFromRecord(record []string) (Guest, bool) {
	if len(record) < 2 {
		return Guest{}, false
	}

	name := strings.TrimSpace(record[0])
	email := strings.TrimSpace(record[1])
	if name == "" || len(name) > 255 || len(email) > 255 {
		return Guest{}, false
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return Guest{}, false
	}

	return Guest{Name: name, Email: email}, true
}
