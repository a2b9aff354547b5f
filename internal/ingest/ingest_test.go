package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pgzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGuestList(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)

	gz := pgzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func TestReadFile(t *testing.T) {
	path := writeGuestList(t, "guests.csv.gz",
		"Alice,alice@example.com\n"+
			"Bob, bob@example.com\n"+
			"\"Carol, PhD\",carol@example.com\n")

	guests, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, guests, 3)
	assert.Equal(t, Guest{Name: "Alice", Email: "alice@example.com"}, guests[0])
	assert.Equal(t, "bob@example.com", guests[1].Email)
	assert.Equal(t, "Carol, PhD", guests[2].Name)
}

func TestReadFile_SkipsMalformedRecords(t *testing.T) {
	path := writeGuestList(t, "guests.csv.gz",
		"name,email\n"+ // header row: "email" has no @
			"OnlyOneField\n"+
			",missing@name.example\n"+
			"No Email,\n"+
			"Dave,dave@example.com\n")

	guests, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, "dave@example.com", guests[0].Email)
}

func TestLoad_DeduplicatesAcrossFiles(t *testing.T) {
	first := writeGuestList(t, "first.csv.gz",
		"Alice,alice@example.com\n"+
			"Bob,bob@example.com\n"+
			"Alice Again,ALICE@example.com\n") // same address, different case
	second := writeGuestList(t, "second.csv.gz",
		"Bob,bob@example.com\n"+
			"Eve,eve@example.com\n")

	guests, err := Load(context.Background(), []string{first, second})
	require.NoError(t, err)
	require.Len(t, guests, 3)
	assert.Equal(t, "alice@example.com", guests[0].Email)
	assert.Equal(t, "bob@example.com", guests[1].Email)
	assert.Equal(t, "eve@example.com", guests[2].Email)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), []string{"/does/not/exist.csv.gz"})
	require.Error(t, err)
}

func TestDeduper(t *testing.T) {
	d := NewDeduper(1000, 0.001)

	assert.False(t, d.Seen("a@example.com"))
	assert.True(t, d.Seen("a@example.com"))
	assert.True(t, d.Seen("A@Example.COM"), "emails compare case-insensitively")
	assert.False(t, d.Seen("b@example.com"))
}
