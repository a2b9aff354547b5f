//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

type submitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Updated bool   `json:"updated"`
}

type rsvpResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Coming          bool      `json:"coming"`
	Allergies       *string   `json:"allergies"`
	TransportAssist bool      `json:"transport_assist"`
	CreatedAt       time.Time `json:"created_at"`
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestSubmitThenResubmitUpdates(t *testing.T) {
	resetTables(t)
	srv := newAPIServer(t, "")

	first := postJSON(t, srv.URL+"/rsvps", map[string]any{
		"name":  "Alice",
		"email": "alice@example.com",
	})
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("first submit: expected 201, got %d", first.StatusCode)
	}
	if got := decode[submitResponse](t, first); got.Updated {
		t.Error("first submit should not report updated")
	}

	second := postJSON(t, srv.URL+"/rsvps", map[string]any{
		"name":      "Alice",
		"email":     "alice@example.com",
		"coming":    false,
		"allergies": "shellfish",
	})
	if second.StatusCode != http.StatusCreated {
		t.Fatalf("second submit: expected 201, got %d", second.StatusCode)
	}
	if got := decode[submitResponse](t, second); !got.Updated {
		t.Error("resubmission should report updated")
	}

	// One row, carrying the replacement answer.
	list := decode[[]rsvpResponse](t, mustGet(t, srv.URL+"/rsvps"))
	if len(list) != 1 {
		t.Fatalf("expected 1 rsvp, got %d", len(list))
	}
	if list[0].Coming {
		t.Error("resubmission should have set coming=false")
	}
	if list[0].Allergies == nil || *list[0].Allergies != "shellfish" {
		t.Errorf("unexpected allergies: %v", list[0].Allergies)
	}
}

func TestSameNameOrEmailAlone(t *testing.T) {
	resetTables(t)
	srv := newAPIServer(t, "")

	// Same name under a new email, and same email under a new name, are both
	// distinct rows; only the exact pair is deduplicated.
	submissions := []map[string]any{
		{"name": "Alice", "email": "alice@example.com"},
		{"name": "Alice", "email": "other@example.com"},
		{"name": "Someone Else", "email": "alice@example.com"},
	}
	for _, sub := range submissions {
		resp := postJSON(t, srv.URL+"/rsvps", sub)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("submit %v: expected 201, got %d", sub, resp.StatusCode)
		}
		resp.Body.Close()
	}

	list := decode[[]rsvpResponse](t, mustGet(t, srv.URL+"/rsvps"))
	if len(list) != 3 {
		t.Fatalf("expected 3 distinct rsvps, got %d", len(list))
	}
}

func TestColumnDefaults(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	// Insert relying on column defaults only.
	before := time.Now().Add(-time.Minute)
	_, err := pool.Exec(ctx, `INSERT INTO rsvps (name, email) VALUES ('Dave', 'dave@example.com')`)
	if err != nil {
		t.Fatalf("insert rsvp: %v", err)
	}

	var coming, transport bool
	var createdAt time.Time
	err = pool.QueryRow(ctx,
		`SELECT coming, transport_assist, created_at FROM rsvps WHERE email = 'dave@example.com'`,
	).Scan(&coming, &transport, &createdAt)
	if err != nil {
		t.Fatalf("read rsvp: %v", err)
	}
	if !coming {
		t.Error("coming should default to true")
	}
	if transport {
		t.Error("transport_assist should default to false")
	}
	if createdAt.Before(before) || createdAt.After(time.Now().Add(time.Minute)) {
		t.Errorf("created_at %v not close to insertion time", createdAt)
	}

	_, err = pool.Exec(ctx, `INSERT INTO users (email, name) VALUES ('dave@example.com', 'Dave')`)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	var isActive bool
	err = pool.QueryRow(ctx,
		`SELECT is_active FROM users WHERE email = 'dave@example.com'`).Scan(&isActive)
	if err != nil {
		t.Fatalf("read user: %v", err)
	}
	if !isActive {
		t.Error("is_active should default to true")
	}
}

func TestListOrderedNewestFirst(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	// Stagger created_at explicitly; ON CONFLICT paths always use now().
	stmts := []string{
		`INSERT INTO rsvps (name, email, created_at) VALUES ('Old', 'old@example.com', now() - interval '2 hours')`,
		`INSERT INTO rsvps (name, email, created_at) VALUES ('New', 'new@example.com', now())`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	srv := newAPIServer(t, "")
	list := decode[[]rsvpResponse](t, mustGet(t, srv.URL+"/rsvps"))
	if len(list) != 2 {
		t.Fatalf("expected 2 rsvps, got %d", len(list))
	}
	if list[0].Email != "new@example.com" {
		t.Errorf("expected newest first, got %s", list[0].Email)
	}
}

func mustGet(t *testing.T, url string) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get %s: expected 200, got %d", url, resp.StatusCode)
	}
	return resp
}
