package postgres

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/julianstephens/unidash/internal/constants"
)

// Set POSTGRES_TEST_URL to run, e.g.
// POSTGRES_TEST_URL="postgres://unidash@localhost:5432/unidash_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	store := New(connStr)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	key := constants.KeyReminders
	t.Cleanup(func() { _ = store.Remove(context.Background(), key) })

	if err := store.Set(ctx, map[string]json.RawMessage{key: json.RawMessage(`[{"id":1,"text":"Quiz","time":"10:00:00"}]`)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	raw, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	var reminders []map[string]any
	if err := json.Unmarshal(raw[key], &reminders); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if len(reminders) != 1 || reminders[0]["text"] != "Quiz" {
		t.Errorf("unexpected reminders: %v", reminders)
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	raw, _ = store.Get(ctx, key)
	if _, ok := raw[key]; ok {
		t.Error("expected key to be removed")
	}
}
