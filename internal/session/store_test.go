package session

import (
	"os"
	"testing"
	"time"

	"github.com/kpoder/csvguard/internal/csvio"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), ttl)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func testDataset() *csvio.Dataset {
	return &csvio.Dataset{
		Headers:   []string{"email"},
		Rows:      []map[string]string{{"email": "a@b.es"}},
		Encoding:  csvio.EncodingUTF8,
		Delimiter: ',',
	}
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t, time.Minute)

	sess, err := store.Create("users.csv", []byte("email\na@b.es\n"), testDataset())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID == "" {
		t.Error("session ID is empty")
	}
	if _, err := os.Stat(sess.Path); err != nil {
		t.Errorf("temp copy missing: %v", err)
	}

	got, ok := store.Get(sess.ID)
	if !ok {
		t.Fatal("Get() did not find the session")
	}
	if got.FileName != "users.csv" {
		t.Errorf("FileName = %q", got.FileName)
	}
	if len(got.Dataset.Rows) != 1 {
		t.Errorf("dataset rows = %d, want 1", len(got.Dataset.Rows))
	}
}

func TestGet_UnknownID(t *testing.T) {
	store := newTestStore(t, time.Minute)
	if _, ok := store.Get("nope"); ok {
		t.Error("Get() found a session that was never created")
	}
}

func TestGet_Expired(t *testing.T) {
	store := newTestStore(t, time.Minute)

	sess, err := store.Create("users.csv", []byte("email\n"), testDataset())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	sess.CreatedAt = time.Now().Add(-2 * time.Minute)

	if _, ok := store.Get(sess.ID); ok {
		t.Error("Get() returned an expired session")
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after expiry, want 0", store.Len())
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t, time.Minute)

	sess, err := store.Create("users.csv", []byte("email\n"), testDataset())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	store.Delete(sess.ID)

	if _, ok := store.Get(sess.ID); ok {
		t.Error("session still present after Delete")
	}
	if _, err := os.Stat(sess.Path); !os.IsNotExist(err) {
		t.Errorf("temp copy still present after Delete: %v", err)
	}
	// Deleting twice is a no-op.
	store.Delete(sess.ID)
}

func TestEvictExpired(t *testing.T) {
	store := newTestStore(t, time.Minute)

	old, err := store.Create("old.csv", []byte("email\n"), testDataset())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	old.CreatedAt = time.Now().Add(-2 * time.Minute)

	fresh, err := store.Create("fresh.csv", []byte("email\n"), testDataset())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	store.evictExpired()

	if _, ok := store.Get(old.ID); ok {
		t.Error("expired session survived eviction")
	}
	if _, ok := store.Get(fresh.ID); !ok {
		t.Error("fresh session was evicted")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}
