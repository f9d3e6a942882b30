package session

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/joshua-takyi/jocky/internal/models"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	token, user, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty store: %v", err)
	}
	if token != "" || user != nil {
		t.Fatalf("expected empty state, got %q %v", token, user)
	}

	in := &models.User{ID: "u1", Email: "club@example.com", Name: "Club", Role: models.RoleVenue}
	if err := store.Save(ctx, "tok-1", in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "tok-2", in); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	token, user, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if token != "tok-2" {
		t.Errorf("expected tok-2, got %q", token)
	}
	if user == nil || user.ID != "u1" || user.Role != models.RoleVenue {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestSQLiteStoreClearRemovesBothKeys(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	if err := store.Save(ctx, "tok", &models.User{ID: "u1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	var n int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM client_state`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no rows after Clear, got %d", n)
	}
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	first, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Save(ctx, "tok", &models.User{ID: "u1", Name: "Club"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file missing: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	second, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer second.Close()

	s, err := Restore(ctx, second)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !s.SignedIn() || s.User().Name != "Club" {
		t.Errorf("session not restored: %q %+v", s.Token(), s.User())
	}
}

func TestSessionCopiesUser(t *testing.T) {
	s := New()
	u := &models.User{ID: "u1", Name: "Club"}
	s.Set("tok", u)
	u.Name = "changed"
	if s.User().Name != "Club" {
		t.Error("session should keep its own copy of the user")
	}
	got := s.User()
	got.Name = "mutated"
	if s.User().Name != "Club" {
		t.Error("User should return a copy")
	}

	s.Clear()
	if s.SignedIn() || s.User() != nil {
		t.Error("Clear should sign the session out")
	}
}

func TestSessionConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set("tok", &models.User{ID: "u"})
		}()
		go func() {
			defer wg.Done()
			_ = s.Token()
			_ = s.User()
		}()
	}
	wg.Wait()
}

func TestNewSQLiteStoreRequiresDB(t *testing.T) {
	if _, err := NewSQLiteStore(nil); err == nil {
		t.Error("expected error for nil db")
	}
}
