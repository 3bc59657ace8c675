package cache

import (
	"path/filepath"
	"testing"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRows() []MethodRow {
	return []MethodRow{
		{ClassName: "UserManager", Name: "GetUser", Signature: "public User GetUser(int id)", LineCount: 4},
		{ClassName: "UserManager", Name: "SaveUserAsync", Signature: "public async Task SaveUserAsync(User u)", LineCount: 7},
	}
}

func TestPutAndGet(t *testing.T) {
	store := setupStore(t)
	hash := HashContent([]byte("class UserManager {}"))

	if err := store.Put("src/UserManager.cs", hash, sampleRows()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rows, err := store.Get("src/UserManager.cs", hash)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "GetUser" || rows[1].Name != "SaveUserAsync" {
		t.Errorf("rows out of order: %v", rows)
	}
	if rows[1].LineCount != 7 {
		t.Errorf("line count = %d", rows[1].LineCount)
	}
}

func TestGetMissesOnChangedContent(t *testing.T) {
	store := setupStore(t)
	oldHash := HashContent([]byte("old"))
	if err := store.Put("a.cs", oldHash, sampleRows()); err != nil {
		t.Fatal(err)
	}

	rows, err := store.Get("a.cs", HashContent([]byte("new")))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rows != nil {
		t.Errorf("expected cache miss on changed content, got %d rows", len(rows))
	}
}

func TestGetMissesOnUnknownPath(t *testing.T) {
	store := setupStore(t)
	rows, err := store.Get("never-seen.cs", HashContent([]byte("x")))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rows != nil {
		t.Error("expected nil rows for unknown path")
	}
}

func TestPutReplacesOldEntry(t *testing.T) {
	store := setupStore(t)
	if err := store.Put("a.cs", HashContent([]byte("v1")), sampleRows()); err != nil {
		t.Fatal(err)
	}

	newHash := HashContent([]byte("v2"))
	replacement := []MethodRow{{ClassName: "UserManager", Name: "DeleteUser", Signature: "public void DeleteUser(int id)", LineCount: 3}}
	if err := store.Put("a.cs", newHash, replacement); err != nil {
		t.Fatal(err)
	}

	rows, err := store.Get("a.cs", newHash)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Name != "DeleteUser" {
		t.Errorf("replacement not applied: %v", rows)
	}
}

func TestInvalidate(t *testing.T) {
	store := setupStore(t)
	hash := HashContent([]byte("v1"))
	if err := store.Put("a.cs", hash, sampleRows()); err != nil {
		t.Fatal(err)
	}
	if err := store.Invalidate("a.cs"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	rows, err := store.Get("a.cs", hash)
	if err != nil {
		t.Fatal(err)
	}
	if rows != nil {
		t.Error("expected entry gone after Invalidate")
	}
}
