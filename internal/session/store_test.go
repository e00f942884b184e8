// ABOUTME: Tests for the session store
// ABOUTME: Covers rehydration, persistence across instances and idempotent reset

package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
)

func TestStore_ReadsInitialBeforeRehydrate(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Save(StorageKey, []byte(`{"authState":true,"token":"persisted"}`))

	s := New(storage)
	if s.Hydrated() {
		t.Error("expected store to start unhydrated")
	}
	if got := s.Session(); got != Initial {
		t.Errorf("expected initial session before rehydrate, got %+v", got)
	}

	if err := s.Rehydrate(); err != nil {
		t.Fatalf("rehydrate failed: %v", err)
	}
	want := models.Session{Authenticated: true, Token: "persisted"}
	if got := s.Session(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestStore_AbsentKeyGivesInitial(t *testing.T) {
	s := New(NewFileStorage(t.TempDir()))
	if err := s.Rehydrate(); err != nil {
		t.Fatalf("rehydrate failed: %v", err)
	}
	if got := s.Session(); got != Initial {
		t.Errorf("expected initial session, got %+v", got)
	}
}

func TestStore_CorruptEntryGivesInitial(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Save(StorageKey, []byte(`{not json`))

	s := New(storage)
	if err := s.Rehydrate(); err != nil {
		t.Fatalf("expected corrupt entry to be ignored, got %v", err)
	}
	if got := s.Session(); got != Initial {
		t.Errorf("expected initial session, got %+v", got)
	}
}

func TestStore_RehydrateOnlyOnce(t *testing.T) {
	storage := NewMemoryStorage()
	s := New(storage)
	s.Rehydrate()

	storage.Save(StorageKey, []byte(`{"authState":true,"token":"later"}`))
	s.Rehydrate()

	if got := s.Session(); got != Initial {
		t.Errorf("expected second rehydrate to be a no-op, got %+v", got)
	}
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := New(NewFileStorage(dir))
	first.Rehydrate()
	if err := first.SetToken("abc"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if err := first.SetAuthenticated(true); err != nil {
		t.Fatalf("SetAuthenticated failed: %v", err)
	}

	second := New(NewFileStorage(dir))
	second.Rehydrate()
	want := models.Session{Authenticated: true, Token: "abc"}
	if got := second.Session(); got != want {
		t.Errorf("expected %+v after reload, got %+v", want, got)
	}
	if second.Token() != "abc" {
		t.Errorf("expected Token() abc, got %q", second.Token())
	}

	info, err := os.Stat(filepath.Join(dir, "persist-auth.json"))
	if err != nil {
		t.Fatalf("expected session file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestStore_ResetIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := New(NewFileStorage(dir))
	s.Rehydrate()
	s.SetToken("abc")
	s.SetAuthenticated(true)

	if err := s.Reset(); err != nil {
		t.Fatalf("first reset failed: %v", err)
	}
	first := s.Session()
	if err := s.Reset(); err != nil {
		t.Fatalf("second reset failed: %v", err)
	}
	second := s.Session()

	if first != Initial || second != Initial {
		t.Errorf("expected initial after both resets, got %+v and %+v", first, second)
	}

	reloaded := New(NewFileStorage(dir))
	reloaded.Rehydrate()
	if got := reloaded.Session(); got != Initial {
		t.Errorf("expected persisted state cleared, got %+v", got)
	}
}

func TestStore_WriteBeforeRehydrateWins(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Save(StorageKey, []byte(`{"authState":true,"token":"stale"}`))

	s := New(storage)
	s.SetToken("fresh")
	s.Rehydrate()

	if got := s.Session(); got.Token != "fresh" || got.Authenticated {
		t.Errorf("expected the write to replace stale state, got %+v", got)
	}
}

type failingStorage struct{ MemoryStorage }

func (*failingStorage) Save(string, []byte) error { return errors.New("disk full") }
func (*failingStorage) Load(string) ([]byte, error) {
	return nil, errors.New("unreadable")
}

func TestStore_FailedWriteKeepsPreviousState(t *testing.T) {
	s := New(&failingStorage{})
	if err := s.Rehydrate(); err == nil {
		t.Error("expected load error to surface")
	}
	if got := s.Session(); got != Initial {
		t.Errorf("expected initial session after load error, got %+v", got)
	}

	if err := s.SetToken("abc"); err == nil {
		t.Error("expected save error")
	}
	if got := s.Session(); got.Token != "" {
		t.Errorf("expected token unchanged after failed save, got %q", got.Token)
	}
}

func TestNew_NilStorageUsesMemory(t *testing.T) {
	s := New(nil)
	s.Rehydrate()
	if err := s.SetToken("x"); err != nil {
		t.Errorf("expected memory fallback, got %v", err)
	}
}

// limitedStorage accepts the first allowed saves and fails the rest
type limitedStorage struct {
	*MemoryStorage
	allowed int
	saves   int
	remove  error
}

func (l *limitedStorage) Save(key string, data []byte) error {
	l.saves++
	if l.saves > l.allowed {
		return errors.New("disk full")
	}
	return l.MemoryStorage.Save(key, data)
}

func (l *limitedStorage) Remove(key string) error {
	if l.remove != nil {
		return l.remove
	}
	return l.MemoryStorage.Remove(key)
}

func TestStore_SignInWritesOnce(t *testing.T) {
	storage := &limitedStorage{MemoryStorage: NewMemoryStorage(), allowed: 1}
	s := New(storage)
	s.Rehydrate()

	if err := s.SignIn("abc"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if storage.saves != 1 {
		t.Errorf("expected one save, got %d", storage.saves)
	}
	want := models.Session{Authenticated: true, Token: "abc"}
	if got := s.Session(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestStore_SignInFailureChangesNothing(t *testing.T) {
	storage := &limitedStorage{MemoryStorage: NewMemoryStorage(), allowed: 1}
	s := New(storage)
	s.Rehydrate()
	if err := s.SetToken("old"); err != nil {
		t.Fatal(err)
	}

	if err := s.SignIn("new"); err == nil {
		t.Fatal("expected save error")
	}
	want := models.Session{Authenticated: false, Token: "old"}
	if got := s.Session(); got != want {
		t.Errorf("expected memory %+v, got %+v", want, got)
	}
	data, _ := storage.Load(StorageKey)
	if string(data) != `{"authState":false,"token":"old"}` {
		t.Errorf("unexpected persisted entry %s", data)
	}
}

func TestStore_SignInWithoutTokenKeepsToken(t *testing.T) {
	s := New(nil)
	s.Rehydrate()
	s.SetToken("abc")

	if err := s.SignIn(""); err != nil {
		t.Fatal(err)
	}
	if got := s.Session(); !got.Authenticated || got.Token != "abc" {
		t.Errorf("unexpected session %+v", got)
	}
}

func TestStore_FailedResetKeepsSession(t *testing.T) {
	storage := &limitedStorage{MemoryStorage: NewMemoryStorage(), allowed: 1, remove: errors.New("read-only")}
	s := New(storage)
	s.Rehydrate()
	if err := s.SignIn("abc"); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(); err == nil {
		t.Fatal("expected reset error")
	}
	if got := s.Session(); !got.Authenticated || got.Token != "abc" {
		t.Errorf("expected session kept after failed reset, got %+v", got)
	}
	if data, _ := storage.Load(StorageKey); data == nil {
		t.Error("expected persisted entry kept")
	}
}
