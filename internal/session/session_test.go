package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/krishimitra/server/internal/domain"
)

func newRecord(language string) *Record {
	sess := domain.NewChatSession(language)
	return &Record{ID: sess.ID, Session: *sess}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()

	rec := newRecord("hi")
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Version != 1 {
		t.Errorf("Version after Create = %d, want 1", rec.Version)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("timestamps not set on Create")
	}

	got, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for existing record")
	}
	if got.Session.Language != "hi" {
		t.Errorf("Language = %q, want hi", got.Session.Language)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store, _ := NewStore(StoreTypeMemory)
	got, err := store.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get(missing) = %+v, want nil", got)
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	store, _ := NewStore(StoreTypeMemory)
	ctx := context.Background()

	rec := newRecord("en")
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec.Session = *rec.Session.Append(domain.NewMessage(domain.RoleUser, "hello"))
	if err := store.Update(ctx, rec); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Version != 2 {
		t.Errorf("Version after Update = %d, want 2", rec.Version)
	}

	got, _ := store.Get(ctx, rec.ID)
	if len(got.Session.Messages) != 1 {
		t.Errorf("stored session has %d messages, want 1", len(got.Session.Messages))
	}
}

func TestMemoryStoreVersionConflict(t *testing.T) {
	store, _ := NewStore(StoreTypeMemory)
	ctx := context.Background()

	rec := newRecord("en")
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	stale := *rec
	stale.Version = 99
	if err := store.Update(ctx, &stale); !errors.Is(err, ErrVersionConflict) {
		t.Errorf("Update(stale) = %v, want ErrVersionConflict", err)
	}
}

func TestMemoryStoreConcurrentReadersConflict(t *testing.T) {
	store, _ := NewStore(StoreTypeMemory)
	ctx := context.Background()

	rec := newRecord("en")
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Two callers read the same session, as two in-flight requests would.
	first, _ := store.Get(ctx, rec.ID)
	second, _ := store.Get(ctx, rec.ID)
	if first == second {
		t.Fatal("Get returned the same record to both readers")
	}

	first.Session = *first.Session.Append(domain.NewMessage(domain.RoleUser, "first writer"))
	if err := store.Update(ctx, first); err != nil {
		t.Fatalf("first Update: %v", err)
	}

	// The second caller's record is now stale and must be rejected.
	second.Session = *second.Session.Append(domain.NewMessage(domain.RoleUser, "second writer"))
	if err := store.Update(ctx, second); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("stale Update = %v, want ErrVersionConflict", err)
	}

	got, _ := store.Get(ctx, rec.ID)
	if len(got.Session.Messages) != 1 || got.Session.Messages[0].Content != "first writer" {
		t.Errorf("stored session = %+v, want only the first writer's message", got.Session.Messages)
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	store, _ := NewStore(StoreTypeMemory)
	ctx := context.Background()

	rec := newRecord("en")
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Mutating a returned record must not change the stored one.
	got, _ := store.Get(ctx, rec.ID)
	got.Session = *got.Session.Append(domain.NewMessage(domain.RoleUser, "uncommitted"))
	got.Session.Language = "mr"

	stored, _ := store.Get(ctx, rec.ID)
	if len(stored.Session.Messages) != 0 {
		t.Errorf("uncommitted mutation leaked: %d messages stored", len(stored.Session.Messages))
	}
	if stored.Session.Language != "en" {
		t.Errorf("stored language = %q, want en", stored.Session.Language)
	}

	// The caller's record passed to Create is equally detached.
	rec.Session.Language = "hi"
	stored, _ = store.Get(ctx, rec.ID)
	if stored.Session.Language != "en" {
		t.Errorf("Create aliased the caller's record: language = %q", stored.Session.Language)
	}
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	store, _ := NewStore(StoreTypeMemory)
	rec := newRecord("en")
	if err := store.Update(context.Background(), rec); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(never created) = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDeleteAbsent(t *testing.T) {
	store, _ := NewStore(StoreTypeMemory)
	if err := store.Delete(context.Background(), "no-such-id"); err != nil {
		t.Errorf("Delete(absent) = %v, want nil", err)
	}
}

func TestRecordJSONRoundTrip(t *testing.T) {
	rec := newRecord("hi")
	rec.Version = 3
	rec.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	rec.UpdatedAt = rec.CreatedAt
	rec.Session = *rec.Session.Append(domain.NewMessage(domain.RoleUser, "मिट्टी कैसे सुधारें"))
	rec.Session = *rec.Session.Append(domain.NewMessage(domain.RoleAssistant, "जैविक खाद डालें।"))

	val, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := decodeRecord(rec.ID, val)
	if got == nil {
		t.Fatal("decodeRecord returned nil for a valid record")
	}

	if got.ID != rec.ID || got.Version != rec.Version {
		t.Errorf("bookkeeping = %s/%d, want %s/%d", got.ID, got.Version, rec.ID, rec.Version)
	}
	if got.Session.Language != "hi" {
		t.Errorf("Language = %q, want hi", got.Session.Language)
	}
	if len(got.Session.Messages) != len(rec.Session.Messages) {
		t.Fatalf("got %d messages, want %d", len(got.Session.Messages), len(rec.Session.Messages))
	}
	for i, m := range rec.Session.Messages {
		g := got.Session.Messages[i]
		if g.ID != m.ID || g.Role != m.Role || g.Content != m.Content {
			t.Errorf("message %d = %+v, want %+v", i, g, m)
		}
		if !g.Timestamp.Equal(m.Timestamp) {
			t.Errorf("message %d timestamp = %v, want %v", i, g.Timestamp, m.Timestamp)
		}
	}
}

func TestDecodeRecordCorruptValue(t *testing.T) {
	for _, val := range []string{"", "not json", `{"version":"three"}`} {
		if got := decodeRecord("sess-1", []byte(val)); got != nil {
			t.Errorf("decodeRecord(%q) = %+v, want nil", val, got)
		}
	}
}

func TestNewStoreValidation(t *testing.T) {
	if _, err := NewStore(StoreType("etcd")); !errors.Is(err, ErrInvalidStoreType) {
		t.Errorf("NewStore(etcd) = %v, want ErrInvalidStoreType", err)
	}
	// Redis driver without a client is incomplete configuration.
	if _, err := NewStore(StoreTypeRedis); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewStore(redis, no client) = %v, want ErrInvalidConfig", err)
	}
}
