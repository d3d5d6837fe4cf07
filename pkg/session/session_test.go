package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewAssignsUniqueIDs(t *testing.T) {
	a := New("demo", "127.0.0.1:1", DefaultTTL)
	b := New("demo", "127.0.0.1:2", DefaultTTL)

	if a.ID == "" || b.ID == "" {
		t.Fatal("New returned empty id")
	}
	if a.ID == b.ID {
		t.Errorf("New returned duplicate id %s", a.ID)
	}
	if a.Scene != "demo" {
		t.Errorf("Scene = %q, want demo", a.Scene)
	}
	if a.IsExpired() {
		t.Error("fresh session reports expired")
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := New("demo", "127.0.0.1:1", time.Minute)
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Scene != "demo" || got.RemoteAddr != "127.0.0.1:1" {
		t.Errorf("Get = %+v, want stored session", got)
	}

	if err := store.Touch(ctx, sess.ID, time.Hour); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	got, err = store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get after touch: %v", err)
	}
	if !got.ExpiresAt.After(sess.ExpiresAt) {
		t.Error("Touch did not extend expiry")
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	expired := New("demo", "127.0.0.1:1", -time.Second)
	live := New("demo", "127.0.0.1:2", time.Minute)
	for _, s := range []*Session{expired, live} {
		if err := store.Put(ctx, s); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	if _, err := store.Get(ctx, expired.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get expired = %v, want ErrNotFound", err)
	}
	if err := store.Touch(ctx, expired.ID, time.Hour); !errors.Is(err, ErrNotFound) {
		t.Errorf("Touch expired = %v, want ErrNotFound", err)
	}

	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != live.ID {
		t.Errorf("List returned %d sessions, want only the live one", len(sessions))
	}

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if len(store.sessions) != 1 {
		t.Errorf("after Cleanup store holds %d records, want 1", len(store.sessions))
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Now()
	for i := 0; i < 3; i++ {
		sess := New("demo", "127.0.0.1:1", time.Minute)
		sess.CreatedAt = base.Add(time.Duration(2-i) * time.Second)
		if err := store.Put(ctx, sess); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i].CreatedAt.Before(sessions[i-1].CreatedAt) {
			t.Errorf("List not sorted by creation time at index %d", i)
		}
	}
}
