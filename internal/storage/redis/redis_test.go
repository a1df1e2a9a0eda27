package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/mmynk/splitit/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client), mr
}

func TestStoreSetGetDelete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, storage.KeyGroups); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, storage.KeyGroups, []byte(`[]`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := store.Get(ctx, storage.KeyGroups)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(val) != "[]" {
		t.Fatalf("expected [], got %s", val)
	}

	if !mr.Exists(DefaultPrefix + storage.KeyGroups) {
		t.Fatalf("expected key to be stored with prefix %q", DefaultPrefix)
	}

	if err := store.Delete(ctx, storage.KeyGroups, storage.KeyExpenses); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if mr.Exists(DefaultPrefix + storage.KeyGroups) {
		t.Fatal("expected key to be deleted")
	}
}

func TestStoreGetError(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), storage.KeyGroups)
	if err == nil || errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := Connect(context.Background(), "redis://"+mr.Addr(), time.Second)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer store.Close()

	if err := store.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
}

func TestConnectInvalidURL(t *testing.T) {
	if _, err := Connect(context.Background(), "not-a-url", time.Second); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}
