package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitit/internal/models"
	"github.com/mmynk/splitit/internal/storage"
)

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "splitit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("Journal mode is WAL", func(t *testing.T) {
		var mode string
		if err := store.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("Failed to read journal mode: %v", err)
		}
		if mode != "wal" {
			t.Errorf("Journal mode: got %s, want wal", mode)
		}
	})

	t.Run("Get returns ErrNotFound for missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Set then Get", func(t *testing.T) {
		if err := store.Set(ctx, "k1", []byte("first")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := store.Get(ctx, "k1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "first" {
			t.Errorf("Value mismatch: got %s, want first", got)
		}
	})

	t.Run("Set replaces existing value", func(t *testing.T) {
		if err := store.Set(ctx, "k1", []byte("second")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := store.Get(ctx, "k1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "second" {
			t.Errorf("Value mismatch: got %s, want second", got)
		}
	})

	t.Run("Delete removes keys and ignores missing ones", func(t *testing.T) {
		if err := store.Set(ctx, "k2", []byte("x")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := store.Delete(ctx, "k1", "k2", "never-set"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		for _, k := range []string{"k1", "k2"} {
			if _, err := store.Get(ctx, k); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("Expected %s to be deleted, got %v", k, err)
			}
		}
	})
}

func TestSQLiteStore_RepositoryPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "splitit.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	repo := storage.NewRepository(store, nil)

	group := models.Group{
		ID:   "g1",
		Name: "Flatmates",
		Participants: []models.Participant{
			{ID: "p1", Name: "Asha"},
			{ID: "p2", Name: "Ben"},
		},
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}
	expense := models.Expense{
		ID:           "e1",
		GroupID:      "g1",
		PaidBy:       "p1",
		Amount:       decimal.RequireFromString("42.50"),
		Description:  "Groceries",
		SplitEqually: true,
		CreatedAt:    time.Unix(1700000100, 0).UTC(),
	}
	group.Expenses = []models.Expense{expense}
	repo.AddGroup(ctx, group)
	repo.AddExpense(ctx, expense)

	if err := repo.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen runs migrations again on an existing schema
	store, err = New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer store.Close()
	repo = storage.NewRepository(store, nil)

	got, ok := repo.Group(ctx, "g1")
	if !ok {
		t.Fatal("Expected group to survive reopen")
	}
	if got.Name != "Flatmates" || len(got.Participants) != 2 || len(got.Expenses) != 1 {
		t.Errorf("Group mismatch: %+v", got)
	}
	if !got.Expenses[0].Amount.Equal(decimal.RequireFromString("42.5")) {
		t.Errorf("Amount mismatch: got %s", got.Expenses[0].Amount)
	}
	if !got.CreatedAt.Equal(group.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, group.CreatedAt)
	}

	expenses := repo.ExpensesByGroup(ctx, "g1")
	if len(expenses) != 1 || expenses[0].Description != "Groceries" {
		t.Errorf("Expenses mismatch: %+v", expenses)
	}
}
