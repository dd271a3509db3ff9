package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
)

// newTestLedger creates a Ledger over a fresh temp SQLite store.
func newTestLedger(t *testing.T) (*Ledger, *sqlite.SQLiteStore) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewLedger(store), store
}

func seedUser(t *testing.T, store *sqlite.SQLiteStore, id, username string, onTimePayments int) {
	t.Helper()
	err := store.CreateUser(context.Background(), &models.User{
		ID:             id,
		Username:       username,
		Email:          username + "@example.com",
		OnTimePayments: onTimePayments,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
}

func seedGroup(t *testing.T, store *sqlite.SQLiteStore, id, name string, members ...string) {
	t.Helper()
	err := store.CreateGroup(context.Background(), &models.Group{
		ID:      id,
		Name:    name,
		OwnerID: members[0],
		Members: members,
	})
	if err != nil {
		t.Fatalf("CreateGroup(%s) failed: %v", name, err)
	}
}

// mergeShare runs one netting merge inside its own transaction.
func mergeShare(t *testing.T, l *Ledger, from, to, group string, amount float64, dueDate, description string) {
	t.Helper()
	err := l.store.InTx(context.Background(), func(tx storage.Tx) error {
		return l.merge(context.Background(), tx, from, to, group, amount, dueDate, description)
	})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
}

// findBalance looks up the unsettled balance for a pair, or nil.
func findBalance(t *testing.T, l *Ledger, from, to, group string) *models.Balance {
	t.Helper()
	var found *models.Balance
	err := l.store.InTx(context.Background(), func(tx storage.Tx) error {
		var err error
		found, err = tx.FindUnsettledBalance(context.Background(), from, to, group)
		return err
	})
	if err != nil {
		t.Fatalf("FindUnsettledBalance failed: %v", err)
	}
	return found
}

func daysFromNow(n int) string {
	return time.Now().AddDate(0, 0, n).Format("2006-01-02")
}
