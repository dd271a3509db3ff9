package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func seedUser(t *testing.T, store *SQLiteStore, id, username string) {
	t.Helper()
	err := store.CreateUser(context.Background(), &models.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
}

func seedGroup(t *testing.T, store *SQLiteStore, id, name string, members ...string) {
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

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "u1", "ivan")
	seedUser(t, store, "u2", "maria")
	seedUser(t, store, "u3", "georgi")
	seedGroup(t, store, "g1", "trip", "u1", "u2", "u3")

	t.Run("GetUser round-trips loyalty fields", func(t *testing.T) {
		if err := store.CreateUser(ctx, &models.User{
			ID: "u19", Username: "streak", Email: "streak@example.com",
			OnTimePayments: 19,
		}); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		user, err := store.GetUser(ctx, "u19")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if user == nil {
			t.Fatal("expected user, got nil")
		}
		if user.OnTimePayments != 19 || user.LoyalPayer {
			t.Errorf("got on_time=%d loyal=%v, want 19/false", user.OnTimePayments, user.LoyalPayer)
		}
	})

	t.Run("GetUser returns nil for unknown id", func(t *testing.T) {
		user, err := store.GetUser(ctx, "nobody")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if user != nil {
			t.Errorf("expected nil user, got %+v", user)
		}
	})

	t.Run("GroupMembers returns all members", func(t *testing.T) {
		var members []string
		err := store.InTx(ctx, func(tx storage.Tx) error {
			var err error
			members, err = tx.GroupMembers(ctx, "g1")
			return err
		})
		if err != nil {
			t.Fatalf("GroupMembers failed: %v", err)
		}
		if len(members) != 3 {
			t.Errorf("expected 3 members, got %d", len(members))
		}
	})

	t.Run("balance insert and find", func(t *testing.T) {
		err := store.InTx(ctx, func(tx storage.Tx) error {
			return tx.InsertBalance(ctx, &models.Balance{
				FromUserID: "u1", ToUserID: "u2", GroupID: "g1",
				Amount: 100, DueDate: "2030-01-01", Description: "balloons",
			})
		})
		if err != nil {
			t.Fatalf("InsertBalance failed: %v", err)
		}

		var found, reverse *models.Balance
		err = store.InTx(ctx, func(tx storage.Tx) error {
			var err error
			if found, err = tx.FindUnsettledBalance(ctx, "u1", "u2", "g1"); err != nil {
				return err
			}
			reverse, err = tx.FindUnsettledBalance(ctx, "u2", "u1", "g1")
			return err
		})
		if err != nil {
			t.Fatalf("FindUnsettledBalance failed: %v", err)
		}
		if found == nil {
			t.Fatal("expected balance, got nil")
		}
		if found.ID == "" || found.CreatedAt == 0 {
			t.Error("expected ID and CreatedAt to be populated")
		}
		if found.Amount != 100 || found.DueDate != "2030-01-01" || found.Description != "balloons" {
			t.Errorf("unexpected balance fields: %+v", found)
		}
		if reverse != nil {
			t.Errorf("reverse lookup should be nil, got %+v", reverse)
		}
	})

	t.Run("find prefers the newest row for a pair", func(t *testing.T) {
		err := store.InTx(ctx, func(tx storage.Tx) error {
			old := &models.Balance{
				FromUserID: "u1", ToUserID: "u3", GroupID: "g1",
				Amount: 40, ConfirmedByDebtor: true,
				CreatedAt: time.Now().Unix() - 10,
			}
			if err := tx.InsertBalance(ctx, old); err != nil {
				return err
			}
			return tx.InsertBalance(ctx, &models.Balance{
				FromUserID: "u1", ToUserID: "u3", GroupID: "g1",
				Amount: 7,
			})
		})
		if err != nil {
			t.Fatalf("InsertBalance failed: %v", err)
		}

		var found *models.Balance
		err = store.InTx(ctx, func(tx storage.Tx) error {
			var err error
			found, err = tx.FindUnsettledBalance(ctx, "u1", "u3", "g1")
			return err
		})
		if err != nil {
			t.Fatalf("FindUnsettledBalance failed: %v", err)
		}
		if found.Amount != 7 {
			t.Errorf("expected the fresh balance (7), got %v", found.Amount)
		}
	})

	t.Run("ListObligations joins names and orders by due date", func(t *testing.T) {
		err := store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.InsertBalance(ctx, &models.Balance{
				FromUserID: "u2", ToUserID: "u1", GroupID: "g1",
				Amount: 30, DueDate: "2031-05-05", Description: "late one",
			}); err != nil {
				return err
			}
			return tx.InsertBalance(ctx, &models.Balance{
				FromUserID: "u2", ToUserID: "u3", GroupID: "g1",
				Amount: 20, DueDate: "2030-02-02", Description: "early one",
			})
		})
		if err != nil {
			t.Fatalf("InsertBalance failed: %v", err)
		}

		var views []models.BalanceView
		err = store.InTx(ctx, func(tx storage.Tx) error {
			var err error
			views, err = tx.ListObligations(ctx, "u2", true)
			return err
		})
		if err != nil {
			t.Fatalf("ListObligations failed: %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("expected 2 obligations, got %d", len(views))
		}
		if views[0].DueDate != "2030-02-02" || views[1].DueDate != "2031-05-05" {
			t.Errorf("obligations not ordered by due date: %+v", views)
		}
		if views[0].Counterparty != "georgi" || views[0].GroupName != "trip" {
			t.Errorf("join mismatch: %+v", views[0])
		}

		var asCreditor []models.BalanceView
		err = store.InTx(ctx, func(tx storage.Tx) error {
			var err error
			asCreditor, err = tx.ListObligations(ctx, "u3", false)
			return err
		})
		if err != nil {
			t.Fatalf("ListObligations failed: %v", err)
		}
		if len(asCreditor) < 1 {
			t.Fatal("expected creditor-side obligations")
		}
		if asCreditor[0].Counterparty != "maria" {
			t.Errorf("creditor view counterparty = %s, want maria", asCreditor[0].Counterparty)
		}
	})

	t.Run("overdue listing and count", func(t *testing.T) {
		err := store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.InsertBalance(ctx, &models.Balance{
				FromUserID: "u3", ToUserID: "u1", GroupID: "g1",
				Amount: 55.5, DueDate: "2020-01-01",
			}); err != nil {
				return err
			}
			// No due date: never overdue.
			return tx.InsertBalance(ctx, &models.Balance{
				FromUserID: "u3", ToUserID: "u2", GroupID: "g1",
				Amount: 10,
			})
		})
		if err != nil {
			t.Fatalf("InsertBalance failed: %v", err)
		}

		today := time.Now().Format("2006-01-02")
		var overdue []models.Balance
		err = store.InTx(ctx, func(tx storage.Tx) error {
			var err error
			overdue, err = tx.ListOverdueBalances(ctx, "u3", today)
			return err
		})
		if err != nil {
			t.Fatalf("ListOverdueBalances failed: %v", err)
		}
		if len(overdue) != 1 {
			t.Fatalf("expected 1 overdue balance, got %d", len(overdue))
		}
		if overdue[0].Amount != 55.5 {
			t.Errorf("overdue amount = %v, want 55.5", overdue[0].Amount)
		}

		count, err := store.CountOverdueBalances(ctx, today)
		if err != nil {
			t.Fatalf("CountOverdueBalances failed: %v", err)
		}
		if count < 1 {
			t.Errorf("expected at least 1 overdue balance, got %d", count)
		}
	})

	t.Run("notifications lifecycle", func(t *testing.T) {
		err := store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.InsertNotification(ctx, "u1", "first"); err != nil {
				return err
			}
			return tx.InsertNotification(ctx, "u1", "second")
		})
		if err != nil {
			t.Fatalf("InsertNotification failed: %v", err)
		}

		var listed []models.Notification
		err = store.InTx(ctx, func(tx storage.Tx) error {
			var err error
			listed, err = tx.ListUnshownNotifications(ctx, "u1")
			if err != nil {
				return err
			}
			for _, n := range listed {
				if err := tx.MarkNotificationShown(ctx, n.ID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("notifications tx failed: %v", err)
		}
		if len(listed) != 2 {
			t.Fatalf("expected 2 notifications, got %d", len(listed))
		}
		if listed[0].Message != "first" || listed[1].Message != "second" {
			t.Errorf("wrong delivery order: %q, %q", listed[0].Message, listed[1].Message)
		}

		err = store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.DeleteShownNotifications(ctx, "u1"); err != nil {
				return err
			}
			remaining, err := tx.ListUnshownNotifications(ctx, "u1")
			if err != nil {
				return err
			}
			if len(remaining) != 0 {
				t.Errorf("expected no notifications after GC, got %d", len(remaining))
			}
			return nil
		})
		if err != nil {
			t.Fatalf("GC tx failed: %v", err)
		}
	})

	t.Run("IncrementOnTimePayments returns the new count", func(t *testing.T) {
		var count int
		err := store.InTx(ctx, func(tx storage.Tx) error {
			var err error
			count, err = tx.IncrementOnTimePayments(ctx, "u19")
			return err
		})
		if err != nil {
			t.Fatalf("IncrementOnTimePayments failed: %v", err)
		}
		if count != 20 {
			t.Errorf("count = %d, want 20", count)
		}
	})

	t.Run("InTx rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.InsertBalance(ctx, &models.Balance{
				ID: "rollback-me", FromUserID: "u1", ToUserID: "u2", GroupID: "g1", Amount: 1,
			}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		err = store.InTx(ctx, func(tx storage.Tx) error {
			b, err := tx.GetBalance(ctx, "rollback-me")
			if err != nil {
				return err
			}
			if b != nil {
				t.Error("insert should have rolled back")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("GetBalance failed: %v", err)
		}
	})
}
