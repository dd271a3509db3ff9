// Package worker runs the ledger engine behind a single-writer command
// loop. One goroutine owns the engine and processes commands one at a
// time, so no two ledger mutations ever race against each other.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/service"
	"github.com/splitledger/splitledger/pkg/metrics"
)

// ErrStopped is returned for commands submitted after the worker's
// context was canceled.
var ErrStopped = errors.New("ledger worker stopped")

// command is one engine invocation together with its reply path.
type command interface {
	name() string
	run(ctx context.Context, ledger *service.Ledger) error
}

type recordExpense struct {
	groupID, payerID     string
	amount               float64
	description, dueDate string
	reply                chan error
}

func (recordExpense) name() string { return "record_expense" }

func (c recordExpense) run(ctx context.Context, ledger *service.Ledger) error {
	err := ledger.RecordExpense(ctx, c.groupID, c.payerID, c.amount, c.description, c.dueDate)
	c.reply <- err
	return err
}

type confirmSettlement struct {
	balanceID, actorID string
	reply              chan confirmReply
}

type confirmReply struct {
	outcome models.SettlementOutcome
	err     error
}

func (confirmSettlement) name() string { return "confirm_settlement" }

func (c confirmSettlement) run(ctx context.Context, ledger *service.Ledger) error {
	outcome, err := ledger.ConfirmSettlement(ctx, c.balanceID, c.actorID)
	if err == nil && outcome == models.SettlementCompleted {
		metrics.RecordSettlementCompleted()
	}
	c.reply <- confirmReply{outcome: outcome, err: err}
	return err
}

type listObligations struct {
	userID   string
	asDebtor bool
	reply    chan obligationsReply
}

type obligationsReply struct {
	views []models.BalanceView
	err   error
}

func (listObligations) name() string { return "list_obligations" }

func (c listObligations) run(ctx context.Context, ledger *service.Ledger) error {
	views, err := ledger.ListObligations(ctx, c.userID, c.asDebtor)
	c.reply <- obligationsReply{views: views, err: err}
	return err
}

type refreshNotifications struct {
	userID string
	reply  chan notificationsReply
}

type notificationsReply struct {
	notifications []models.Notification
	err           error
}

func (refreshNotifications) name() string { return "refresh_notifications" }

func (c refreshNotifications) run(ctx context.Context, ledger *service.Ledger) error {
	notifications, err := ledger.RefreshNotifications(ctx, c.userID)
	if err == nil {
		metrics.RecordNotificationsDelivered(len(notifications))
	}
	c.reply <- notificationsReply{notifications: notifications, err: err}
	return err
}

// Worker owns the ledger engine and serializes all access to it.
type Worker struct {
	ledger   *service.Ledger
	commands chan command
	done     chan struct{}
}

// New creates a Worker around the given engine. Run must be called
// before commands are submitted.
func New(ledger *service.Ledger) *Worker {
	return &Worker{
		ledger:   ledger,
		commands: make(chan command),
		done:     make(chan struct{}),
	}
}

// Run processes commands until ctx is canceled. Each command runs to
// completion before the next one is accepted.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)
	slog.Info("ledger worker started")

	for {
		select {
		case <-ctx.Done():
			slog.Info("ledger worker stopping")
			return
		case cmd := <-w.commands:
			start := time.Now()
			err := cmd.run(ctx, w.ledger)

			status := "ok"
			if err != nil {
				status = "error"
				slog.Error("command failed", "command", cmd.name(), "error", err)
			}
			metrics.RecordCommand(cmd.name(), status, time.Since(start))
		}
	}
}

// Done is closed once the worker's loop has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// submit hands a command to the loop, failing once the worker stopped.
func (w *Worker) submit(cmd command) error {
	select {
	case w.commands <- cmd:
		return nil
	case <-w.done:
		return ErrStopped
	}
}

// RecordExpense splits and nets an expense through the worker.
func (w *Worker) RecordExpense(groupID, payerID string, amount float64, description, dueDate string) error {
	cmd := recordExpense{
		groupID: groupID, payerID: payerID, amount: amount,
		description: description, dueDate: dueDate,
		reply: make(chan error, 1),
	}
	if err := w.submit(cmd); err != nil {
		return err
	}
	return <-cmd.reply
}

// ConfirmSettlement records one party's confirmation through the worker.
func (w *Worker) ConfirmSettlement(balanceID, actorID string) (models.SettlementOutcome, error) {
	cmd := confirmSettlement{
		balanceID: balanceID, actorID: actorID,
		reply: make(chan confirmReply, 1),
	}
	if err := w.submit(cmd); err != nil {
		return 0, err
	}
	r := <-cmd.reply
	return r.outcome, r.err
}

// ListObligations lists a user's debts or credits through the worker.
func (w *Worker) ListObligations(userID string, asDebtor bool) ([]models.BalanceView, error) {
	cmd := listObligations{
		userID: userID, asDebtor: asDebtor,
		reply: make(chan obligationsReply, 1),
	}
	if err := w.submit(cmd); err != nil {
		return nil, err
	}
	r := <-cmd.reply
	return r.views, r.err
}

// RefreshNotifications sweeps and delivers a user's overdue
// notifications through the worker.
func (w *Worker) RefreshNotifications(userID string) ([]models.Notification, error) {
	cmd := refreshNotifications{
		userID: userID,
		reply:  make(chan notificationsReply, 1),
	}
	if err := w.submit(cmd); err != nil {
		return nil, err
	}
	r := <-cmd.reply
	return r.notifications, r.err
}
