// Package app orchestrates ledger calls, the local snapshot and the
// notifications shown to the user.
package app

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/state"
)

// User-facing messages.
const (
	MsgConnectionError = "Error connecting to server"
	MsgSaved           = "Transaction saved successfully"
	MsgSaveFailed      = "Failed to save"
	MsgDeleted         = "Transaction deleted"
	MsgDeleteFailed    = "Failed to delete"

	DeletePrompt = "Are you sure you want to delete this transaction?"
)

// ErrNotConfirmed is returned when the user declines a delete.
var ErrNotConfirmed = errors.New("delete not confirmed")

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message for the user.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Ledger is the remote collection the controller reads and mutates.
type Ledger interface {
	List(ctx context.Context) ([]core.Transaction, error)
	Create(ctx context.Context, n core.NewTransaction) (core.Transaction, error)
	Delete(ctx context.Context, id int64) error
}

// Notifier receives the side effects of one user action.
type Notifier interface {
	Notify(Notification)
	CloseForm()
}

// Confirmer asks the user before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Controller runs List, Create and Delete against the ledger and keeps the
// store in sync. Local state only changes after a successful List.
type Controller struct {
	ledger Ledger
	store  *state.Store
	logger *log.Logger
}

func NewController(l Ledger, store *state.Store, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Discard()
	}
	return &Controller{
		ledger: l,
		store:  store,
		logger: logger.WithComponent(log.ComponentApp),
	}
}

func (c *Controller) Store() *state.Store { return c.store }

// Refresh fetches the full list and replaces the snapshot. On failure the
// previous snapshot stays in place.
func (c *Controller) Refresh(ctx context.Context, n Notifier) ([]core.Transaction, error) {
	txs, err := c.ledger.List(ctx)
	if err != nil {
		log.LogError(ctx, "Refresh failed", err, log.ComponentApp, log.OpList, nil)
		n.Notify(Notification{Level: LevelError, Message: MsgConnectionError})
		return nil, fmt.Errorf("refresh: %w", err)
	}
	version := c.store.Replace(txs)
	c.logger.DebugContext(ctx, "Snapshot replaced", log.FieldCount, len(txs), log.FieldVersion, version)
	snap, _ := c.store.Snapshot()
	return snap, nil
}

// Create submits nt, closes the form and resyncs with exactly one List.
// On failure the form stays open.
func (c *Controller) Create(ctx context.Context, n Notifier, nt core.NewTransaction) (core.Transaction, error) {
	if err := nt.Validate(); err != nil {
		n.Notify(Notification{Level: LevelError, Message: MsgSaveFailed})
		return core.Transaction{}, fmt.Errorf("create: %w", err)
	}

	created, err := c.ledger.Create(ctx, nt)
	if err != nil {
		log.LogError(ctx, "Create failed", err, log.ComponentApp, log.OpCreate,
			log.NewFields().WithTransaction(0, nt.Type.String(), nt.Description, nt.Amount.String(), nt.Category))
		n.Notify(Notification{Level: LevelError, Message: MsgSaveFailed})
		return core.Transaction{}, fmt.Errorf("create: %w", err)
	}

	n.CloseForm()
	_, _ = c.Refresh(ctx, n)
	n.Notify(Notification{Level: LevelSuccess, Message: MsgSaved})
	return created, nil
}

// Delete asks for confirmation, deletes id and resyncs. A declined
// confirmation sends nothing.
func (c *Controller) Delete(ctx context.Context, n Notifier, confirm Confirmer, id int64) error {
	if confirm == nil || !confirm.Confirm(ctx, DeletePrompt) {
		c.logger.DebugContext(ctx, "Delete not confirmed", log.FieldTxID, id)
		return ErrNotConfirmed
	}

	if err := c.ledger.Delete(ctx, id); err != nil {
		log.LogError(ctx, "Delete failed", err, log.ComponentApp, log.OpDelete,
			log.LogFields{log.FieldTxID: id})
		msg := MsgDeleteFailed
		var reqErr *ledger.RequestError
		if errors.As(err, &reqErr) && reqErr.Status == 0 {
			msg = MsgConnectionError
		}
		n.Notify(Notification{Level: LevelError, Message: msg})
		return fmt.Errorf("delete %d: %w", id, err)
	}

	n.Notify(Notification{Level: LevelSuccess, Message: MsgDeleted})
	_, _ = c.Refresh(ctx, n)
	return nil
}
