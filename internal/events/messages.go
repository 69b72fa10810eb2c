// Package events announces ledger mutations to other services.
package events

import (
	"context"
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

type Kind string

const (
	TransactionCreated Kind = "transaction.created"
	TransactionDeleted Kind = "transaction.deleted"
)

// Event is the message body published for every ledger mutation. Deletes
// carry only the id.
type Event struct {
	Kind        Kind              `json:"kind"`
	ID          int64             `json:"id"`
	Transaction *core.Transaction `json:"transaction,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

func NewCreated(t core.Transaction) Event {
	return Event{Kind: TransactionCreated, ID: t.ID, Transaction: &t, Timestamp: time.Now().UTC()}
}

func NewDeleted(id int64) Event {
	return Event{Kind: TransactionDeleted, ID: id, Timestamp: time.Now().UTC()}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Publisher sends events somewhere. Publishing is best effort: callers log
// failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event; used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
