// Package events publishes ledger events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// ExpenseCreated is emitted after an expense and its splits are committed.
type ExpenseCreated struct {
	ExpenseID      string    `json:"expense_id"`
	GroupID        string    `json:"group_id,omitempty"`
	PaidBy         string    `json:"paid_by"`
	Amount         string    `json:"amount"`
	SplitType      string    `json:"split_type"`
	ParticipantIDs []string  `json:"participant_ids"`
	Timestamp      time.Time `json:"timestamp"`
}

// ToJSON converts the event to JSON bytes.
func (e *ExpenseCreated) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseCreatedFromJSON decodes an event published by PublishExpenseCreated.
func ExpenseCreatedFromJSON(data []byte) (*ExpenseCreated, error) {
	var e ExpenseCreated
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Publisher delivers ledger events.
type Publisher interface {
	PublishExpenseCreated(ctx context.Context, event *ExpenseCreated) error
	Close() error
}

// LogPublisher only logs events. It is used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) PublishExpenseCreated(ctx context.Context, event *ExpenseCreated) error {
	slog.DebugContext(ctx, "Expense created event",
		"expense_id", event.ExpenseID,
		"split_type", event.SplitType,
		"participants", len(event.ParticipantIDs),
	)
	return nil
}

func (LogPublisher) Close() error { return nil }
