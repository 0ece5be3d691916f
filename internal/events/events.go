package events

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeAccountCreated           Type = "account.created"
	TypeAccountReconciled        Type = "account.reconciled"
	TypeCreditAssigned           Type = "credit.assigned"
	TypePaymentApplied           Type = "credit.payment_applied"
	TypeCreditDescriptionUpdated Type = "credit.description_updated"
)

// Event describes a committed change to the ledger.
type Event struct {
	Type        Type             `json:"type"`
	AccountID   uuid.UUID        `json:"accountID"`
	CreditID    *uuid.UUID       `json:"creditID,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	PaidAmount  *decimal.Decimal `json:"paidAmount,omitempty"`
	Status      string           `json:"status,omitempty"`
	CurrentDebt *decimal.Decimal `json:"currentDebt,omitempty"`
	OccurredAt  time.Time        `json:"occurredAt"`
}

// Publisher delivers ledger events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
