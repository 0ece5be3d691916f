package journal

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Kind names the operation an intent was recorded for.
type Kind string

const (
	KindAssignCredit Kind = "assign_credit"
	KindApplyPayment Kind = "apply_payment"
)

// Intent is a debt change announced before the writes that carry it out.
// An intent that is never resolved marks the account's cached debt as
// suspect.
type Intent struct {
	ID         uuid.UUID       `db:"id"`
	AccountID  uuid.UUID       `db:"account_id"`
	CreditID   uuid.UUID       `db:"credit_id"`
	Kind       string          `db:"kind"`
	Delta      decimal.Decimal `db:"delta"`
	CreatedAt  time.Time       `db:"created_at"`
	ResolvedAt *time.Time      `db:"resolved_at"`
}

// IntentCreate is the input for recording an intent.
type IntentCreate struct {
	AccountID uuid.UUID
	CreditID  uuid.UUID
	Kind      Kind
	Delta     decimal.Decimal
}

// IJournalTable defines the interface for the debt intent journal.
type IJournalTable interface {
	Record(ctx context.Context, create *IntentCreate) (*Intent, error)
	ListPending(ctx context.Context, accountID uuid.UUID) ([]*Intent, error)
	Resolve(ctx context.Context, ids []uuid.UUID, at time.Time) error
}
