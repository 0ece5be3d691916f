package credit

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/ledger"
)

// Credit represents a row of the credits table.
type Credit struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"user_id"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	Date        time.Time       `db:"date"`
	Month       string          `db:"month"`
	PaidAmount  decimal.Decimal `db:"paid_amount"`
	Status      string          `db:"status"`
}

// ICreditTable defines the interface for credit entry storage operations.
type ICreditTable interface {
	FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Credit, error)
	Insert(ctx context.Context, credit *Credit) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*Credit, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, paidAmount decimal.Decimal, status string) error
	UpdateDescription(ctx context.Context, id uuid.UUID, description string) error
}

// FromLedger converts a domain entry into a row.
func FromLedger(entry *ledger.CreditEntry) *Credit {
	return &Credit{
		ID:          entry.ID,
		UserID:      entry.UserID,
		Amount:      entry.Amount,
		Description: entry.Description,
		Date:        entry.Date,
		Month:       entry.Month,
		PaidAmount:  entry.PaidAmount,
		Status:      string(entry.Status),
	}
}

// ToLedger converts the row into the domain entry. The stored status is
// ignored in favour of the one derived from the amounts.
func (c *Credit) ToLedger() *ledger.CreditEntry {
	return &ledger.CreditEntry{
		ID:          c.ID,
		UserID:      c.UserID,
		Amount:      c.Amount,
		Description: c.Description,
		Date:        c.Date,
		Month:       c.Month,
		PaidAmount:  c.PaidAmount,
		Status:      ledger.DeriveStatus(c.Amount, c.PaidAmount),
	}
}
