package account

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/ledger"
)

// Account represents a row of the users table.
type Account struct {
	ID          uuid.UUID       `db:"id"`
	Name        string          `db:"name"`
	Email       string          `db:"email"`
	Phone       string          `db:"phone"`
	CreditLimit decimal.Decimal `db:"credit_limit"`
	CurrentDebt decimal.Decimal `db:"current_debt"`
	CreatedAt   time.Time       `db:"created_at"`
}

// AccountCreate is the input for creating a new account.
type AccountCreate struct {
	Name        string
	Email       string
	Phone       string
	CreditLimit decimal.Decimal
}

// AccountFilter specifies filters for listing accounts.
type AccountFilter struct {
	Limit  int
	Offset int
}

// IAccountTable defines the interface for account storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
type IAccountTable interface {
	FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Account, error)
	Insert(ctx context.Context, create *AccountCreate) (*Account, error)
	List(ctx context.Context, filter *AccountFilter) ([]*Account, error)
	UpdateCurrentDebt(ctx context.Context, id uuid.UUID, debt decimal.Decimal) error
}

// ToLedger converts the row into the domain account.
func (a *Account) ToLedger() *ledger.Account {
	return &ledger.Account{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Phone:       a.Phone,
		CreditLimit: a.CreditLimit,
		CurrentDebt: a.CurrentDebt,
		CreatedAt:   a.CreatedAt,
	}
}
