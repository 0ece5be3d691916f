package memory

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/storage/account"
)

// Accounts is the in-memory users collection.
type Accounts struct {
	store *Store
}

var _ account.IAccountTable = (*Accounts)(nil)

// FindByID returns a copy of the account, or nil if it does not exist.
// forUpdate has no effect; the store has no row locks.
func (a *Accounts) FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	row, ok := a.store.accounts[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (a *Accounts) Insert(ctx context.Context, create *account.AccountCreate) (*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	row := account.Account{
		ID:          id,
		Name:        create.Name,
		Email:       create.Email,
		Phone:       create.Phone,
		CreditLimit: create.CreditLimit,
		CurrentDebt: decimal.Zero,
		CreatedAt:   time.Now().UTC(),
	}

	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	a.store.accounts[id] = row
	a.store.accountOrder = append(a.store.accountOrder, id)
	return &row, nil
}

// List mirrors the SQL table: ordered by name then id, fetching one row
// past the limit.
func (a *Accounts) List(ctx context.Context, filter *account.AccountFilter) ([]*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.store.mu.Lock()
	rows := make([]*account.Account, 0, len(a.store.accountOrder))
	for _, id := range a.store.accountOrder {
		row := a.store.accounts[id]
		rows = append(rows, &row)
	}
	a.store.mu.Unlock()

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})

	if filter == nil {
		return rows, nil
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(rows) {
			return []*account.Account{}, nil
		}
		rows = rows[filter.Offset:]
	}
	if filter.Limit > 0 && len(rows) > filter.Limit+1 {
		rows = rows[:filter.Limit+1]
	}
	return rows, nil
}

func (a *Accounts) UpdateCurrentDebt(ctx context.Context, id uuid.UUID, debt decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	row, ok := a.store.accounts[id]
	if !ok {
		return sql.ErrNoRows
	}
	row.CurrentDebt = debt
	a.store.accounts[id] = row
	return nil
}
