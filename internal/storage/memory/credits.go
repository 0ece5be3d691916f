package memory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/storage/credit"
)

var errDuplicateID = errors.New("memory: duplicate id")

// Credits is the in-memory credits collection.
type Credits struct {
	store *Store
}

var _ credit.ICreditTable = (*Credits)(nil)

func (c *Credits) FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*credit.Credit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	row, ok := c.store.credits[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (c *Credits) Insert(ctx context.Context, row *credit.Credit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if _, exists := c.store.credits[row.ID]; exists {
		return errDuplicateID
	}
	c.store.credits[row.ID] = *row
	c.store.creditOrder = append(c.store.creditOrder, row.ID)
	return nil
}

// ListByUserID returns the account's entries in insertion order.
func (c *Credits) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*credit.Credit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	result := make([]*credit.Credit, 0)
	for _, id := range c.store.creditOrder {
		row := c.store.credits[id]
		if row.UserID == userID {
			result = append(result, &row)
		}
	}
	return result, nil
}

func (c *Credits) UpdatePayment(ctx context.Context, id uuid.UUID, paidAmount decimal.Decimal, status string) error {
	return c.update(ctx, id, func(row *credit.Credit) {
		row.PaidAmount = paidAmount
		row.Status = status
	})
}

func (c *Credits) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	return c.update(ctx, id, func(row *credit.Credit) {
		row.Description = description
	})
}

func (c *Credits) update(ctx context.Context, id uuid.UUID, apply func(*credit.Credit)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	row, ok := c.store.credits[id]
	if !ok {
		return sql.ErrNoRows
	}
	apply(&row)
	c.store.credits[id] = row
	return nil
}
