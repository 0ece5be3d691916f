package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/events"
	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/operator/actions"
	"github.com/carson-networks/credit-ledger/internal/storage"
	"github.com/carson-networks/credit-ledger/internal/storage/account"
)

const defaultAccountLimit = 20

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// AccountService handles account business logic.
type AccountService struct {
	storage   *storage.Storage
	processor Processor
	notifier  *notifier
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *storage.Storage, processor Processor, n *notifier) *AccountService {
	return &AccountService{
		storage:   store,
		processor: processor,
		notifier:  n,
	}
}

// CreateAccount opens an account with no debt.
func (s *AccountService) CreateAccount(ctx context.Context, create ledger.AccountCreate) (*ledger.Account, error) {
	action := &actions.CreateAccount{Create: create}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	acc := action.Result
	s.notifier.publish(ctx, events.Event{
		Type:        events.TypeAccountCreated,
		AccountID:   acc.ID,
		Amount:      &acc.CreditLimit,
		CurrentDebt: &acc.CurrentDebt,
	})
	return acc, nil
}

// GetAccount retrieves an account by ID. On storage without transactions an
// account with unresolved journal intents is reconciled before it is
// returned.
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	tables := s.storage.Read()

	row, err := tables.Accounts.FindByID(ctx, id, false)
	if err != nil {
		return nil, ledger.WrapStorage("users.find", err)
	}
	if row == nil {
		return nil, ledger.ErrAccountNotFound
	}
	if s.storage.Transactional() {
		return row.ToLedger(), nil
	}

	pending, err := tables.Journal.ListPending(ctx, id)
	if err != nil {
		return nil, ledger.WrapStorage("debt_intents.list_pending", err)
	}
	if len(pending) == 0 {
		return row.ToLedger(), nil
	}

	acc, _, err := s.ReconcileAccount(ctx, id)
	return acc, err
}

// ListAccounts returns a page of accounts using cursor pagination.
func (s *AccountService) ListAccounts(ctx context.Context, cursor *AccountCursor) ([]*ledger.Account, *AccountCursor, error) {
	limit := defaultAccountLimit
	offset := 0
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
	}

	filter := &account.AccountFilter{
		Limit:  limit,
		Offset: offset,
	}

	rows, err := s.storage.Read().Accounts.List(ctx, filter)
	if err != nil {
		return nil, nil, ledger.WrapStorage("users.list", err)
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *AccountCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	accounts := make([]*ledger.Account, len(rows))
	for i, row := range rows {
		accounts[i] = row.ToLedger()
	}

	return accounts, nextCursor, nil
}

// ReconcileAccount recomputes the account's debt from its credit entries.
// The returned drift is the cached debt minus the recomputed one.
func (s *AccountService) ReconcileAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, decimal.Decimal, error) {
	action := &actions.ReconcileAccount{AccountID: id}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, decimal.Zero, err
	}

	acc := action.Result
	if !action.Drift.IsZero() {
		s.notifier.log.WithField("accountID", acc.ID.String()).
			WithField("drift", action.Drift.String()).
			Info("Reconciled account debt")
	}
	s.notifier.publish(ctx, events.Event{
		Type:        events.TypeAccountReconciled,
		AccountID:   acc.ID,
		Amount:      &action.Drift,
		CurrentDebt: &acc.CurrentDebt,
	})
	return acc, action.Drift, nil
}
