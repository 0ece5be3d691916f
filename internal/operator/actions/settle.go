package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/storage"
	"github.com/carson-networks/credit-ledger/internal/storage/journal"
)

// loadAccount reads the account for update. On writers without
// transactions an account with unresolved intents is reconciled first, so
// callers never build on a debt figure a failed operation left behind.
func loadAccount(ctx context.Context, writer *storage.Writer, id uuid.UUID) (*ledger.Account, error) {
	row, err := writer.Accounts.FindByID(ctx, id, true)
	if err != nil {
		return nil, ledger.WrapStorage("users.find", err)
	}
	if row == nil {
		return nil, nil
	}
	acc := row.ToLedger()

	if writer.Transactional() {
		return acc, nil
	}

	pending, err := writer.Journal.ListPending(ctx, id)
	if err != nil {
		return nil, ledger.WrapStorage("debt_intents.list_pending", err)
	}
	if len(pending) == 0 {
		return acc, nil
	}
	if _, err := reconcile(ctx, writer, acc); err != nil {
		return nil, err
	}
	if err := resolveIntents(ctx, writer, pending...); err != nil {
		return nil, err
	}
	return acc, nil
}

// reconcile recomputes the account's debt from its entries and stores it
// when it differs from the cached value. acc is updated in place and the
// drift (cached minus recomputed) is returned.
func reconcile(ctx context.Context, writer *storage.Writer, acc *ledger.Account) (decimal.Decimal, error) {
	rows, err := writer.Credits.ListByUserID(ctx, acc.ID)
	if err != nil {
		return decimal.Zero, ledger.WrapStorage("credits.list", err)
	}
	entries := make([]*ledger.CreditEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.ToLedger()
	}

	expected := ledger.OutstandingDebt(entries)
	drift := acc.CurrentDebt.Sub(expected)
	if drift.IsZero() {
		return drift, nil
	}

	if err := writer.Accounts.UpdateCurrentDebt(ctx, acc.ID, expected); err != nil {
		return decimal.Zero, ledger.WrapStorage("users.update_current_debt", err)
	}
	acc.CurrentDebt = expected
	return drift, nil
}

// recordIntent announces a debt change before it is written. Transactional
// writers need no journal and get a nil intent.
func recordIntent(ctx context.Context, writer *storage.Writer, kind journal.Kind, accountID, creditID uuid.UUID, delta decimal.Decimal) (*journal.Intent, error) {
	if writer.Transactional() {
		return nil, nil
	}
	intent, err := writer.Journal.Record(ctx, &journal.IntentCreate{
		AccountID: accountID,
		CreditID:  creditID,
		Kind:      kind,
		Delta:     delta,
	})
	if err != nil {
		return nil, ledger.WrapStorage("debt_intents.record", err)
	}
	return intent, nil
}

func resolveIntents(ctx context.Context, writer *storage.Writer, intents ...*journal.Intent) error {
	ids := make([]uuid.UUID, 0, len(intents))
	for _, intent := range intents {
		if intent != nil {
			ids = append(ids, intent.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if err := writer.Journal.Resolve(ctx, ids, time.Now().UTC()); err != nil {
		return ledger.WrapStorage("debt_intents.resolve", err)
	}
	return nil
}
