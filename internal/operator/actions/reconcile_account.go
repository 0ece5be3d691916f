package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/storage"
)

// ReconcileAccount recomputes an account's cached debt from its entries and
// clears its journal.
type ReconcileAccount struct {
	AccountID uuid.UUID

	Result *ledger.Account
	// Drift is the cached debt minus the recomputed one before the fix.
	Drift decimal.Decimal
}

func (r *ReconcileAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	row, err := writer.Accounts.FindByID(ctx, r.AccountID, true)
	if err != nil {
		return ledger.WrapStorage("users.find", err)
	}
	if row == nil {
		return ledger.ErrAccountNotFound
	}
	acc := row.ToLedger()

	drift, err := reconcile(ctx, writer, acc)
	if err != nil {
		return err
	}

	pending, err := writer.Journal.ListPending(ctx, acc.ID)
	if err != nil {
		return ledger.WrapStorage("debt_intents.list_pending", err)
	}
	if err := resolveIntents(ctx, writer, pending...); err != nil {
		return err
	}

	r.Result = acc
	r.Drift = drift
	return nil
}
