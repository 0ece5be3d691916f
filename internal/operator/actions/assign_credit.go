package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/storage"
	"github.com/carson-networks/credit-ledger/internal/storage/credit"
	"github.com/carson-networks/credit-ledger/internal/storage/journal"
)

// AssignCredit extends credit to an account if its limit allows it.
type AssignCredit struct {
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Description string
	Now         time.Time

	Result  *ledger.CreditEntry
	Account *ledger.Account
}

func (a *AssignCredit) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := ledger.ValidateCreditAmount(a.Amount); err != nil {
		return err
	}

	acc, err := loadAccount(ctx, writer, a.AccountID)
	if err != nil {
		return err
	}
	if acc == nil {
		return ledger.ErrAccountNotFound
	}

	projectedDebt, err := acc.CheckCapacity(a.Amount)
	if err != nil {
		return err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	now := a.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	entry := ledger.NewCreditEntry(id, acc.ID, a.Amount, a.Description, now)

	intent, err := recordIntent(ctx, writer, journal.KindAssignCredit, acc.ID, entry.ID, a.Amount)
	if err != nil {
		return err
	}

	if err := writer.Credits.Insert(ctx, credit.FromLedger(entry)); err != nil {
		return ledger.WrapStorage("credits.insert", err)
	}

	if err := writer.Accounts.UpdateCurrentDebt(ctx, acc.ID, projectedDebt); err != nil {
		return ledger.WrapStorage("users.update_current_debt", err)
	}
	acc.CurrentDebt = projectedDebt

	if err := resolveIntents(ctx, writer, intent); err != nil {
		return err
	}

	a.Result = entry
	a.Account = acc
	return nil
}
