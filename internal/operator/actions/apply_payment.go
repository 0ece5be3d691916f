package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/storage"
	"github.com/carson-networks/credit-ledger/internal/storage/journal"
)

// ApplyPayment books a payment against a credit entry and lowers the
// owning account's debt by what was actually applied.
type ApplyPayment struct {
	CreditID uuid.UUID
	Amount   decimal.Decimal

	Result  *ledger.CreditEntry
	Payment ledger.Payment
	Account *ledger.Account
}

func (p *ApplyPayment) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := ledger.ValidatePaymentAmount(p.Amount); err != nil {
		return err
	}

	row, err := writer.Credits.FindByID(ctx, p.CreditID, true)
	if err != nil {
		return ledger.WrapStorage("credits.find", err)
	}
	if row == nil {
		return ledger.ErrCreditEntryNotFound
	}
	entry := row.ToLedger()

	payment, err := entry.ApplyPayment(p.Amount)
	if err != nil {
		return err
	}
	p.Payment = payment

	if payment.Applied.IsZero() {
		p.Result = entry
		return nil
	}

	// settle any earlier failure on this account before adding to it
	if _, err := loadAccount(ctx, writer, entry.UserID); err != nil {
		return err
	}

	intent, err := recordIntent(ctx, writer, journal.KindApplyPayment, entry.UserID, entry.ID, payment.Applied.Neg())
	if err != nil {
		return err
	}

	if err := writer.Credits.UpdatePayment(ctx, entry.ID, payment.NewPaid, string(payment.Status)); err != nil {
		return ledger.WrapStorage("credits.update_payment", err)
	}
	entry.PaidAmount = payment.NewPaid
	entry.Status = payment.Status
	p.Result = entry

	// read the latest stored debt right before writing it back
	accRow, err := writer.Accounts.FindByID(ctx, entry.UserID, true)
	if err != nil {
		return ledger.WrapStorage("users.find", err)
	}
	if accRow == nil {
		return ledger.ErrOwningAccountNotFound
	}
	acc := accRow.ToLedger()

	newDebt := acc.CurrentDebt.Sub(payment.Applied)
	if err := writer.Accounts.UpdateCurrentDebt(ctx, acc.ID, newDebt); err != nil {
		return ledger.WrapStorage("users.update_current_debt", err)
	}
	acc.CurrentDebt = newDebt
	p.Account = acc

	return resolveIntents(ctx, writer, intent)
}
