package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/storage"
)

// UpdateDescription replaces an entry's description. Amounts, status and
// the account are left alone.
type UpdateDescription struct {
	CreditID    uuid.UUID
	Description string

	Result *ledger.CreditEntry
}

func (u *UpdateDescription) Perform(ctx context.Context, writer *storage.Writer) error {
	row, err := writer.Credits.FindByID(ctx, u.CreditID, true)
	if err != nil {
		return ledger.WrapStorage("credits.find", err)
	}
	if row == nil {
		return ledger.ErrCreditEntryNotFound
	}

	if err := writer.Credits.UpdateDescription(ctx, u.CreditID, u.Description); err != nil {
		return ledger.WrapStorage("credits.update_description", err)
	}

	entry := row.ToLedger()
	entry.Description = u.Description
	u.Result = entry
	return nil
}
