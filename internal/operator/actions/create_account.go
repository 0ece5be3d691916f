package actions

import (
	"context"
	"strings"

	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/storage"
	"github.com/carson-networks/credit-ledger/internal/storage/account"
)

type CreateAccount struct {
	Create ledger.AccountCreate

	Result *ledger.Account
}

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := c.Create.Validate(); err != nil {
		return err
	}

	row, err := writer.Accounts.Insert(ctx, &account.AccountCreate{
		Name:        strings.TrimSpace(c.Create.Name),
		Email:       c.Create.Email,
		Phone:       c.Create.Phone,
		CreditLimit: c.Create.CreditLimit,
	})
	if err != nil {
		return ledger.WrapStorage("users.insert", err)
	}

	c.Result = row.ToLedger()
	return nil
}
