package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/credit-ledger/internal/storage/account"
	"github.com/carson-networks/credit-ledger/internal/storage/credit"
	"github.com/carson-networks/credit-ledger/internal/storage/journal"
)

// Tables groups the collections the ledger works with.
type Tables struct {
	Accounts account.IAccountTable
	Credits  credit.ICreditTable
	Journal  journal.IJournalTable
}

// NewTables binds the SQL tables to a database or transaction.
func NewTables(exec bob.Executor) Tables {
	return Tables{
		Accounts: account.NewTable(exec),
		Credits:  credit.NewTable(exec),
		Journal:  journal.NewTable(exec),
	}
}
