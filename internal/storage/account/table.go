package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

const tableName = "users"

var columns = []string{"id", "name", "email", "phone", "credit_limit", "current_debt", "created_at"}

// Table provides access to the users table.
type Table struct {
	exec bob.Executor
}

// Ensure Table implements IAccountTable at compile time.
var _ IAccountTable = (*Table)(nil)

// NewTable creates a Table on top of a database or transaction.
func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

func selectColumns() []any {
	cols := make([]any, len(columns))
	for i, c := range columns {
		cols[i] = psql.Quote(c)
	}
	return cols
}

// FindByID retrieves an account by primary key. A missing account is
// returned as nil without error. forUpdate locks the row for the rest of
// the enclosing transaction.
func (t *Table) FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Account, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(selectColumns()...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Account]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert creates a new account with no debt and returns it.
func (t *Table) Insert(ctx context.Context, create *AccountCreate) (*Account, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	row := &Account{
		ID:          id,
		Name:        create.Name,
		Email:       create.Email,
		Phone:       create.Phone,
		CreditLimit: create.CreditLimit,
		CurrentDebt: decimal.Zero,
		CreatedAt:   time.Now().UTC(),
	}

	query := psql.Insert(
		im.Into(tableName, columns...),
		im.Values(psql.Arg(row.ID, row.Name, row.Email, row.Phone, row.CreditLimit, row.CurrentDebt, row.CreatedAt)),
	)
	if _, err := query.Exec(ctx, t.exec); err != nil {
		return nil, err
	}
	return row, nil
}

// List returns accounts ordered by name. One row beyond filter.Limit is
// fetched so callers can tell whether another page exists.
func (t *Table) List(ctx context.Context, filter *AccountFilter) ([]*Account, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(selectColumns()...),
		sm.From(tableName),
	}
	if filter != nil {
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit+1))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("name")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Account]())
	if err != nil {
		return nil, err
	}
	result := make([]*Account, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// UpdateCurrentDebt overwrites the cached debt of an account.
func (t *Table) UpdateCurrentDebt(ctx context.Context, id uuid.UUID, debt decimal.Decimal) error {
	query := psql.Update(
		um.Table(tableName),
		um.SetCol("current_debt").ToArg(debt),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := query.Exec(ctx, t.exec)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow reports sql.ErrNoRows when an update matched nothing.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
