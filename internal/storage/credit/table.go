package credit

import (
	"context"
	"database/sql"
	"errors"

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

const tableName = "credits"

var columns = []string{"id", "user_id", "amount", "description", "date", "month", "paid_amount", "status"}

// Table provides access to the credits table.
type Table struct {
	exec bob.Executor
}

var _ ICreditTable = (*Table)(nil)

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

// FindByID retrieves a credit entry by primary key, nil if it does not exist.
func (t *Table) FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Credit, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(selectColumns()...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Credit]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert stores a new credit entry. The caller assigns the ID.
func (t *Table) Insert(ctx context.Context, c *Credit) error {
	query := psql.Insert(
		im.Into(tableName, columns...),
		im.Values(psql.Arg(c.ID, c.UserID, c.Amount, c.Description, c.Date, c.Month, c.PaidAmount, c.Status)),
	)
	_, err := query.Exec(ctx, t.exec)
	return err
}

// ListByUserID returns every entry belonging to an account, oldest first.
func (t *Table) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*Credit, error) {
	query := psql.Select(
		sm.Columns(selectColumns()...),
		sm.From(tableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.OrderBy(psql.Quote("date")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)
	rows, err := bob.All(ctx, t.exec, query, scan.StructMapper[Credit]())
	if err != nil {
		return nil, err
	}
	result := make([]*Credit, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// UpdatePayment sets the paid amount and status of an entry.
func (t *Table) UpdatePayment(ctx context.Context, id uuid.UUID, paidAmount decimal.Decimal, status string) error {
	query := psql.Update(
		um.Table(tableName),
		um.SetCol("paid_amount").ToArg(paidAmount),
		um.SetCol("status").ToArg(status),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := query.Exec(ctx, t.exec)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateDescription replaces the free-text description of an entry.
func (t *Table) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	query := psql.Update(
		um.Table(tableName),
		um.SetCol("description").ToArg(description),
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
