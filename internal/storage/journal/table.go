package journal

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

const tableName = "debt_intents"

var columns = []string{"id", "account_id", "credit_id", "kind", "delta", "created_at", "resolved_at"}

// Table provides access to the debt_intents table.
type Table struct {
	exec bob.Executor
}

var _ IJournalTable = (*Table)(nil)

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

func (t *Table) Record(ctx context.Context, create *IntentCreate) (*Intent, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	intent := &Intent{
		ID:        id,
		AccountID: create.AccountID,
		CreditID:  create.CreditID,
		Kind:      string(create.Kind),
		Delta:     create.Delta,
		CreatedAt: time.Now().UTC(),
	}

	query := psql.Insert(
		im.Into(tableName, columns[:6]...),
		im.Values(psql.Arg(intent.ID, intent.AccountID, intent.CreditID, intent.Kind, intent.Delta, intent.CreatedAt)),
	)
	if _, err := query.Exec(ctx, t.exec); err != nil {
		return nil, err
	}
	return intent, nil
}

func (t *Table) ListPending(ctx context.Context, accountID uuid.UUID) ([]*Intent, error) {
	cols := make([]any, len(columns))
	for i, c := range columns {
		cols[i] = psql.Quote(c)
	}
	query := psql.Select(
		sm.Columns(cols...),
		sm.From(tableName),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(accountID))),
		sm.Where(psql.Quote("resolved_at").IsNull()),
		sm.OrderBy(psql.Quote("created_at")).Asc(),
	)
	rows, err := bob.All(ctx, t.exec, query, scan.StructMapper[Intent]())
	if err != nil {
		return nil, err
	}
	result := make([]*Intent, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func (t *Table) Resolve(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	for _, id := range ids {
		query := psql.Update(
			um.Table(tableName),
			um.SetCol("resolved_at").ToArg(at),
			um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		)
		if _, err := query.Exec(ctx, t.exec); err != nil {
			return err
		}
	}
	return nil
}
