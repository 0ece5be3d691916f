//go:build integration

package storage_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/operator"
	"github.com/carson-networks/credit-ledger/internal/operator/actions"
	"github.com/carson-networks/credit-ledger/internal/storage"
	"github.com/carson-networks/credit-ledger/internal/storage/account"
	"github.com/carson-networks/credit-ledger/internal/storage/credit"
	"github.com/carson-networks/credit-ledger/migrations"
)

func newPostgresStorage(t *testing.T) *storage.Storage {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("testpassword"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(db))

	s := storage.NewPostgresStorage(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostgres_TablesRoundTrip(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()
	tables := s.Read()

	acc, err := tables.Accounts.Insert(ctx, &account.AccountCreate{
		Name:        "Rosario",
		Email:       "rosario@example.com",
		CreditLimit: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	entry := ledger.NewCreditEntry(uuid.Must(uuid.NewV4()), acc.ID, decimal.RequireFromString("40.50"), "rice", time.Now().UTC())
	require.NoError(t, tables.Credits.Insert(ctx, credit.FromLedger(entry)))
	require.NoError(t, tables.Credits.UpdatePayment(ctx, entry.ID, decimal.RequireFromString("10.50"), string(ledger.CreditStatusPartiallyPaid)))
	require.NoError(t, tables.Credits.UpdateDescription(ctx, entry.ID, "rice and oil"))
	require.NoError(t, tables.Accounts.UpdateCurrentDebt(ctx, acc.ID, decimal.RequireFromString("30.00")))

	rows, err := tables.Credits.ListByUserID(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	got := rows[0].ToLedger()
	assert.Equal(t, "rice and oil", got.Description)
	assert.True(t, got.PaidAmount.Equal(decimal.RequireFromString("10.50")))
	assert.Equal(t, ledger.CreditStatusPartiallyPaid, got.Status)

	found, err := tables.Accounts.FindByID(ctx, acc.ID, false)
	require.NoError(t, err)
	assert.True(t, found.CurrentDebt.Equal(decimal.RequireFromString("30")))

	missing, err := tables.Credits.FindByID(ctx, uuid.Must(uuid.NewV4()), false)
	require.NoError(t, err)
	assert.Nil(t, missing)

	unknown := uuid.Must(uuid.NewV4())
	assert.ErrorIs(t, tables.Accounts.UpdateCurrentDebt(ctx, unknown, decimal.RequireFromString("1")), sql.ErrNoRows)
	assert.ErrorIs(t, tables.Credits.UpdatePayment(ctx, unknown, decimal.RequireFromString("1"), string(ledger.CreditStatusPartiallyPaid)), sql.ErrNoRows)
	assert.ErrorIs(t, tables.Credits.UpdateDescription(ctx, unknown, "oil"), sql.ErrNoRows)
}

func TestPostgres_RollbackDiscardsWrites(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()

	writer, err := s.Write(ctx)
	require.NoError(t, err)
	require.True(t, writer.Transactional())

	acc, err := writer.Accounts.Insert(ctx, &account.AccountCreate{Name: "Ana"})
	require.NoError(t, err)
	require.NoError(t, writer.Rollback())

	found, err := s.Read().Accounts.FindByID(ctx, acc.ID, false)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestPostgres_ConcurrentAssignmentsRespectLimit(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()

	delegator := operator.NewOperatorDelegator(s, 4)
	delegator.Start()
	defer delegator.Stop()
	require.Equal(t, 4, delegator.Workers())

	create := &actions.CreateAccount{Create: ledger.AccountCreate{Name: "Rosario", CreditLimit: decimal.NewFromInt(100)}}
	require.NoError(t, delegator.Process(ctx, create))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			action := &actions.AssignCredit{AccountID: create.Result.ID, Amount: decimal.NewFromInt(5)}
			if err := delegator.Process(ctx, action); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, accepted)

	found, err := s.Read().Accounts.FindByID(ctx, create.Result.ID, false)
	require.NoError(t, err)
	assert.True(t, found.CurrentDebt.Equal(decimal.NewFromInt(100)))

	pending, err := s.Read().Journal.ListPending(ctx, create.Result.ID)
	require.NoError(t, err)
	assert.Empty(t, pending, "transactional writers keep no journal")
}

func TestPostgres_FailedPaymentRollsBack(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()
	delegator := operator.NewOperatorDelegator(s, 2)
	delegator.Start()
	defer delegator.Stop()

	create := &actions.CreateAccount{Create: ledger.AccountCreate{Name: "Rosario", CreditLimit: decimal.NewFromInt(100)}}
	require.NoError(t, delegator.Process(ctx, create))
	assign := &actions.AssignCredit{AccountID: create.Result.ID, Amount: decimal.NewFromInt(40)}
	require.NoError(t, delegator.Process(ctx, assign))

	// the owning account disappears between assignment and payment
	_, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, create.Result.ID)
	require.NoError(t, err)

	err = delegator.Process(ctx, &actions.ApplyPayment{CreditID: assign.Result.ID, Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, ledger.ErrOwningAccountNotFound)

	row, err := s.Read().Credits.FindByID(ctx, assign.Result.ID, false)
	require.NoError(t, err)
	assert.True(t, row.PaidAmount.IsZero(), "the entry write was rolled back")
}
