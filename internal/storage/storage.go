package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/credit-ledger/internal/config"
	"github.com/carson-networks/credit-ledger/internal/storage/memory"
)

// Storage is the persistence collaborator of the ledger. Reads go straight
// to the tables; writes go through a Writer obtained from Write.
type Storage struct {
	DB *sql.DB
	Tables

	begin func(ctx context.Context) (*Writer, error)
}

// NewStorage opens the backend selected by the configuration.
func NewStorage(env *config.Config) (*Storage, error) {
	if env.StorageDriver == config.StorageDriverMemory {
		return NewMemoryStorage(), nil
	}

	db, err := sql.Open(env.PostgresDriver, env.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("sql.Open(%s): %w", env.PostgresDriver, err)
	}
	return NewPostgresStorage(db), nil
}

// NewPostgresStorage builds a transactional Storage on top of db.
func NewPostgresStorage(db *sql.DB) *Storage {
	bobDB := bob.NewDB(db)
	return &Storage{
		DB:     db,
		Tables: NewTables(bobDB),
		begin: func(ctx context.Context) (*Writer, error) {
			tx, err := bobDB.BeginTx(ctx, nil)
			if err != nil {
				return nil, err
			}
			return NewWriter(tx), nil
		},
	}
}

// NewMemoryStorage builds a Storage backed by an in-memory document store.
// It offers no transactions.
func NewMemoryStorage() *Storage {
	store := memory.NewStore()
	return &Storage{
		Tables: Tables{
			Accounts: store.Accounts(),
			Credits:  store.Credits(),
			Journal:  store.Journal(),
		},
	}
}

// Read returns the tables for non-locking reads.
func (s *Storage) Read() *Tables {
	return &s.Tables
}

// Transactional reports whether writers obtained from Write are atomic.
func (s *Storage) Transactional() bool {
	return s.begin != nil
}

// Write starts a unit of work. On backends without transactions the
// returned Writer applies every call immediately.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	if s.begin == nil {
		return newDirectWriter(s.Tables), nil
	}
	return s.begin(ctx)
}

// Ping checks that the backend is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.PingContext(ctx)
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
