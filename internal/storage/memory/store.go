package memory

import (
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/credit-ledger/internal/storage/account"
	"github.com/carson-networks/credit-ledger/internal/storage/credit"
	"github.com/carson-networks/credit-ledger/internal/storage/journal"
)

// Store is an in-memory document store holding the users, credits and
// debt_intents collections. Every write is applied immediately; there are
// no transactions. Records are copied on the way in and out so callers
// never share state with the store.
type Store struct {
	mu sync.Mutex

	accounts     map[uuid.UUID]account.Account
	accountOrder []uuid.UUID

	credits     map[uuid.UUID]credit.Credit
	creditOrder []uuid.UUID

	intents     map[uuid.UUID]journal.Intent
	intentOrder []uuid.UUID
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]account.Account),
		credits:  make(map[uuid.UUID]credit.Credit),
		intents:  make(map[uuid.UUID]journal.Intent),
	}
}

// Accounts returns the users collection.
func (s *Store) Accounts() *Accounts {
	return &Accounts{store: s}
}

// Credits returns the credits collection.
func (s *Store) Credits() *Credits {
	return &Credits{store: s}
}

// Journal returns the debt_intents collection.
func (s *Store) Journal() *Journal {
	return &Journal{store: s}
}
