package memory

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/credit-ledger/internal/storage/journal"
)

// Journal is the in-memory debt_intents collection.
type Journal struct {
	store *Store
}

var _ journal.IJournalTable = (*Journal)(nil)

func (j *Journal) Record(ctx context.Context, create *journal.IntentCreate) (*journal.Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	intent := journal.Intent{
		ID:        id,
		AccountID: create.AccountID,
		CreditID:  create.CreditID,
		Kind:      string(create.Kind),
		Delta:     create.Delta,
		CreatedAt: time.Now().UTC(),
	}

	j.store.mu.Lock()
	defer j.store.mu.Unlock()
	j.store.intents[id] = intent
	j.store.intentOrder = append(j.store.intentOrder, id)
	return &intent, nil
}

func (j *Journal) ListPending(ctx context.Context, accountID uuid.UUID) ([]*journal.Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	j.store.mu.Lock()
	defer j.store.mu.Unlock()

	result := make([]*journal.Intent, 0)
	for _, id := range j.store.intentOrder {
		intent := j.store.intents[id]
		if intent.AccountID == accountID && intent.ResolvedAt == nil {
			result = append(result, &intent)
		}
	}
	return result, nil
}

func (j *Journal) Resolve(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.store.mu.Lock()
	defer j.store.mu.Unlock()

	for _, id := range ids {
		intent, ok := j.store.intents[id]
		if !ok {
			continue
		}
		resolvedAt := at
		intent.ResolvedAt = &resolvedAt
		j.store.intents[id] = intent
	}
	return nil
}
