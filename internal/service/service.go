package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/credit-ledger/internal/events"
	"github.com/carson-networks/credit-ledger/internal/logging"
	"github.com/carson-networks/credit-ledger/internal/operator/actions"
	"github.com/carson-networks/credit-ledger/internal/storage"
)

// Processor runs an action as one unit of work. The operator delegator is
// the production implementation.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Account *AccountService
	Ledger  *LedgerService
}

// NewService creates a new Service with the given storage. Mutations are
// handed to processor; committed changes are announced through publisher.
func NewService(store *storage.Storage, processor Processor, publisher events.Publisher, log *logrus.Logger) *Service {
	n := &notifier{publisher: publisher, log: log, now: time.Now}
	return &Service{
		Account: NewAccountService(store, processor, n),
		Ledger:  NewLedgerService(store, processor, n),
	}
}

type notifier struct {
	publisher events.Publisher
	log       *logrus.Logger
	now       func() time.Time
}

// publish sends event and only logs a failure; the change is already
// committed by the time it is announced.
func (n *notifier) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = n.now().UTC()

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("event", string(event.Type))
		defer logData.AddTiming("publishMs")()
	}

	if err := n.publisher.Publish(ctx, event); err != nil {
		n.log.WithError(err).
			WithField("event", event.Type).
			WithField("accountID", event.AccountID.String()).
			Warn("Failed to publish ledger event")
	}
}
