package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/events"
	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/operator/actions"
	"github.com/carson-networks/credit-ledger/internal/storage"
)

// LedgerService assigns credit, books payments and edits credit entries.
// Every call returns the records as stored after the change.
type LedgerService struct {
	storage   *storage.Storage
	processor Processor
	notifier  *notifier
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store *storage.Storage, processor Processor, n *notifier) *LedgerService {
	return &LedgerService{
		storage:   store,
		processor: processor,
		notifier:  n,
	}
}

// AssignCredit records a new credit entry and adds its amount to the
// account's debt, provided the account stays within its credit limit.
func (s *LedgerService) AssignCredit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*ledger.CreditEntry, error) {
	action := &actions.AssignCredit{
		AccountID:   accountID,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Now:         s.notifier.now().UTC(),
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	entry := action.Result
	s.notifier.publish(ctx, events.Event{
		Type:        events.TypeCreditAssigned,
		AccountID:   entry.UserID,
		CreditID:    &entry.ID,
		Amount:      &entry.Amount,
		Status:      string(entry.Status),
		CurrentDebt: &action.Account.CurrentDebt,
	})
	return entry, nil
}

// ApplyPayment books a payment against a credit entry. A payment larger
// than what is outstanding is clamped; the returned Payment tells how much
// was applied and how much was left over.
func (s *LedgerService) ApplyPayment(ctx context.Context, creditID uuid.UUID, amount decimal.Decimal) (*ledger.CreditEntry, ledger.Payment, error) {
	action := &actions.ApplyPayment{
		CreditID: creditID,
		Amount:   amount,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, ledger.Payment{}, err
	}

	entry := action.Result
	if action.Payment.Applied.IsZero() {
		return entry, action.Payment, nil
	}

	s.notifier.publish(ctx, events.Event{
		Type:        events.TypePaymentApplied,
		AccountID:   entry.UserID,
		CreditID:    &entry.ID,
		Amount:      &action.Payment.Applied,
		PaidAmount:  &entry.PaidAmount,
		Status:      string(entry.Status),
		CurrentDebt: &action.Account.CurrentDebt,
	})
	return entry, action.Payment, nil
}

// UpdateDescription replaces the description of a credit entry.
func (s *LedgerService) UpdateDescription(ctx context.Context, creditID uuid.UUID, description string) (*ledger.CreditEntry, error) {
	action := &actions.UpdateDescription{
		CreditID:    creditID,
		Description: strings.TrimSpace(description),
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	entry := action.Result
	s.notifier.publish(ctx, events.Event{
		Type:      events.TypeCreditDescriptionUpdated,
		AccountID: entry.UserID,
		CreditID:  &entry.ID,
		Status:    string(entry.Status),
	})
	return entry, nil
}

// ListCredits returns the credit entries of an account in storage order.
// An unknown account has no entries.
func (s *LedgerService) ListCredits(ctx context.Context, accountID uuid.UUID) ([]*ledger.CreditEntry, error) {
	rows, err := s.storage.Read().Credits.ListByUserID(ctx, accountID)
	if err != nil {
		return nil, ledger.WrapStorage("credits.list", err)
	}

	entries := make([]*ledger.CreditEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.ToLedger()
	}
	return entries, nil
}
