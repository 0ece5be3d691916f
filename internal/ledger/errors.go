package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrAccountNotFound       = fmt.Errorf("account %w", ErrNotFound)
	ErrCreditEntryNotFound   = fmt.Errorf("credit entry %w", ErrNotFound)
	ErrOwningAccountNotFound = fmt.Errorf("owning account %w", ErrNotFound)

	ErrInvalidAmount        = fmt.Errorf("%w: amount", ErrInvalidInput)
	ErrInvalidPaymentAmount = fmt.Errorf("%w: payment amount", ErrInvalidInput)
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// CreditLimitExceededError rejects a credit that would push an account past
// its limit. It carries the values needed to explain the rejection.
type CreditLimitExceededError struct {
	Limit       decimal.Decimal
	CurrentDebt decimal.Decimal
	Requested   decimal.Decimal
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit exceeds limit: limit %s, current debt %s, requested %s",
		e.Limit.StringFixed(2), e.CurrentDebt.StringFixed(2), e.Requested.StringFixed(2))
}

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage tags err as a storage failure unless it is already a ledger
// error or nil.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var storageErr *StorageError
	var limitErr *CreditLimitExceededError
	if errors.As(err, &storageErr) || errors.As(err, &limitErr) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
