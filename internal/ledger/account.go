package ledger

import (
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Account is a customer that can carry store credit.
type Account struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Phone       string
	CreditLimit decimal.Decimal
	CurrentDebt decimal.Decimal
	CreatedAt   time.Time
}

// AccountCreate is the input for opening a new account.
type AccountCreate struct {
	Name        string
	Email       string
	Phone       string
	CreditLimit decimal.Decimal
}

// Validate checks the fields required to open an account.
func (c AccountCreate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalidInput("name is required")
	}
	if c.CreditLimit.IsNegative() {
		return invalidInput("creditLimit must not be negative, got %s", c.CreditLimit)
	}
	if hasSubUnit(c.CreditLimit) {
		return invalidInput("creditLimit has at most %d decimal places, got %s", MoneyScale, c.CreditLimit)
	}
	return nil
}

// AvailableCredit is how much more credit the account can take on.
func (a *Account) AvailableCredit() decimal.Decimal {
	available := a.CreditLimit.Sub(a.CurrentDebt)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// CheckCapacity reports whether assigning amount keeps the account within
// its credit limit and returns the debt the account would carry afterwards.
func (a *Account) CheckCapacity(amount decimal.Decimal) (decimal.Decimal, error) {
	projected := a.CurrentDebt.Add(amount)
	if projected.GreaterThan(a.CreditLimit) {
		return decimal.Zero, &CreditLimitExceededError{
			Limit:       a.CreditLimit,
			CurrentDebt: a.CurrentDebt,
			Requested:   amount,
		}
	}
	return projected, nil
}
