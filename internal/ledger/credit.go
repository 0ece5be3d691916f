package ledger

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// CreditStatus is the payment progress of a credit entry.
type CreditStatus string

const (
	CreditStatusPending       CreditStatus = "pending"
	CreditStatusPartiallyPaid CreditStatus = "partially_paid"
	CreditStatusPaid          CreditStatus = "paid"
)

// MoneyScale is the number of decimal places money is stored with.
const MoneyScale = 2

// hasSubUnit reports whether d carries digits beyond MoneyScale.
func hasSubUnit(d decimal.Decimal) bool {
	return !d.Equal(d.Truncate(MoneyScale))
}

// ValidateCreditAmount checks an amount of credit to extend.
func ValidateCreditAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: must be positive, got %s", ErrInvalidAmount, amount)
	}
	if hasSubUnit(amount) {
		return fmt.Errorf("%w: at most %d decimal places, got %s", ErrInvalidAmount, MoneyScale, amount)
	}
	return nil
}

// ValidatePaymentAmount checks an amount paid towards a credit.
func ValidatePaymentAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: must be positive, got %s", ErrInvalidPaymentAmount, amount)
	}
	if hasSubUnit(amount) {
		return fmt.Errorf("%w: at most %d decimal places, got %s", ErrInvalidPaymentAmount, MoneyScale, amount)
	}
	return nil
}

// CreditEntry is one line of credit extended to an account.
type CreditEntry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	Month       string
	PaidAmount  decimal.Decimal
	Status      CreditStatus
}

// Outstanding is the part of the entry that is still owed.
func (c *CreditEntry) Outstanding() decimal.Decimal {
	return c.Amount.Sub(c.PaidAmount)
}

// DeriveStatus classifies an entry from its original and paid amounts.
func DeriveStatus(amount, paid decimal.Decimal) CreditStatus {
	if paid.GreaterThanOrEqual(amount) {
		return CreditStatusPaid
	}
	if paid.IsPositive() {
		return CreditStatusPartiallyPaid
	}
	return CreditStatusPending
}

// MonthLabel is the YYYY-MM reporting bucket for t.
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// NewCreditEntry builds a pending entry for accountID dated at now.
func NewCreditEntry(id, accountID uuid.UUID, amount decimal.Decimal, description string, now time.Time) *CreditEntry {
	return &CreditEntry{
		ID:          id,
		UserID:      accountID,
		Amount:      amount,
		Description: description,
		Date:        now,
		Month:       MonthLabel(now),
		PaidAmount:  decimal.Zero,
		Status:      CreditStatusPending,
	}
}

// Payment is the outcome of applying a payment to an entry.
type Payment struct {
	PreviousPaid decimal.Decimal
	NewPaid      decimal.Decimal
	Status       CreditStatus
	// Applied is what the account's debt goes down by.
	Applied decimal.Decimal
	// Excess is the part of the payment beyond what was owed.
	Excess decimal.Decimal
}

// ApplyPayment computes the effect of paying amount towards the entry.
// Payments are clamped to the outstanding balance, so PaidAmount never
// exceeds Amount and the excess is reported rather than booked.
func (c *CreditEntry) ApplyPayment(amount decimal.Decimal) (Payment, error) {
	if err := ValidatePaymentAmount(amount); err != nil {
		return Payment{}, err
	}

	newPaid := decimal.Min(c.Amount, c.PaidAmount.Add(amount))
	if newPaid.LessThan(c.PaidAmount) {
		// stored data already overpaid; never move paidAmount backwards
		newPaid = c.PaidAmount
	}
	applied := newPaid.Sub(c.PaidAmount)

	return Payment{
		PreviousPaid: c.PaidAmount,
		NewPaid:      newPaid,
		Status:       DeriveStatus(c.Amount, newPaid),
		Applied:      applied,
		Excess:       amount.Sub(applied),
	}, nil
}

// OutstandingDebt sums what is still owed across entries. It is the value
// an account's CurrentDebt must equal.
func OutstandingDebt(entries []*CreditEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Outstanding())
	}
	return total
}
