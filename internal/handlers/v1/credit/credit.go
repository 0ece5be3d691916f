package credit

import (
	"time"

	"github.com/carson-networks/credit-ledger/internal/ledger"
)

// Credit is the API response model for a credit entry.
type Credit struct {
	ID          string `json:"id" doc:"Credit UUID"`
	AccountID   string `json:"accountID" doc:"Owning customer UUID"`
	Amount      string `json:"amount" doc:"Decimal amount extended"`
	Description string `json:"description" doc:"Free-text description of the purchase"`
	Date        string `json:"date" doc:"RFC3339 time the credit was assigned"`
	Month       string `json:"month" doc:"YYYY-MM bucket of date"`
	PaidAmount  string `json:"paidAmount" doc:"Decimal amount paid so far"`
	Outstanding string `json:"outstanding" doc:"Decimal amount still owed"`
	Status      string `json:"status" enum:"pending,partially_paid,paid" doc:"Payment progress"`
}

func fromLedger(entry *ledger.CreditEntry) Credit {
	return Credit{
		ID:          entry.ID.String(),
		AccountID:   entry.UserID.String(),
		Amount:      entry.Amount.String(),
		Description: entry.Description,
		Date:        entry.Date.Format(time.RFC3339),
		Month:       entry.Month,
		PaidAmount:  entry.PaidAmount.String(),
		Outstanding: entry.Outstanding().String(),
		Status:      string(entry.Status),
	}
}
