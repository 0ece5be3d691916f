package customer

import (
	"time"

	"github.com/carson-networks/credit-ledger/internal/ledger"
)

// Customer is the API response model for an account.
type Customer struct {
	ID              string `json:"id" doc:"Customer UUID"`
	Name            string `json:"name" doc:"Customer name"`
	Email           string `json:"email,omitempty" doc:"Contact email"`
	Phone           string `json:"phone,omitempty" doc:"Contact phone"`
	CreditLimit     string `json:"creditLimit" doc:"Decimal credit limit"`
	CurrentDebt     string `json:"currentDebt" doc:"Decimal debt still owed across all credits"`
	AvailableCredit string `json:"availableCredit" doc:"Decimal credit that can still be assigned"`
	CreatedAt       string `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromLedger(acc *ledger.Account) Customer {
	return Customer{
		ID:              acc.ID.String(),
		Name:            acc.Name,
		Email:           acc.Email,
		Phone:           acc.Phone,
		CreditLimit:     acc.CreditLimit.String(),
		CurrentDebt:     acc.CurrentDebt.String(),
		AvailableCredit: acc.AvailableCredit().String(),
		CreatedAt:       acc.CreatedAt.Format(time.RFC3339),
	}
}
