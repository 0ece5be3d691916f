package credit

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/handlers"
	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/logging"
)

// AssignCreditBody is the request body for assigning credit.
type AssignCreditBody struct {
	Amount      string `json:"amount" minLength:"1" doc:"Decimal amount to extend, must be positive"`
	Description string `json:"description,omitempty" doc:"What the credit was for"`
}

// AssignCreditInput is the Huma input for assigning credit.
type AssignCreditInput struct {
	AccountID string `path:"accountID" format:"uuid" doc:"Customer UUID"`
	Body      AssignCreditBody
}

// AssignCreditOutput is the Huma output for assigning credit.
type AssignCreditOutput struct {
	Status int
	Body   Credit
}

type creditAssigner interface {
	AssignCredit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*ledger.CreditEntry, error)
}

// AssignCreditHandler handles POST /v1/customer/{accountID}/credit.
type AssignCreditHandler struct {
	LedgerService creditAssigner
}

// NewAssignCreditHandler creates a new AssignCreditHandler.
func NewAssignCreditHandler(svc creditAssigner) *AssignCreditHandler {
	return &AssignCreditHandler{LedgerService: svc}
}

// Register registers the assign credit endpoint with the Huma API.
func (h *AssignCreditHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "assign-credit",
		Method:      http.MethodPost,
		Path:        "/v1/customer/{accountID}/credit",
		Summary:     "Assign credit",
		Description: "Extends credit to a customer. Rejected with 422 when the customer's credit limit would be exceeded.",
		Tags:        []string{"Credits"},
	}, h.handle)
}

func parseAssignCreditInput(input *AssignCreditInput) (uuid.UUID, decimal.Decimal, error) {
	accountID, err := uuid.FromString(input.AccountID)
	if err != nil {
		return uuid.Nil, decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid accountID", err)
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return uuid.Nil, decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	return accountID, amount, nil
}

func (h *AssignCreditHandler) handle(ctx context.Context, input *AssignCreditInput) (*AssignCreditOutput, error) {
	accountID, amount, err := parseAssignCreditInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := handlers.StartTimer(ctx, "assignCreditMs")
	entry, err := h.LedgerService.AssignCredit(ctx, accountID, amount, input.Body.Description)
	stopTimer()
	if err != nil {
		return nil, handlers.ToHTTPError(ctx, err, "failed to assign credit")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("accountID", accountID.String())
		logData.AddData("creditID", entry.ID.String())
	}

	return &AssignCreditOutput{
		Status: http.StatusCreated,
		Body:   fromLedger(entry),
	}, nil
}
