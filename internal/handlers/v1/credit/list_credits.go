package credit

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/credit-ledger/internal/handlers"
	"github.com/carson-networks/credit-ledger/internal/ledger"
)

type ListCreditsInput struct {
	AccountID string `path:"accountID" format:"uuid" doc:"Customer UUID"`
}

type ListCreditsResponseBody struct {
	Credits []Credit `json:"credits" doc:"Every credit of the customer"`
}

type ListCreditsOutput struct {
	Body ListCreditsResponseBody
}

type creditLister interface {
	ListCredits(ctx context.Context, accountID uuid.UUID) ([]*ledger.CreditEntry, error)
}

// ListCreditsHandler handles GET /v1/customer/{accountID}/credits.
type ListCreditsHandler struct {
	LedgerService creditLister
}

func NewListCreditsHandler(svc creditLister) *ListCreditsHandler {
	return &ListCreditsHandler{LedgerService: svc}
}

func (h *ListCreditsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-credits",
		Method:      http.MethodGet,
		Path:        "/v1/customer/{accountID}/credits",
		Summary:     "List a customer's credits",
		Tags:        []string{"Credits"},
	}, h.handle)
}

func (h *ListCreditsHandler) handle(ctx context.Context, input *ListCreditsInput) (*ListCreditsOutput, error) {
	accountID, err := uuid.FromString(input.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountID", err)
	}

	stopTimer := handlers.StartTimer(ctx, "listCreditsMs")
	entries, err := h.LedgerService.ListCredits(ctx, accountID)
	stopTimer()
	if err != nil {
		return nil, handlers.ToHTTPError(ctx, err, "failed to list credits")
	}

	resp := ListCreditsResponseBody{Credits: make([]Credit, len(entries))}
	for i, entry := range entries {
		resp.Credits[i] = fromLedger(entry)
	}
	return &ListCreditsOutput{Body: resp}, nil
}
