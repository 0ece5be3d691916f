package customer

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/credit-ledger/internal/handlers"
	"github.com/carson-networks/credit-ledger/internal/ledger"
)

// GetCustomerInput is the Huma input for fetching one customer.
type GetCustomerInput struct {
	AccountID string `path:"accountID" format:"uuid" doc:"Customer UUID"`
}

// GetCustomerOutput is the Huma output for fetching one customer.
type GetCustomerOutput struct {
	Body Customer
}

type customerGetter interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
}

// GetCustomerHandler handles GET /v1/customer/{accountID}.
type GetCustomerHandler struct {
	AccountService customerGetter
}

func NewGetCustomerHandler(svc customerGetter) *GetCustomerHandler {
	return &GetCustomerHandler{AccountService: svc}
}

func (h *GetCustomerHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-customer",
		Method:      http.MethodGet,
		Path:        "/v1/customer/{accountID}",
		Summary:     "Get a customer",
		Description: "Returns the customer with its current debt and available credit.",
		Tags:        []string{"Customers"},
	}, h.handle)
}

func (h *GetCustomerHandler) handle(ctx context.Context, input *GetCustomerInput) (*GetCustomerOutput, error) {
	id, err := uuid.FromString(input.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountID", err)
	}

	stopTimer := handlers.StartTimer(ctx, "getCustomerMs")
	acc, err := h.AccountService.GetAccount(ctx, id)
	stopTimer()
	if err != nil {
		return nil, handlers.ToHTTPError(ctx, err, "failed to get customer")
	}

	return &GetCustomerOutput{Body: fromLedger(acc)}, nil
}
