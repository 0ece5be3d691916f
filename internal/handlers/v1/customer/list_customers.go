package customer

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/credit-ledger/internal/handlers"
	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/logging"
	"github.com/carson-networks/credit-ledger/internal/service"
)

// ListCustomersInput is the Huma input for listing customers.
type ListCustomersInput struct {
	Position int `query:"position" minimum:"0" doc:"Offset for pagination"`
	Limit    int `query:"limit" minimum:"0" maximum:"100" doc:"Page size, default 20"`
}

// ListCustomersCursor points at the next page.
type ListCustomersCursor struct {
	Position int `json:"position" doc:"Offset for next page"`
	Limit    int `json:"limit" doc:"Page size"`
}

// ListCustomersResponseBody is the response body for listing customers.
type ListCustomersResponseBody struct {
	Customers  []Customer           `json:"customers" doc:"Page of customers ordered by name"`
	NextCursor *ListCustomersCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListCustomersOutput is the Huma output for listing customers.
type ListCustomersOutput struct {
	Body ListCustomersResponseBody
}

// customerLister is the interface for listing customers.
type customerLister interface {
	ListAccounts(ctx context.Context, cursor *service.AccountCursor) ([]*ledger.Account, *service.AccountCursor, error)
}

// ListCustomersHandler handles GET /v1/customers.
type ListCustomersHandler struct {
	AccountService customerLister
}

// NewListCustomersHandler creates a new ListCustomersHandler.
func NewListCustomersHandler(svc customerLister) *ListCustomersHandler {
	return &ListCustomersHandler{AccountService: svc}
}

// Register registers the list customers endpoint with the Huma API.
func (h *ListCustomersHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-customers",
		Method:      http.MethodGet,
		Path:        "/v1/customers",
		Summary:     "List customers",
		Description: "Returns a paginated list of customers.",
		Tags:        []string{"Customers"},
	}, h.handle)
}

func (h *ListCustomersHandler) handle(ctx context.Context, input *ListCustomersInput) (*ListCustomersOutput, error) {
	var cursor *service.AccountCursor
	if input.Position > 0 || input.Limit > 0 {
		cursor = &service.AccountCursor{
			Position: input.Position,
			Limit:    input.Limit,
		}
	}

	stopTimer := handlers.StartTimer(ctx, "listCustomersMs")
	accounts, next, err := h.AccountService.ListAccounts(ctx, cursor)
	stopTimer()
	if err != nil {
		return nil, handlers.ToHTTPError(ctx, err, "failed to list customers")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("customerCount", len(accounts))
	}

	resp := ListCustomersResponseBody{
		Customers: make([]Customer, len(accounts)),
	}
	for i, acc := range accounts {
		resp.Customers[i] = fromLedger(acc)
	}

	if next != nil {
		resp.NextCursor = &ListCustomersCursor{
			Position: next.Position,
			Limit:    next.Limit,
		}
	}

	return &ListCustomersOutput{Body: resp}, nil
}
