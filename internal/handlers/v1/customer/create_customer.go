package customer

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/credit-ledger/internal/handlers"
	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/logging"
)

// CreateCustomerBody is the request body for creating a customer.
type CreateCustomerBody struct {
	Name        string `json:"name" minLength:"1" doc:"Customer name"`
	Email       string `json:"email,omitempty" doc:"Contact email"`
	Phone       string `json:"phone,omitempty" doc:"Contact phone"`
	CreditLimit string `json:"creditLimit,omitempty" doc:"Decimal credit limit (e.g. '500' or '1234.56'), defaults to 0"`
}

// CreateCustomerInput is the Huma input for creating a customer.
type CreateCustomerInput struct {
	Body CreateCustomerBody
}

// CreateCustomerOutput is the response for creating a customer.
type CreateCustomerOutput struct {
	Status int
	Body   Customer
}

// customerCreator is the interface for creating customers.
type customerCreator interface {
	CreateAccount(ctx context.Context, create ledger.AccountCreate) (*ledger.Account, error)
}

// CreateCustomerHandler handles POST /v1/customer.
type CreateCustomerHandler struct {
	AccountService customerCreator
}

// NewCreateCustomerHandler creates a new CreateCustomerHandler.
func NewCreateCustomerHandler(svc customerCreator) *CreateCustomerHandler {
	return &CreateCustomerHandler{AccountService: svc}
}

// Register registers the create customer endpoint with the Huma API.
func (h *CreateCustomerHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-customer",
		Method:      http.MethodPost,
		Path:        "/v1/customer",
		Summary:     "Create a customer",
		Description: "Opens a customer account with the given credit limit and no debt.",
		Tags:        []string{"Customers"},
	}, h.handle)
}

func parseCreateCustomerInput(input *CreateCustomerInput) (ledger.AccountCreate, error) {
	limitStr := input.Body.CreditLimit
	if limitStr == "" {
		limitStr = "0"
	}
	limit, err := decimal.NewFromString(limitStr)
	if err != nil {
		return ledger.AccountCreate{}, huma.NewError(http.StatusBadRequest, "invalid creditLimit", err)
	}

	return ledger.AccountCreate{
		Name:        input.Body.Name,
		Email:       input.Body.Email,
		Phone:       input.Body.Phone,
		CreditLimit: limit,
	}, nil
}

func (h *CreateCustomerHandler) handle(ctx context.Context, input *CreateCustomerInput) (*CreateCustomerOutput, error) {
	create, err := parseCreateCustomerInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := handlers.StartTimer(ctx, "createCustomerMs")
	acc, err := h.AccountService.CreateAccount(ctx, create)
	stopTimer()
	if err != nil {
		return nil, handlers.ToHTTPError(ctx, err, "failed to create customer")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("accountID", acc.ID.String())
	}

	return &CreateCustomerOutput{
		Status: http.StatusCreated,
		Body:   fromLedger(acc),
	}, nil
}
