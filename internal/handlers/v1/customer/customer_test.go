package customer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/service"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) CreateAccount(ctx context.Context, create ledger.AccountCreate) (*ledger.Account, error) {
	args := m.Called(ctx, create)
	acc, _ := args.Get(0).(*ledger.Account)
	return acc, args.Error(1)
}

func (m *mockAccountService) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*ledger.Account)
	return acc, args.Error(1)
}

func (m *mockAccountService) ListAccounts(ctx context.Context, cursor *service.AccountCursor) ([]*ledger.Account, *service.AccountCursor, error) {
	args := m.Called(ctx, cursor)
	accounts, _ := args.Get(0).([]*ledger.Account)
	next, _ := args.Get(1).(*service.AccountCursor)
	return accounts, next, args.Error(2)
}

func (m *mockAccountService) ReconcileAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, decimal.Decimal, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*ledger.Account)
	return acc, args.Get(1).(decimal.Decimal), args.Error(2)
}

func newTestAPI(t *testing.T, svc *mockAccountService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateCustomerHandler(svc).Register(api)
	NewGetCustomerHandler(svc).Register(api)
	NewListCustomersHandler(svc).Register(api)
	NewReconcileCustomerHandler(svc).Register(api)
	return api
}

func sampleAccount(name string) *ledger.Account {
	return &ledger.Account{
		ID:          uuid.Must(uuid.NewV4()),
		Name:        name,
		Email:       "rosario@example.com",
		CreditLimit: decimal.RequireFromString("100"),
		CurrentDebt: decimal.RequireFromString("35.5"),
		CreatedAt:   time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}

// -- parseCreateCustomerInput unit tests --

func TestParseCreateCustomerInput_DefaultsLimitToZero(t *testing.T) {
	create, err := parseCreateCustomerInput(&CreateCustomerInput{
		Body: CreateCustomerBody{Name: "Rosario"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Rosario", create.Name)
	assert.True(t, create.CreditLimit.IsZero())
}

func TestParseCreateCustomerInput_InvalidLimit(t *testing.T) {
	_, err := parseCreateCustomerInput(&CreateCustomerInput{
		Body: CreateCustomerBody{Name: "Rosario", CreditLimit: "lots"},
	})

	assert.Error(t, err)
}

// -- HTTP tests (full Huma stack via humatest) --

func TestHTTP_CreateCustomer_Success(t *testing.T) {
	acc := sampleAccount("Rosario")
	acc.CurrentDebt = decimal.Zero

	mockSvc := new(mockAccountService)
	mockSvc.On("CreateAccount", mock.Anything, mock.MatchedBy(func(c ledger.AccountCreate) bool {
		return c.Name == "Rosario" &&
			c.Phone == "555-0101" &&
			c.CreditLimit.Equal(decimal.RequireFromString("100"))
	})).Return(acc, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/customer", CreateCustomerBody{
		Name:        "Rosario",
		Phone:       "555-0101",
		CreditLimit: "100",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Customer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, acc.ID.String(), body.ID)
	assert.Equal(t, "0", body.CurrentDebt)
	assert.Equal(t, "100", body.AvailableCredit)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateCustomer_EmptyName(t *testing.T) {
	mockSvc := new(mockAccountService)

	resp := newTestAPI(t, mockSvc).Post("/v1/customer", CreateCustomerBody{Name: ""})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateAccount")
}

func TestHTTP_CreateCustomer_InvalidInputFromService(t *testing.T) {
	mockSvc := new(mockAccountService)
	mockSvc.On("CreateAccount", mock.Anything, mock.Anything).
		Return(nil, ledger.ErrInvalidInput)

	resp := newTestAPI(t, mockSvc).Post("/v1/customer", CreateCustomerBody{Name: "Ana", CreditLimit: "-3"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_CreateCustomer_ServiceError(t *testing.T) {
	mockSvc := new(mockAccountService)
	mockSvc.On("CreateAccount", mock.Anything, mock.Anything).
		Return(nil, ledger.WrapStorage("users.insert", errors.New("database unavailable")))

	resp := newTestAPI(t, mockSvc).Post("/v1/customer", CreateCustomerBody{Name: "Ana"})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_GetCustomer_Success(t *testing.T) {
	acc := sampleAccount("Rosario")
	mockSvc := new(mockAccountService)
	mockSvc.On("GetAccount", mock.Anything, acc.ID).Return(acc, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/customer/" + acc.ID.String())

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Customer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "35.5", body.CurrentDebt)
	assert.Equal(t, "64.5", body.AvailableCredit)
	assert.Equal(t, "2025-07-01T12:00:00Z", body.CreatedAt)
}

func TestHTTP_GetCustomer_NotFound(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockAccountService)
	mockSvc.On("GetAccount", mock.Anything, id).Return(nil, ledger.ErrAccountNotFound)

	resp := newTestAPI(t, mockSvc).Get("/v1/customer/" + id.String())

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_GetCustomer_InvalidID(t *testing.T) {
	mockSvc := new(mockAccountService)

	resp := newTestAPI(t, mockSvc).Get("/v1/customer/not-a-uuid")

	assert.GreaterOrEqual(t, resp.Code, http.StatusBadRequest)
	assert.Less(t, resp.Code, http.StatusInternalServerError)
	mockSvc.AssertNotCalled(t, "GetAccount")
}

func TestHTTP_ListCustomers_WithNextCursor(t *testing.T) {
	accounts := []*ledger.Account{sampleAccount("Ana"), sampleAccount("Beto")}
	mockSvc := new(mockAccountService)
	mockSvc.On("ListAccounts", mock.Anything, &service.AccountCursor{Position: 0, Limit: 2}).
		Return(accounts, &service.AccountCursor{Position: 2, Limit: 2}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/customers?limit=2")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListCustomersResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Customers, 2)
	assert.Equal(t, "Ana", body.Customers[0].Name)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, 2, body.NextCursor.Position)
}

func TestHTTP_ListCustomers_Empty(t *testing.T) {
	mockSvc := new(mockAccountService)
	mockSvc.On("ListAccounts", mock.Anything, (*service.AccountCursor)(nil)).Return(nil, nil, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/customers")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListCustomersResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body.Customers)
	assert.Empty(t, body.Customers)
	assert.Nil(t, body.NextCursor)
}

func TestHTTP_ReconcileCustomer(t *testing.T) {
	acc := sampleAccount("Rosario")
	mockSvc := new(mockAccountService)
	mockSvc.On("ReconcileAccount", mock.Anything, acc.ID).Return(acc, decimal.RequireFromString("4.5"), nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/customer/" + acc.ID.String() + "/reconcile")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ReconcileCustomerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "4.5", body.Drift)
	assert.Equal(t, acc.ID.String(), body.Customer.ID)
}
