package credit

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
)

type mockLedgerService struct {
	mock.Mock
}

func (m *mockLedgerService) AssignCredit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*ledger.CreditEntry, error) {
	args := m.Called(ctx, accountID, amount, description)
	entry, _ := args.Get(0).(*ledger.CreditEntry)
	return entry, args.Error(1)
}

func (m *mockLedgerService) ApplyPayment(ctx context.Context, creditID uuid.UUID, amount decimal.Decimal) (*ledger.CreditEntry, ledger.Payment, error) {
	args := m.Called(ctx, creditID, amount)
	entry, _ := args.Get(0).(*ledger.CreditEntry)
	payment, _ := args.Get(1).(ledger.Payment)
	return entry, payment, args.Error(2)
}

func (m *mockLedgerService) UpdateDescription(ctx context.Context, creditID uuid.UUID, description string) (*ledger.CreditEntry, error) {
	args := m.Called(ctx, creditID, description)
	entry, _ := args.Get(0).(*ledger.CreditEntry)
	return entry, args.Error(1)
}

func (m *mockLedgerService) ListCredits(ctx context.Context, accountID uuid.UUID) ([]*ledger.CreditEntry, error) {
	args := m.Called(ctx, accountID)
	entries, _ := args.Get(0).([]*ledger.CreditEntry)
	return entries, args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockLedgerService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewAssignCreditHandler(svc).Register(api)
	NewListCreditsHandler(svc).Register(api)
	NewApplyPaymentHandler(svc).Register(api)
	NewUpdateDescriptionHandler(svc).Register(api)
	return api
}

func sampleEntry(accountID uuid.UUID, amount, paid string) *ledger.CreditEntry {
	date := time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)
	a := decimal.RequireFromString(amount)
	p := decimal.RequireFromString(paid)
	return &ledger.CreditEntry{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      accountID,
		Amount:      a,
		Description: "rice",
		Date:        date,
		Month:       ledger.MonthLabel(date),
		PaidAmount:  p,
		Status:      ledger.DeriveStatus(a, p),
	}
}

func amountIs(s string) interface{} {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

// -- parseAssignCreditInput unit tests --

func TestParseAssignCreditInput(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())

	gotID, gotAmount, err := parseAssignCreditInput(&AssignCreditInput{
		AccountID: accountID.String(),
		Body:      AssignCreditBody{Amount: "12.345"},
	})

	assert.NoError(t, err)
	assert.Equal(t, accountID, gotID)
	assert.True(t, gotAmount.Equal(decimal.RequireFromString("12.345")))

	_, _, err = parseAssignCreditInput(&AssignCreditInput{
		AccountID: accountID.String(),
		Body:      AssignCreditBody{Amount: "twelve"},
	})
	assert.Error(t, err)
}

// -- HTTP tests (full Huma stack via humatest) --

func TestHTTP_AssignCredit_Success(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	entry := sampleEntry(accountID, "30", "0")

	mockSvc := new(mockLedgerService)
	mockSvc.On("AssignCredit", mock.Anything, accountID, amountIs("30"), "rice").Return(entry, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/customer/"+accountID.String()+"/credit", AssignCreditBody{
		Amount:      "30",
		Description: "rice",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Credit
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entry.ID.String(), body.ID)
	assert.Equal(t, "pending", body.Status)
	assert.Equal(t, "2025-04", body.Month)
	assert.Equal(t, "30", body.Outstanding)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_AssignCredit_LimitExceeded(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockLedgerService)
	mockSvc.On("AssignCredit", mock.Anything, accountID, mock.Anything, mock.Anything).
		Return(nil, &ledger.CreditLimitExceededError{
			Limit:       decimal.NewFromInt(100),
			CurrentDebt: decimal.NewFromInt(80),
			Requested:   decimal.NewFromInt(30),
		})

	resp := newTestAPI(t, mockSvc).Post("/v1/customer/"+accountID.String()+"/credit", AssignCreditBody{Amount: "30"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "limit 100.00")
}

func TestHTTP_AssignCredit_Errors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "unknown customer", serviceErr: ledger.ErrAccountNotFound, wantStatus: http.StatusNotFound},
		{name: "non-positive amount", serviceErr: ledger.ErrInvalidAmount, wantStatus: http.StatusBadRequest},
		{name: "storage down", serviceErr: ledger.WrapStorage("credits.insert", errors.New("eof")), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountID := uuid.Must(uuid.NewV4())
			mockSvc := new(mockLedgerService)
			mockSvc.On("AssignCredit", mock.Anything, accountID, mock.Anything, mock.Anything).Return(nil, tt.serviceErr)

			resp := newTestAPI(t, mockSvc).Post("/v1/customer/"+accountID.String()+"/credit", AssignCreditBody{Amount: "1"})

			assert.Equal(t, tt.wantStatus, resp.Code)
		})
	}
}

func TestHTTP_AssignCredit_InvalidAmount(t *testing.T) {
	mockSvc := new(mockLedgerService)

	resp := newTestAPI(t, mockSvc).Post("/v1/customer/"+uuid.Must(uuid.NewV4()).String()+"/credit", AssignCreditBody{Amount: "ten"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "AssignCredit")
}

func TestHTTP_ListCredits(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	entries := []*ledger.CreditEntry{
		sampleEntry(accountID, "30", "10"),
		sampleEntry(accountID, "12", "12"),
	}
	mockSvc := new(mockLedgerService)
	mockSvc.On("ListCredits", mock.Anything, accountID).Return(entries, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/customer/" + accountID.String() + "/credits")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListCreditsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Credits, 2)
	assert.Equal(t, "partially_paid", body.Credits[0].Status)
	assert.Equal(t, "20", body.Credits[0].Outstanding)
	assert.Equal(t, "paid", body.Credits[1].Status)
}

func TestHTTP_ApplyPayment_Clamped(t *testing.T) {
	entry := sampleEntry(uuid.Must(uuid.NewV4()), "50", "50")
	mockSvc := new(mockLedgerService)
	mockSvc.On("ApplyPayment", mock.Anything, entry.ID, amountIs("60")).Return(entry, ledger.Payment{
		PreviousPaid: decimal.Zero,
		NewPaid:      decimal.RequireFromString("50"),
		Status:       ledger.CreditStatusPaid,
		Applied:      decimal.RequireFromString("50"),
		Excess:       decimal.RequireFromString("10"),
	}, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/credit/"+entry.ID.String()+"/payment", ApplyPaymentBody{Amount: "60"})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ApplyPaymentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "paid", body.Credit.Status)
	assert.Equal(t, "50", body.Applied)
	assert.Equal(t, "10", body.Excess)
}

func TestHTTP_ApplyPayment_Errors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "unknown credit", serviceErr: ledger.ErrCreditEntryNotFound, wantStatus: http.StatusNotFound},
		{name: "owning customer vanished", serviceErr: ledger.ErrOwningAccountNotFound, wantStatus: http.StatusNotFound},
		{name: "non-positive payment", serviceErr: ledger.ErrInvalidPaymentAmount, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creditID := uuid.Must(uuid.NewV4())
			mockSvc := new(mockLedgerService)
			mockSvc.On("ApplyPayment", mock.Anything, creditID, mock.Anything).Return(nil, ledger.Payment{}, tt.serviceErr)

			resp := newTestAPI(t, mockSvc).Post("/v1/credit/"+creditID.String()+"/payment", ApplyPaymentBody{Amount: "5"})

			assert.Equal(t, tt.wantStatus, resp.Code)
		})
	}
}

func TestHTTP_UpdateDescription(t *testing.T) {
	entry := sampleEntry(uuid.Must(uuid.NewV4()), "30", "5")
	entry.Description = "rice and beans"
	mockSvc := new(mockLedgerService)
	mockSvc.On("UpdateDescription", mock.Anything, entry.ID, "rice and beans").Return(entry, nil)

	resp := newTestAPI(t, mockSvc).Patch("/v1/credit/"+entry.ID.String()+"/description", UpdateDescriptionBody{
		Description: "rice and beans",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Credit
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "rice and beans", body.Description)
	assert.Equal(t, "5", body.PaidAmount)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_UpdateDescription_NotFound(t *testing.T) {
	creditID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockLedgerService)
	mockSvc.On("UpdateDescription", mock.Anything, creditID, "x").Return(nil, ledger.ErrCreditEntryNotFound)

	resp := newTestAPI(t, mockSvc).Patch("/v1/credit/"+creditID.String()+"/description", UpdateDescriptionBody{Description: "x"})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
