package customer

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

type ReconcileCustomerInput struct {
	AccountID string `path:"accountID" format:"uuid" doc:"Customer UUID"`
}

type ReconcileCustomerResponse struct {
	Customer Customer `json:"customer" doc:"Customer after reconciliation"`
	Drift    string   `json:"drift" doc:"Decimal difference between the cached debt and the debt recomputed from credits"`
}

type ReconcileCustomerOutput struct {
	Body ReconcileCustomerResponse
}

type customerReconciler interface {
	ReconcileAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, decimal.Decimal, error)
}

// ReconcileCustomerHandler handles POST /v1/customer/{accountID}/reconcile.
type ReconcileCustomerHandler struct {
	AccountService customerReconciler
}

func NewReconcileCustomerHandler(svc customerReconciler) *ReconcileCustomerHandler {
	return &ReconcileCustomerHandler{AccountService: svc}
}

func (h *ReconcileCustomerHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "reconcile-customer",
		Method:      http.MethodPost,
		Path:        "/v1/customer/{accountID}/reconcile",
		Summary:     "Reconcile a customer's debt",
		Description: "Recomputes the customer's debt from its credits and stores the result.",
		Tags:        []string{"Customers"},
	}, h.handle)
}

func (h *ReconcileCustomerHandler) handle(ctx context.Context, input *ReconcileCustomerInput) (*ReconcileCustomerOutput, error) {
	id, err := uuid.FromString(input.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountID", err)
	}

	stopTimer := handlers.StartTimer(ctx, "reconcileCustomerMs")
	acc, drift, err := h.AccountService.ReconcileAccount(ctx, id)
	stopTimer()
	if err != nil {
		return nil, handlers.ToHTTPError(ctx, err, "failed to reconcile customer")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("drift", drift.String())
	}

	return &ReconcileCustomerOutput{
		Body: ReconcileCustomerResponse{
			Customer: fromLedger(acc),
			Drift:    drift.String(),
		},
	}, nil
}
