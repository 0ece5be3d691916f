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

// ApplyPaymentBody is the request body for paying towards a credit.
type ApplyPaymentBody struct {
	Amount string `json:"amount" minLength:"1" doc:"Decimal amount paid, must be positive"`
}

type ApplyPaymentInput struct {
	CreditID string `path:"creditID" format:"uuid" doc:"Credit UUID"`
	Body     ApplyPaymentBody
}

// ApplyPaymentResponse carries the updated credit and how the payment was
// split between the debt and change due.
type ApplyPaymentResponse struct {
	Credit  Credit `json:"credit" doc:"Credit after the payment"`
	Applied string `json:"applied" doc:"Decimal part of the payment that reduced the debt"`
	Excess  string `json:"excess" doc:"Decimal part of the payment beyond what was owed"`
}

type ApplyPaymentOutput struct {
	Body ApplyPaymentResponse
}

type paymentApplier interface {
	ApplyPayment(ctx context.Context, creditID uuid.UUID, amount decimal.Decimal) (*ledger.CreditEntry, ledger.Payment, error)
}

// ApplyPaymentHandler handles POST /v1/credit/{creditID}/payment.
type ApplyPaymentHandler struct {
	LedgerService paymentApplier
}

func NewApplyPaymentHandler(svc paymentApplier) *ApplyPaymentHandler {
	return &ApplyPaymentHandler{LedgerService: svc}
}

func (h *ApplyPaymentHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "apply-payment",
		Method:      http.MethodPost,
		Path:        "/v1/credit/{creditID}/payment",
		Summary:     "Pay towards a credit",
		Description: "Records a payment. Anything beyond the outstanding amount is reported as excess and not applied.",
		Tags:        []string{"Credits"},
	}, h.handle)
}

func (h *ApplyPaymentHandler) handle(ctx context.Context, input *ApplyPaymentInput) (*ApplyPaymentOutput, error) {
	creditID, err := uuid.FromString(input.CreditID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid creditID", err)
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	stopTimer := handlers.StartTimer(ctx, "applyPaymentMs")
	entry, payment, err := h.LedgerService.ApplyPayment(ctx, creditID, amount)
	stopTimer()
	if err != nil {
		return nil, handlers.ToHTTPError(ctx, err, "failed to apply payment")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("creditID", creditID.String())
		logData.AddData("status", string(entry.Status))
	}

	return &ApplyPaymentOutput{
		Body: ApplyPaymentResponse{
			Credit:  fromLedger(entry),
			Applied: payment.Applied.String(),
			Excess:  payment.Excess.String(),
		},
	}, nil
}
