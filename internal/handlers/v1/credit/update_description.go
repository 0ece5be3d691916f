package credit

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/credit-ledger/internal/handlers"
	"github.com/carson-networks/credit-ledger/internal/ledger"
)

type UpdateDescriptionBody struct {
	Description string `json:"description" doc:"New description"`
}

type UpdateDescriptionInput struct {
	CreditID string `path:"creditID" format:"uuid" doc:"Credit UUID"`
	Body     UpdateDescriptionBody
}

type UpdateDescriptionOutput struct {
	Body Credit
}

type descriptionUpdater interface {
	UpdateDescription(ctx context.Context, creditID uuid.UUID, description string) (*ledger.CreditEntry, error)
}

// UpdateDescriptionHandler handles PATCH /v1/credit/{creditID}/description.
type UpdateDescriptionHandler struct {
	LedgerService descriptionUpdater
}

func NewUpdateDescriptionHandler(svc descriptionUpdater) *UpdateDescriptionHandler {
	return &UpdateDescriptionHandler{LedgerService: svc}
}

func (h *UpdateDescriptionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-credit-description",
		Method:      http.MethodPatch,
		Path:        "/v1/credit/{creditID}/description",
		Summary:     "Edit a credit's description",
		Description: "Changes only the description; amounts and status are untouched.",
		Tags:        []string{"Credits"},
	}, h.handle)
}

func (h *UpdateDescriptionHandler) handle(ctx context.Context, input *UpdateDescriptionInput) (*UpdateDescriptionOutput, error) {
	creditID, err := uuid.FromString(input.CreditID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid creditID", err)
	}

	stopTimer := handlers.StartTimer(ctx, "updateDescriptionMs")
	entry, err := h.LedgerService.UpdateDescription(ctx, creditID, input.Body.Description)
	stopTimer()
	if err != nil {
		return nil, handlers.ToHTTPError(ctx, err, "failed to update description")
	}

	return &UpdateDescriptionOutput{Body: fromLedger(entry)}, nil
}
