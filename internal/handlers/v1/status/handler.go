package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/carson-networks/credit-ledger/internal/logging"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Storage pinger
}

func NewHandler(store pinger) Handler {
	return Handler{Storage: store}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != "GET" {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	if h.Storage != nil {
		stopTimer := logData.AddTiming("pingMs")
		err := h.Storage.Ping(req.Context())
		stopTimer()
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return fmt.Errorf("status: storage unreachable: %w", err)
		}
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
