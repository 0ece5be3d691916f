package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/credit-ledger/internal/ledger"
	"github.com/carson-networks/credit-ledger/internal/logging"
)

// ToHTTPError maps a ledger error to the HTTP status callers should see.
// Anything unrecognised is a 500 described by msg.
func ToHTTPError(ctx context.Context, err error, msg string) error {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("error", err.Error())
	}

	var limitErr *ledger.CreditLimitExceededError
	switch {
	case errors.As(err, &limitErr):
		return huma.NewError(http.StatusUnprocessableEntity, limitErr.Error())
	case errors.Is(err, ledger.ErrNotFound):
		return huma.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidInput):
		return huma.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return huma.NewError(http.StatusGatewayTimeout, msg, err)
	default:
		return huma.NewError(http.StatusInternalServerError, msg, err)
	}
}

// StartTimer records how long the named step takes on the request's
// LogData. Call the returned func when the step is done.
func StartTimer(ctx context.Context, name string) func() {
	if logData := logging.GetLogData(ctx); logData != nil {
		return logData.AddTiming(name)
	}
	return func() {}
}
