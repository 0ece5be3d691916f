package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humamux"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/credit-ledger/internal/handlers/v1/credit"
	"github.com/carson-networks/credit-ledger/internal/handlers/v1/customer"
	"github.com/carson-networks/credit-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/credit-ledger/internal/logging"
	"github.com/carson-networks/credit-ledger/internal/service"
	"github.com/carson-networks/credit-ledger/internal/storage"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Storage *storage.Storage
	Service *service.Service
}

// Router wires every endpoint onto a gorilla/mux router.
func (r *Rest) Router() *mux.Router {
	router := mux.NewRouter()

	statusHandler := status.NewHandler(r.Storage)
	router.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humamux.New(router, huma.DefaultConfig("Credit Ledger", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))

	customer.NewCreateCustomerHandler(r.Service.Account).Register(api)
	customer.NewListCustomersHandler(r.Service.Account).Register(api)
	customer.NewGetCustomerHandler(r.Service.Account).Register(api)
	customer.NewReconcileCustomerHandler(r.Service.Account).Register(api)

	credit.NewAssignCreditHandler(r.Service.Ledger).Register(api)
	credit.NewListCreditsHandler(r.Service.Ledger).Register(api)
	credit.NewApplyPaymentHandler(r.Service.Ledger).Register(api)
	credit.NewUpdateDescriptionHandler(r.Service.Ledger).Register(api)

	return router
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Router(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	// closed once in-flight handlers have drained
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
	<-done
}
