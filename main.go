package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/credit-ledger/api"
	"github.com/carson-networks/credit-ledger/internal/config"
	"github.com/carson-networks/credit-ledger/internal/events"
	"github.com/carson-networks/credit-ledger/internal/logging"
	"github.com/carson-networks/credit-ledger/internal/operator"
	"github.com/carson-networks/credit-ledger/internal/service"
	"github.com/carson-networks/credit-ledger/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("credit-ledger starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		logrus.WithError(err).Fatal("logging.SetLevel")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStorage(envConfig)
	if err != nil {
		logrus.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Error("storage.Close")
		}
	}()

	delegator := operator.NewOperatorDelegator(store, envConfig.OperatorWorkers)
	delegator.Start()
	defer delegator.Stop()
	logger.WithField("workers", delegator.Workers()).
		WithField("storage", envConfig.StorageDriver).
		Info("operator started")

	publisher := events.NewPublisher(envConfig.KafkaBrokers, envConfig.KafkaTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.WithError(err).Error("events.Publisher.Close")
		}
	}()

	svc := service.NewService(store, delegator, publisher, logger)

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.HTTPPort,
		Storage: store,
		Service: svc,
	}
	httpRest.Serve(ctx)
}
