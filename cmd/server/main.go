package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/evadsh3ll/axelx/internal/api"
	"github.com/evadsh3ll/axelx/internal/client"
	"github.com/evadsh3ll/axelx/internal/config"
	"github.com/evadsh3ll/axelx/internal/logger"
	"github.com/evadsh3ll/axelx/internal/store"
	"github.com/evadsh3ll/axelx/internal/vault"
	"github.com/evadsh3ll/axelx/internal/watcher"
	"github.com/evadsh3ll/axelx/orchestrator"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// logNotifier stands in for the messaging front-end: matched alerts are
// written to the application log.
type logNotifier struct{}

func (logNotifier) SendMessage(ownerID, text string) error {
	logrus.WithField("owner", ownerID).Info(text)
	return nil
}

func main() {
	_ = godotenv.Load()

	if err := config.Init(); err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	cfg := config.Get()

	logger.Init(cfg.LogLevel, cfg.LogFile)

	if config.GetWalletSecret() == "" {
		logrus.Fatal("WALLET_SECRET is not set")
	}

	wallets, err := store.OpenBadger(cfg.DBPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open wallet store")
	}
	defer wallets.Close()

	venue := client.NewJupiterClient(cfg.JupiterBaseURL, cfg.JupiterAPIKey, config.GetRequestTimeout())
	watchers := watcher.New(config.GetPricePollInterval(), cfg.MaxWatchersPerUser)

	orch := orchestrator.New(
		vault.New(config.GetWalletSecret()),
		wallets,
		venue,
		watchers,
		logNotifier{},
		config.GetOrderTTL(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background sweep of expired order proposals.
	go orch.Ledger().Run(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.SetupRouter(orch),
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("shutdown failed")
	}
}
