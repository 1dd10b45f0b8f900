package api

import (
	"net/http"

	"github.com/evadsh3ll/axelx/internal/handler"
	"github.com/evadsh3ll/axelx/orchestrator"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(orch *orchestrator.Orchestrator) http.Handler {
	h := handler.New(orch)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet endpoints
	mux.HandleFunc("/wallet/create", h.CreateWallet)
	mux.HandleFunc("/wallet/export", h.ExportWallet)
	mux.HandleFunc("/wallet/balance", h.GetBalance)
	mux.HandleFunc("/wallet/receive", h.ReceivePayment)
	mux.HandleFunc("/wallet/pay", h.Pay)

	// Market endpoints
	mux.HandleFunc("/tokens/info", h.GetTokenInfo)
	mux.HandleFunc("/swap/route", h.GetRoute)

	// Order lifecycle endpoints
	mux.HandleFunc("/orders", h.ListOrders)
	mux.HandleFunc("/orders/trigger", h.ProposeTriggerOrder)
	mux.HandleFunc("/orders/recurring", h.ProposeRecurringOrder)
	mux.HandleFunc("/orders/confirm", h.ConfirmOrder)
	mux.HandleFunc("/orders/execute", h.ExecuteOrder)
	mux.HandleFunc("/orders/cancel", h.CancelOrder)

	// Watcher endpoints
	mux.HandleFunc("/watchers", h.ListWatchers)
	mux.HandleFunc("/watchers/register", h.RegisterWatcher)
	mux.HandleFunc("/watchers/cancel", h.CancelWatcher)
	mux.HandleFunc("/watchers/cancel-all", h.CancelAllWatchers)

	return mux
}
