package handler

import (
	"net/http"

	"github.com/evadsh3ll/axelx/internal/model"
)

// CreateWallet handles POST /wallet/create
// @Summary      Create custody wallet
// @Description  Generates a wallet for the user; the private key is returned exactly once
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.WalletRequest  true  "User"
// @Success      200      {object}  model.Result
// @Router       /wallet/create [post]
func (h *Handler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req model.WalletRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	writeResult(w, h.orch.CreateWallet(req.UserID))
}

// ExportWallet handles POST /wallet/export
// @Summary      Export private key
// @Description  Decrypts and returns the user's private key
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.WalletRequest  true  "User"
// @Success      200      {object}  model.Result
// @Router       /wallet/export [post]
func (h *Handler) ExportWallet(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req model.WalletRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	writeResult(w, h.orch.ExportWallet(req.UserID))
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balances
// @Description  Lists the user's per-token balances
// @Tags         wallet
// @Produce      json
// @Param        userId  query     string  true  "User id"
// @Success      200     {object}  model.Result
// @Router       /wallet/balance [get]
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	writeResult(w, h.orch.GetBalance(r.Context(), userID))
}

// ReceivePayment handles POST /wallet/receive
// @Summary      Build payment request
// @Description  Returns the user's address plus a QR code a payer can scan
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ReceiveRequest  true  "Payment request"
// @Success      200      {object}  model.Result
// @Router       /wallet/receive [post]
func (h *Handler) ReceivePayment(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req model.ReceiveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	writeResult(w, h.orch.ReceivePayment(req.UserID, req.Amount))
}

// Pay handles POST /wallet/pay
// @Summary      Pay USDC
// @Description  Swaps the user's SOL into an exact USDC amount and delivers it to the recipient
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayRequest  true  "Payment"
// @Success      200      {object}  model.Result
// @Router       /wallet/pay [post]
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req model.PayRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Recipient == "" {
		writeError(w, http.StatusBadRequest, "userId and recipient are required")
		return
	}

	writeResult(w, h.orch.Pay(r.Context(), req.UserID, req.Recipient, req.Amount))
}

// GetTokenInfo handles GET /tokens/info
// @Summary      Look up a token
// @Description  Resolves a token by symbol, name or mint and returns its metadata and price
// @Tags         tokens
// @Produce      json
// @Param        query  query     string  true  "Symbol, name or mint address"
// @Success      200    {object}  model.Result
// @Router       /tokens/info [get]
func (h *Handler) GetTokenInfo(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	writeResult(w, h.orch.GetTokenInfo(r.Context(), query))
}

// GetRoute handles GET /swap/route
// @Summary      Quote and execute a swap
// @Description  Quotes a swap for the user and executes it when the venue returns a transaction
// @Tags         swap
// @Produce      json
// @Param        userId      query     string  true  "User id"
// @Param        inputMint   query     string  true  "Input mint"
// @Param        outputMint  query     string  true  "Output mint"
// @Param        amount      query     string  true  "Raw input amount"
// @Success      200         {object}  model.Result
// @Router       /swap/route [get]
func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	q := r.URL.Query()
	userID := q.Get("userId")
	inputMint := q.Get("inputMint")
	outputMint := q.Get("outputMint")
	amount := q.Get("amount")
	if userID == "" || inputMint == "" || outputMint == "" || amount == "" {
		writeError(w, http.StatusBadRequest, "userId, inputMint, outputMint and amount are required")
		return
	}

	writeResult(w, h.orch.GetRoute(r.Context(), userID, inputMint, outputMint, amount))
}
