package handler

import (
	"net/http"

	"github.com/evadsh3ll/axelx/internal/model"
)

// ProposeTriggerOrder handles POST /orders/trigger
// @Summary      Propose trigger order
// @Description  Validates and records a price-triggered swap; nothing reaches the venue until confirmation
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body      model.TriggerOrderRequest  true  "Order parameters"
// @Success      200      {object}  model.Result
// @Router       /orders/trigger [post]
func (h *Handler) ProposeTriggerOrder(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req model.TriggerOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	writeResult(w, h.orch.ProposeTriggerOrder(req.UserID, model.TriggerParams{
		InputMint:   req.InputMint,
		OutputMint:  req.OutputMint,
		Amount:      req.Amount,
		TargetPrice: req.TargetPrice,
	}))
}

// ProposeRecurringOrder handles POST /orders/recurring
// @Summary      Propose recurring order
// @Description  Validates and records a recurring swap schedule
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body      model.RecurringOrderRequest  true  "Order parameters"
// @Success      200      {object}  model.Result
// @Router       /orders/recurring [post]
func (h *Handler) ProposeRecurringOrder(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req model.RecurringOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	writeResult(w, h.orch.ProposeRecurringOrder(req.UserID, model.RecurringParams{
		InputMint:       req.InputMint,
		OutputMint:      req.OutputMint,
		TotalAmount:     req.TotalAmount,
		NumberOfOrders:  req.NumberOfOrders,
		IntervalSeconds: req.IntervalSeconds,
	}))
}

// ConfirmOrder handles POST /orders/confirm
// @Summary      Confirm order
// @Description  Mints the proposed order at the venue; the unsigned transaction is held for execution
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body      model.OrderActionRequest  true  "Order token"
// @Success      200      {object}  model.Result
// @Router       /orders/confirm [post]
func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	req, ok := h.orderAction(w, r)
	if !ok {
		return
	}

	writeResult(w, h.orch.ConfirmOrder(r.Context(), req.UserID, req.OrderToken))
}

// ExecuteOrder handles POST /orders/execute
// @Summary      Execute order
// @Description  Signs the held transaction with the custody key and submits it; at most one attempt is in flight per token
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body      model.OrderActionRequest  true  "Order token"
// @Success      200      {object}  model.Result
// @Router       /orders/execute [post]
func (h *Handler) ExecuteOrder(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	req, ok := h.orderAction(w, r)
	if !ok {
		return
	}

	writeResult(w, h.orch.ExecuteOrder(r.Context(), req.UserID, req.OrderToken))
}

// CancelOrder handles POST /orders/cancel
// @Summary      Cancel order
// @Description  Removes the order locally; a minted order is also cancelled at the venue in the background
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body      model.OrderActionRequest  true  "Order token"
// @Success      200      {object}  model.Result
// @Router       /orders/cancel [post]
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	req, ok := h.orderAction(w, r)
	if !ok {
		return
	}

	writeResult(w, h.orch.CancelOrder(req.UserID, req.OrderToken))
}

// ListOrders handles GET /orders
// @Summary      List venue orders
// @Description  Lists the user's orders of one kind, either active or history
// @Tags         orders
// @Produce      json
// @Param        userId  query     string  true   "User id"
// @Param        kind    query     string  false  "trigger or recurring (default trigger)"
// @Param        status  query     string  false  "active or history (default active)"
// @Success      200     {object}  model.Result
// @Router       /orders [get]
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	q := r.URL.Query()
	userID := q.Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	kind := model.OrderKind(q.Get("kind"))
	if kind == "" {
		kind = model.OrderKindTrigger
	}
	if kind != model.OrderKindTrigger && kind != model.OrderKindRecurring {
		writeError(w, http.StatusBadRequest, "kind must be trigger or recurring")
		return
	}

	status := q.Get("status")
	if status == "" {
		status = "active"
	}

	writeResult(w, h.orch.ListOrders(r.Context(), userID, kind, status))
}

func (h *Handler) orderAction(w http.ResponseWriter, r *http.Request) (model.OrderActionRequest, bool) {
	var req model.OrderActionRequest
	if !decodeBody(w, r, &req) {
		return req, false
	}
	if req.UserID == "" || req.OrderToken == "" {
		writeError(w, http.StatusBadRequest, "userId and orderToken are required")
		return req, false
	}
	return req, true
}
