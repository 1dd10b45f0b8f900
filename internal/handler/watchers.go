package handler

import (
	"net/http"

	"github.com/evadsh3ll/axelx/internal/model"
)

// RegisterWatcher handles POST /watchers/register
// @Summary      Register price alert
// @Description  Starts a watcher that notifies the user once when the price crosses the threshold
// @Tags         watchers
// @Accept       json
// @Produce      json
// @Param        request  body      model.WatcherRequest  true  "Alert parameters"
// @Success      200      {object}  model.Result
// @Router       /watchers/register [post]
func (h *Handler) RegisterWatcher(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req model.WatcherRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Asset == "" {
		writeError(w, http.StatusBadRequest, "userId and asset are required")
		return
	}
	if !model.ValidCondition(req.Condition) {
		writeError(w, http.StatusBadRequest, "condition must be above or below")
		return
	}

	writeResult(w, h.orch.RegisterWatcher(r.Context(), req.UserID, req.Asset,
		model.WatchCondition(req.Condition), req.Threshold))
}

// CancelWatcher handles POST /watchers/cancel
// @Summary      Cancel price alert
// @Description  Stops one watcher; cancelling an unknown or already matched watcher is a no-op
// @Tags         watchers
// @Accept       json
// @Produce      json
// @Param        request  body      model.WatcherActionRequest  true  "Watcher id"
// @Success      200      {object}  model.Result
// @Router       /watchers/cancel [post]
func (h *Handler) CancelWatcher(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req model.WatcherActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.WatcherID == "" {
		writeError(w, http.StatusBadRequest, "userId and watcherId are required")
		return
	}

	writeResult(w, h.orch.CancelWatcher(req.UserID, req.WatcherID))
}

// CancelAllWatchers handles POST /watchers/cancel-all
// @Summary      Cancel all alerts
// @Description  Stops every live watcher the user has
// @Tags         watchers
// @Accept       json
// @Produce      json
// @Param        request  body      model.WalletRequest  true  "User"
// @Success      200      {object}  model.Result
// @Router       /watchers/cancel-all [post]
func (h *Handler) CancelAllWatchers(w http.ResponseWriter, r *http.Request) {
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

	writeResult(w, h.orch.CancelAllWatchers(req.UserID))
}

// ListWatchers handles GET /watchers
// @Summary      List live alerts
// @Description  Lists the user's live watchers
// @Tags         watchers
// @Produce      json
// @Param        userId  query     string  true  "User id"
// @Success      200     {object}  model.Result
// @Router       /watchers [get]
func (h *Handler) ListWatchers(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	writeResult(w, h.orch.ListWatchers(userID))
}
