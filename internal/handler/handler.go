// Package handler exposes the orchestrator's operations over HTTP. Every
// endpoint answers with the uniform model.Result envelope; the HTTP status is
// derived from the result's error kind.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/evadsh3ll/axelx/internal/model"
	"github.com/evadsh3ll/axelx/orchestrator"
)

// Handler routes HTTP requests into the orchestrator.
type Handler struct {
	orch *orchestrator.Orchestrator
}

// New creates a Handler backed by the given orchestrator.
func New(orch *orchestrator.Orchestrator) *Handler {
	return &Handler{orch: orch}
}

// statusOf maps a result to its HTTP status code.
func statusOf(res model.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.ErrorKind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		return http.StatusConflict
	case model.KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeResult(w http.ResponseWriter, res model.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusOf(res))
	json.NewEncoder(w).Encode(res)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.Result{
		Success:     false,
		ErrorKind:   model.KindValidation,
		ErrorDetail: message,
	})
}

// decodeBody parses a JSON request body, reporting false after writing a 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// requirePost rejects non-POST methods.
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// requireGet rejects non-GET methods.
func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
