package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accountpro/bookkeeper/internal/infrastructure/scripts"
)

// ScriptRunner runs report scripts.
type ScriptRunner interface {
	Run(ctx context.Context, action scripts.Action) (*scripts.Result, error)
}

// ScriptHandler forwards script runs to the script service.
type ScriptHandler struct {
	runner ScriptRunner
}

// NewScriptHandler creates a new ScriptHandler.
func NewScriptHandler(runner ScriptRunner) *ScriptHandler {
	return &ScriptHandler{runner: runner}
}

// Run runs the script named in the URL. A failed script is reported with
// 502 and the service's message.
func (h *ScriptHandler) Run(w http.ResponseWriter, r *http.Request) {
	action, err := scripts.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		writeDomainError(w, "unknown script", err)
		return
	}

	result, err := h.runner.Run(r.Context(), action)
	if err != nil {
		writeDomainError(w, "failed to run script", err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}

	writeJSON(w, status, result)
}
