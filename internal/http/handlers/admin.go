package handlers

import (
	"log/slog"
	"net/http"

	"quizbowl-match-service/internal/logging"
)

// AdminHandler exposes admin-only endpoints (e.g., snapshot refresh).
type AdminHandler struct {
	saveAll func(r *http.Request) error
	token   string
	logger  *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. saveAll is invoked with the
// request context.
func NewAdminHandler(saveAll func(r *http.Request) error, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		saveAll: saveAll,
		token:   token,
		logger:  logger,
	}
}

// RefreshSnapshots forces a full archive sweep of every match.
// Guarded by ADMIN_TOKEN env; returns 401 if missing/invalid.
func (h *AdminHandler) RefreshSnapshots(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.saveAll == nil {
		writeError(w, r, http.StatusServiceUnavailable, "archive not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	if err := h.saveAll(r); err != nil {
		logging.Warn(logger, "admin snapshot sweep failed", slog.Any("err", err))
		writeError(w, r, http.StatusInternalServerError, "failed to write snapshots", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	logging.Info(logger, "admin snapshot sweep complete")
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.token
}
