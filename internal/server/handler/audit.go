package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lotteryops/sentinelbet/internal/domain"
	"github.com/lotteryops/sentinelbet/internal/session"
)

// AuditHandler serves audit triggers and the latest result.
type AuditHandler struct {
	session *session.Session
	logger  *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(s *session.Session, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{session: s, logger: logHandler(logger, "audit")}
}

// RunAudit submits the portfolio to the risk oracle.
// POST /api/audit
func (h *AuditHandler) RunAudit(w http.ResponseWriter, r *http.Request) {
	result, err := h.session.RunAudit(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyPortfolio):
			writeError(w, http.StatusBadRequest, "portfolio is empty")
		case errors.Is(err, domain.ErrAuditInFlight):
			writeError(w, http.StatusConflict, "an audit is already in progress")
		case errors.Is(err, domain.ErrMalformedResponse):
			// Never surface a partial or guessed result.
			writeError(w, http.StatusBadGateway, "audit engine unavailable")
		case errors.Is(err, domain.ErrConfiguration):
			writeError(w, http.StatusServiceUnavailable, "audit engine not configured")
		default:
			h.logger.ErrorContext(r.Context(), "audit failed", slog.String("error", err.Error()))
			writeError(w, http.StatusBadGateway, "audit engine unavailable")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetAudit returns the cached result, or a stale/absent marker when the
// portfolio has mutated since the last audit.
// GET /api/audit
func (h *AuditHandler) GetAudit(w http.ResponseWriter, r *http.Request) {
	if result, ok := h.session.LatestAudit(); ok {
		writeJSON(w, http.StatusOK, result)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stale":       true,
		"result":      nil,
		"in_progress": h.session.AuditInFlight(),
	})
}
