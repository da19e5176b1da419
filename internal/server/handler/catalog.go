// Package handler holds the HTTP handlers of the betting-desk API. Handlers
// translate between the wire and the session; all domain rules live below.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lotteryops/sentinelbet/internal/domain"
	"github.com/lotteryops/sentinelbet/internal/session"
)

// CatalogHandler serves the current catalog snapshot and refresh triggers.
type CatalogHandler struct {
	session *session.Session
	logger  *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(s *session.Session, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{session: s, logger: logHandler(logger, "catalog")}
}

// GetCatalog returns the matches for the active sport plus sync metadata.
// GET /api/catalog
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Catalog())
}

// Refresh re-acquires the catalog, superseding any in-flight fetch.
// POST /api/catalog/refresh
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Refresh(r.Context()); err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			writeError(w, http.StatusTooManyRequests, "refresh rate limit exceeded")
			return
		}
		h.logger.ErrorContext(r.Context(), "refresh failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, h.session.Catalog())
}
