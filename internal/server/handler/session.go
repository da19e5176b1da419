package handler

import (
	"log/slog"
	"net/http"

	"github.com/lotteryops/sentinelbet/internal/domain"
	"github.com/lotteryops/sentinelbet/internal/session"
)

// SessionHandler serves the sport and data-source switches. Both switches
// destroy the portfolio and re-acquire the catalog.
type SessionHandler struct {
	session *session.Session
	logger  *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(s *session.Session, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{session: s, logger: logHandler(logger, "session")}
}

// SwitchSport changes the active sport.
// PUT /api/session/sport
func (h *SessionHandler) SwitchSport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Sport domain.Sport `json:"sport"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.session.SwitchSport(r.Context(), body.Sport); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.session.Catalog())
}

// SwitchSource changes the active data source.
// PUT /api/session/source
func (h *SessionHandler) SwitchSource(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Source domain.SourceKind `json:"source"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.session.SwitchSource(r.Context(), body.Source); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.session.Catalog())
}
