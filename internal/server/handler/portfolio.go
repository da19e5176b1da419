package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lotteryops/sentinelbet/internal/domain"
	"github.com/lotteryops/sentinelbet/internal/session"
)

// PortfolioHandler serves the selection set and its mutations.
type PortfolioHandler struct {
	session *session.Session
	logger  *slog.Logger
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(s *session.Session, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{session: s, logger: logHandler(logger, "portfolio")}
}

// GetPortfolio returns the selections grouped by match plus the combination
// summary.
// GET /api/portfolio
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.PortfolioView())
}

// Toggle flips a selection's membership by identity key.
// POST /api/portfolio/toggle
func (h *PortfolioHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var sel domain.Selection
	if err := decodeBody(r, &sel); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.session.Toggle(sel)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSelection) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "toggle failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "toggle failed")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveSelection deletes one selection by identity key.
// DELETE /api/portfolio/selections
func (h *PortfolioHandler) RemoveSelection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MatchID string            `json:"match_id"`
		Market  domain.MarketType `json:"market_type"`
		Pick    string            `json:"pick"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view := h.session.Remove(domain.SelectionKey{
		MatchID: body.MatchID,
		Market:  body.Market,
		Pick:    body.Pick,
	})
	writeJSON(w, http.StatusOK, view)
}

// Clear empties the portfolio.
// DELETE /api/portfolio
func (h *PortfolioHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.session.ClearPortfolio()
	writeJSON(w, http.StatusOK, h.session.PortfolioView())
}
