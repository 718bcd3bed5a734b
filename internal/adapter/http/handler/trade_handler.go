package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/finboard/internal/adapter/http/dto"
	"github.com/iho/finboard/internal/adapter/http/middleware"
	"github.com/iho/finboard/internal/infrastructure/metrics"
	"github.com/iho/finboard/internal/usecase"
)

// TradeHandler handles trading journal HTTP requests.
type TradeHandler struct {
	tradeUC *usecase.TradeUseCase
	metrics *metrics.Metrics
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeUC *usecase.TradeUseCase, m *metrics.Metrics) *TradeHandler {
	return &TradeHandler{tradeUC: tradeUC, metrics: m}
}

// Create records a closed trade and its result entry.
func (h *TradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	userID := middleware.GetUserID(r.Context())
	trade, err := h.tradeUC.CreateTrade(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create trade", err.Error())
		return
	}

	h.metrics.TradesCreated.WithLabelValues(tradeOutcome(trade.Result.Sign())).Inc()
	writeJSON(w, http.StatusCreated, dto.TradeFromDomain(trade))
}

// List lists journal trades, newest first.
func (h *TradeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	trades, err := h.tradeUC.ListTrades(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list trades", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TradesFromDomain(trades))
}

// Delete removes a trade and its result entry.
func (h *TradeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing trade ID", "")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.tradeUC.DeleteTrade(r.Context(), userID, id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete trade", err.Error())
		return
	}

	h.metrics.TradesDeleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns win rate and cumulative P/L for the journal.
func (h *TradeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.tradeUC.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute stats", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TradeStatsResponse{
		TotalTrades: stats.TotalTrades,
		Winners:     stats.Winners,
		Losers:      stats.Losers,
		WinRatePct:  stats.WinRatePct,
		TotalPL:     stats.TotalPL,
	})
}

func tradeOutcome(sign int) string {
	switch {
	case sign > 0:
		return "win"
	case sign < 0:
		return "loss"
	default:
		return "break_even"
	}
}
