package handler

import (
	"net/http"

	"github.com/iho/finboard/internal/adapter/http/dto"
	"github.com/iho/finboard/internal/adapter/http/middleware"
	"github.com/iho/finboard/internal/usecase"
)

// LedgerHandler serves derived ledger views: balances, the net-worth
// series and the consistency report.
type LedgerHandler struct {
	balanceUC   *usecase.BalanceUseCase
	seriesUC    *usecase.SeriesUseCase
	reconcileUC *usecase.ReconcileUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(
	balanceUC *usecase.BalanceUseCase,
	seriesUC *usecase.SeriesUseCase,
	reconcileUC *usecase.ReconcileUseCase,
) *LedgerHandler {
	return &LedgerHandler{
		balanceUC:   balanceUC,
		seriesUC:    seriesUC,
		reconcileUC: reconcileUC,
	}
}

// Balances returns the derived balance of every bucket.
func (h *LedgerHandler) Balances(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	balances, err := h.balanceUC.AllBalances(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to derive balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// Series returns the OHLC net-worth series at the requested
// granularity (daily when absent).
func (h *LedgerHandler) Series(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	granularity := usecase.Granularity(r.URL.Query().Get("granularity"))
	if granularity == "" {
		granularity = usecase.GranularityDaily
	}
	if !granularity.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid granularity", string(granularity))
		return
	}

	bars, err := h.seriesUC.Series(r.Context(), userID, granularity)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build series", err.Error())
		return
	}
	if bars == nil {
		bars = []usecase.Bar{}
	}

	writeJSON(w, http.StatusOK, bars)
}

// Consistency returns the double-entry consistency report.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	report, err := h.reconcileUC.CheckConsistency(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconcileResponse{
		Consistent: report.Consistent,
		Violations: report.Violations,
	})
}
