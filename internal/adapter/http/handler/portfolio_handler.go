package handler

import (
	"net/http"

	"github.com/iho/finboard/internal/adapter/http/dto"
	"github.com/iho/finboard/internal/adapter/http/middleware"
	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/usecase"
)

// PortfolioHandler serves portfolio-level valuation views.
type PortfolioHandler struct {
	valuationUC *usecase.ValuationUseCase
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(valuationUC *usecase.ValuationUseCase) *PortfolioHandler {
	return &PortfolioHandler{valuationUC: valuationUC}
}

// Summary returns the portfolio summary, optionally filtered by
// category or status.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	filter := usecase.HoldingFilter{
		Category: domain.HoldingCategory(r.URL.Query().Get("category")),
		Status:   domain.HoldingStatus(r.URL.Query().Get("status")),
	}

	summary, err := h.valuationUC.Summary(r.Context(), userID, filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromUseCase(summary))
}

// Allocation returns the value-weighted category breakdown.
func (h *PortfolioHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	slices, err := h.valuationUC.Allocation(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build allocation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AllocationFromUseCase(slices))
}
