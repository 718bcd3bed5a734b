package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/finboard/internal/adapter/http/dto"
	"github.com/iho/finboard/internal/adapter/http/middleware"
	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/infrastructure/metrics"
	"github.com/iho/finboard/internal/usecase"
)

// HoldingHandler handles portfolio holding HTTP requests.
type HoldingHandler struct {
	holdingUC *usecase.HoldingUseCase
	metrics   *metrics.Metrics
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(holdingUC *usecase.HoldingUseCase, m *metrics.Metrics) *HoldingHandler {
	return &HoldingHandler{holdingUC: holdingUC, metrics: m}
}

// Purchase opens a new position funded from the Investments bucket.
func (h *HoldingHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req dto.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	userID := middleware.GetUserID(r.Context())
	holding, err := h.holdingUC.Purchase(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to purchase holding", err.Error())
		return
	}

	h.metrics.HoldingsPurchased.Inc()
	writeJSON(w, http.StatusCreated, dto.HoldingFromDomain(holding))
}

// List lists the user's holdings with optional filters.
func (h *HoldingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	filter := usecase.HoldingFilter{
		Category: domain.HoldingCategory(r.URL.Query().Get("category")),
		Status:   domain.HoldingStatus(r.URL.Query().Get("status")),
	}

	holdings, err := h.holdingUC.ListHoldings(r.Context(), userID, filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list holdings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HoldingsFromDomain(holdings))
}

// Get retrieves a holding by ID, including its candle history.
func (h *HoldingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing holding ID", "")
		return
	}

	userID := middleware.GetUserID(r.Context())
	holding, err := h.holdingUC.GetHolding(r.Context(), userID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get holding", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HoldingFromDomain(holding))
}

// Settle closes a running position at its current price.
func (h *HoldingHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing holding ID", "")
		return
	}

	var req dto.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	holding, err := h.holdingUC.Settle(r.Context(), usecase.SettleInput{
		UserID:    middleware.GetUserID(r.Context()),
		HoldingID: id,
		Fee:       req.Fee,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to settle holding", err.Error())
		return
	}

	h.metrics.HoldingsSettled.Inc()
	writeJSON(w, http.StatusOK, dto.HoldingFromDomain(holding))
}

// Dividend records a dividend payout into the Investments bucket.
func (h *HoldingHandler) Dividend(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing holding ID", "")
		return
	}

	var req dto.DividendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	userID := middleware.GetUserID(r.Context())
	holding, err := h.holdingUC.RecordDividend(r.Context(), userID, id, req.Amount, req.Date)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record dividend", err.Error())
		return
	}

	h.metrics.DividendsRecorded.Inc()
	writeJSON(w, http.StatusOK, dto.HoldingFromDomain(holding))
}

// UpdatePrice marks a running holding to a new price.
func (h *HoldingHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing holding ID", "")
		return
	}

	var req dto.UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	userID := middleware.GetUserID(r.Context())
	holding, err := h.holdingUC.UpdatePrice(r.Context(), userID, id, req.Price)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update price", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HoldingFromDomain(holding))
}

// Delete removes a holding and its ledger entries.
func (h *HoldingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing holding ID", "")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.holdingUC.DeleteHolding(r.Context(), userID, id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete holding", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
