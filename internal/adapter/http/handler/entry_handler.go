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

// EntryHandler handles ledger entry HTTP requests.
type EntryHandler struct {
	entryUC *usecase.EntryUseCase
	metrics *metrics.Metrics
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC *usecase.EntryUseCase, m *metrics.Metrics) *EntryHandler {
	return &EntryHandler{entryUC: entryUC, metrics: m}
}

// Create creates a new ledger entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	userID := middleware.GetUserID(r.Context())
	entry, err := h.entryUC.CreateEntry(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create entry", err.Error())
		return
	}

	h.metrics.EntriesCreated.WithLabelValues(string(entry.Bucket), string(entry.Direction)).Inc()
	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// List lists ledger entries with optional filters.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	filter := usecase.EntryFilter{
		From:     parseDateQuery(r, "from"),
		To:       parseDateQuery(r, "to"),
		Bucket:   domain.Bucket(r.URL.Query().Get("bucket")),
		Category: r.URL.Query().Get("category"),
		Limit:    parseIntQuery(r, "limit", 50),
		Offset:   parseIntQuery(r, "offset", 0),
	}

	entries, err := h.entryUC.ListEntries(r.Context(), userID, filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Delete deletes a ledger entry.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.entryUC.DeleteEntry(r.Context(), userID, id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete entry", err.Error())
		return
	}

	h.metrics.EntriesDeleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Totals returns the user's lifetime income/expense totals.
func (h *EntryHandler) Totals(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	totals, err := h.entryUC.Totals(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute totals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TotalsResponse{
		Income:  totals.Income,
		Expense: totals.Expense,
		Net:     totals.Net,
	})
}
