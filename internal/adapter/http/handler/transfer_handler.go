package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/finboard/internal/adapter/http/dto"
	"github.com/iho/finboard/internal/adapter/http/middleware"
	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/infrastructure/metrics"
	"github.com/iho/finboard/internal/usecase"
)

// TransferHandler handles allocation transfer HTTP requests.
type TransferHandler struct {
	transferUC *usecase.TransferUseCase
	metrics    *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC *usecase.TransferUseCase, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, metrics: m}
}

// Allocate moves cash between buckets as a balanced entry pair.
func (h *TransferHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req dto.AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	userID := middleware.GetUserID(r.Context())
	debit, credit, err := h.transferUC.Allocate(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		h.metrics.TransferErrors.WithLabelValues(transferErrorType(err)).Inc()
		writeError(w, mapDomainError(err), "failed to allocate", err.Error())

		return
	}

	h.metrics.TransfersCreated.Inc()
	h.metrics.TransferAmount.Observe(req.Amount.InexactFloat64())

	writeJSON(w, http.StatusCreated, dto.TransferResponse{
		Debit:  dto.EntryFromDomain(debit),
		Credit: dto.EntryFromDomain(credit),
	})
}

func transferErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrSameBucket):
		return "same_bucket"
	case errors.Is(err, domain.ErrInvalidBucket):
		return "invalid_bucket"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrMissingDate):
		return "missing_date"
	default:
		return "internal"
	}
}
