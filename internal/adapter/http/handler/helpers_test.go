package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/finboard/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{domain.ErrEntryNotFound, http.StatusNotFound},
		{domain.ErrHoldingNotFound, http.StatusNotFound},
		{domain.ErrTradeNotFound, http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrInvalidBucket, http.StatusBadRequest},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrSameBucket, http.StatusBadRequest},
		{domain.ErrInsufficientBalance, http.StatusBadRequest},
		{domain.ErrHoldingClosed, http.StatusBadRequest},
		{domain.ErrInvalidQuantity, http.StatusBadRequest},
		{domain.ErrInvalidPrice, http.StatusBadRequest},
		{domain.ErrMissingDate, http.StatusBadRequest},
		{domain.ErrAmountTooLarge, http.StatusBadRequest},
		{domain.ErrDescTooLong, http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrExpiredToken, http.StatusUnauthorized},
		{domain.ErrPinNotSet, http.StatusForbidden},
		{domain.ErrPinMismatch, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			if got := mapDomainError(tc.err); got != tc.expected {
				t.Fatalf("mapDomainError(%v) = %d, want %d", tc.err, got, tc.expected)
			}
		})
	}
}

func TestMapDomainError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("allocating: %w", domain.ErrInsufficientBalance)
	if got := mapDomainError(wrapped); got != http.StatusBadRequest {
		t.Fatalf("expected wrapped errors to map, got %d", got)
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/entries?limit=25&offset=abc", nil)

	if got := parseIntQuery(req, "limit", 50); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}
	if got := parseIntQuery(req, "offset", 0); got != 0 {
		t.Fatalf("expected default 0 for malformed value, got %d", got)
	}
	if got := parseIntQuery(req, "missing", 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
}

func TestParseDateQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/entries?from=2024-03-01&to=03/01/2024", nil)

	from := parseDateQuery(req, "from")
	if from == nil || from.Format("2006-01-02") != "2024-03-01" {
		t.Fatalf("expected parsed date, got %v", from)
	}
	if parseDateQuery(req, "to") != nil {
		t.Fatalf("expected nil for malformed date")
	}
	if parseDateQuery(req, "missing") != nil {
		t.Fatalf("expected nil for absent parameter")
	}
}
