package middleware

import (
	"context"
	"net/http"

	"github.com/iho/finboard/internal/infrastructure/metrics"
)

// PinVerifier checks an action PIN for a user.
type PinVerifier interface {
	VerifyPin(ctx context.Context, userID, pin string) error
}

// PinHeader is the header carrying the action PIN for guarded routes.
const PinHeader = "X-Action-Pin"

// PinMiddleware gates destructive routes behind the action PIN. It
// runs after AuthMiddleware and rejects the request unless the header
// PIN verifies for the authenticated user.
type PinMiddleware struct {
	verifier PinVerifier
	metrics  *metrics.Metrics
}

// NewPinMiddleware creates a new PinMiddleware.
func NewPinMiddleware(verifier PinVerifier, m *metrics.Metrics) *PinMiddleware {
	return &PinMiddleware{verifier: verifier, metrics: m}
}

// Wrap wraps an http.Handler with the PIN check.
func (m *PinMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := GetUserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		pin := r.Header.Get(PinHeader)
		if pin == "" {
			http.Error(w, "missing action pin", http.StatusForbidden)
			return
		}

		if err := m.verifier.VerifyPin(r.Context(), userID, pin); err != nil {
			m.metrics.PinChecks.WithLabelValues("rejected").Inc()
			http.Error(w, "action pin rejected", http.StatusForbidden)

			return
		}

		m.metrics.PinChecks.WithLabelValues("verified").Inc()
		next.ServeHTTP(w, r)
	})
}
