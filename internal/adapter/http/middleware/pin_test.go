package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/infrastructure/metrics"
)

// Prometheus collectors register once per test binary.
var testMetrics = metrics.New()

type fakePinVerifier struct {
	err error
}

func (f *fakePinVerifier) VerifyPin(ctx context.Context, userID, pin string) error {
	return f.err
}

func pinRequest(userID, pin string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/entries/e-1", nil)
	if userID != "" {
		ctx := context.WithValue(req.Context(), UserContextKey, &domain.User{ID: userID})
		req = req.WithContext(ctx)
	}
	if pin != "" {
		req.Header.Set(PinHeader, pin)
	}
	return req
}

func TestPinMiddleware_AllowsVerifiedPin(t *testing.T) {
	mw := NewPinMiddleware(&fakePinVerifier{}, testMetrics)

	called := false
	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, pinRequest("user-1", "123456"))

	if !called {
		t.Fatalf("handler should run when pin verifies")
	}
}

func TestPinMiddleware_RejectsBadPin(t *testing.T) {
	mw := NewPinMiddleware(&fakePinVerifier{err: domain.ErrPinMismatch}, testMetrics)

	called := false
	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, pinRequest("user-1", "654321"))

	if called {
		t.Fatalf("handler should not run on pin mismatch")
	}
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestPinMiddleware_RequiresHeader(t *testing.T) {
	mw := NewPinMiddleware(&fakePinVerifier{}, testMetrics)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without the pin header")
	})).ServeHTTP(rr, pinRequest("user-1", ""))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestPinMiddleware_RequiresAuthenticatedUser(t *testing.T) {
	mw := NewPinMiddleware(&fakePinVerifier{}, testMetrics)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a user")
	})).ServeHTTP(rr, pinRequest("", "123456"))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
