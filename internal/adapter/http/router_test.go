package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/finboard/internal/adapter/http/handler"
	apimiddleware "github.com/iho/finboard/internal/adapter/http/middleware"
	"github.com/iho/finboard/internal/infrastructure/auth"
	"github.com/iho/finboard/internal/infrastructure/logger"
	"github.com/iho/finboard/internal/infrastructure/metrics"
	"github.com/iho/finboard/internal/usecase"
	"github.com/iho/finboard/internal/usecase/mocks"
)

// Prometheus collectors register once per test binary.
var testMetrics = metrics.New()

var testJWT = auth.NewJWTManager("router-test-secret", time.Hour)

func newRouterConfig(overrides ...func(cfg *RouterConfig)) RouterConfig {
	entryRepo := mocks.NewMockEntryRepository()
	holdingRepo := mocks.NewMockHoldingRepository()
	tradeRepo := mocks.NewMockTradeRepository()
	userRepo := mocks.NewMockUserRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	balances := usecase.NewBalanceUseCase(entryRepo, tradeRepo, nil)
	entryUC := usecase.NewEntryUseCase(entryRepo, idGen, balances)
	transferUC := usecase.NewTransferUseCase(txManager, entryRepo, tradeRepo, idGen, balances)
	holdingUC := usecase.NewHoldingUseCase(txManager, holdingRepo, entryRepo, tradeRepo, idGen, balances)
	tradeUC := usecase.NewTradeUseCase(txManager, tradeRepo, entryRepo, idGen, balances)
	valuationUC := usecase.NewValuationUseCase(holdingRepo, balances)
	seriesUC := usecase.NewSeriesUseCase(entryRepo, holdingRepo)
	reconcileUC := usecase.NewReconcileUseCase(entryRepo)
	userUC := usecase.NewUserUseCase(userRepo, idGen, &mocks.MockTokenIssuer{}, "")

	cfg := RouterConfig{
		AuthHandler:      handler.NewAuthHandler(userUC, testMetrics),
		EntryHandler:     handler.NewEntryHandler(entryUC, testMetrics),
		TransferHandler:  handler.NewTransferHandler(transferUC, testMetrics),
		LedgerHandler:    handler.NewLedgerHandler(balances, seriesUC, reconcileUC),
		HoldingHandler:   handler.NewHoldingHandler(holdingUC, testMetrics),
		TradeHandler:     handler.NewTradeHandler(tradeUC, testMetrics),
		PortfolioHandler: handler.NewPortfolioHandler(valuationUC),
		HealthHandler:    handler.NewHealthHandler(nil, nil),
		JWTManager:       testJWT,
		PinVerifier:      userUC,
		Metrics:          testMetrics,
		Logger:           logger.New(logger.Config{Level: "error", Format: "json"}),
	}

	for _, override := range overrides {
		override(&cfg)
	}
	return cfg
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	router := NewRouter(newRouterConfig())

	for _, path := range []string{"/api/v1/balances", "/api/v1/entries", "/api/v1/portfolio/summary"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected %s to return 401 without a token, got %d", path, rec.Code)
		}
	}
}

func TestNewRouter_AuthenticatedEntryFlow(t *testing.T) {
	router := NewRouter(newRouterConfig())

	token, err := testJWT.Issue("user-1", "alex@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	body := `{"date":"2024-03-01T00:00:00Z","direction":"Income","category":"Salary","bucket":"General","amount":"2500"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/balances", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Balances map[string]string `json:"balances"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode balances: %v", err)
	}
	if resp.Balances["General"] != "2500" {
		t.Fatalf("expected General balance 2500, got %q", resp.Balances["General"])
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}
