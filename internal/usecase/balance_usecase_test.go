package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/usecase"
	"github.com/iho/finboard/internal/usecase/mocks"
)

func entry(id string, bucket domain.Bucket, dir domain.Direction, amount int64, category string) *domain.Entry {
	return &domain.Entry{
		ID:        id,
		UserID:    "user-1",
		Direction: dir,
		Amount:    decimal.NewFromInt(amount),
		Category:  category,
		Bucket:    bucket,
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestSumBucket(t *testing.T) {
	entries := []*domain.Entry{
		entry("e-1", domain.BucketGeneral, domain.DirectionIncome, 1000, "Salary"),
		entry("e-2", domain.BucketGeneral, domain.DirectionExpense, 300, "Rent"),
		entry("e-3", domain.BucketTrading, domain.DirectionIncome, 500, domain.CategoryReallocation),
		entry("e-4", domain.BucketTrading, domain.DirectionIncome, 120, domain.CategoryTradingResult),
		entry("e-5", domain.BucketInvestStocks, domain.DirectionIncome, 200, domain.CategoryReallocation),
	}

	tests := []struct {
		name    string
		bucket  domain.Bucket
		tradePL decimal.Decimal
		want    int64
	}{
		{
			name:    "general income minus expense",
			bucket:  domain.BucketGeneral,
			tradePL: decimal.Zero,
			want:    700,
		},
		{
			name:    "trading excludes result entries and adds journal pl",
			bucket:  domain.BucketTrading,
			tradePL: decimal.NewFromInt(120),
			want:    620,
		},
		{
			name:    "trading with losing journal",
			bucket:  domain.BucketTrading,
			tradePL: decimal.NewFromInt(-80),
			want:    420,
		},
		{
			name:    "bucket with no entries is zero",
			bucket:  domain.BucketInvestGold,
			tradePL: decimal.Zero,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecase.SumBucket(entries, tt.tradePL, tt.bucket)
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("SumBucket(%s) = %s, want %d", tt.bucket, got, tt.want)
			}
		})
	}
}

func TestSumBucket_OrderIndependent(t *testing.T) {
	forward := []*domain.Entry{
		entry("e-1", domain.BucketGeneral, domain.DirectionIncome, 1000, "Salary"),
		entry("e-2", domain.BucketGeneral, domain.DirectionExpense, 300, "Rent"),
		entry("e-3", domain.BucketGeneral, domain.DirectionIncome, 50, "Refund"),
	}
	reversed := []*domain.Entry{forward[2], forward[1], forward[0]}

	a := usecase.SumBucket(forward, decimal.Zero, domain.BucketGeneral)
	b := usecase.SumBucket(reversed, decimal.Zero, domain.BucketGeneral)
	if !a.Equal(b) {
		t.Errorf("balance depends on entry order: %s vs %s", a, b)
	}
}

func TestBalanceUseCase_AllBalances(t *testing.T) {
	entryRepo := mocks.NewMockEntryRepository()
	tradeRepo := mocks.NewMockTradeRepository()
	cache := mocks.NewMockCache()

	ctx := context.Background()
	entryRepo.Create(ctx, entry("e-1", domain.BucketGeneral, domain.DirectionIncome, 1000, "Salary"))
	entryRepo.Create(ctx, entry("e-2", domain.BucketTrading, domain.DirectionIncome, 400, domain.CategoryReallocation))

	uc := usecase.NewBalanceUseCase(entryRepo, tradeRepo, cache)

	balances, err := uc.AllBalances(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balances[domain.BucketGeneral].Equal(decimal.NewFromInt(1000)) {
		t.Errorf("general = %s, want 1000", balances[domain.BucketGeneral])
	}
	if !balances[domain.BucketTrading].Equal(decimal.NewFromInt(400)) {
		t.Errorf("trading = %s, want 400", balances[domain.BucketTrading])
	}

	// Second call must be served from cache, not the repository.
	entryRepo.ListAllFunc = func(ctx context.Context, userID string) ([]*domain.Entry, error) {
		t.Error("expected cached balances, repository was queried")
		return nil, nil
	}
	if _, err := uc.AllBalances(ctx, "user-1"); err != nil {
		t.Fatalf("unexpected error on cached read: %v", err)
	}

	// Invalidation forces a re-derive.
	uc.Invalidate(ctx, "user-1")
	called := false
	entryRepo.ListAllFunc = func(ctx context.Context, userID string) ([]*domain.Entry, error) {
		called = true
		return nil, nil
	}
	if _, err := uc.AllBalances(ctx, "user-1"); err != nil {
		t.Fatalf("unexpected error after invalidate: %v", err)
	}
	if !called {
		t.Error("expected repository query after invalidation")
	}
}

func TestBalanceUseCase_BucketBalance_InvalidBucket(t *testing.T) {
	uc := usecase.NewBalanceUseCase(mocks.NewMockEntryRepository(), mocks.NewMockTradeRepository(), nil)

	_, err := uc.BucketBalance(context.Background(), "user-1", "Savings")
	if err != domain.ErrInvalidBucket {
		t.Errorf("expected ErrInvalidBucket, got %v", err)
	}
}
