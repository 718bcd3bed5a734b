package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// HoldingPerformance is a holding with its derived return figures.
type HoldingPerformance struct {
	Holding   *domain.Holding
	NetProfit decimal.Decimal
	ROIPct    decimal.Decimal
}

// PortfolioSummary aggregates holdings into display figures.
type PortfolioSummary struct {
	Holdings     []HoldingPerformance
	MarketValue  decimal.Decimal
	CostBasis    decimal.Decimal
	UnrealizedPL decimal.Decimal
	Dividends    decimal.Decimal
	YieldPct     decimal.Decimal
}

// AllocationSlice is one category in the allocation breakdown.
type AllocationSlice struct {
	Name  string
	Value decimal.Decimal
	Pct   int64
}

// BuildSummary computes the portfolio summary over a holding set.
// Market value counts Running holdings only; unrealized P/L and yield
// cover every holding in scope. Yield is zero when the cost
// denominator is zero, never an error.
func BuildSummary(holdings []*domain.Holding) *PortfolioSummary {
	summary := &PortfolioSummary{
		Holdings:     make([]HoldingPerformance, 0, len(holdings)),
		MarketValue:  decimal.Zero,
		CostBasis:    decimal.Zero,
		UnrealizedPL: decimal.Zero,
		Dividends:    decimal.Zero,
		YieldPct:     decimal.Zero,
	}

	rawCost := decimal.Zero
	for _, h := range holdings {
		if h.Status == domain.HoldingRunning {
			summary.MarketValue = summary.MarketValue.Add(h.MarketValue())
		}
		summary.UnrealizedPL = summary.UnrealizedPL.Add(h.UnrealizedPL())
		summary.CostBasis = summary.CostBasis.Add(h.CostBasis())
		summary.Dividends = summary.Dividends.Add(h.Dividends)
		rawCost = rawCost.Add(h.AvgBuyPrice.Mul(h.Quantity))

		cost := h.CostBasis()
		profit := h.MarketValue().Add(h.Dividends).Sub(cost)
		summary.Holdings = append(summary.Holdings, HoldingPerformance{
			Holding:   h,
			NetProfit: profit,
			ROIPct:    h.ROIPct(),
		})
	}

	if rawCost.IsPositive() {
		summary.YieldPct = summary.UnrealizedPL.Div(rawCost).Mul(hundred).Round(2)
	}

	return summary
}

// BuildAllocation combines each category's market value (Running
// holdings) with the residual cash in its bucket and expresses every
// category as an integer percentage of the grand total. Categories
// with non-positive value are excluded, not shown as negative slices.
func BuildAllocation(holdings []*domain.Holding, balances map[domain.Bucket]decimal.Decimal) []AllocationSlice {
	marketByCategory := make(map[domain.HoldingCategory]decimal.Decimal)
	for _, h := range holdings {
		if h.Status != domain.HoldingRunning {
			continue
		}
		marketByCategory[h.Category] = marketByCategory[h.Category].Add(h.MarketValue())
	}

	slices := []AllocationSlice{
		{Name: "Trading", Value: balances[domain.BucketTrading]},
		{Name: "Stocks", Value: marketByCategory[domain.CategoryStocks].Add(balances[domain.BucketInvestStocks])},
		{Name: "Crypto", Value: marketByCategory[domain.CategoryCrypto].Add(balances[domain.BucketInvestCrypto])},
		{Name: "Gold", Value: marketByCategory[domain.CategoryGold].Add(balances[domain.BucketInvestGold])},
		{Name: "Cash", Value: balances[domain.BucketGeneral]},
	}

	total := decimal.Zero
	for _, s := range slices {
		if s.Value.IsPositive() {
			total = total.Add(s.Value)
		}
	}
	if total.IsZero() {
		return nil
	}

	result := make([]AllocationSlice, 0, len(slices))
	for _, s := range slices {
		if !s.Value.IsPositive() {
			continue
		}
		s.Pct = s.Value.Div(total).Mul(hundred).Round(0).IntPart()
		result = append(result, s)
	}

	return result
}

// ValuationUseCase computes portfolio valuations for display.
type ValuationUseCase struct {
	holdingRepo HoldingRepository
	balances    *BalanceUseCase
}

// NewValuationUseCase creates a new ValuationUseCase.
func NewValuationUseCase(holdingRepo HoldingRepository, balances *BalanceUseCase) *ValuationUseCase {
	return &ValuationUseCase{
		holdingRepo: holdingRepo,
		balances:    balances,
	}
}

// Summary returns the aggregate figures for holdings matching the
// filter.
func (uc *ValuationUseCase) Summary(ctx context.Context, userID string, filter HoldingFilter) (*PortfolioSummary, error) {
	holdings, err := uc.holdingRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return BuildSummary(holdings), nil
}

// Allocation returns the category allocation breakdown across market
// values and bucket cash.
func (uc *ValuationUseCase) Allocation(ctx context.Context, userID string) ([]AllocationSlice, error) {
	holdings, err := uc.holdingRepo.List(ctx, userID, HoldingFilter{})
	if err != nil {
		return nil, err
	}

	balances, err := uc.balances.AllBalances(ctx, userID)
	if err != nil {
		return nil, err
	}

	return BuildAllocation(holdings, balances), nil
}

// TotalUnrealizedPL sums unrealized P/L over every holding.
func (uc *ValuationUseCase) TotalUnrealizedPL(ctx context.Context, userID string) (decimal.Decimal, error) {
	holdings, err := uc.holdingRepo.List(ctx, userID, HoldingFilter{})
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.UnrealizedPL())
	}

	return total, nil
}
