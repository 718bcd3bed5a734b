package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
)

// TradeUseCase handles the trading journal. Each trade's realized
// result is mirrored into the Trading bucket as a "Trading Result"
// entry carrying the trade's id as source_id, so deletion can remove
// the pair without matching on description text.
type TradeUseCase struct {
	txManager TransactionManager
	tradeRepo TradeRepository
	entryRepo EntryRepository
	idGen     IDGenerator
	balances  *BalanceUseCase
}

// NewTradeUseCase creates a new TradeUseCase.
func NewTradeUseCase(
	txManager TransactionManager,
	tradeRepo TradeRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	balances *BalanceUseCase,
) *TradeUseCase {
	return &TradeUseCase{
		txManager: txManager,
		tradeRepo: tradeRepo,
		entryRepo: entryRepo,
		idGen:     idGen,
		balances:  balances,
	}
}

// CreateTradeInput represents input for recording a closed trade.
type CreateTradeInput struct {
	Date       time.Time
	UserID     string
	Pair       string
	Direction  domain.TradeDirection
	Notes      string
	LotSize    decimal.Decimal
	EntryPrice decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
	Result     decimal.Decimal
}

// CreateTrade records a trade and its correlated ledger entry in one
// transaction. The entry is Income for a non-negative result, Expense
// of the absolute value otherwise.
func (uc *TradeUseCase) CreateTrade(ctx context.Context, input CreateTradeInput) (*domain.Trade, error) {
	now := time.Now().UTC()

	trade := &domain.Trade{
		ID:         uc.idGen.Generate(),
		UserID:     input.UserID,
		Pair:       input.Pair,
		Direction:  input.Direction,
		LotSize:    input.LotSize,
		EntryPrice: input.EntryPrice,
		StopLoss:   input.StopLoss,
		TakeProfit: input.TakeProfit,
		Result:     input.Result,
		Date:       domain.Day(input.Date),
		Notes:      input.Notes,
		CreatedAt:  now,
	}

	if err := trade.Validate(); err != nil {
		return nil, err
	}

	direction := domain.DirectionIncome
	if input.Result.IsNegative() {
		direction = domain.DirectionExpense
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		UserID:      input.UserID,
		SourceID:    trade.ID,
		Direction:   direction,
		Amount:      input.Result.Abs(),
		Category:    domain.CategoryTradingResult,
		Bucket:      domain.BucketTrading,
		Date:        trade.Date,
		Description: fmt.Sprintf("%s %s (%s)", trade.Direction, trade.Pair, trade.Result),
		CreatedAt:   now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.tradeRepo.CreateTx(ctx, tx, trade); err != nil {
		return nil, err
	}
	if err := uc.entryRepo.CreateTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.balances.Invalidate(ctx, input.UserID)

	return trade, nil
}

// DeleteTrade removes a trade and the entries it produced in one
// transaction.
func (uc *TradeUseCase) DeleteTrade(ctx context.Context, userID, id string) error {
	trade, err := uc.tradeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if trade.UserID != userID {
		return domain.ErrTradeNotFound
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.entryRepo.DeleteBySourceTx(ctx, tx, id); err != nil {
		return err
	}
	if err := uc.tradeRepo.DeleteTx(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.balances.Invalidate(ctx, userID)

	return nil
}

// ListTrades lists trades with pagination, newest first.
func (uc *TradeUseCase) ListTrades(ctx context.Context, userID string, limit, offset int) ([]*domain.Trade, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	return uc.tradeRepo.List(ctx, userID, limit, offset)
}

// TradeStats summarizes the journal.
type TradeStats struct {
	TotalTrades int
	Winners     int
	Losers      int
	WinRatePct  decimal.Decimal
	TotalPL     decimal.Decimal
}

// Stats computes journal-wide statistics.
func (uc *TradeUseCase) Stats(ctx context.Context, userID string) (*TradeStats, error) {
	trades, err := uc.tradeRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &TradeStats{WinRatePct: decimal.Zero, TotalPL: decimal.Zero}
	for _, t := range trades {
		stats.TotalTrades++
		if t.Result.IsPositive() {
			stats.Winners++
		} else if t.Result.IsNegative() {
			stats.Losers++
		}
		stats.TotalPL = stats.TotalPL.Add(t.Result)
	}

	if stats.TotalTrades > 0 {
		stats.WinRatePct = decimal.NewFromInt(int64(stats.Winners)).
			Div(decimal.NewFromInt(int64(stats.TotalTrades))).
			Mul(hundred).Round(2)
	}

	return stats, nil
}
