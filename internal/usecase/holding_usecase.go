package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
)

// HoldingUseCase handles the investment holding lifecycle. Every
// purchase, settlement and dividend writes a correlated ledger entry
// (source_id = holding id) in the category's Investment-* bucket, in
// the same transaction as the holding change.
type HoldingUseCase struct {
	txManager   TransactionManager
	holdingRepo HoldingRepository
	entryRepo   EntryRepository
	tradeRepo   TradeRepository
	idGen       IDGenerator
	balances    *BalanceUseCase
}

// NewHoldingUseCase creates a new HoldingUseCase.
func NewHoldingUseCase(
	txManager TransactionManager,
	holdingRepo HoldingRepository,
	entryRepo EntryRepository,
	tradeRepo TradeRepository,
	idGen IDGenerator,
	balances *BalanceUseCase,
) *HoldingUseCase {
	return &HoldingUseCase{
		txManager:   txManager,
		holdingRepo: holdingRepo,
		entryRepo:   entryRepo,
		tradeRepo:   tradeRepo,
		idGen:       idGen,
		balances:    balances,
	}
}

// PurchaseInput represents input for buying into a position.
//
// Stocks are entered as quantity x price plus a broker fee; Crypto and
// Digital Gold are entered as a gross spend (fee included) at a unit
// price, with the quantity derived from the net amount.
type PurchaseInput struct {
	Date        time.Time
	UserID      string
	Name        string
	Symbol      string
	Category    domain.HoldingCategory
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	GrossAmount decimal.Decimal
	Fee         decimal.Decimal
}

// Purchase creates a holding and its Asset Purchase ledger entry in
// one transaction, after checking the category bucket's balance covers
// the total cost. The balance is re-derived inside the transaction.
func (uc *HoldingUseCase) Purchase(ctx context.Context, input PurchaseInput) (*domain.Holding, error) {
	if !input.Category.IsValid() {
		return nil, domain.ErrInvalidBucket
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidPrice
	}
	if input.Fee.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	var quantity, totalCost decimal.Decimal
	if input.Category == domain.CategoryStocks {
		quantity = input.Quantity
		totalCost = input.Quantity.Mul(input.Price).Round(0).Add(input.Fee)
	} else {
		net := input.GrossAmount.Sub(input.Fee)
		if net.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidAmount
		}
		quantity = net.Div(input.Price)
		totalCost = input.GrossAmount
	}

	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if err := domain.ValidateAmount(totalCost); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	bucket := input.Category.Bucket()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	available, err := uc.entryRepo.SumBucketTx(ctx, tx, input.UserID, bucket, "")
	if err != nil {
		return nil, err
	}
	if totalCost.GreaterThan(available) {
		return nil, fmt.Errorf("%w: %s has %s, purchase costs %s",
			domain.ErrInsufficientBalance, bucket, available, totalCost)
	}

	holding := &domain.Holding{
		ID:            uc.idGen.Generate(),
		UserID:        input.UserID,
		Symbol:        input.Symbol,
		Name:          input.Name,
		Category:      input.Category,
		Status:        domain.HoldingRunning,
		Quantity:      quantity,
		AvgBuyPrice:   input.Price,
		CurrentPrice:  input.Price,
		AllocatedCost: totalCost,
		Dividends:     decimal.Zero,
		History: []domain.Candle{{
			Date:  domain.DateKey(date),
			Open:  input.Price,
			High:  input.Price,
			Low:   input.Price,
			Close: input.Price,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := holding.Validate(); err != nil {
		return nil, err
	}

	if err := uc.holdingRepo.CreateTx(ctx, tx, holding); err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		UserID:      input.UserID,
		SourceID:    holding.ID,
		Direction:   domain.DirectionExpense,
		Amount:      totalCost,
		Category:    domain.CategoryAssetPurchase,
		Bucket:      bucket,
		Date:        domain.Day(date),
		Description: fmt.Sprintf("Bought %s %s", quantity, holding.Symbol),
		CreatedAt:   now,
	}

	if err := uc.entryRepo.CreateTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.balances.Invalidate(ctx, input.UserID)

	return holding, nil
}

// SettleInput represents input for closing a position.
type SettleInput struct {
	UserID    string
	HoldingID string
	Fee       decimal.Decimal
}

// Settle closes a Running holding at its current price. Stocks record
// the gross proceeds and the broker fee as two rows; Crypto and
// Digital Gold record a single net row. A Closed holding is never
// reopened.
func (uc *HoldingUseCase) Settle(ctx context.Context, input SettleInput) (*domain.Holding, error) {
	if input.Fee.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	holding, err := uc.holdingRepo.GetByIDForUpdate(ctx, tx, input.HoldingID)
	if err != nil {
		return nil, err
	}
	if holding.UserID != input.UserID {
		return nil, domain.ErrHoldingNotFound
	}
	if holding.Status == domain.HoldingClosed {
		return nil, domain.ErrHoldingClosed
	}

	now := time.Now().UTC()
	gross := holding.MarketValue().Round(0)
	bucket := holding.Category.Bucket()

	// Non-stock settlements collapse to one net row, which may be zero
	// but never negative.
	if holding.Category != domain.CategoryStocks && input.Fee.GreaterThan(gross) {
		return nil, domain.ErrInvalidAmount
	}

	holding.Status = domain.HoldingClosed
	holding.UpdatedAt = now
	if err := uc.holdingRepo.UpdateTx(ctx, tx, holding); err != nil {
		return nil, err
	}

	if holding.Category == domain.CategoryStocks {
		settlement := &domain.Entry{
			ID:          uc.idGen.Generate(),
			UserID:      input.UserID,
			SourceID:    holding.ID,
			Direction:   domain.DirectionIncome,
			Amount:      gross,
			Category:    domain.CategoryAssetSettlement,
			Bucket:      bucket,
			Date:        domain.Day(now),
			Description: fmt.Sprintf("Settled %s %s", holding.Quantity, holding.Symbol),
			CreatedAt:   now,
		}
		if err := uc.entryRepo.CreateTx(ctx, tx, settlement); err != nil {
			return nil, err
		}

		if input.Fee.IsPositive() {
			fee := &domain.Entry{
				ID:          uc.idGen.Generate(),
				UserID:      input.UserID,
				SourceID:    holding.ID,
				Direction:   domain.DirectionExpense,
				Amount:      input.Fee,
				Category:    domain.CategoryBrokerFee,
				Bucket:      bucket,
				Date:        domain.Day(now),
				Description: fmt.Sprintf("Settlement fee %s", holding.Symbol),
				CreatedAt:   now,
			}
			if err := uc.entryRepo.CreateTx(ctx, tx, fee); err != nil {
				return nil, err
			}
		}
	} else {
		net := gross.Sub(input.Fee)
		settlement := &domain.Entry{
			ID:          uc.idGen.Generate(),
			UserID:      input.UserID,
			SourceID:    holding.ID,
			Direction:   domain.DirectionIncome,
			Amount:      net,
			Category:    domain.CategoryAssetSettlement,
			Bucket:      bucket,
			Date:        domain.Day(now),
			Description: fmt.Sprintf("Settled %s net of fees", holding.Symbol),
			CreatedAt:   now,
		}
		if err := uc.entryRepo.CreateTx(ctx, tx, settlement); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.balances.Invalidate(ctx, input.UserID)

	return holding, nil
}

// RecordDividend accumulates a dividend on the holding and records the
// matching Income entry in one transaction.
func (uc *HoldingUseCase) RecordDividend(ctx context.Context, userID, holdingID string, amount decimal.Decimal, date time.Time) (*domain.Holding, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	holding, err := uc.holdingRepo.GetByIDForUpdate(ctx, tx, holdingID)
	if err != nil {
		return nil, err
	}
	if holding.UserID != userID {
		return nil, domain.ErrHoldingNotFound
	}

	now := time.Now().UTC()
	if date.IsZero() {
		date = now
	}

	holding.Dividends = holding.Dividends.Add(amount)
	holding.UpdatedAt = now
	if err := uc.holdingRepo.UpdateTx(ctx, tx, holding); err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		UserID:      userID,
		SourceID:    holding.ID,
		Direction:   domain.DirectionIncome,
		Amount:      amount,
		Category:    domain.CategoryDividend,
		Bucket:      holding.Category.Bucket(),
		Date:        domain.Day(date),
		Description: fmt.Sprintf("Dividend from %s", holding.Symbol),
		CreatedAt:   now,
	}
	if err := uc.entryRepo.CreateTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.balances.Invalidate(ctx, userID)

	return holding, nil
}

// UpdatePrice marks the holding to a new price, appending or widening
// today's candle.
func (uc *HoldingUseCase) UpdatePrice(ctx context.Context, userID, holdingID string, price decimal.Decimal) (*domain.Holding, error) {
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidPrice
	}

	holding, err := uc.holdingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}
	if holding.UserID != userID {
		return nil, domain.ErrHoldingNotFound
	}
	if holding.Status == domain.HoldingClosed {
		return nil, domain.ErrHoldingClosed
	}

	holding.ApplyPrice(price, time.Now().UTC())
	holding.UpdatedAt = time.Now().UTC()

	if err := uc.holdingRepo.Update(ctx, holding); err != nil {
		return nil, err
	}

	return holding, nil
}

// GetHolding retrieves a holding by ID.
func (uc *HoldingUseCase) GetHolding(ctx context.Context, userID, id string) (*domain.Holding, error) {
	holding, err := uc.holdingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if holding.UserID != userID {
		return nil, domain.ErrHoldingNotFound
	}
	return holding, nil
}

// ListHoldings lists holdings matching the filter.
func (uc *HoldingUseCase) ListHoldings(ctx context.Context, userID string, filter HoldingFilter) ([]*domain.Holding, error) {
	return uc.holdingRepo.List(ctx, userID, filter)
}

// DeleteHolding removes a holding and every ledger entry it produced.
func (uc *HoldingUseCase) DeleteHolding(ctx context.Context, userID, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	holding, err := uc.holdingRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if holding.UserID != userID {
		return domain.ErrHoldingNotFound
	}

	if _, err := uc.entryRepo.DeleteBySourceTx(ctx, tx, id); err != nil {
		return err
	}
	if err := uc.holdingRepo.DeleteTx(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.balances.Invalidate(ctx, userID)

	return nil
}

// RollDailyCandles appends a flat candle opening at the previous close
// for every Running holding that has no candle for today yet. Run on a
// fixed interval; a tick that finds no day change is a no-op.
func (uc *HoldingUseCase) RollDailyCandles(ctx context.Context) (int, error) {
	holdings, err := uc.holdingRepo.ListRunning(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	rolled := 0
	for _, h := range holdings {
		if !h.RollCandle(now) {
			continue
		}
		h.UpdatedAt = now
		if err := uc.holdingRepo.Update(ctx, h); err != nil {
			log.Warn().Err(err).Str("holding_id", h.ID).Msg("failed to roll daily candle")
			continue
		}
		rolled++
	}

	return rolled, nil
}
