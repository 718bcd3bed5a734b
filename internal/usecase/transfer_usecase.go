package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
)

// TransferUseCase moves cash between allocation buckets. A transfer is
// always two new ledger rows (a debit from the source and a credit to
// the target) sharing the same amount, date and source id; rows are
// never edited in place, preserving the full audit history.
type TransferUseCase struct {
	txManager TransactionManager
	entryRepo EntryRepository
	tradeRepo TradeRepository
	idGen     IDGenerator
	balances  *BalanceUseCase
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	tradeRepo TradeRepository,
	idGen IDGenerator,
	balances *BalanceUseCase,
) *TransferUseCase {
	return &TransferUseCase{
		txManager: txManager,
		entryRepo: entryRepo,
		tradeRepo: tradeRepo,
		idGen:     idGen,
		balances:  balances,
	}
}

// AllocateInput represents input for an allocation transfer.
type AllocateInput struct {
	Date   time.Time
	UserID string
	Source domain.Bucket
	Target domain.Bucket
	Amount decimal.Decimal
}

// Allocate moves Amount from the source bucket to the target bucket by
// inserting a correlated Expense/Income pair in one transaction. The
// source balance is re-derived inside the transaction, since it can
// change between the caller's check and the commit.
func (uc *TransferUseCase) Allocate(ctx context.Context, input AllocateInput) (*domain.Entry, *domain.Entry, error) {
	if !input.Source.IsValid() || !input.Target.IsValid() {
		return nil, nil, domain.ErrInvalidBucket
	}
	if input.Source == input.Target {
		return nil, nil, domain.ErrSameBucket
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, nil, err
	}
	if input.Date.IsZero() {
		return nil, nil, domain.ErrMissingDate
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	balance, err := uc.sourceBalanceTx(ctx, tx, input.UserID, input.Source)
	if err != nil {
		return nil, nil, err
	}

	if input.Amount.GreaterThan(balance) {
		return nil, nil, fmt.Errorf("%w: %s has %s, requested %s",
			domain.ErrInsufficientBalance, input.Source, balance, input.Amount)
	}

	now := time.Now().UTC()
	transferID := uc.idGen.Generate()

	debit := &domain.Entry{
		ID:          uc.idGen.Generate(),
		UserID:      input.UserID,
		SourceID:    transferID,
		Direction:   domain.DirectionExpense,
		Amount:      input.Amount,
		Category:    domain.CategoryReallocation,
		Bucket:      input.Source,
		Date:        domain.Day(input.Date),
		Description: fmt.Sprintf("Re-allocated to %s", input.Target),
		CreatedAt:   now,
	}

	credit := &domain.Entry{
		ID:          uc.idGen.Generate(),
		UserID:      input.UserID,
		SourceID:    transferID,
		Direction:   domain.DirectionIncome,
		Amount:      input.Amount,
		Category:    domain.CategoryReallocation,
		Bucket:      input.Target,
		Date:        domain.Day(input.Date),
		Description: fmt.Sprintf("Received from %s", input.Source),
		CreatedAt:   now,
	}

	if err := uc.entryRepo.CreateTx(ctx, tx, debit); err != nil {
		return nil, nil, err
	}
	if err := uc.entryRepo.CreateTx(ctx, tx, credit); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	uc.balances.Invalidate(ctx, input.UserID)

	return debit, credit, nil
}

// sourceBalanceTx derives a bucket balance inside the transaction. The
// Trading bucket's cash sum excludes recorded trade results and adds
// the realized P/L from the trade journal instead.
func (uc *TransferUseCase) sourceBalanceTx(ctx context.Context, tx Transaction, userID string, bucket domain.Bucket) (decimal.Decimal, error) {
	exclude := ""
	if bucket == domain.BucketTrading {
		exclude = domain.CategoryTradingResult
	}

	balance, err := uc.entryRepo.SumBucketTx(ctx, tx, userID, bucket, exclude)
	if err != nil {
		return decimal.Zero, err
	}

	if bucket == domain.BucketTrading {
		tradePL, err := uc.tradeRepo.SumResultsTx(ctx, tx, userID)
		if err != nil {
			return decimal.Zero, err
		}
		balance = balance.Add(tradePL)
	}

	return balance, nil
}
