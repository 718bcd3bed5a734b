package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
)

// EntryUseCase handles user-created ledger entries (deposits and
// withdrawals).
type EntryUseCase struct {
	entryRepo EntryRepository
	idGen     IDGenerator
	balances  *BalanceUseCase
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository, idGen IDGenerator, balances *BalanceUseCase) *EntryUseCase {
	return &EntryUseCase{
		entryRepo: entryRepo,
		idGen:     idGen,
		balances:  balances,
	}
}

// CreateEntryInput represents input for creating a ledger entry.
type CreateEntryInput struct {
	Date        time.Time
	UserID      string
	Direction   domain.Direction
	Category    string
	Description string
	Bucket      domain.Bucket
	Amount      decimal.Decimal
}

// CreateEntry records a single cash movement.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		UserID:      input.UserID,
		Direction:   input.Direction,
		Amount:      input.Amount,
		Category:    input.Category,
		Bucket:      input.Bucket,
		Date:        domain.Day(input.Date),
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	uc.balances.Invalidate(ctx, input.UserID)

	return entry, nil
}

// ListEntries lists entries matching the filter.
func (uc *EntryUseCase) ListEntries(ctx context.Context, userID string, filter EntryFilter) ([]*domain.Entry, error) {
	filter.Limit = clampLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return uc.entryRepo.List(ctx, userID, filter)
}

// DeleteEntry removes a single entry. Entries belong to their creator;
// a mismatched user gets ErrEntryNotFound, not a hint that the row
// exists.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, userID, id string) error {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return domain.ErrEntryNotFound
	}

	if err := uc.entryRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.balances.Invalidate(ctx, userID)

	return nil
}

// Totals aggregates the full ledger into income, expense and net.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// Totals returns the user's lifetime income/expense totals.
func (uc *EntryUseCase) Totals(ctx context.Context, userID string) (*Totals, error) {
	entries, err := uc.entryRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := &Totals{Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
	for _, e := range entries {
		if e.Direction == domain.DirectionIncome {
			totals.Income = totals.Income.Add(e.Amount)
		} else {
			totals.Expense = totals.Expense.Add(e.Amount)
		}
	}
	totals.Net = totals.Income.Sub(totals.Expense)

	return totals, nil
}
