package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/usecase"
	"github.com/iho/finboard/internal/usecase/mocks"
)

func newEntryUseCase(entryRepo *mocks.MockEntryRepository) *usecase.EntryUseCase {
	balances := usecase.NewBalanceUseCase(entryRepo, mocks.NewMockTradeRepository(), nil)
	return usecase.NewEntryUseCase(entryRepo, mocks.NewMockIDGenerator(), balances)
}

func TestEntryUseCase_CreateEntry(t *testing.T) {
	date := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		input       usecase.CreateEntryInput
		expectError error
	}{
		{
			name: "valid income entry",
			input: usecase.CreateEntryInput{
				UserID:    "user-1",
				Direction: domain.DirectionIncome,
				Category:  "Salary",
				Bucket:    domain.BucketGeneral,
				Amount:    decimal.NewFromInt(2500),
				Date:      date,
			},
		},
		{
			name: "reject unknown direction",
			input: usecase.CreateEntryInput{
				UserID:    "user-1",
				Direction: "Transfer",
				Category:  "Salary",
				Bucket:    domain.BucketGeneral,
				Amount:    decimal.NewFromInt(100),
				Date:      date,
			},
			expectError: domain.ErrInvalidDirection,
		},
		{
			name: "reject unknown bucket",
			input: usecase.CreateEntryInput{
				UserID:    "user-1",
				Direction: domain.DirectionExpense,
				Category:  "Rent",
				Bucket:    "Savings",
				Amount:    decimal.NewFromInt(100),
				Date:      date,
			},
			expectError: domain.ErrInvalidBucket,
		},
		{
			name: "reject non-positive amount",
			input: usecase.CreateEntryInput{
				UserID:    "user-1",
				Direction: domain.DirectionIncome,
				Category:  "Salary",
				Bucket:    domain.BucketGeneral,
				Amount:    decimal.Zero,
				Date:      date,
			},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name: "reject missing category",
			input: usecase.CreateEntryInput{
				UserID:    "user-1",
				Direction: domain.DirectionIncome,
				Bucket:    domain.BucketGeneral,
				Amount:    decimal.NewFromInt(100),
				Date:      date,
			},
			expectError: domain.ErrMissingCategory,
		},
		{
			name: "reject missing date",
			input: usecase.CreateEntryInput{
				UserID:    "user-1",
				Direction: domain.DirectionIncome,
				Category:  "Salary",
				Bucket:    domain.BucketGeneral,
				Amount:    decimal.NewFromInt(100),
			},
			expectError: domain.ErrMissingDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entryRepo := mocks.NewMockEntryRepository()
			uc := newEntryUseCase(entryRepo)

			created, err := uc.CreateEntry(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				if entryRepo.Len() != 0 {
					t.Errorf("rejected entry was persisted")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created.ID == "" {
				t.Errorf("expected a generated id")
			}
			if entryRepo.Len() != 1 {
				t.Errorf("expected 1 persisted entry, got %d", entryRepo.Len())
			}
		})
	}
}

// Entry dates carry no intraday information; the stored date must be
// truncated to midnight UTC.
func TestEntryUseCase_CreateEntry_TruncatesDate(t *testing.T) {
	entryRepo := mocks.NewMockEntryRepository()
	uc := newEntryUseCase(entryRepo)

	created, err := uc.CreateEntry(context.Background(), usecase.CreateEntryInput{
		UserID:    "user-1",
		Direction: domain.DirectionIncome,
		Category:  "Salary",
		Bucket:    domain.BucketGeneral,
		Amount:    decimal.NewFromInt(100),
		Date:      time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !created.Date.Equal(want) {
		t.Errorf("stored date = %s, want %s", created.Date, want)
	}
}

func TestEntryUseCase_ListEntries_ClampsPaging(t *testing.T) {
	entryRepo := mocks.NewMockEntryRepository()
	for i := range 3 {
		entryRepo.Create(context.Background(),
			entry(string(rune('a'+i)), domain.BucketGeneral, domain.DirectionIncome, 10, "Salary"))
	}

	uc := newEntryUseCase(entryRepo)

	entries, err := uc.ListEntries(context.Background(), "user-1", usecase.EntryFilter{Limit: -5, Offset: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestEntryUseCase_DeleteEntry(t *testing.T) {
	ctx := context.Background()
	entryRepo := mocks.NewMockEntryRepository()
	entryRepo.Create(ctx, entry("entry-1", domain.BucketGeneral, domain.DirectionIncome, 100, "Salary"))

	uc := newEntryUseCase(entryRepo)

	if err := uc.DeleteEntry(ctx, "user-1", "entry-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entryRepo.Len() != 0 {
		t.Errorf("expected empty ledger after delete, got %d entries", entryRepo.Len())
	}

	if err := uc.DeleteEntry(ctx, "user-1", "entry-1"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

// Deleting someone else's entry must look identical to deleting a
// missing one.
func TestEntryUseCase_DeleteEntry_ForeignUser(t *testing.T) {
	ctx := context.Background()
	entryRepo := mocks.NewMockEntryRepository()
	entryRepo.Create(ctx, entry("entry-1", domain.BucketGeneral, domain.DirectionIncome, 100, "Salary"))

	uc := newEntryUseCase(entryRepo)

	if err := uc.DeleteEntry(ctx, "user-2", "entry-1"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if entryRepo.Len() != 1 {
		t.Errorf("foreign delete removed the entry")
	}
}

func TestEntryUseCase_Totals(t *testing.T) {
	ctx := context.Background()
	entryRepo := mocks.NewMockEntryRepository()
	entryRepo.Create(ctx, entry("e1", domain.BucketGeneral, domain.DirectionIncome, 3000, "Salary"))
	entryRepo.Create(ctx, entry("e2", domain.BucketGeneral, domain.DirectionExpense, 1200, "Rent"))
	entryRepo.Create(ctx, entry("e3", domain.BucketTrading, domain.DirectionIncome, 500, domain.CategoryTradingResult))

	uc := newEntryUseCase(entryRepo)

	totals, err := uc.Totals(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !totals.Income.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("income = %s, want 3500", totals.Income)
	}
	if !totals.Expense.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("expense = %s, want 1200", totals.Expense)
	}
	if !totals.Net.Equal(decimal.NewFromInt(2300)) {
		t.Errorf("net = %s, want 2300", totals.Net)
	}
}
