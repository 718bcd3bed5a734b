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

func reallocationEntry(id, sourceID string, dir domain.Direction, amount int64, day int) *domain.Entry {
	return &domain.Entry{
		ID:        id,
		UserID:    "user-1",
		SourceID:  sourceID,
		Direction: dir,
		Amount:    decimal.NewFromInt(amount),
		Category:  domain.CategoryReallocation,
		Bucket:    domain.BucketGeneral,
		Date:      time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestReconcileUseCase_CheckConsistency(t *testing.T) {
	tests := []struct {
		name           string
		entries        []*domain.Entry
		wantConsistent bool
		wantViolations int
	}{
		{
			name: "balanced pair is consistent",
			entries: []*domain.Entry{
				reallocationEntry("e-1", "t-1", domain.DirectionExpense, 500, 1),
				reallocationEntry("e-2", "t-1", domain.DirectionIncome, 500, 1),
			},
			wantConsistent: true,
		},
		{
			name: "orphaned half of a pair",
			entries: []*domain.Entry{
				reallocationEntry("e-1", "t-1", domain.DirectionExpense, 500, 1),
			},
			wantConsistent: false,
			wantViolations: 1,
		},
		{
			name: "amounts out of balance",
			entries: []*domain.Entry{
				reallocationEntry("e-1", "t-1", domain.DirectionExpense, 500, 1),
				reallocationEntry("e-2", "t-1", domain.DirectionIncome, 400, 1),
			},
			wantConsistent: false,
			wantViolations: 1,
		},
		{
			name: "same direction twice",
			entries: []*domain.Entry{
				reallocationEntry("e-1", "t-1", domain.DirectionIncome, 500, 1),
				reallocationEntry("e-2", "t-1", domain.DirectionIncome, 500, 1),
			},
			wantConsistent: false,
			wantViolations: 1,
		},
		{
			name: "pair split across dates",
			entries: []*domain.Entry{
				reallocationEntry("e-1", "t-1", domain.DirectionExpense, 500, 1),
				reallocationEntry("e-2", "t-1", domain.DirectionIncome, 500, 2),
			},
			wantConsistent: false,
			wantViolations: 1,
		},
		{
			name: "missing transfer id",
			entries: []*domain.Entry{
				reallocationEntry("e-1", "", domain.DirectionExpense, 500, 1),
			},
			wantConsistent: false,
			wantViolations: 1,
		},
		{
			name:           "empty ledger is consistent",
			wantConsistent: true,
		},
		{
			name: "ordinary entries are ignored",
			entries: []*domain.Entry{
				entry("e-1", domain.BucketGeneral, domain.DirectionIncome, 1000, "Salary"),
			},
			wantConsistent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entryRepo := mocks.NewMockEntryRepository()
			for _, e := range tt.entries {
				entryRepo.Create(context.Background(), e)
			}

			uc := usecase.NewReconcileUseCase(entryRepo)
			report, err := uc.CheckConsistency(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if report.Consistent != tt.wantConsistent {
				t.Errorf("consistent = %v, want %v (violations: %v)",
					report.Consistent, tt.wantConsistent, report.Violations)
			}
			if !tt.wantConsistent && len(report.Violations) != tt.wantViolations {
				t.Errorf("violations = %d, want %d: %v",
					len(report.Violations), tt.wantViolations, report.Violations)
			}
		})
	}
}
