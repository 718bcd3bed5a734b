package usecase

import (
	"context"
	"fmt"

	"github.com/iho/finboard/internal/domain"
)

// ReconcileUseCase verifies the ledger's structural invariants:
// every allocation transfer must still exist as a balanced
// debit/credit pair, so moving cash between buckets never changes the
// grand total.
type ReconcileUseCase struct {
	entryRepo EntryRepository
}

// NewReconcileUseCase creates a new ReconcileUseCase.
func NewReconcileUseCase(entryRepo EntryRepository) *ReconcileUseCase {
	return &ReconcileUseCase{entryRepo: entryRepo}
}

// ReconcileReport lists invariant violations found in a user's ledger.
type ReconcileReport struct {
	Violations []string
	Consistent bool
}

// CheckConsistency scans all Re-Allocation entries and reports any
// transfer whose pair is missing, unbalanced, or split across dates.
// A deleted half of a pair is exactly the unbalanced-ledger state the
// transfer engine exists to prevent.
func (uc *ReconcileUseCase) CheckConsistency(ctx context.Context, userID string) (*ReconcileReport, error) {
	entries, err := uc.entryRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	pairs := make(map[string][]*domain.Entry)
	for _, e := range entries {
		if e.Category != domain.CategoryReallocation {
			continue
		}
		pairs[e.SourceID] = append(pairs[e.SourceID], e)
	}

	report := &ReconcileReport{Consistent: true}
	for transferID, group := range pairs {
		if transferID == "" {
			report.Violations = append(report.Violations,
				"re-allocation entry without a transfer id")
			continue
		}

		if len(group) != 2 {
			report.Violations = append(report.Violations,
				fmt.Sprintf("transfer %s has %d entries, want 2", transferID, len(group)))
			continue
		}

		a, b := group[0], group[1]
		if !a.Amount.Equal(b.Amount) {
			report.Violations = append(report.Violations,
				fmt.Sprintf("transfer %s amounts differ: %s vs %s", transferID, a.Amount, b.Amount))
		}
		if a.Direction == b.Direction {
			report.Violations = append(report.Violations,
				fmt.Sprintf("transfer %s is not a debit/credit pair", transferID))
		}
		if !domain.Day(a.Date).Equal(domain.Day(b.Date)) {
			report.Violations = append(report.Violations,
				fmt.Sprintf("transfer %s spans dates %s and %s", transferID, domain.DateKey(a.Date), domain.DateKey(b.Date)))
		}
	}

	report.Consistent = len(report.Violations) == 0

	return report, nil
}
