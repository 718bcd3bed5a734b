package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
)

// Granularity selects the bar width of a net-worth series.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// IsValid reports whether the granularity is a known value.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityYearly:
		return true
	}
	return false
}

// Bar is one OHLC bar of the net-worth series.
type Bar struct {
	Date  string          `json:"time"`
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

// BuildDailySeries turns the full ledger history into one bar per
// calendar day from the first entry date through max(today, last entry
// date). Each day opens at the running balance entering the day,
// tracks high/low as entries apply, and closes at the balance leaving
// the day. Days without entries repeat the previous close as a flat
// bar. The final entry day folds unrealizedPL into high/low/close so
// the series ends at "net worth today" rather than pure cash; every
// earlier bar reflects only that day's and earlier entries.
func BuildDailySeries(entries []*domain.Entry, unrealizedPL decimal.Decimal, today time.Time) []Bar {
	if len(entries) == 0 {
		return nil
	}

	// Chronological order: date, then creation timestamp for same-day
	// ties. SliceStable keeps insertion order when timestamps match.
	sorted := make([]*domain.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := domain.Day(sorted[i].Date), domain.Day(sorted[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var days []string
	grouped := make(map[string][]*domain.Entry)
	for _, e := range sorted {
		key := domain.DateKey(e.Date)
		if _, ok := grouped[key]; !ok {
			days = append(days, key)
		}
		grouped[key] = append(grouped[key], e)
	}

	running := decimal.Zero
	sparse := make([]Bar, 0, len(days))
	for i, day := range days {
		open := running
		high := running
		low := running

		for _, e := range grouped[day] {
			running = running.Add(e.Signed())
			high = decimal.Max(high, running)
			low = decimal.Min(low, running)
		}

		close := running
		if i == len(days)-1 {
			netWorth := running.Add(unrealizedPL)
			high = decimal.Max(high, netWorth)
			low = decimal.Min(low, netWorth)
			close = netWorth
		}

		sparse = append(sparse, Bar{Date: day, Open: open, High: high, Low: low, Close: close})
	}

	return fillDays(sparse, today)
}

// fillDays expands a sparse per-transaction-day series into one bar
// per calendar day, repeating the previous close for quiet days.
func fillDays(sparse []Bar, today time.Time) []Bar {
	first, _ := time.Parse("2006-01-02", sparse[0].Date)
	last, _ := time.Parse("2006-01-02", sparse[len(sparse)-1].Date)

	end := domain.Day(today)
	if last.After(end) {
		end = last
	}

	byDate := make(map[string]Bar, len(sparse))
	for _, b := range sparse {
		byDate[b.Date] = b
	}

	var filled []Bar
	prev := sparse[0]
	for d := first; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		if bar, ok := byDate[key]; ok {
			filled = append(filled, bar)
			prev = bar
			continue
		}
		filled = append(filled, Bar{
			Date:  key,
			Open:  prev.Close,
			High:  prev.Close,
			Low:   prev.Close,
			Close: prev.Close,
		})
	}

	return filled
}

// Resample groups a daily series into weekly (ISO week), monthly or
// yearly bars: first open, max high, min low, last close. The group's
// date is its first day's date.
func Resample(daily []Bar, granularity Granularity) []Bar {
	if granularity == GranularityDaily || len(daily) == 0 {
		return daily
	}

	var result []Bar
	var group []Bar
	lastKey := ""

	flush := func() {
		if len(group) == 0 {
			return
		}
		bar := Bar{
			Date:  group[0].Date,
			Open:  group[0].Open,
			High:  group[0].High,
			Low:   group[0].Low,
			Close: group[len(group)-1].Close,
		}
		for _, b := range group[1:] {
			bar.High = decimal.Max(bar.High, b.High)
			bar.Low = decimal.Min(bar.Low, b.Low)
		}
		result = append(result, bar)
		group = group[:0]
	}

	for _, b := range daily {
		key := groupKey(b.Date, granularity)
		if key != lastKey {
			flush()
			lastKey = key
		}
		group = append(group, b)
	}
	flush()

	return result
}

func groupKey(date string, granularity Granularity) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}

	switch granularity {
	case GranularityWeekly:
		year, week := d.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GranularityMonthly:
		return d.Format("2006-01")
	case GranularityYearly:
		return d.Format("2006")
	}
	return date
}

// SeriesUseCase builds chart-ready net-worth series from the ledger.
type SeriesUseCase struct {
	entryRepo   EntryRepository
	holdingRepo HoldingRepository
}

// NewSeriesUseCase creates a new SeriesUseCase.
func NewSeriesUseCase(entryRepo EntryRepository, holdingRepo HoldingRepository) *SeriesUseCase {
	return &SeriesUseCase{
		entryRepo:   entryRepo,
		holdingRepo: holdingRepo,
	}
}

// Series returns the user's net-worth series at the requested
// granularity. The whole history is re-derived on every call; there is
// no incremental state to drift from the ledger.
func (uc *SeriesUseCase) Series(ctx context.Context, userID string, granularity Granularity) ([]Bar, error) {
	if !granularity.IsValid() {
		granularity = GranularityDaily
	}

	entries, err := uc.entryRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	holdings, err := uc.holdingRepo.List(ctx, userID, HoldingFilter{})
	if err != nil {
		return nil, err
	}

	unrealized := decimal.Zero
	for _, h := range holdings {
		unrealized = unrealized.Add(h.UnrealizedPL())
	}

	daily := BuildDailySeries(entries, unrealized, time.Now().UTC())

	return Resample(daily, granularity), nil
}
