package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction marks an entry as money in or money out.
type Direction string

const (
	DirectionIncome  Direction = "Income"
	DirectionExpense Direction = "Expense"
)

// IsValid reports whether the direction is a known value.
func (d Direction) IsValid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// Bucket is a named sub-account used to partition cash for allocation
// tracking.
type Bucket string

const (
	BucketGeneral      Bucket = "General"
	BucketTrading      Bucket = "Trading"
	BucketInvestStocks Bucket = "Investment-Stocks"
	BucketInvestCrypto Bucket = "Investment-Crypto"
	BucketInvestGold   Bucket = "Investment-Gold"
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{
	BucketGeneral,
	BucketTrading,
	BucketInvestStocks,
	BucketInvestCrypto,
	BucketInvestGold,
}

// IsValid reports whether the bucket is a known value.
func (b Bucket) IsValid() bool {
	for _, known := range Buckets {
		if b == known {
			return true
		}
	}
	return false
}

// Well-known entry categories written by other modules.
const (
	CategoryReallocation    = "Re-Allocation"
	CategoryTradingResult   = "Trading Result"
	CategoryAssetPurchase   = "Asset Purchase"
	CategoryAssetSettlement = "Asset Settlement"
	CategoryDividend        = "Dividend"
	CategoryBrokerFee       = "Broker Fee"
)

// Entry represents a single signed cash movement in the ledger.
// Entries are append-only: they are created and deleted, never edited.
type Entry struct {
	CreatedAt   time.Time
	Date        time.Time
	ID          string
	UserID      string
	SourceID    string
	Direction   Direction
	Category    string
	Description string
	Bucket      Bucket
	Amount      decimal.Decimal
}

// Signed returns the entry's contribution to a balance: +amount for
// income, -amount for expense.
func (e *Entry) Signed() decimal.Decimal {
	if e.Direction == DirectionExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Validate validates a new entry.
func (e *Entry) Validate() error {
	if !e.Direction.IsValid() {
		return ErrInvalidDirection
	}
	if !e.Bucket.IsValid() {
		return ErrInvalidBucket
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if e.Category == "" {
		return ErrMissingCategory
	}
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// DateKey formats a time as the calendar-date key used for grouping
// and candle dates.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Day truncates a time to UTC midnight.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
