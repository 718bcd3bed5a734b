package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoldingCategory is an investment category. Each category maps to a
// matching Investment-* cash bucket.
type HoldingCategory string

const (
	CategoryStocks HoldingCategory = "Stocks"
	CategoryCrypto HoldingCategory = "Crypto"
	CategoryGold   HoldingCategory = "Digital Gold"
)

// IsValid reports whether the category is a known value.
func (c HoldingCategory) IsValid() bool {
	return c == CategoryStocks || c == CategoryCrypto || c == CategoryGold
}

// Bucket returns the cash bucket backing this category.
func (c HoldingCategory) Bucket() Bucket {
	switch c {
	case CategoryStocks:
		return BucketInvestStocks
	case CategoryCrypto:
		return BucketInvestCrypto
	case CategoryGold:
		return BucketInvestGold
	}
	return BucketGeneral
}

// HoldingStatus is the lifecycle state of a holding.
type HoldingStatus string

const (
	HoldingRunning HoldingStatus = "Running"
	HoldingClosed  HoldingStatus = "Closed"
)

// Candle is one daily price bar.
type Candle struct {
	Date  string          `json:"time"`
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

// Holding represents a tracked investment position with its daily
// price history. History holds at most one candle per calendar date,
// dates ascending; while Running the last close equals CurrentPrice.
type Holding struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ID            string
	UserID        string
	Symbol        string
	Name          string
	Category      HoldingCategory
	Status        HoldingStatus
	History       []Candle
	Quantity      decimal.Decimal
	AvgBuyPrice   decimal.Decimal
	CurrentPrice  decimal.Decimal
	AllocatedCost decimal.Decimal
	Dividends     decimal.Decimal
}

// CostBasis returns the allocated cost, falling back to
// avgBuyPrice*quantity when no cost was tracked at purchase time.
func (h *Holding) CostBasis() decimal.Decimal {
	if h.AllocatedCost.IsPositive() {
		return h.AllocatedCost
	}
	return h.AvgBuyPrice.Mul(h.Quantity)
}

// MarketValue returns quantity * current price.
func (h *Holding) MarketValue() decimal.Decimal {
	return h.CurrentPrice.Mul(h.Quantity)
}

// UnrealizedPL returns (currentPrice - avgBuyPrice) * quantity.
func (h *Holding) UnrealizedPL() decimal.Decimal {
	return h.CurrentPrice.Sub(h.AvgBuyPrice).Mul(h.Quantity)
}

// ROIPct returns (marketValue + dividends) / costBasis * 100, or zero
// when the cost basis is zero.
func (h *Holding) ROIPct() decimal.Decimal {
	cost := h.CostBasis()
	if cost.IsZero() {
		return decimal.Zero
	}
	return h.MarketValue().Add(h.Dividends).Div(cost).Mul(decimal.NewFromInt(100)).Round(2)
}

// ApplyPrice sets the current price and appends or widens today's
// candle. A new day opens at the previous close.
func (h *Holding) ApplyPrice(price decimal.Decimal, now time.Time) {
	today := DateKey(now)
	h.CurrentPrice = price

	n := len(h.History)
	if n > 0 && h.History[n-1].Date == today {
		bar := &h.History[n-1]
		if price.GreaterThan(bar.High) {
			bar.High = price
		}
		if price.LessThan(bar.Low) {
			bar.Low = price
		}
		bar.Close = price
		return
	}

	open := price
	if n > 0 {
		open = h.History[n-1].Close
	}
	h.History = append(h.History, Candle{
		Date:  today,
		Open:  open,
		High:  decimal.Max(open, price),
		Low:   decimal.Min(open, price),
		Close: price,
	})
}

// RollCandle appends a flat candle for today opening at the previous
// close. Returns false when today's candle already exists or there is
// no history to roll from.
func (h *Holding) RollCandle(now time.Time) bool {
	n := len(h.History)
	if n == 0 {
		return false
	}
	today := DateKey(now)
	if h.History[n-1].Date == today {
		return false
	}
	prev := h.History[n-1].Close
	h.History = append(h.History, Candle{
		Date:  today,
		Open:  prev,
		High:  prev,
		Low:   prev,
		Close: prev,
	})
	return true
}

// Validate validates a new holding.
func (h *Holding) Validate() error {
	if !h.Category.IsValid() {
		return ErrInvalidBucket
	}
	if h.Quantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if h.AvgBuyPrice.LessThanOrEqual(decimal.Zero) || h.CurrentPrice.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}
	return nil
}
