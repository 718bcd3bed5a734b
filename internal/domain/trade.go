package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeDirection is the side of a journal trade.
type TradeDirection string

const (
	TradeBuy  TradeDirection = "Buy"
	TradeSell TradeDirection = "Sell"
)

// IsValid reports whether the direction is a known value.
func (d TradeDirection) IsValid() bool {
	return d == TradeBuy || d == TradeSell
}

// Trade is a closed trading-journal record. Result is the realized
// P/L and is immutable once created; partial fills are not modeled.
type Trade struct {
	CreatedAt  time.Time
	Date       time.Time
	ID         string
	UserID     string
	Pair       string
	Direction  TradeDirection
	Notes      string
	LotSize    decimal.Decimal
	EntryPrice decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
	Result     decimal.Decimal
}

// Validate validates a new trade.
func (t *Trade) Validate() error {
	if t.Pair == "" {
		return ErrMissingCategory
	}
	if !t.Direction.IsValid() {
		return ErrInvalidDirection
	}
	if t.LotSize.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if t.EntryPrice.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}
