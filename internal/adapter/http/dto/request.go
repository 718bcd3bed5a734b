package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/usecase"
)

// CreateEntryRequest represents a request to create a ledger entry.
type CreateEntryRequest struct {
	Date        time.Time       `json:"date"`
	Direction   string          `json:"direction"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Bucket      string          `json:"bucket"`
	Amount      decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput(userID string) usecase.CreateEntryInput {
	return usecase.CreateEntryInput{
		Date:        r.Date,
		UserID:      userID,
		Direction:   domain.Direction(r.Direction),
		Category:    r.Category,
		Description: r.Description,
		Bucket:      domain.Bucket(r.Bucket),
		Amount:      r.Amount,
	}
}

// AllocateRequest represents a request to move cash between buckets.
type AllocateRequest struct {
	Date   time.Time       `json:"date"`
	Source string          `json:"source"`
	Target string          `json:"target"`
	Amount decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *AllocateRequest) ToUseCaseInput(userID string) usecase.AllocateInput {
	return usecase.AllocateInput{
		Date:   r.Date,
		UserID: userID,
		Source: domain.Bucket(r.Source),
		Target: domain.Bucket(r.Target),
		Amount: r.Amount,
	}
}

// PurchaseRequest represents a request to buy into a position.
type PurchaseRequest struct {
	Date        time.Time       `json:"date"`
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	Fee         decimal.Decimal `json:"fee"`
}

// ToUseCaseInput converts to use case input.
func (r *PurchaseRequest) ToUseCaseInput(userID string) usecase.PurchaseInput {
	return usecase.PurchaseInput{
		Date:        r.Date,
		UserID:      userID,
		Name:        r.Name,
		Symbol:      r.Symbol,
		Category:    domain.HoldingCategory(r.Category),
		Quantity:    r.Quantity,
		Price:       r.Price,
		GrossAmount: r.GrossAmount,
		Fee:         r.Fee,
	}
}

// SettleRequest represents a request to close a position.
type SettleRequest struct {
	Fee decimal.Decimal `json:"fee"`
}

// DividendRequest represents a request to record a dividend.
type DividendRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// UpdatePriceRequest represents a request to mark a holding to a new
// price.
type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

// CreateTradeRequest represents a request to record a closed trade.
type CreateTradeRequest struct {
	Date       time.Time       `json:"date"`
	Pair       string          `json:"pair"`
	Direction  string          `json:"direction"`
	Notes      string          `json:"notes"`
	LotSize    decimal.Decimal `json:"lot_size"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	StopLoss   decimal.Decimal `json:"stop_loss"`
	TakeProfit decimal.Decimal `json:"take_profit"`
	Result     decimal.Decimal `json:"result"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTradeRequest) ToUseCaseInput(userID string) usecase.CreateTradeInput {
	return usecase.CreateTradeInput{
		Date:       r.Date,
		UserID:     userID,
		Pair:       r.Pair,
		Direction:  domain.TradeDirection(r.Direction),
		Notes:      r.Notes,
		LotSize:    r.LotSize,
		EntryPrice: r.EntryPrice,
		StopLoss:   r.StopLoss,
		TakeProfit: r.TakeProfit,
		Result:     r.Result,
	}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SetPinRequest represents a request to configure the action PIN.
type SetPinRequest struct {
	Pin string `json:"pin"`
}
