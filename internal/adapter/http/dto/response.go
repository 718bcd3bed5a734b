package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID          string          `json:"id"`
	SourceID    string          `json:"source_id,omitempty"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Bucket      string          `json:"bucket"`
	Date        string          `json:"date"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:          e.ID,
		SourceID:    e.SourceID,
		Direction:   string(e.Direction),
		Amount:      e.Amount,
		Category:    e.Category,
		Bucket:      string(e.Bucket),
		Date:        domain.DateKey(e.Date),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// TransferResponse represents an allocation transfer in API responses.
type TransferResponse struct {
	Debit  *EntryResponse `json:"debit"`
	Credit *EntryResponse `json:"credit"`
}

// BalancesResponse represents per-bucket balances.
type BalancesResponse struct {
	Balances map[string]decimal.Decimal `json:"balances"`
}

// BalancesFromDomain converts a balance map to a response.
func BalancesFromDomain(balances map[domain.Bucket]decimal.Decimal) *BalancesResponse {
	out := make(map[string]decimal.Decimal, len(balances))
	for b, v := range balances {
		out[string(b)] = v
	}
	return &BalancesResponse{Balances: out}
}

// TotalsResponse represents lifetime income/expense totals.
type TotalsResponse struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// HoldingResponse represents a holding in API responses.
type HoldingResponse struct {
	ID            string          `json:"id"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Status        string          `json:"status"`
	Quantity      decimal.Decimal `json:"quantity"`
	AvgBuyPrice   decimal.Decimal `json:"avg_buy_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	AllocatedCost decimal.Decimal `json:"allocated_cost"`
	Dividends     decimal.Decimal `json:"dividends"`
	MarketValue   decimal.Decimal `json:"market_value"`
	UnrealizedPL  decimal.Decimal `json:"unrealized_pl"`
	ROIPct        decimal.Decimal `json:"roi_pct"`
	History       []domain.Candle `json:"history,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// HoldingFromDomain converts a domain holding to a response.
func HoldingFromDomain(h *domain.Holding) *HoldingResponse {
	return &HoldingResponse{
		ID:            h.ID,
		Symbol:        h.Symbol,
		Name:          h.Name,
		Category:      string(h.Category),
		Status:        string(h.Status),
		Quantity:      h.Quantity,
		AvgBuyPrice:   h.AvgBuyPrice,
		CurrentPrice:  h.CurrentPrice,
		AllocatedCost: h.AllocatedCost,
		Dividends:     h.Dividends,
		MarketValue:   h.MarketValue(),
		UnrealizedPL:  h.UnrealizedPL(),
		ROIPct:        h.ROIPct(),
		History:       h.History,
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}

// HoldingsFromDomain converts domain holdings to responses.
func HoldingsFromDomain(holdings []*domain.Holding) []*HoldingResponse {
	result := make([]*HoldingResponse, len(holdings))
	for i, h := range holdings {
		result[i] = HoldingFromDomain(h)
	}
	return result
}

// TradeResponse represents a journal trade in API responses.
type TradeResponse struct {
	ID         string          `json:"id"`
	Pair       string          `json:"pair"`
	Direction  string          `json:"direction"`
	LotSize    decimal.Decimal `json:"lot_size"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	StopLoss   decimal.Decimal `json:"stop_loss"`
	TakeProfit decimal.Decimal `json:"take_profit"`
	Result     decimal.Decimal `json:"result"`
	Date       string          `json:"date"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TradeFromDomain converts a domain trade to a response.
func TradeFromDomain(t *domain.Trade) *TradeResponse {
	return &TradeResponse{
		ID:         t.ID,
		Pair:       t.Pair,
		Direction:  string(t.Direction),
		LotSize:    t.LotSize,
		EntryPrice: t.EntryPrice,
		StopLoss:   t.StopLoss,
		TakeProfit: t.TakeProfit,
		Result:     t.Result,
		Date:       domain.DateKey(t.Date),
		Notes:      t.Notes,
		CreatedAt:  t.CreatedAt,
	}
}

// TradesFromDomain converts domain trades to responses.
func TradesFromDomain(trades []*domain.Trade) []*TradeResponse {
	result := make([]*TradeResponse, len(trades))
	for i, t := range trades {
		result[i] = TradeFromDomain(t)
	}
	return result
}

// TradeStatsResponse represents journal statistics.
type TradeStatsResponse struct {
	TotalTrades int             `json:"total_trades"`
	Winners     int             `json:"winners"`
	Losers      int             `json:"losers"`
	WinRatePct  decimal.Decimal `json:"win_rate_pct"`
	TotalPL     decimal.Decimal `json:"total_pl"`
}

// HoldingPerformanceResponse is one holding's derived return figures.
type HoldingPerformanceResponse struct {
	Holding   *HoldingResponse `json:"holding"`
	NetProfit decimal.Decimal  `json:"net_profit"`
	ROIPct    decimal.Decimal  `json:"roi_pct"`
}

// SummaryResponse represents the portfolio summary.
type SummaryResponse struct {
	Holdings     []HoldingPerformanceResponse `json:"holdings"`
	MarketValue  decimal.Decimal              `json:"market_value"`
	CostBasis    decimal.Decimal              `json:"cost_basis"`
	UnrealizedPL decimal.Decimal              `json:"unrealized_pl"`
	Dividends    decimal.Decimal              `json:"dividends"`
	YieldPct     decimal.Decimal              `json:"yield_pct"`
}

// SummaryFromUseCase converts a portfolio summary to a response.
func SummaryFromUseCase(s *usecase.PortfolioSummary) *SummaryResponse {
	holdings := make([]HoldingPerformanceResponse, len(s.Holdings))
	for i, hp := range s.Holdings {
		holdings[i] = HoldingPerformanceResponse{
			Holding:   HoldingFromDomain(hp.Holding),
			NetProfit: hp.NetProfit,
			ROIPct:    hp.ROIPct,
		}
	}
	return &SummaryResponse{
		Holdings:     holdings,
		MarketValue:  s.MarketValue,
		CostBasis:    s.CostBasis,
		UnrealizedPL: s.UnrealizedPL,
		Dividends:    s.Dividends,
		YieldPct:     s.YieldPct,
	}
}

// AllocationSliceResponse is one slice of the allocation breakdown.
type AllocationSliceResponse struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Pct   int64           `json:"pct"`
}

// AllocationFromUseCase converts allocation slices to responses.
func AllocationFromUseCase(slices []usecase.AllocationSlice) []AllocationSliceResponse {
	result := make([]AllocationSliceResponse, len(slices))
	for i, s := range slices {
		result[i] = AllocationSliceResponse{Name: s.Name, Value: s.Value, Pct: s.Pct}
	}
	return result
}

// ReconcileResponse represents a ledger consistency report.
type ReconcileResponse struct {
	Consistent bool     `json:"consistent"`
	Violations []string `json:"violations,omitempty"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PinSet    bool      `json:"pin_set"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		PinSet:    u.PinSet(),
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse represents a successful authentication.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}
