package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/usecase"
)

func TestCreateEntryRequest_ToUseCaseInput(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	req := &CreateEntryRequest{
		Date:        date,
		Direction:   "Income",
		Category:    "Salary",
		Description: "March salary",
		Bucket:      "General",
		Amount:      decimal.RequireFromString("2500"),
	}

	got := req.ToUseCaseInput("user-1")

	if got.UserID != "user-1" || got.Direction != domain.DirectionIncome {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
	if got.Bucket != domain.BucketGeneral || !got.Amount.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
	if !got.Date.Equal(date) || got.Description != "March salary" {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
}

func TestAllocateRequest_ToUseCaseInput(t *testing.T) {
	req := &AllocateRequest{
		Date:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Source: "General",
		Target: "Investment-Stocks",
		Amount: decimal.RequireFromString("400"),
	}

	got := req.ToUseCaseInput("user-1")

	if got.Source != domain.BucketGeneral || got.Target != domain.BucketInvestStocks {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
	if got.UserID != "user-1" || !got.Amount.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
}

func TestPurchaseRequest_ToUseCaseInput(t *testing.T) {
	req := &PurchaseRequest{
		Date:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Name:     "Vanguard S&P 500",
		Symbol:   "VOO",
		Category: "Stocks",
		Quantity: decimal.NewFromInt(10),
		Price:    decimal.NewFromInt(150),
		Fee:      decimal.NewFromInt(20),
	}

	got := req.ToUseCaseInput("user-1")
	want := usecase.PurchaseInput{
		Date:     req.Date,
		UserID:   "user-1",
		Name:     "Vanguard S&P 500",
		Symbol:   "VOO",
		Category: domain.CategoryStocks,
		Quantity: decimal.NewFromInt(10),
		Price:    decimal.NewFromInt(150),
		Fee:      decimal.NewFromInt(20),
	}

	if got.Category != want.Category || got.Symbol != want.Symbol || got.UserID != want.UserID {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
	if !got.Quantity.Equal(want.Quantity) || !got.Price.Equal(want.Price) || !got.Fee.Equal(want.Fee) {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestCreateTradeRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateTradeRequest{
		Date:       time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		Pair:       "EUR/USD",
		Direction:  "Buy",
		Notes:      "breakout",
		LotSize:    decimal.RequireFromString("0.5"),
		EntryPrice: decimal.RequireFromString("1.0850"),
		StopLoss:   decimal.RequireFromString("1.0800"),
		TakeProfit: decimal.RequireFromString("1.0950"),
		Result:     decimal.RequireFromString("125"),
	}

	got := req.ToUseCaseInput("user-1")

	if got.Direction != domain.TradeBuy || got.Pair != "EUR/USD" || got.Notes != "breakout" {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
	if !got.Result.Equal(decimal.NewFromInt(125)) || !got.LotSize.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
}
