package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound    = errors.New("ledger entry not found")
	ErrInvalidDirection = errors.New("direction must be Income or Expense")
	ErrInvalidBucket    = errors.New("unknown allocation bucket")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrMissingCategory  = errors.New("category is required")
	ErrMissingDate      = errors.New("date is required")

	// Transfer errors
	ErrSameBucket          = errors.New("cannot transfer to same bucket")
	ErrInsufficientBalance = errors.New("amount exceeds source bucket balance")

	// Holding errors
	ErrHoldingNotFound = errors.New("holding not found")
	ErrHoldingClosed   = errors.New("holding is already closed")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must be positive")

	// Trade errors
	ErrTradeNotFound = errors.New("trade not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrPinNotSet    = errors.New("no pin configured for user")
	ErrPinMismatch  = errors.New("pin does not match")
)
