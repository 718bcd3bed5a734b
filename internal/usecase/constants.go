package usecase

import "time"

const (
	// DefaultPageSize is applied when a listing request omits a limit.
	DefaultPageSize = 20
	// MaxPageSize caps listing requests.
	MaxPageSize = 100

	// balanceCacheTTL bounds staleness if an invalidation is lost.
	balanceCacheTTL = 5 * time.Minute
)

func balanceCacheKey(userID string) string {
	return "balances:" + userID
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
