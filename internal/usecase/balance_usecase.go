package usecase

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
)

// SumBucket derives a bucket's balance from the full entry set. For
// the Trading bucket, entries with category "Trading Result" are
// excluded from the cash sum and tradePL (the sum of realized trade
// results) is added instead, so realized P/L is counted exactly once.
// A bucket with no entries yields zero. Order of entries is
// irrelevant.
func SumBucket(entries []*domain.Entry, tradePL decimal.Decimal, bucket domain.Bucket) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if e.Bucket != bucket {
			continue
		}
		if bucket == domain.BucketTrading && e.Category == domain.CategoryTradingResult {
			continue
		}
		sum = sum.Add(e.Signed())
	}

	if bucket == domain.BucketTrading {
		sum = sum.Add(tradePL)
	}

	return sum
}

// SumAllBuckets derives every bucket's balance in one pass.
func SumAllBuckets(entries []*domain.Entry, tradePL decimal.Decimal) map[domain.Bucket]decimal.Decimal {
	balances := make(map[domain.Bucket]decimal.Decimal, len(domain.Buckets))
	for _, b := range domain.Buckets {
		balances[b] = SumBucket(entries, tradePL, b)
	}
	return balances
}

// BalanceUseCase derives per-bucket balances from the ledger.
type BalanceUseCase struct {
	entryRepo EntryRepository
	tradeRepo TradeRepository
	cache     Cache
}

// NewBalanceUseCase creates a new BalanceUseCase. cache may be nil.
func NewBalanceUseCase(entryRepo EntryRepository, tradeRepo TradeRepository, cache Cache) *BalanceUseCase {
	return &BalanceUseCase{
		entryRepo: entryRepo,
		tradeRepo: tradeRepo,
		cache:     cache,
	}
}

// AllBalances returns the derived balance of every bucket.
func (uc *BalanceUseCase) AllBalances(ctx context.Context, userID string) (map[domain.Bucket]decimal.Decimal, error) {
	if cached, ok := uc.cachedBalances(ctx, userID); ok {
		return cached, nil
	}

	entries, err := uc.entryRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	tradePL, err := uc.tradeRepo.SumResults(ctx, userID)
	if err != nil {
		return nil, err
	}

	balances := SumAllBuckets(entries, tradePL)
	uc.storeBalances(ctx, userID, balances)

	return balances, nil
}

// BucketBalance returns the derived balance of a single bucket.
func (uc *BalanceUseCase) BucketBalance(ctx context.Context, userID string, bucket domain.Bucket) (decimal.Decimal, error) {
	if !bucket.IsValid() {
		return decimal.Zero, domain.ErrInvalidBucket
	}

	balances, err := uc.AllBalances(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return balances[bucket], nil
}

// Invalidate drops the cached balances for a user. Called by every
// write path that touches entries or trades.
func (uc *BalanceUseCase) Invalidate(ctx context.Context, userID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, balanceCacheKey(userID)); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate balance cache")
	}
}

func (uc *BalanceUseCase) cachedBalances(ctx context.Context, userID string) (map[domain.Bucket]decimal.Decimal, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, balanceCacheKey(userID))
	if err != nil || data == nil {
		return nil, false
	}

	var balances map[domain.Bucket]decimal.Decimal
	if err := json.Unmarshal(data, &balances); err != nil {
		return nil, false
	}

	return balances, true
}

func (uc *BalanceUseCase) storeBalances(ctx context.Context, userID string, balances map[domain.Bucket]decimal.Decimal) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(balances)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, balanceCacheKey(userID), data, balanceCacheTTL); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to cache balances")
	}
}
