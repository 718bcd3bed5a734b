package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
)

// EntryFilter narrows ledger entry listings.
type EntryFilter struct {
	From     *time.Time
	To       *time.Time
	Bucket   domain.Bucket
	Category string
	Limit    int
	Offset   int
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	CreateTx(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	List(ctx context.Context, userID string, filter EntryFilter) ([]*domain.Entry, error)
	// ListAll returns every entry for the user in chronological order
	// (date, then created_at, oldest first).
	ListAll(ctx context.Context, userID string) ([]*domain.Entry, error)
	Delete(ctx context.Context, id string) error
	DeleteTx(ctx context.Context, tx Transaction, id string) error
	DeleteBySourceTx(ctx context.Context, tx Transaction, sourceID string) (int64, error)
	// SumBucketTx returns the signed cash sum for a bucket inside a
	// transaction, excluding entries with the given category when
	// excludeCategory is non-empty.
	SumBucketTx(ctx context.Context, tx Transaction, userID string, bucket domain.Bucket, excludeCategory string) (decimal.Decimal, error)
}

// HoldingFilter narrows holding listings.
type HoldingFilter struct {
	Category domain.HoldingCategory
	Status   domain.HoldingStatus
}

// HoldingRepository defines data access for holdings.
type HoldingRepository interface {
	CreateTx(ctx context.Context, tx Transaction, holding *domain.Holding) error
	GetByID(ctx context.Context, id string) (*domain.Holding, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Holding, error)
	List(ctx context.Context, userID string, filter HoldingFilter) ([]*domain.Holding, error)
	// ListRunning returns every Running holding across all users, for
	// the daily candle roll.
	ListRunning(ctx context.Context) ([]*domain.Holding, error)
	Update(ctx context.Context, holding *domain.Holding) error
	UpdateTx(ctx context.Context, tx Transaction, holding *domain.Holding) error
	DeleteTx(ctx context.Context, tx Transaction, id string) error
}

// TradeRepository defines data access for journal trades.
type TradeRepository interface {
	CreateTx(ctx context.Context, tx Transaction, trade *domain.Trade) error
	GetByID(ctx context.Context, id string) (*domain.Trade, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*domain.Trade, error)
	ListAll(ctx context.Context, userID string) ([]*domain.Trade, error)
	DeleteTx(ctx context.Context, tx Transaction, id string) error
	SumResults(ctx context.Context, userID string) (decimal.Decimal, error)
	SumResultsTx(ctx context.Context, tx Transaction, userID string) (decimal.Decimal, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
