package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `id, user_id, source_id, direction, amount, category, bucket, date, description, created_at`

const insertEntrySQL = `
INSERT INTO entries (id, user_id, source_id, direction, amount, category, bucket, date, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Create creates a new entry.
func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	return r.create(ctx, r.pool, entry)
}

// CreateTx creates a new entry inside a transaction.
func (r *EntryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	return r.create(ctx, txQuerier(tx), entry)
}

func (r *EntryRepository) create(ctx context.Context, q querier, entry *domain.Entry) error {
	_, err := q.Exec(ctx, insertEntrySQL,
		entry.ID,
		entry.UserID,
		entry.SourceID,
		string(entry.Direction),
		decimalToNumeric(entry.Amount),
		entry.Category,
		string(entry.Bucket),
		timeToPgDate(entry.Date),
		entry.Description,
		timeToPgTimestamptz(entry.CreatedAt),
	)
	return err
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)

	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	return entry, err
}

// List retrieves entries matching the filter, newest first.
func (r *EntryRepository) List(ctx context.Context, userID string, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	var (
		conds = []string{"user_id = $1"}
		args  = []any{userID}
	)

	if filter.Bucket != "" {
		args = append(args, string(filter.Bucket))
		conds = append(conds, fmt.Sprintf("bucket = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, timeToPgDate(*filter.From))
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, timeToPgDate(*filter.To))
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM entries WHERE %s ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		entryColumns, strings.Join(conds, " AND "), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListAll retrieves every entry for a user in chronological order.
func (r *EntryRepository) ListAll(ctx context.Context, userID string) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE user_id = $1 ORDER BY date ASC, created_at ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Delete removes an entry by ID.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, r.pool, id)
}

// DeleteTx removes an entry by ID inside a transaction.
func (r *EntryRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	return r.delete(ctx, txQuerier(tx), id)
}

func (r *EntryRepository) delete(ctx context.Context, q querier, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// DeleteBySourceTx removes every entry correlated to a source record
// inside a transaction and returns the number of rows removed.
func (r *EntryRepository) DeleteBySourceTx(ctx context.Context, tx usecase.Transaction, sourceID string) (int64, error) {
	tag, err := txQuerier(tx).Exec(ctx, `DELETE FROM entries WHERE source_id = $1`, sourceID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SumBucketTx derives a bucket's signed cash sum inside a transaction.
// Entries with excludeCategory are skipped when it is non-empty.
func (r *EntryRepository) SumBucketTx(ctx context.Context, tx usecase.Transaction, userID string, bucket domain.Bucket, excludeCategory string) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := txQuerier(tx).QueryRow(ctx, `
SELECT COALESCE(SUM(CASE WHEN direction = 'Income' THEN amount ELSE -amount END), 0)
FROM entries
WHERE user_id = $1 AND bucket = $2 AND ($3 = '' OR category <> $3)`,
		userID, string(bucket), excludeCategory).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return numericToDecimal(sum), nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e         domain.Entry
		direction string
		bucket    string
		amount    pgtype.Numeric
		date      pgtype.Date
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&e.ID, &e.UserID, &e.SourceID, &direction, &amount,
		&e.Category, &bucket, &date, &e.Description, &createdAt)
	if err != nil {
		return nil, err
	}

	e.Direction = domain.Direction(direction)
	e.Bucket = domain.Bucket(bucket)
	e.Amount = numericToDecimal(amount)
	e.Date = date.Time
	e.CreatedAt = createdAt.Time

	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
