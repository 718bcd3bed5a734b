package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/usecase"
)

// HoldingRepository implements usecase.HoldingRepository. The daily
// candle history is stored as a JSONB document; it is only ever read
// and written whole, never queried per-bar.
type HoldingRepository struct {
	pool *pgxpool.Pool
}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository(pool *pgxpool.Pool) *HoldingRepository {
	return &HoldingRepository{pool: pool}
}

const holdingColumns = `id, user_id, symbol, name, category, status, quantity, avg_buy_price,
current_price, allocated_cost, dividends, history, created_at, updated_at`

// CreateTx creates a new holding inside a transaction.
func (r *HoldingRepository) CreateTx(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	history, err := json.Marshal(holding.History)
	if err != nil {
		return err
	}

	_, err = txQuerier(tx).Exec(ctx, `
INSERT INTO holdings (id, user_id, symbol, name, category, status, quantity, avg_buy_price,
current_price, allocated_cost, dividends, history, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		holding.ID,
		holding.UserID,
		holding.Symbol,
		holding.Name,
		string(holding.Category),
		string(holding.Status),
		decimalToNumeric(holding.Quantity),
		decimalToNumeric(holding.AvgBuyPrice),
		decimalToNumeric(holding.CurrentPrice),
		decimalToNumeric(holding.AllocatedCost),
		decimalToNumeric(holding.Dividends),
		history,
		timeToPgTimestamptz(holding.CreatedAt),
		timeToPgTimestamptz(holding.UpdatedAt),
	)
	return err
}

// GetByID retrieves a holding by ID.
func (r *HoldingRepository) GetByID(ctx context.Context, id string) (*domain.Holding, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+holdingColumns+` FROM holdings WHERE id = $1`, id)
	return r.scanOne(row)
}

// GetByIDForUpdate retrieves a holding by ID with a row lock.
func (r *HoldingRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Holding, error) {
	row := txQuerier(tx).QueryRow(ctx,
		`SELECT `+holdingColumns+` FROM holdings WHERE id = $1 FOR UPDATE`, id)
	return r.scanOne(row)
}

// List retrieves a user's holdings matching the filter.
func (r *HoldingRepository) List(ctx context.Context, userID string, filter usecase.HoldingFilter) ([]*domain.Holding, error) {
	var (
		conds = []string{"user_id = $1"}
		args  = []any{userID}
	)

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM holdings WHERE %s ORDER BY created_at ASC`,
		holdingColumns, strings.Join(conds, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHoldings(rows)
}

// ListRunning retrieves every Running holding across all users.
func (r *HoldingRepository) ListRunning(ctx context.Context) ([]*domain.Holding, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+holdingColumns+` FROM holdings WHERE status = $1 ORDER BY created_at ASC`,
		string(domain.HoldingRunning))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHoldings(rows)
}

const updateHoldingSQL = `
UPDATE holdings
SET status = $2, quantity = $3, avg_buy_price = $4, current_price = $5,
    allocated_cost = $6, dividends = $7, history = $8, updated_at = $9
WHERE id = $1`

// Update persists holding changes.
func (r *HoldingRepository) Update(ctx context.Context, holding *domain.Holding) error {
	return r.update(ctx, r.pool, holding)
}

// UpdateTx persists holding changes inside a transaction.
func (r *HoldingRepository) UpdateTx(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	return r.update(ctx, txQuerier(tx), holding)
}

func (r *HoldingRepository) update(ctx context.Context, q querier, holding *domain.Holding) error {
	history, err := json.Marshal(holding.History)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, updateHoldingSQL,
		holding.ID,
		string(holding.Status),
		decimalToNumeric(holding.Quantity),
		decimalToNumeric(holding.AvgBuyPrice),
		decimalToNumeric(holding.CurrentPrice),
		decimalToNumeric(holding.AllocatedCost),
		decimalToNumeric(holding.Dividends),
		history,
		timeToPgTimestamptz(holding.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHoldingNotFound
	}
	return nil
}

// DeleteTx removes a holding inside a transaction.
func (r *HoldingRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx).Exec(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHoldingNotFound
	}
	return nil
}

func (r *HoldingRepository) scanOne(row pgx.Row) (*domain.Holding, error) {
	holding, err := scanHolding(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrHoldingNotFound
	}
	return holding, err
}

func scanHolding(row pgx.Row) (*domain.Holding, error) {
	var (
		h             domain.Holding
		category      string
		status        string
		quantity      pgtype.Numeric
		avgBuyPrice   pgtype.Numeric
		currentPrice  pgtype.Numeric
		allocatedCost pgtype.Numeric
		dividends     pgtype.Numeric
		history       []byte
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(&h.ID, &h.UserID, &h.Symbol, &h.Name, &category, &status,
		&quantity, &avgBuyPrice, &currentPrice, &allocatedCost, &dividends,
		&history, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(history, &h.History); err != nil {
		return nil, err
	}

	h.Category = domain.HoldingCategory(category)
	h.Status = domain.HoldingStatus(status)
	h.Quantity = numericToDecimal(quantity)
	h.AvgBuyPrice = numericToDecimal(avgBuyPrice)
	h.CurrentPrice = numericToDecimal(currentPrice)
	h.AllocatedCost = numericToDecimal(allocatedCost)
	h.Dividends = numericToDecimal(dividends)
	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return &h, nil
}

func scanHoldings(rows pgx.Rows) ([]*domain.Holding, error) {
	var holdings []*domain.Holding
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, holding)
	}
	return holdings, rows.Err()
}
