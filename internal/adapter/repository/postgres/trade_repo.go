package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/usecase"
)

// TradeRepository implements usecase.TradeRepository.
type TradeRepository struct {
	pool *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepository.
func NewTradeRepository(pool *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{pool: pool}
}

const tradeColumns = `id, user_id, pair, direction, lot_size, entry_price, stop_loss,
take_profit, result, date, notes, created_at`

// CreateTx creates a new trade inside a transaction.
func (r *TradeRepository) CreateTx(ctx context.Context, tx usecase.Transaction, trade *domain.Trade) error {
	_, err := txQuerier(tx).Exec(ctx, `
INSERT INTO trades (id, user_id, pair, direction, lot_size, entry_price, stop_loss,
take_profit, result, date, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		trade.ID,
		trade.UserID,
		trade.Pair,
		string(trade.Direction),
		decimalToNumeric(trade.LotSize),
		decimalToNumeric(trade.EntryPrice),
		decimalToNumeric(trade.StopLoss),
		decimalToNumeric(trade.TakeProfit),
		decimalToNumeric(trade.Result),
		timeToPgDate(trade.Date),
		trade.Notes,
		timeToPgTimestamptz(trade.CreatedAt),
	)
	return err
}

// GetByID retrieves a trade by ID.
func (r *TradeRepository) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id)

	trade, err := scanTrade(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTradeNotFound
	}
	return trade, err
}

// List retrieves a user's trades with pagination, newest first.
func (r *TradeRepository) List(ctx context.Context, userID string, limit, offset int) ([]*domain.Trade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE user_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

// ListAll retrieves every trade for a user in chronological order.
func (r *TradeRepository) ListAll(ctx context.Context, userID string) ([]*domain.Trade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE user_id = $1 ORDER BY date ASC, created_at ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

// DeleteTx removes a trade inside a transaction.
func (r *TradeRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx).Exec(ctx, `DELETE FROM trades WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTradeNotFound
	}
	return nil
}

const sumResultsSQL = `SELECT COALESCE(SUM(result), 0) FROM trades WHERE user_id = $1`

// SumResults returns the user's total realized P/L.
func (r *TradeRepository) SumResults(ctx context.Context, userID string) (decimal.Decimal, error) {
	return r.sumResults(ctx, r.pool, userID)
}

// SumResultsTx returns the user's total realized P/L inside a
// transaction.
func (r *TradeRepository) SumResultsTx(ctx context.Context, tx usecase.Transaction, userID string) (decimal.Decimal, error) {
	return r.sumResults(ctx, txQuerier(tx), userID)
}

func (r *TradeRepository) sumResults(ctx context.Context, q querier, userID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	if err := q.QueryRow(ctx, sumResultsSQL, userID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return numericToDecimal(sum), nil
}

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var (
		t          domain.Trade
		direction  string
		lotSize    pgtype.Numeric
		entryPrice pgtype.Numeric
		stopLoss   pgtype.Numeric
		takeProfit pgtype.Numeric
		result     pgtype.Numeric
		date       pgtype.Date
		createdAt  pgtype.Timestamptz
	)

	err := row.Scan(&t.ID, &t.UserID, &t.Pair, &direction, &lotSize, &entryPrice,
		&stopLoss, &takeProfit, &result, &date, &t.Notes, &createdAt)
	if err != nil {
		return nil, err
	}

	t.Direction = domain.TradeDirection(direction)
	t.LotSize = numericToDecimal(lotSize)
	t.EntryPrice = numericToDecimal(entryPrice)
	t.StopLoss = numericToDecimal(stopLoss)
	t.TakeProfit = numericToDecimal(takeProfit)
	t.Result = numericToDecimal(result)
	t.Date = date.Time
	t.CreatedAt = createdAt.Time

	return &t, nil
}

func scanTrades(rows pgx.Rows) ([]*domain.Trade, error) {
	var trades []*domain.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}
