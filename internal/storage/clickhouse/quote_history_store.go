package clickhouse

import (
	"context"
	"fmt"

	"global-pick-trade/internal/domain"
	"global-pick-trade/internal/storage"
)

// QuoteHistoryStore implements storage.QuoteHistoryStore using ClickHouse.
// The table is append-only; repeated observations for the same (coin,
// timestamp) are allowed and kept.
type QuoteHistoryStore struct {
	conn *Conn
}

// NewQuoteHistoryStore creates a new QuoteHistoryStore.
func NewQuoteHistoryStore(conn *Conn) *QuoteHistoryStore {
	return &QuoteHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.QuoteHistoryStore = (*QuoteHistoryStore)(nil)

// InsertBulk appends quote points.
func (s *QuoteHistoryStore) InsertBulk(ctx context.Context, points []*storage.QuotePoint) error {
	if len(points) == 0 {
		return nil
	}
	for _, p := range points {
		if p == nil || p.Coin == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO quote_history (coin, timestamp_ms, price)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(string(p.Coin), uint64(p.TimestampMs), p.Price); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByCoin retrieves all points for a coin, ordered by timestamp ASC.
func (s *QuoteHistoryStore) GetByCoin(ctx context.Context, coin domain.Coin) ([]*storage.QuotePoint, error) {
	query := `
		SELECT coin, timestamp_ms, price
		FROM quote_history
		WHERE coin = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, string(coin))
	if err != nil {
		return nil, fmt.Errorf("query by coin: %w", err)
	}
	defer rows.Close()

	return scanQuotePoints(rows)
}

// GetByTimeRange retrieves points for a coin within [start, end] (inclusive).
func (s *QuoteHistoryStore) GetByTimeRange(ctx context.Context, coin domain.Coin, start, end int64) ([]*storage.QuotePoint, error) {
	query := `
		SELECT coin, timestamp_ms, price
		FROM quote_history
		WHERE coin = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, string(coin), uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanQuotePoints(rows)
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanQuotePoints scans multiple rows.
func scanQuotePoints(rows chRows) ([]*storage.QuotePoint, error) {
	var points []*storage.QuotePoint

	for rows.Next() {
		var p storage.QuotePoint
		var coin string
		var timestampMs uint64

		if err := rows.Scan(&coin, &timestampMs, &p.Price); err != nil {
			return nil, fmt.Errorf("scan quote history row: %w", err)
		}

		p.Coin = domain.Coin(coin)
		p.TimestampMs = int64(timestampMs)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quote history rows: %w", err)
	}

	return points, nil
}
