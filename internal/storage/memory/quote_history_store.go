package memory

import (
	"context"
	"sort"
	"sync"

	"global-pick-trade/internal/domain"
	"global-pick-trade/internal/storage"
)

// QuoteHistoryStore is an in-memory implementation of storage.QuoteHistoryStore.
type QuoteHistoryStore struct {
	mu     sync.RWMutex
	points []*storage.QuotePoint
}

// NewQuoteHistoryStore creates a new in-memory quote history store.
func NewQuoteHistoryStore() *QuoteHistoryStore {
	return &QuoteHistoryStore{}
}

// InsertBulk appends quote points.
func (s *QuoteHistoryStore) InsertBulk(_ context.Context, points []*storage.QuotePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if p == nil || p.Coin == "" {
			return storage.ErrInvalidInput
		}
		copy := *p
		s.points = append(s.points, &copy)
	}
	return nil
}

// GetByCoin retrieves all points for a coin, ordered by timestamp ASC.
func (s *QuoteHistoryStore) GetByCoin(_ context.Context, coin domain.Coin) ([]*storage.QuotePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.QuotePoint
	for _, p := range s.points {
		if p.Coin == coin {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

// GetByTimeRange retrieves points for a coin within [start, end] inclusive.
func (s *QuoteHistoryStore) GetByTimeRange(_ context.Context, coin domain.Coin, start, end int64) ([]*storage.QuotePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.QuotePoint
	for _, p := range s.points {
		if p.Coin == coin && p.TimestampMs >= start && p.TimestampMs <= end {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

var _ storage.QuoteHistoryStore = (*QuoteHistoryStore)(nil)
