package memory

import (
	"context"
	"sync"

	"prism-engine/internal/domain"
	"prism-engine/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
// Insertion order is preserved; the clustering tie-break at identical
// timestamps depends on it.
type TradeStore struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Trade
	order []*domain.Trade
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		byID: make(map[string]*domain.Trade),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.Trade) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	tradeCopy := *t
	s.byID[t.TradeID] = &tradeCopy
	s.order = append(s.order, &tradeCopy)
	return nil
}

// InsertBulk adds multiple trades. Fails the entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before mutating
	seen := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.byID[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, dup := seen[t.TradeID]; dup {
			return storage.ErrDuplicateKey
		}
		seen[t.TradeID] = struct{}{}
	}

	for _, t := range trades {
		tradeCopy := *t
		s.byID[t.TradeID] = &tradeCopy
		s.order = append(s.order, &tradeCopy)
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(_ context.Context, tradeID string) (*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.byID[tradeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	tradeCopy := *t
	return &tradeCopy, nil
}

// GetAll retrieves all trades in insertion (table row) order.
func (s *TradeStore) GetAll(_ context.Context) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Trade, len(s.order))
	for i, t := range s.order {
		tradeCopy := *t
		result[i] = &tradeCopy
	}
	return result, nil
}

// GetByClientID retrieves all trades for a client in insertion order.
func (s *TradeStore) GetByClientID(_ context.Context, clientID string) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, t := range s.order {
		if t.ClientID == clientID {
			tradeCopy := *t
			result = append(result, &tradeCopy)
		}
	}
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.TradeStore = (*TradeStore)(nil)
