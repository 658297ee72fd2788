package memory

import (
	"context"
	"sort"
	"sync"

	"prism-engine/internal/domain"
	"prism-engine/internal/storage"
)

// SubAffiliateStore is an in-memory implementation of storage.SubAffiliateStore.
type SubAffiliateStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SubAffiliate // keyed by sub_affiliate_id
}

// NewSubAffiliateStore creates a new in-memory sub-affiliate store.
func NewSubAffiliateStore() *SubAffiliateStore {
	return &SubAffiliateStore{
		data: make(map[string]*domain.SubAffiliate),
	}
}

// Insert adds a new sub-affiliate. Returns ErrDuplicateKey if id exists.
func (s *SubAffiliateStore) Insert(_ context.Context, sub *domain.SubAffiliate) error {
	if sub == nil || sub.SubAffiliateID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sub.SubAffiliateID]; exists {
		return storage.ErrDuplicateKey
	}

	subCopy := *sub
	s.data[sub.SubAffiliateID] = &subCopy
	return nil
}

// InsertBulk adds multiple sub-affiliates. Fails the batch on any duplicate.
func (s *SubAffiliateStore) InsertBulk(_ context.Context, subs []*domain.SubAffiliate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		if sub == nil || sub.SubAffiliateID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[sub.SubAffiliateID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, dup := seen[sub.SubAffiliateID]; dup {
			return storage.ErrDuplicateKey
		}
		seen[sub.SubAffiliateID] = struct{}{}
	}

	for _, sub := range subs {
		subCopy := *sub
		s.data[sub.SubAffiliateID] = &subCopy
	}
	return nil
}

// GetByID retrieves a sub-affiliate by its ID. Returns ErrNotFound if not exists.
func (s *SubAffiliateStore) GetByID(_ context.Context, subAffiliateID string) (*domain.SubAffiliate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, exists := s.data[subAffiliateID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	subCopy := *sub
	return &subCopy, nil
}

// GetAll retrieves all sub-affiliates ordered by sub_affiliate_id ASC.
func (s *SubAffiliateStore) GetAll(_ context.Context) ([]*domain.SubAffiliate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SubAffiliate, 0, len(s.data))
	for _, sub := range s.data {
		subCopy := *sub
		result = append(result, &subCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SubAffiliateID < result[j].SubAffiliateID
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.SubAffiliateStore = (*SubAffiliateStore)(nil)
