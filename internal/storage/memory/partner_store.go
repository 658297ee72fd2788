package memory

import (
	"context"
	"sort"
	"sync"

	"prism-engine/internal/domain"
	"prism-engine/internal/storage"
)

// PartnerStore is an in-memory implementation of storage.PartnerStore.
type PartnerStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Partner // keyed by partner_id
}

// NewPartnerStore creates a new in-memory partner store.
func NewPartnerStore() *PartnerStore {
	return &PartnerStore{
		data: make(map[string]*domain.Partner),
	}
}

// Insert adds a new partner. Returns ErrDuplicateKey if partner_id exists.
func (s *PartnerStore) Insert(_ context.Context, p *domain.Partner) error {
	if p == nil || p.PartnerID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.PartnerID]; exists {
		return storage.ErrDuplicateKey
	}

	partnerCopy := *p
	s.data[p.PartnerID] = &partnerCopy
	return nil
}

// InsertBulk adds multiple partners. Fails the batch on any duplicate.
func (s *PartnerStore) InsertBulk(_ context.Context, partners []*domain.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(partners))
	for _, p := range partners {
		if p == nil || p.PartnerID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[p.PartnerID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, dup := seen[p.PartnerID]; dup {
			return storage.ErrDuplicateKey
		}
		seen[p.PartnerID] = struct{}{}
	}

	for _, p := range partners {
		partnerCopy := *p
		s.data[p.PartnerID] = &partnerCopy
	}
	return nil
}

// GetByID retrieves a partner by its ID. Returns ErrNotFound if not exists.
func (s *PartnerStore) GetByID(_ context.Context, partnerID string) (*domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[partnerID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	partnerCopy := *p
	return &partnerCopy, nil
}

// GetAll retrieves all partners ordered by partner_id ASC.
func (s *PartnerStore) GetAll(_ context.Context) ([]*domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Partner, 0, len(s.data))
	for _, p := range s.data {
		partnerCopy := *p
		result = append(result, &partnerCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PartnerID < result[j].PartnerID
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.PartnerStore = (*PartnerStore)(nil)
