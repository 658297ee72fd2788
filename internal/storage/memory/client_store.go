package memory

import (
	"context"
	"sort"
	"sync"

	"prism-engine/internal/domain"
	"prism-engine/internal/storage"
)

// ClientStore is an in-memory implementation of storage.ClientStore.
type ClientStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Client // keyed by client_id
}

// NewClientStore creates a new in-memory client store.
func NewClientStore() *ClientStore {
	return &ClientStore{
		data: make(map[string]*domain.Client),
	}
}

// Insert adds a new client. Returns ErrDuplicateKey if client_id exists.
func (s *ClientStore) Insert(_ context.Context, c *domain.Client) error {
	if c == nil || c.ClientID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.ClientID]; exists {
		return storage.ErrDuplicateKey
	}

	clientCopy := *c
	s.data[c.ClientID] = &clientCopy
	return nil
}

// InsertBulk adds multiple clients. Fails the entire batch on any duplicate.
func (s *ClientStore) InsertBulk(_ context.Context, clients []*domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(clients))
	for _, c := range clients {
		if c == nil || c.ClientID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[c.ClientID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, dup := seen[c.ClientID]; dup {
			return storage.ErrDuplicateKey
		}
		seen[c.ClientID] = struct{}{}
	}

	for _, c := range clients {
		clientCopy := *c
		s.data[c.ClientID] = &clientCopy
	}
	return nil
}

// GetByID retrieves a client by its ID. Returns ErrNotFound if not exists.
func (s *ClientStore) GetByID(_ context.Context, clientID string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[clientID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	clientCopy := *c
	return &clientCopy, nil
}

// GetAll retrieves all clients ordered by client_id ASC.
func (s *ClientStore) GetAll(_ context.Context) ([]*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Client, 0, len(s.data))
	for _, c := range s.data {
		clientCopy := *c
		result = append(result, &clientCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ClientID < result[j].ClientID
	})

	return result, nil
}

// GetBySubAffiliate retrieves clients under a sub-affiliate, client_id ASC.
func (s *ClientStore) GetBySubAffiliate(_ context.Context, subAffiliateID string) ([]*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Client
	for _, c := range s.data {
		if c.ParentSubID == subAffiliateID {
			clientCopy := *c
			result = append(result, &clientCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ClientID < result[j].ClientID
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.ClientStore = (*ClientStore)(nil)
