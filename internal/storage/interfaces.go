package storage

import (
	"context"

	"prism-engine/internal/domain"
)

// TradeStore provides access to the trade snapshot.
// GetAll preserves table row order: the correlation engine's tie-break at
// identical timestamps depends on it.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.Trade) error

	// InsertBulk adds multiple trades. Fails the entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.Trade) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.Trade, error)

	// GetAll retrieves all trades in insertion (table row) order.
	GetAll(ctx context.Context) ([]*domain.Trade, error)

	// GetByClientID retrieves all trades for a client in insertion order.
	GetByClientID(ctx context.Context, clientID string) ([]*domain.Trade, error)
}

// ClientStore provides access to the client dimension snapshot.
type ClientStore interface {
	// Insert adds a new client. Returns ErrDuplicateKey if client_id exists.
	Insert(ctx context.Context, c *domain.Client) error

	// InsertBulk adds multiple clients. Fails the entire batch on any duplicate.
	InsertBulk(ctx context.Context, clients []*domain.Client) error

	// GetByID retrieves a client by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, clientID string) (*domain.Client, error)

	// GetAll retrieves all clients ordered by client_id ASC.
	GetAll(ctx context.Context) ([]*domain.Client, error)

	// GetBySubAffiliate retrieves clients under a sub-affiliate, client_id ASC.
	GetBySubAffiliate(ctx context.Context, subAffiliateID string) ([]*domain.Client, error)
}

// SubAffiliateStore provides access to the sub-affiliate dimension snapshot.
type SubAffiliateStore interface {
	// Insert adds a new sub-affiliate. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, s *domain.SubAffiliate) error

	// InsertBulk adds multiple sub-affiliates. Fails the batch on any duplicate.
	InsertBulk(ctx context.Context, subs []*domain.SubAffiliate) error

	// GetByID retrieves a sub-affiliate by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, subAffiliateID string) (*domain.SubAffiliate, error)

	// GetAll retrieves all sub-affiliates ordered by sub_affiliate_id ASC.
	GetAll(ctx context.Context) ([]*domain.SubAffiliate, error)
}

// PartnerStore provides access to the partner dimension snapshot.
type PartnerStore interface {
	// Insert adds a new partner. Returns ErrDuplicateKey if partner_id exists.
	Insert(ctx context.Context, p *domain.Partner) error

	// InsertBulk adds multiple partners. Fails the batch on any duplicate.
	InsertBulk(ctx context.Context, partners []*domain.Partner) error

	// GetByID retrieves a partner by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, partnerID string) (*domain.Partner, error)

	// GetAll retrieves all partners ordered by partner_id ASC.
	GetAll(ctx context.Context) ([]*domain.Partner, error)
}
