package memory

import (
	"context"
	"errors"
	"testing"

	"prism-engine/internal/domain"
	"prism-engine/internal/storage"
)

func TestPartnerStore_InsertAndGetAll(t *testing.T) {
	store := NewPartnerStore()
	ctx := context.Background()

	partners := []*domain.Partner{
		{PartnerID: "P-2", Name: "Partner 2", Country: "CY"},
		{PartnerID: "P-1", Name: "Partner 1", Country: "UK"},
	}
	if err := store.InsertBulk(ctx, partners); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 partners, got %d", len(got))
	}
	if got[0].PartnerID != "P-1" || got[1].PartnerID != "P-2" {
		t.Errorf("Wrong order: got %s, %s", got[0].PartnerID, got[1].PartnerID)
	}
}

func TestPartnerStore_DuplicateKey(t *testing.T) {
	store := NewPartnerStore()
	ctx := context.Background()

	p := &domain.Partner{PartnerID: "P-1", Name: "Partner 1"}
	if err := store.Insert(ctx, p); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, p); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestPartnerStore_NotFound(t *testing.T) {
	store := NewPartnerStore()
	ctx := context.Background()

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSubAffiliateStore_InsertAndGetAll(t *testing.T) {
	store := NewSubAffiliateStore()
	ctx := context.Background()

	subs := []*domain.SubAffiliate{
		{SubAffiliateID: "S-2", ParentPartnerID: "P-1", Name: "Sub 2"},
		{SubAffiliateID: "S-1", ParentPartnerID: "P-1", Name: "Sub 1", IsCommissionFarmer: true},
	}
	if err := store.InsertBulk(ctx, subs); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 sub-affiliates, got %d", len(got))
	}
	if got[0].SubAffiliateID != "S-1" || got[1].SubAffiliateID != "S-2" {
		t.Errorf("Wrong order: got %s, %s", got[0].SubAffiliateID, got[1].SubAffiliateID)
	}
	if !got[0].IsCommissionFarmer {
		t.Errorf("S-1 should retain IsCommissionFarmer flag")
	}
}

func TestSubAffiliateStore_DuplicateKey(t *testing.T) {
	store := NewSubAffiliateStore()
	ctx := context.Background()

	sub := &domain.SubAffiliate{SubAffiliateID: "S-1", ParentPartnerID: "P-1"}
	if err := store.Insert(ctx, sub); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, sub); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}
