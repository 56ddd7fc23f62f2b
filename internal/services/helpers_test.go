package services_test

import (
	"context"
	"testing"

	"baraholka/internal/catalog"
	"baraholka/internal/docstore"
	"baraholka/internal/domain"
	"baraholka/internal/services"
)

func memstore(t *testing.T) docstore.Store {
	t.Helper()
	s, err := docstore.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newListingService(t *testing.T, store docstore.Store) *services.ListingService {
	t.Helper()
	return services.NewListingService(store, catalog.Default())
}

func validInput(ownerID string) services.CreateListingInput {
	return services.CreateListingInput{
		OwnerID:     ownerID,
		Title:       "Game Boy Color",
		Description: "Working handheld console, minor scratches on the shell.",
		Price:       1500,
		Category:    "electronics",
		Subcategory: "phones",
		Images:      []string{"https://example.com/gb.jpg"},
		ContactInfo: "@seller",
	}
}

func mustCreate(t *testing.T, ls *services.ListingService, ownerID string) *domain.Listing {
	t.Helper()
	l, err := ls.Create(context.Background(), validInput(ownerID))
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func strptr(s string) *string                  { return &s }
func statusptr(s domain.Status) *domain.Status { return &s }
