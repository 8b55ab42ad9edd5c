package onboarding

import (
	"context"

	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

type CatalogSource interface {
	ListCatalog(ctx context.Context) ([]models.Hairstyle, error)
}

type ListCatalog struct {
	source CatalogSource
}

// NewListCatalog takes the cached catalog in production and the repository
// directly in tests.
func NewListCatalog(source CatalogSource) *ListCatalog {
	return &ListCatalog{source: source}
}

func (uc *ListCatalog) Execute(ctx context.Context) ([]models.Hairstyle, error) {
	return uc.source.ListCatalog(ctx)
}
