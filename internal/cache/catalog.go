package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/salon-onboarding/internal/models"
)

const CatalogKey = "catalog:hairstyles"

// CatalogLoader reads the catalog from its source of truth.
type CatalogLoader interface {
	ListCatalog(ctx context.Context) ([]models.Hairstyle, error)
}

// Catalog serves the hairstyle catalog from Redis, falling back to the
// loader on a miss.
type Catalog struct {
	cache  *Client
	loader CatalogLoader
	ttl    time.Duration
}

func NewCatalog(c *Client, loader CatalogLoader, ttl time.Duration) *Catalog {
	return &Catalog{cache: c, loader: loader, ttl: ttl}
}

func (c *Catalog) ListCatalog(ctx context.Context) ([]models.Hairstyle, error) {
	if raw := c.cache.Get(ctx, CatalogKey); raw != nil {
		var list []models.Hairstyle
		if err := json.Unmarshal(raw, &list); err == nil {
			return list, nil
		}
	}

	list, err := c.loader.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(list); err == nil {
		c.cache.Set(ctx, CatalogKey, raw, c.ttl)
	}
	return list, nil
}

func (c *Catalog) Invalidate(ctx context.Context) {
	c.cache.Delete(ctx, CatalogKey)
}
