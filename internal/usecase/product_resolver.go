package usecase

import (
	"strings"

	"github.com/smartsave/freshness/internal/domain"
)

// ProductResolver maps detected keywords to a catalog entry
type ProductResolver struct {
	catalog domain.CatalogRepository
}

// NewProductResolver creates a resolver over a read-only catalog
func NewProductResolver(catalog domain.CatalogRepository) *ProductResolver {
	return &ProductResolver{catalog: catalog}
}

// Resolve returns the first catalog item, in declaration order, having a
// descriptor keyword equal (case-insensitively) to any detected keyword.
// A nil result means the caller has to fall back to manual entry.
func (r *ProductResolver) Resolve(keywords []string) *domain.InventoryItem {
	if r.catalog == nil || len(keywords) == 0 {
		return nil
	}

	detected := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		detected[strings.ToLower(strings.TrimSpace(kw))] = struct{}{}
	}

	for _, item := range r.catalog.All() {
		for _, kw := range item.Keywords {
			if _, ok := detected[strings.ToLower(kw)]; ok {
				found := item
				return &found
			}
		}
	}

	return nil
}
