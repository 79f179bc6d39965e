// Package catalog exposes the vendor-to-product directory the gallery
// service validates uploads against. The directory is read-only,
// process-wide data: the default seed mirrors the pilot vendor list, and
// deployments can point VENDORINV_CATALOG_PATH at a JSON file instead.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	pkgerrors "github.com/VamsiDavuluri/vendor-inventory/pkg/errors"
)

// Product is one catalog row for a vendor.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
}

// Directory resolves vendor and product metadata.
type Directory interface {
	// ProductInfo returns the catalog row for (vendorID, productID).
	ProductInfo(vendorID, productID string) (Product, error)
	// Products returns all catalog rows for a vendor, in catalog order.
	Products(vendorID string) ([]Product, error)
}

// Static is an in-memory Directory.
type Static struct {
	byVendor map[string][]Product
}

// NewStatic builds a Directory from the provided vendor map.
func NewStatic(byVendor map[string][]Product) *Static {
	if byVendor == nil {
		byVendor = map[string][]Product{}
	}
	return &Static{byVendor: byVendor}
}

// LoadFile reads a vendor map from a JSON file shaped as
// {"vendor_id": [{"id": ..., "name": ..., "brand": ...}, ...]}.
func LoadFile(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var byVendor map[string][]Product
	if err := json.Unmarshal(raw, &byVendor); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return NewStatic(byVendor), nil
}

func (s *Static) ProductInfo(vendorID, productID string) (Product, error) {
	for _, product := range s.byVendor[vendorID] {
		if product.ID == productID {
			return product, nil
		}
	}
	return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *Static) Products(vendorID string) ([]Product, error) {
	products, ok := s.byVendor[vendorID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	out := make([]Product, len(products))
	copy(out, products)
	return out, nil
}
