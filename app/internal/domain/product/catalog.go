package product

import "context"

// Catalog is the read side of the backend product API.
type Catalog interface {
	GetProduct(ctx context.Context, slug string) (*Product, error)
	RelatedProducts(ctx context.Context, productID, categoryID string) ([]Product, error)
}
