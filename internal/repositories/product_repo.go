package repositories

import (
	"context"

	"productsvc/internal/models"
)

// ProductRepository defines the interface for product data access.
// Every method performs a single store operation.
//
// Implementations return models.ErrInvalidID for malformed identifiers,
// models.ErrNotFound when no record matches, and wrap driver failures
// with models.ErrStoreUnavailable.
type ProductRepository interface {
	// GetAll returns every product, newest first.
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// Create assigns ID, CreatedAt and UpdatedAt and stores the product.
	Create(ctx context.Context, product *models.Product) error
	// Update applies changes to the product and returns the stored result.
	Update(ctx context.Context, id string, changes models.ProductChanges) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}
