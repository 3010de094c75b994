package repositories

import "grocer/internal/models"

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Search(term string, limit int) ([]models.Product, error)
	GetByProductID(productID string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(productID string) error
}
