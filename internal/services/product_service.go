package services

import (
	"grocer/internal/models"
	"grocer/internal/repositories"
)

// searchLimit caps catalog search results.
const searchLimit = 20

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// SearchProducts retrieves up to 20 products matching the search term.
func (s *ProductService) SearchProducts(term string) ([]models.Product, error) {
	return s.repo.Search(term, searchLimit)
}

// GetProduct retrieves a single product by its external product ID.
func (s *ProductService) GetProduct(productID string) (*models.Product, error) {
	return s.repo.GetByProductID(productID)
}

// CreateProduct creates a new catalog entry.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing catalog entry.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a catalog entry by its external product ID.
func (s *ProductService) DeleteProduct(productID string) error {
	return s.repo.Delete(productID)
}
