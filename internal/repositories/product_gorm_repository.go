package repositories

import (
	"errors"
	"fmt"
	"strings"

	"grocer/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// Search retrieves up to limit products whose name, brand or category
// contains the given term. An empty term returns the newest products.
func (r *GORMProductRepository) Search(term string, limit int) ([]models.Product, error) {
	var products []models.Product
	q := r.db.Limit(limit).Order("created_at DESC")
	if term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// GetByProductID retrieves a single product by its external product ID.
func (r *GORMProductRepository) GetByProductID(productID string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s not found", productID)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", productID, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product, matched by its external product ID.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Model(&models.Product{}).
		Where("product_id = ?", product.ProductID).
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update", product.ProductID)
	}
	return nil
}

// Delete deletes a product by its external product ID.
func (r *GORMProductRepository) Delete(productID string) error {
	res := r.db.Delete(&models.Product{}, "product_id = ?", productID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion", productID)
	}
	return nil
}
