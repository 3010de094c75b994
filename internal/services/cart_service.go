package services

import (
	"strings"

	"grocer/internal/models"
	"grocer/internal/repositories"
)

// CartService handles business logic for a user's cart and its items.
type CartService struct {
	cartRepo repositories.CartRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository) *CartService {
	return &CartService{cartRepo: cartRepo}
}

// GetOrCreate returns the user's cart, creating an empty one on first access.
func (s *CartService) GetOrCreate(userID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !strings.Contains(err.Error(), "not found") {
		return nil, err
	}

	cart = &models.Cart{UserID: userID, TotalPrice: 0}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds an item to the user's cart (creating the cart if needed) and
// recomputes the cart total.
func (s *CartService) AddItem(userID uint, productID string, quantity int) (*models.CartItem, error) {
	cart, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.CreateItem(item); err != nil {
		return nil, err
	}

	if _, err := s.RecalculateTotal(cart.ID); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemQuantity changes an item's quantity and recomputes the cart total.
func (s *CartService) UpdateItemQuantity(itemID uint, quantity int) error {
	item, err := s.cartRepo.GetItem(itemID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.UpdateItemQuantity(itemID, quantity); err != nil {
		return err
	}
	_, err = s.RecalculateTotal(item.CartID)
	return err
}

// RemoveItem deletes a cart item and recomputes the cart total.
func (s *CartService) RemoveItem(itemID uint) error {
	item, err := s.cartRepo.GetItem(itemID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.DeleteItem(itemID); err != nil {
		return err
	}
	_, err = s.RecalculateTotal(item.CartID)
	return err
}

// RecalculateTotal recomputes the cart total as the sum of quantity times the
// current product price (missing price counts as zero), persists it on the
// cart and returns it. Safe to call repeatedly.
func (s *CartService) RecalculateTotal(cartID uint) (float64, error) {
	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		total += item.Product.Price * float64(item.Quantity)
	}

	if err := s.cartRepo.UpdateTotal(cartID, total); err != nil {
		return 0, err
	}
	return total, nil
}
