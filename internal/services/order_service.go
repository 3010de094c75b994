package services

import (
	"fmt"

	"grocer/internal/models"
	"grocer/internal/repositories"
)

// OrderService handles read access to a user's orders. Orders are only ever
// created by checkout and only ever mutated by webhook reconciliation.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetOrders retrieves all orders of a user, newest first.
func (s *OrderService) GetOrders(userID uint) ([]models.Order, error) {
	return s.orderRepo.GetAllByUser(userID)
}

// GetOrder retrieves a single order, scoped to its owner.
func (s *OrderService) GetOrder(id, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order with ID %d not found", id)
	}
	return order, nil
}
