package services_test

import (
	"fmt"
	"testing"

	"grocer/internal/models"
	"grocer/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByUserID(userID uint) (*models.Cart, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) GetByID(id uint) (*models.Cart, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) Create(cart *models.Cart) error {
	args := m.Called(cart)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateTotal(cartID uint, total float64) error {
	args := m.Called(cartID, total)
	return args.Error(0)
}

func (m *MockCartRepository) GetItem(id uint) (*models.CartItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartRepository) CreateItem(item *models.CartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateItemQuantity(id uint, quantity int) error {
	args := m.Called(id, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItem(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCartRepository) ClearItems(cartID uint) error {
	args := m.Called(cartID)
	return args.Error(0)
}

func (m *MockCartRepository) ClearItemsByUserID(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func TestCartService_GetOrCreate(t *testing.T) {
	mockRepo := new(MockCartRepository)
	cartService := services.NewCartService(mockRepo)

	// Existing cart is returned as-is
	existing := &models.Cart{ID: 3, UserID: 7}
	mockRepo.On("GetByUserID", uint(7)).Return(existing, nil).Once()
	cart, err := cartService.GetOrCreate(7)
	assert.NoError(t, err)
	assert.Equal(t, existing, cart)
	mockRepo.AssertExpectations(t)

	// First access creates an empty cart
	mockRepo.On("GetByUserID", uint(8)).
		Return(nil, fmt.Errorf("cart for user 8 not found")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Cart")).Return(nil).Once()
	cart, err = cartService.GetOrCreate(8)
	assert.NoError(t, err)
	assert.Equal(t, uint(8), cart.UserID)
	assert.Equal(t, 0.0, cart.TotalPrice)
	mockRepo.AssertExpectations(t)
}

func TestCartService_RecalculateTotal(t *testing.T) {
	mockRepo := new(MockCartRepository)
	cartService := services.NewCartService(mockRepo)

	cart := &models.Cart{
		ID:     3,
		UserID: 7,
		Items: []models.CartItem{
			{ID: 1, CartID: 3, ProductID: "p1", Quantity: 2, Product: &models.Product{ProductID: "p1", Price: 1.99}},
			{ID: 2, CartID: 3, ProductID: "p2", Quantity: 1, Product: &models.Product{ProductID: "p2", Price: 3.50}},
			{ID: 3, CartID: 3, ProductID: "gone", Quantity: 4, Product: nil}, // deleted product counts as zero
		},
	}

	mockRepo.On("GetByID", uint(3)).Return(cart, nil).Once()
	mockRepo.On("UpdateTotal", uint(3), mock.AnythingOfType("float64")).Return(nil).Once()

	total, err := cartService.RecalculateTotal(3)
	assert.NoError(t, err)
	assert.InDelta(t, 7.48, total, 1e-9)
	mockRepo.AssertExpectations(t)
}

func TestCartService_AddItem(t *testing.T) {
	mockRepo := new(MockCartRepository)
	cartService := services.NewCartService(mockRepo)

	cart := &models.Cart{ID: 3, UserID: 7}
	mockRepo.On("GetByUserID", uint(7)).Return(cart, nil).Once()
	mockRepo.On("CreateItem", mock.AnythingOfType("*models.CartItem")).Return(nil).Once()
	mockRepo.On("GetByID", uint(3)).Return(&models.Cart{
		ID: 3,
		Items: []models.CartItem{
			{Quantity: 2, Product: &models.Product{Price: 1.99}},
		},
	}, nil).Once()
	mockRepo.On("UpdateTotal", uint(3), mock.AnythingOfType("float64")).Return(nil).Once()

	item, err := cartService.AddItem(7, "p1", 2)
	assert.NoError(t, err)
	assert.Equal(t, uint(3), item.CartID)
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, 2, item.Quantity)
	mockRepo.AssertExpectations(t)
}

func TestCartService_RemoveItem(t *testing.T) {
	mockRepo := new(MockCartRepository)
	cartService := services.NewCartService(mockRepo)

	mockRepo.On("GetItem", uint(9)).Return(&models.CartItem{ID: 9, CartID: 3}, nil).Once()
	mockRepo.On("DeleteItem", uint(9)).Return(nil).Once()
	mockRepo.On("GetByID", uint(3)).Return(&models.Cart{ID: 3}, nil).Once()
	mockRepo.On("UpdateTotal", uint(3), 0.0).Return(nil).Once()

	err := cartService.RemoveItem(9)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
