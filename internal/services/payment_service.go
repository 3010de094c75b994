package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"grocer/internal/models"
	"grocer/internal/payments"
	"grocer/internal/repositories"
	"grocer/pkg/rabbitmq"

	"github.com/google/uuid"
)

// PaymentService orchestrates checkout: it creates the remote payment intent,
// converts the cart into an order atomically and reconciles webhook outcomes
// against order state.
type PaymentService struct {
	userRepo  repositories.UserRepository
	cartRepo  repositories.CartRepository
	orderRepo repositories.OrderRepository
	gateway   payments.Gateway
	mqClient  *rabbitmq.Client // optional, events are best-effort
	currency  string
}

// NewPaymentService creates a new PaymentService. mqClient may be nil.
func NewPaymentService(
	userRepo repositories.UserRepository,
	cartRepo repositories.CartRepository,
	orderRepo repositories.OrderRepository,
	gateway payments.Gateway,
	mqClient *rabbitmq.Client,
	currency string,
) *PaymentService {
	return &PaymentService{
		userRepo:  userRepo,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		gateway:   gateway,
		mqClient:  mqClient,
		currency:  currency,
	}
}

// ShippingInput is the validated shipping address payload for checkout.
type ShippingInput struct {
	Name       string `json:"name" validate:"required"`
	Street     string `json:"street" validate:"required"`
	Street2    string `json:"street2"`
	PostalCode string `json:"postalCode" validate:"required"`
	City       string `json:"city" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone"`
}

// CheckoutResult is returned to the client so it can confirm the payment.
type CheckoutResult struct {
	OrderID      uint   `json:"orderId"`
	ClientSecret string `json:"clientSecret"`
}

// CreateOrderAndIntent runs the checkout flow:
//
//  1. the remote payment intent is created first, so a processor failure
//     prevents any local order,
//  2. order creation and cart clearing happen in one database transaction,
//  3. a transaction failure cancels the remote intent (compensation),
//  4. the post-commit metadata update carrying the order ID is best-effort.
func (s *PaymentService) CreateOrderAndIntent(userID uint, shipping ShippingInput) (*CheckoutResult, error) {
	if !s.gateway.Configured() {
		return nil, ErrPaymentsNotConfigured
	}

	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, ErrCartEmpty
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	// Re-derive the total from items; the cached cart total may be stale.
	var total float64
	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		total += item.Product.Price * float64(item.Quantity)
	}

	customerID, err := s.ensureCustomer(userID)
	if err != nil {
		return nil, err
	}

	userIDStr := strconv.FormatUint(uint64(userID), 10)
	intent, err := s.gateway.CreateIntent(payments.MinorUnits(total), s.currency, customerID, map[string]string{
		"orderId": "TBD", // updated once the order exists
		"userId":  userIDStr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	if intent.ClientSecret == "" {
		return nil, ErrClientSecretMissing
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		var price float64
		if item.Product != nil {
			price = item.Product.Price
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price, // frozen as of now
		})
	}

	order := &models.Order{
		Reference:             uuid.New().String(),
		UserID:                userID,
		TotalPrice:            total,
		ShippingName:          shipping.Name,
		ShippingStreet:        shipping.Street,
		ShippingStreet2:       shipping.Street2,
		ShippingPostalCode:    shipping.PostalCode,
		ShippingCity:          shipping.City,
		ShippingCountry:       shipping.Country,
		ShippingPhone:         shipping.Phone,
		PaymentProvider:       "stripe",
		PaymentStatus:         models.PaymentProcessing,
		StripePaymentIntentID: intent.ID,
		Items:                 items,
	}

	if err := s.orderRepo.CreateFromCart(order, cart.ID); err != nil {
		// Compensate: void the intent so no orphaned charge attempt remains.
		if cancelErr := s.gateway.CancelIntent(intent.ID); cancelErr != nil {
			log.Printf("Failed to cancel payment intent %s after transaction failure: %v", intent.ID, cancelErr)
		}
		return nil, err
	}

	// The order ID only exists after commit; record it on the intent so the
	// webhook can attribute the outcome. Checkout has already succeeded, so
	// a failure here is logged, not propagated.
	if err := s.gateway.UpdateIntentMetadata(intent.ID, map[string]string{
		"orderId": strconv.FormatUint(uint64(order.ID), 10),
		"userId":  userIDStr,
	}); err != nil {
		log.Printf("Failed to update metadata of payment intent %s: %v", intent.ID, err)
	}

	s.publish("order.created", map[string]interface{}{
		"orderId":   order.ID,
		"reference": order.Reference,
		"userId":    userID,
		"total":     order.TotalPrice,
	})

	return &CheckoutResult{OrderID: order.ID, ClientSecret: intent.ClientSecret}, nil
}

// ensureCustomer returns the user's payment customer ID, creating the remote
// customer once and caching its ID on the user.
func (s *PaymentService) ensureCustomer(userID uint) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}

	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	customerID, err := s.gateway.CreateCustomer(user.Email, name, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to create payment customer: %w", err)
	}
	if err := s.userRepo.SetStripeCustomerID(user.ID, customerID); err != nil {
		return "", err
	}
	return customerID, nil
}

// ApplySuccess reconciles a verified "payment succeeded" event. Events whose
// metadata carries no usable order ID cannot be attributed and are ignored.
// Charge enrichment and the fallback cart clear are best-effort.
func (s *PaymentService) ApplySuccess(intent *payments.EventIntent) error {
	orderID, ok := orderIDFromMetadata(intent.Metadata)
	if !ok {
		return nil
	}

	result := repositories.PaymentResult{PaidAt: time.Now()}
	if intent.LatestChargeID != "" {
		charge, err := s.gateway.GetCharge(intent.LatestChargeID)
		if err != nil {
			log.Printf("Failed to retrieve charge %s for intent %s: %v", intent.LatestChargeID, intent.ID, err)
		} else {
			result.ChargeID = charge.ID
			result.ReceiptURL = charge.ReceiptURL
			result.CardBrand = charge.CardBrand
			result.CardLast4 = charge.CardLast4
		}
	}

	if err := s.orderRepo.MarkSucceeded(orderID, result); err != nil {
		return err
	}

	// Fallback clear by user ID: the webhook may arrive before checkout's
	// own clear completed. Idempotent either way.
	if userID, ok := parseUint(intent.Metadata["userId"]); ok {
		if err := s.cartRepo.ClearItemsByUserID(userID); err != nil {
			log.Printf("Fallback cart clear for user %d failed: %v", userID, err)
		}
	}

	s.publish("payment.succeeded", map[string]interface{}{
		"orderId":  orderID,
		"chargeId": result.ChargeID,
	})
	return nil
}

// ApplyFailure reconciles a verified "payment failed" event.
func (s *PaymentService) ApplyFailure(intent *payments.EventIntent) error {
	orderID, ok := orderIDFromMetadata(intent.Metadata)
	if !ok {
		return nil
	}
	if err := s.orderRepo.MarkFailed(orderID); err != nil {
		return err
	}
	s.publish("payment.failed", map[string]interface{}{"orderId": orderID})
	return nil
}

func (s *PaymentService) publish(event string, data map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishJSON(event, data); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}

func orderIDFromMetadata(metadata map[string]string) (uint, bool) {
	return parseUint(metadata["orderId"])
}

func parseUint(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
