package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"grocer/internal/handlers"
	"grocer/internal/middleware"
	"grocer/internal/models"
	"grocer/internal/payments"
	"grocer/internal/repositories"
	"grocer/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeGateway is an in-memory payments.Gateway. Webhook events are delivered
// by signature header lookup, so tests control verification outcomes.
type fakeGateway struct {
	configured bool
	intents    int
	metadata   map[string]map[string]string
	cancelled  []string
	events     map[string]*payments.Event
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		configured: true,
		metadata:   make(map[string]map[string]string),
		events:     make(map[string]*payments.Event),
	}
}

func (g *fakeGateway) Configured() bool { return g.configured }

func (g *fakeGateway) CreateCustomer(email, name string, userID uint) (string, error) {
	return "cus_test", nil
}

func (g *fakeGateway) CreateIntent(amountMinor int64, currency, customerID string, metadata map[string]string) (*payments.Intent, error) {
	g.intents++
	id := fmt.Sprintf("pi_%d", g.intents)
	g.metadata[id] = metadata
	return &payments.Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (g *fakeGateway) UpdateIntentMetadata(intentID string, metadata map[string]string) error {
	g.metadata[intentID] = metadata
	return nil
}

func (g *fakeGateway) CancelIntent(intentID string) error {
	g.cancelled = append(g.cancelled, intentID)
	return nil
}

func (g *fakeGateway) GetCharge(chargeID string) (*payments.ChargeDetails, error) {
	return &payments.ChargeDetails{
		ID:         chargeID,
		ReceiptURL: "https://pay.example.com/receipts/" + chargeID,
		CardBrand:  "visa",
		CardLast4:  "4242",
	}, nil
}

func (g *fakeGateway) ConstructEvent(payload []byte, sigHeader string) (*payments.Event, error) {
	ev, ok := g.events[sigHeader]
	if !ok {
		return nil, fmt.Errorf("invalid signature")
	}
	return ev, nil
}

// setupApp wires the full application against an in-memory database, the way
// main does, and returns the app plus the handles tests poke at directly.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *fakeGateway) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.Address{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	gateway := newFakeGateway()

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)

	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo)
	orderService := services.NewOrderService(orderRepo)
	addressService := services.NewAddressService(addressRepo)
	paymentService := services.NewPaymentService(userRepo, cartRepo, orderRepo, gateway, nil, "eur")

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	webhookHandler := handlers.NewWebhookHandler(paymentService, gateway)

	authHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)
	webhookHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	userHandler.RegisterProtectedRoutes(protected)
	handlers.NewCartHandler(cartService).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService).RegisterRoutes(protected)
	handlers.NewAddressHandler(addressService).RegisterRoutes(protected)
	handlers.NewPaymentHandler(paymentService).RegisterRoutes(protected)

	admin := apiV1.Group("", middleware.AuthRequired(authService), middleware.AdminRequired())
	productHandler.RegisterAdminRoutes(admin)

	return app, db, gateway
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerAndLogin creates an account and returns its session cookie value.
func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/users", fiber.Map{
		"email":     email,
		"password":  "password123",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", fiber.Map{
		"email":    email,
		"password": "password123",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			return cookie.Value
		}
	}
	t.Fatal("no session cookie returned by login")
	return ""
}

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	return req
}

func seedProducts(t *testing.T, db *gorm.DB) {
	t.Helper()
	products := []models.Product{
		{ProductID: "p1", Name: "Oat Milk", Brand: "Oatly", Price: 1.99},
		{ProductID: "p2", Name: "Honey", Brand: "Breitsamer", Price: 3.50},
	}
	assert.NoError(t, db.Create(&products).Error)
}

func TestCheckoutFlow(t *testing.T) {
	app, db, gateway := setupApp(t)
	seedProducts(t, db)
	token := registerAndLogin(t, app, "ada@example.com")

	// Fill the cart: 2 x 1.99 + 1 x 3.50
	resp, err := app.Test(withSession(jsonRequest(http.MethodPost, "/api/v1/cart/items", fiber.Map{
		"productId": "p1", "quantity": 2,
	}), token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(withSession(jsonRequest(http.MethodPost, "/api/v1/cart/items", fiber.Map{
		"productId": "p2",
	}), token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var cart models.Cart
	resp, err = app.Test(withSession(jsonRequest(http.MethodGet, "/api/v1/cart", nil), token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Len(t, cart.Items, 2)
	assert.InDelta(t, 7.48, cart.TotalPrice, 1e-9)

	// Checkout
	resp, err = app.Test(withSession(jsonRequest(http.MethodPost, "/api/v1/payment/create-intent", fiber.Map{
		"shipping": fiber.Map{
			"name":       "Ada Lovelace",
			"street":     "12 Analytical Lane",
			"postalCode": "1018",
			"city":       "Amsterdam",
			"country":    "NL",
		},
	}), token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var checkout struct {
		OrderID      uint   `json:"orderId"`
		ClientSecret string `json:"clientSecret"`
	}
	decodeBody(t, resp, &checkout)
	assert.NotZero(t, checkout.OrderID)
	assert.Equal(t, "pi_1_secret", checkout.ClientSecret)

	// The order is pending with frozen line-item prices
	var order models.Order
	assert.NoError(t, db.Preload("Items").First(&order, checkout.OrderID).Error)
	assert.Equal(t, models.PaymentProcessing, order.PaymentStatus)
	assert.InDelta(t, 7.48, order.TotalPrice, 1e-9)
	assert.Len(t, order.Items, 2)
	assert.NotEmpty(t, order.Reference)

	// The intent now carries the real order ID
	assert.Equal(t, fmt.Sprintf("%d", checkout.OrderID), gateway.metadata["pi_1"]["orderId"])

	// The cart was emptied by checkout
	resp, err = app.Test(withSession(jsonRequest(http.MethodGet, "/api/v1/cart", nil), token))
	assert.NoError(t, err)
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)

	// And the order is listed for its owner
	resp, err = app.Test(withSession(jsonRequest(http.MethodGet, "/api/v1/orders", nil), token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decodeBody(t, resp, &orders)
	assert.Len(t, orders, 1)
}

func TestCheckoutEmptyCart(t *testing.T) {
	app, _, _ := setupApp(t)
	token := registerAndLogin(t, app, "ada@example.com")

	resp, err := app.Test(withSession(jsonRequest(http.MethodPost, "/api/v1/payment/create-intent", fiber.Map{
		"shipping": fiber.Map{
			"name":       "Ada Lovelace",
			"street":     "12 Analytical Lane",
			"postalCode": "1018",
			"city":       "Amsterdam",
			"country":    "NL",
		},
	}), token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebhook(t *testing.T) {
	app, db, gateway := setupApp(t)

	order := &models.Order{
		Reference:             "ref-wh",
		UserID:                7,
		PaymentStatus:         models.PaymentProcessing,
		StripePaymentIntentID: "pi_1",
	}
	assert.NoError(t, db.Create(order).Error)

	gateway.events["valid-sig"] = &payments.Event{
		Type: payments.EventPaymentSucceeded,
		Intent: &payments.EventIntent{
			ID:             "pi_1",
			LatestChargeID: "ch_1",
			Metadata: map[string]string{
				"orderId": fmt.Sprintf("%d", order.ID),
				"userId":  "7",
			},
		},
	}

	// No signature header
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/webhook/stripe", fiber.Map{}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Bad signature
	req := jsonRequest(http.MethodPost, "/api/v1/webhook/stripe", fiber.Map{})
	req.Header.Set("Stripe-Signature", "bad-sig")
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Verified success event settles the order
	req = jsonRequest(http.MethodPost, "/api/v1/webhook/stripe", fiber.Map{})
	req.Header.Set("Stripe-Signature", "valid-sig")
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ack struct {
		Received bool `json:"received"`
	}
	decodeBody(t, resp, &ack)
	assert.True(t, ack.Received)

	var stored models.Order
	assert.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.PaymentSucceeded, stored.PaymentStatus)
	assert.Equal(t, "ch_1", stored.StripeChargeID)
	assert.Equal(t, "visa", stored.CardBrand)
	assert.Equal(t, "4242", stored.CardLast4)
	assert.NotNil(t, stored.PaidAt)

	// Redelivery is acknowledged and leaves the order settled
	req = jsonRequest(http.MethodPost, "/api/v1/webhook/stripe", fiber.Map{})
	req.Header.Set("Stripe-Signature", "valid-sig")
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.PaymentSucceeded, stored.PaymentStatus)

	// Unhandled event types are acknowledged without side effects
	gateway.events["other-sig"] = &payments.Event{Type: "customer.updated"}
	req = jsonRequest(http.MethodPost, "/api/v1/webhook/stripe", fiber.Map{})
	req.Header.Set("Stripe-Signature", "other-sig")
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhookFailureEvent(t *testing.T) {
	app, db, gateway := setupApp(t)

	order := &models.Order{
		Reference:             "ref-fail",
		UserID:                7,
		PaymentStatus:         models.PaymentProcessing,
		StripePaymentIntentID: "pi_1",
	}
	assert.NoError(t, db.Create(order).Error)

	gateway.events["fail-sig"] = &payments.Event{
		Type: payments.EventPaymentFailed,
		Intent: &payments.EventIntent{
			ID:       "pi_1",
			Metadata: map[string]string{"orderId": fmt.Sprintf("%d", order.ID)},
		},
	}

	req := jsonRequest(http.MethodPost, "/api/v1/webhook/stripe", fiber.Map{})
	req.Header.Set("Stripe-Signature", "fail-sig")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.Order
	assert.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.PaymentFailed, stored.PaymentStatus)
}

func TestAuthorization(t *testing.T) {
	app, db, _ := setupApp(t)
	seedProducts(t, db)

	// No session
	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/v1/cart", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Catalog writes need the admin role
	token := registerAndLogin(t, app, "ada@example.com")
	resp, err = app.Test(withSession(jsonRequest(http.MethodPost, "/api/v1/products", fiber.Map{
		"productId": "p9", "name": "Spices", "price": 2.49,
	}), token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admins may create products
	assert.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "ada@example.com").
		Update("role", "admin").Error)
	adminToken := loginOnly(t, app, "ada@example.com")
	resp, err = app.Test(withSession(jsonRequest(http.MethodPost, "/api/v1/products", fiber.Map{
		"productId": "p9", "name": "Spices", "price": 2.49,
	}), adminToken))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Users cannot read other users' profiles
	resp, err = app.Test(withSession(jsonRequest(http.MethodGet, "/api/v1/users/999", nil), token))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func loginOnly(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", fiber.Map{
		"email":    email,
		"password": "password123",
	}))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			return cookie.Value
		}
	}
	t.Fatal("no session cookie returned by login")
	return ""
}

func TestProductCatalog(t *testing.T) {
	app, db, _ := setupApp(t)
	seedProducts(t, db)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/v1/products?search=oat", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	decodeBody(t, resp, &products)
	assert.Len(t, products, 1)
	assert.Equal(t, "Oat Milk", products[0].Name)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/products/p2", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/v1/products/missing", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
