package payments

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

var placeholderKey = regexp.MustCompile(`sk_test_x+`)

// StripeGateway implements Gateway on top of the Stripe SDK.
type StripeGateway struct {
	api           *client.API
	secretKey     string
	webhookSecret string
}

// NewStripeGateway creates a gateway for the given Stripe credentials.
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
	}
}

// Configured rejects empty and obvious placeholder keys.
func (g *StripeGateway) Configured() bool {
	key := g.secretKey
	if key == "" || !strings.HasPrefix(key, "sk_") || len(key) < 20 {
		return false
	}
	return !placeholderKey.MatchString(key)
}

// CreateCustomer creates a Stripe customer tagged with our user ID.
func (g *StripeGateway) CreateCustomer(email, name string, userID uint) (string, error) {
	params := &stripe.CustomerParams{}
	if email != "" {
		params.Email = stripe.String(email)
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	params.AddMetadata("userId", strconv.FormatUint(uint64(userID), 10))

	cust, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}
	return cust.ID, nil
}

// CreateIntent creates a payment intent with automatic payment methods.
func (g *StripeGateway) CreateIntent(amountMinor int64, currency, customerID string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		Customer: stripe.String(customerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// UpdateIntentMetadata replaces the metadata on an existing intent.
func (g *StripeGateway) UpdateIntentMetadata(intentID string, metadata map[string]string) error {
	params := &stripe.PaymentIntentParams{}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	if _, err := g.api.PaymentIntents.Update(intentID, params); err != nil {
		return fmt.Errorf("failed to update payment intent %s: %w", intentID, err)
	}
	return nil
}

// CancelIntent voids an intent that has not been captured.
func (g *StripeGateway) CancelIntent(intentID string) error {
	if _, err := g.api.PaymentIntents.Cancel(intentID, nil); err != nil {
		return fmt.Errorf("failed to cancel payment intent %s: %w", intentID, err)
	}
	return nil
}

// GetCharge retrieves card and receipt details for a settled charge.
func (g *StripeGateway) GetCharge(chargeID string) (*ChargeDetails, error) {
	ch, err := g.api.Charges.Get(chargeID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve charge %s: %w", chargeID, err)
	}
	details := &ChargeDetails{ID: ch.ID, ReceiptURL: ch.ReceiptURL}
	if pmd := ch.PaymentMethodDetails; pmd != nil && string(pmd.Type) == "card" && pmd.Card != nil {
		details.CardBrand = string(pmd.Card.Brand)
		details.CardLast4 = pmd.Card.Last4
	}
	return details, nil
}

// ConstructEvent verifies the Stripe signature and parses the event payload.
func (g *StripeGateway) ConstructEvent(payload []byte, sigHeader string) (*Event, error) {
	if g.webhookSecret == "" {
		return nil, fmt.Errorf("webhook secret is not configured")
	}
	ev, err := webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}

	out := &Event{Type: string(ev.Type)}
	switch out.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil || pi.Object != "payment_intent" {
			return nil, fmt.Errorf("unexpected event payload")
		}
		intent := &EventIntent{ID: pi.ID, Metadata: pi.Metadata}
		if pi.LatestCharge != nil {
			intent.LatestChargeID = pi.LatestCharge.ID
		}
		out.Intent = intent
	}
	return out, nil
}
