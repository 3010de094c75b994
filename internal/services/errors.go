package services

import "errors"

// Sentinel errors for the failure classes handlers need to tell apart.
// Everything else is wrapped repository or gateway failure.
var (
	// ErrPaymentsNotConfigured means the payment processor credentials are
	// missing or placeholders. Configuration problem, never retried.
	ErrPaymentsNotConfigured = errors.New("payments are not configured")
	// ErrCartEmpty means checkout was attempted with no cart items.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrClientSecretMissing means the processor created an intent but
	// returned no client secret.
	ErrClientSecretMissing = errors.New("payment client secret missing")
	// ErrInvalidCredentials is returned for any login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering an already-known email.
	ErrEmailTaken = errors.New("email already registered")
)
