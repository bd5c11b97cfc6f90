package models

import "time"

// PaymentProvider is external payment network
type PaymentProvider string

const (
	PaymentProviderStripe PaymentProvider = "stripe"
	PaymentProviderPayPal PaymentProvider = "paypal"
)

// ParsePaymentProvider converts string to PaymentProvider
func ParsePaymentProvider(s string) (PaymentProvider, error) {
	switch PaymentProvider(s) {
	case PaymentProviderStripe:
		return PaymentProviderStripe, nil
	case PaymentProviderPayPal:
		return PaymentProviderPayPal, nil
	}
	return "", ErrUnsupportedProvider
}

// Label returns human-readable label of the provider
func (p PaymentProvider) Label() string {
	switch p {
	case PaymentProviderStripe:
		return "Credit Card (Stripe)"
	case PaymentProviderPayPal:
		return "PayPal"
	}
	return string(p)
}

// Payment is one attempt to collect payment for an order via one provider.
// Amount is minor units snapshotted from the order total at creation.
type Payment struct {
	ID              string
	OrderID         uint64
	UserID          uint64
	Provider        PaymentProvider
	SessionID       string
	PaymentIntentID string
	PayPalOrderID   string
	PayPalCaptureID string
	Amount          int64
	Currency        string
	Status          PaymentStatus
	Metadata        map[string]any
	CompletedAt     *time.Time
	CreatedAt       time.Time
}

// IsFinal reports whether the payment reached a terminal state
func (p *Payment) IsFinal() bool {
	switch p.Status {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}
