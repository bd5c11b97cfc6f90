// Package stripe wraps the card network gateway: checkout session creation
// and webhook event verification.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopmart/storefront/internal/models"
	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// event types the payment orchestrator reacts to
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// SessionRequest is checkout session creation request. Amounts are minor units.
type SessionRequest struct {
	Amount     int64
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
	Items      []models.OrderItem
}

// Session is the created gateway session
type Session struct {
	ID          string
	IntentID    string
	RedirectURL string
	Raw         map[string]any
}

// Event is a verified, normalised webhook event
type Event struct {
	Type          string
	IntentID      string
	Amount        int64
	Currency      string
	PaymentMethod string
	Status        string
	Metadata      map[string]string
}

type sessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Client is stripe gateway client
type Client struct {
	sessions      sessionAPI
	webhookSecret string
}

// New creates new stripe gateway client
func New(apiKey, webhookSecret string) *Client {
	sc := client.New(apiKey, nil)
	return &Client{
		sessions:      sc.CheckoutSessions,
		webhookSecret: webhookSecret,
	}
}

// CreateCheckoutSession creates a hosted checkout session for the order
func (c *Client) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	if len(req.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(req.Metadata))
		for k, v := range req.Metadata {
			params.Metadata[k] = v
		}
		// mirror metadata onto the intent so webhook events can resolve the payment
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: params.Metadata,
		}
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(item.UnitPrice),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.ProductName),
				},
			},
		})
	}
	if len(lineItems) == 0 {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(req.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Order"),
				},
			},
		})
	}
	params.LineItems = lineItems

	session, err := c.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	intentID := ""
	if session.PaymentIntent != nil {
		intentID = session.PaymentIntent.ID
	}

	raw := map[string]any{}
	if data, err := json.Marshal(session); err == nil {
		_ = json.Unmarshal(data, &raw)
	}

	return &Session{
		ID:          session.ID,
		IntentID:    intentID,
		RedirectURL: session.URL,
		Raw:         raw,
	}, nil
}

// VerifyWebhook checks the event signature against the shared secret and
// normalises the payment intent payload. Fails closed on any verification error.
func (c *Client) VerifyWebhook(payload []byte, sigHeader string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidSignature, err)
	}

	out := &Event{Type: string(event.Type)}

	switch out.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInvalidPayload, err)
		}
		out.IntentID = intent.ID
		out.Amount = intent.Amount
		out.Currency = string(intent.Currency)
		out.Status = string(intent.Status)
		out.Metadata = intent.Metadata
		if intent.PaymentMethod != nil {
			out.PaymentMethod = intent.PaymentMethod.ID
		}
	}

	return out, nil
}
