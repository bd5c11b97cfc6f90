package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopmart/storefront/internal/models"
	"github.com/shopmart/storefront/internal/repository/postgres"
)

const (
	insertPaymentQuery = `
						INSERT INTO payments (id, order_id, user_id, provider, amount, currency, status, metadata)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
						RETURNING created_at
`
	selectPaymentColumns = `id, order_id, user_id, provider, session_id, payment_intent_id,
						paypal_order_id, paypal_capture_id, amount, currency, status, metadata, completed_at, created_at`

	updateStripeRefsQuery = `
						UPDATE payments
						SET session_id = $1, payment_intent_id = $2, metadata = metadata || $3::jsonb
						WHERE id = $4
`
	updatePayPalOrderQuery = `
						UPDATE payments
						SET paypal_order_id = $1, metadata = metadata || $2::jsonb
						WHERE id = $3
`
	completeStripePaymentQuery = `
						UPDATE payments
						SET status = 'completed', payment_intent_id = $1, metadata = metadata || $2::jsonb, completed_at = now()
						WHERE id = $3 AND status = 'pending'
`
	completePayPalPaymentQuery = `
						UPDATE payments
						SET status = 'completed', paypal_capture_id = $1, metadata = metadata || $2::jsonb, completed_at = now()
						WHERE id = $3 AND status = 'pending'
`
	failPaymentQuery = `
						UPDATE payments
						SET status = 'failed', metadata = metadata || $1::jsonb
						WHERE id = $2 AND status = 'pending'
`
	selectUnreconciledQuery = `
						SELECT ` + selectPaymentColumns + `
						FROM payments p
						WHERE p.status = 'completed'
						  AND EXISTS (
								SELECT 1 FROM orders o
								WHERE o.id = p.order_id
								  AND (o.payment_status <> 'completed' OR o.status = 'pending')
						  )
						ORDER BY p.completed_at
`
)

// PaymentRepository implements PaymentRepository interface
type PaymentRepository struct {
	db *postgres.DB
}

// NewPaymentRepository creates new PaymentRepository instance
func NewPaymentRepository(db *postgres.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreatePayment inserts new pending payment to database
func (pr *PaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	meta, err := marshalMetadata(payment.Metadata)
	if err != nil {
		return nil, err
	}

	err = pr.db.QueryRow(ctx, insertPaymentQuery,
		payment.ID, payment.OrderID, payment.UserID, payment.Provider,
		payment.Amount, payment.Currency, payment.Status, meta).
		Scan(&payment.CreatedAt)
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// GetPaymentByID returns payment by id
func (pr *PaymentRepository) GetPaymentByID(ctx context.Context, id string) (*models.Payment, error) {
	return pr.getPayment(ctx, `SELECT `+selectPaymentColumns+` FROM payments p WHERE id = $1`, id)
}

// GetPaymentByIntentID returns payment by stripe payment intent id
func (pr *PaymentRepository) GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	return pr.getPayment(ctx, `SELECT `+selectPaymentColumns+` FROM payments p WHERE payment_intent_id = $1`, intentID)
}

func (pr *PaymentRepository) getPayment(ctx context.Context, query string, arg any) (*models.Payment, error) {
	payment := models.Payment{}
	var meta []byte
	err := pr.db.QueryRow(ctx, query, arg).Scan(
		&payment.ID, &payment.OrderID, &payment.UserID, &payment.Provider,
		&payment.SessionID, &payment.PaymentIntentID, &payment.PayPalOrderID, &payment.PayPalCaptureID,
		&payment.Amount, &payment.Currency, &payment.Status, &meta, &payment.CompletedAt, &payment.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &payment.Metadata); err != nil {
			return nil, fmt.Errorf("payment metadata: %w", err)
		}
	}

	return &payment, nil
}

// SetStripeRefs stores stripe session and intent ids, merging metadata
func (pr *PaymentRepository) SetStripeRefs(ctx context.Context, id, sessionID, intentID string, metadata map[string]any) error {
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return err
	}

	_, err = pr.db.Exec(ctx, updateStripeRefsQuery, sessionID, intentID, meta, id)
	return err
}

// SetPayPalOrderID stores paypal order id, merging metadata
func (pr *PaymentRepository) SetPayPalOrderID(ctx context.Context, id, paypalOrderID string, metadata map[string]any) error {
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return err
	}

	_, err = pr.db.Exec(ctx, updatePayPalOrderQuery, paypalOrderID, meta, id)
	return err
}

// CompletePayment marks payment completed with the gateway reference. The
// update only applies to pending rows, so completing an already-final payment
// is a no-op and the method reports false. This guard is the sole concurrency
// control for the webhook/callback race.
func (pr *PaymentRepository) CompletePayment(ctx context.Context, payment *models.Payment, gatewayRef string, metadata map[string]any) (bool, error) {
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return false, err
	}

	query := completeStripePaymentQuery
	if payment.Provider == models.PaymentProviderPayPal {
		query = completePayPalPaymentQuery
	}

	cmd, err := pr.db.Exec(ctx, query, gatewayRef, meta, payment.ID)
	if err != nil {
		return false, err
	}

	return cmd.RowsAffected() > 0, nil
}

// FailPayment marks payment failed, merging metadata. Reports false when the
// payment was already final and nothing was written.
func (pr *PaymentRepository) FailPayment(ctx context.Context, payment *models.Payment, metadata map[string]any) (bool, error) {
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return false, err
	}

	cmd, err := pr.db.Exec(ctx, failPaymentQuery, meta, payment.ID)
	if err != nil {
		return false, err
	}

	return cmd.RowsAffected() > 0, nil
}

// ListUnreconciled returns completed payments whose orders have not received
// the corresponding payment/status writes yet
func (pr *PaymentRepository) ListUnreconciled(ctx context.Context) ([]models.Payment, error) {
	rows, err := pr.db.Query(ctx, selectUnreconciledQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.Payment{}

	for rows.Next() {
		payment := models.Payment{}
		var meta []byte
		err = rows.Scan(
			&payment.ID, &payment.OrderID, &payment.UserID, &payment.Provider,
			&payment.SessionID, &payment.PaymentIntentID, &payment.PayPalOrderID, &payment.PayPalCaptureID,
			&payment.Amount, &payment.Currency, &payment.Status, &meta, &payment.CompletedAt, &payment.CreatedAt)
		if err != nil {
			continue
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &payment.Metadata)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return meta, nil
}
