package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopmart/storefront/internal/gateway/paypal"
	stripegw "github.com/shopmart/storefront/internal/gateway/stripe"
	"github.com/shopmart/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentRepo struct {
	payments map[string]*models.Payment
	byIntent map[string]*models.Payment

	completeCalls int
	failCalls     int
	completedRefs []string
	unreconciled  []models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: make(map[string]*models.Payment),
		byIntent: make(map[string]*models.Payment),
	}
}

func (f *fakePaymentRepo) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	f.payments[payment.ID] = payment
	return payment, nil
}

func (f *fakePaymentRepo) GetPaymentByID(ctx context.Context, id string) (*models.Payment, error) {
	if p, ok := f.payments[id]; ok {
		return p, nil
	}
	return nil, models.ErrDataNotFound
}

func (f *fakePaymentRepo) GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	if p, ok := f.byIntent[intentID]; ok {
		return p, nil
	}
	return nil, models.ErrDataNotFound
}

func (f *fakePaymentRepo) SetStripeRefs(ctx context.Context, id, sessionID, intentID string, metadata map[string]any) error {
	p := f.payments[id]
	p.SessionID = sessionID
	p.PaymentIntentID = intentID
	f.byIntent[intentID] = p
	return nil
}

func (f *fakePaymentRepo) SetPayPalOrderID(ctx context.Context, id, paypalOrderID string, metadata map[string]any) error {
	f.payments[id].PayPalOrderID = paypalOrderID
	return nil
}

func (f *fakePaymentRepo) CompletePayment(ctx context.Context, payment *models.Payment, gatewayRef string, metadata map[string]any) (bool, error) {
	f.completeCalls++
	stored := f.payments[payment.ID]
	if stored != nil && stored.Status != models.PaymentStatusPending {
		return false, nil
	}
	if stored != nil {
		stored.Status = models.PaymentStatusCompleted
	}
	f.completedRefs = append(f.completedRefs, gatewayRef)
	return true, nil
}

func (f *fakePaymentRepo) FailPayment(ctx context.Context, payment *models.Payment, metadata map[string]any) (bool, error) {
	f.failCalls++
	stored := f.payments[payment.ID]
	if stored != nil && stored.Status != models.PaymentStatusPending {
		return false, nil
	}
	if stored != nil {
		stored.Status = models.PaymentStatusFailed
		stored.Metadata = metadata
	}
	return true, nil
}

func (f *fakePaymentRepo) ListUnreconciled(ctx context.Context) ([]models.Payment, error) {
	return f.unreconciled, nil
}

type fakePaymentOrders struct {
	orders          map[uint64]*models.Order
	markedPaid      []uint64
	markedFailed    []uint64
	transitions     []models.OrderStatus
	transitionNotes []string
}

func newFakePaymentOrders(orders ...*models.Order) *fakePaymentOrders {
	f := &fakePaymentOrders{orders: make(map[uint64]*models.Order)}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakePaymentOrders) GetOrder(ctx context.Context, id uint64) (*models.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, models.ErrDataNotFound
}

func (f *fakePaymentOrders) MarkAsPaid(ctx context.Context, order *models.Order, transactionID string) error {
	f.markedPaid = append(f.markedPaid, order.ID)
	order.PaymentStatus = models.PaymentStatusCompleted
	order.TransactionID = transactionID
	return nil
}

func (f *fakePaymentOrders) MarkPaymentFailed(ctx context.Context, order *models.Order) error {
	f.markedFailed = append(f.markedFailed, order.ID)
	order.PaymentStatus = models.PaymentStatusFailed
	return nil
}

func (f *fakePaymentOrders) TransitionTo(ctx context.Context, order *models.Order, newStatus models.OrderStatus, actor *models.TokenPayload, note string) error {
	f.transitions = append(f.transitions, newStatus)
	f.transitionNotes = append(f.transitionNotes, note)
	order.Status = newStatus
	return nil
}

type fakeStripeGateway struct {
	session     *stripegw.Session
	sessionErr  error
	event       *stripegw.Event
	verifyErr   error
	createCalls int
}

func (f *fakeStripeGateway) CreateCheckoutSession(ctx context.Context, req stripegw.SessionRequest) (*stripegw.Session, error) {
	f.createCalls++
	return f.session, f.sessionErr
}

func (f *fakeStripeGateway) VerifyWebhook(payload []byte, sigHeader string) (*stripegw.Event, error) {
	return f.event, f.verifyErr
}

type fakePayPalGateway struct {
	order        *paypal.Order
	orderErr     error
	capture      *paypal.Order
	captureErr   error
	captureCalls int
}

func (f *fakePayPalGateway) CreateOrder(ctx context.Context, req paypal.OrderRequest) (*paypal.Order, error) {
	return f.order, f.orderErr
}

func (f *fakePayPalGateway) CaptureOrder(ctx context.Context, orderID string) (*paypal.Order, error) {
	f.captureCalls++
	return f.capture, f.captureErr
}

func newTestPaymentService(repo *fakePaymentRepo, orders *fakePaymentOrders, stripe *fakeStripeGateway, pp *fakePayPalGateway) *PaymentService {
	return NewPaymentService(repo, orders, stripe, pp, "http://localhost:8080", time.Second)
}

func pendingOrder(id, userID uint64) *models.Order {
	return &models.Order{
		ID:            id,
		UserID:        userID,
		OrderNumber:   "ORD-2026-TEST01",
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Total:         16000,
	}
}

func TestPaymentService_CreatePayment_UnsupportedProvider(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newTestPaymentService(repo, newFakePaymentOrders(), &fakeStripeGateway{}, &fakePayPalGateway{})

	_, err := svc.CreatePayment(context.Background(), 1, 1, "bitcoin")
	require.ErrorIs(t, err, models.ErrUnsupportedProvider)
	assert.Empty(t, repo.payments)
}

func TestPaymentService_CreatePayment_OtherUsersOrder(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakePaymentOrders(pendingOrder(1, 3))
	svc := newTestPaymentService(repo, orders, &fakeStripeGateway{}, &fakePayPalGateway{})

	_, err := svc.CreatePayment(context.Background(), 99, 1, "stripe")
	require.ErrorIs(t, err, models.ErrDataNotFound)
	assert.Empty(t, repo.payments)
}

func TestPaymentService_CreatePayment_Stripe(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakePaymentOrders(pendingOrder(1, 3))
	stripe := &fakeStripeGateway{session: &stripegw.Session{
		ID:          "cs_test_123",
		IntentID:    "pi_test_123",
		RedirectURL: "https://checkout.stripe.com/pay/cs_test_123",
	}}
	svc := newTestPaymentService(repo, orders, stripe, &fakePayPalGateway{})

	result, err := svc.CreatePayment(context.Background(), 3, 1, "stripe")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentProviderStripe, result.Provider)
	assert.Equal(t, "cs_test_123", result.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", result.RedirectURL)

	payment := repo.payments[result.PaymentID]
	require.NotNil(t, payment)
	assert.Equal(t, int64(16000), payment.Amount)
	assert.Equal(t, "pi_test_123", payment.PaymentIntentID)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
}

func TestPaymentService_CreatePayment_GatewayDown(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakePaymentOrders(pendingOrder(1, 3))
	stripe := &fakeStripeGateway{sessionErr: errors.New("connection refused")}
	svc := newTestPaymentService(repo, orders, stripe, &fakePayPalGateway{})

	_, err := svc.CreatePayment(context.Background(), 3, 1, "stripe")
	require.ErrorIs(t, err, models.ErrGatewayUnavailable)

	// the open attempt is closed as failed, not left dangling
	require.Len(t, repo.payments, 1)
	for _, p := range repo.payments {
		assert.Equal(t, models.PaymentStatusFailed, p.Status)
	}
}

func TestPaymentService_CreatePayment_PayPal(t *testing.T) {
	repo := newFakePaymentRepo()
	orders := newFakePaymentOrders(pendingOrder(1, 3))
	pp := &fakePayPalGateway{order: &paypal.Order{
		ID:          "5O190127TN364715T",
		Status:      "CREATED",
		ApprovalURL: "https://www.sandbox.paypal.com/checkoutnow?token=5O190127TN364715T",
	}}
	svc := newTestPaymentService(repo, orders, &fakeStripeGateway{}, pp)

	result, err := svc.CreatePayment(context.Background(), 3, 1, "paypal")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentProviderPayPal, result.Provider)
	assert.Equal(t, "5O190127TN364715T", result.ProviderOrderID)
	assert.Contains(t, result.RedirectURL, "checkoutnow")
	assert.Equal(t, "5O190127TN364715T", repo.payments[result.PaymentID].PayPalOrderID)
}

func TestPaymentService_ConfirmPayPal(t *testing.T) {
	t.Run("captures_and_pays_order", func(t *testing.T) {
		repo := newFakePaymentRepo()
		order := pendingOrder(1, 3)
		orders := newFakePaymentOrders(order)
		payment := &models.Payment{ID: "pay-1", OrderID: 1, UserID: 3, Provider: models.PaymentProviderPayPal, Status: models.PaymentStatusPending}
		repo.payments[payment.ID] = payment
		pp := &fakePayPalGateway{capture: &paypal.Order{Status: paypal.StatusCompleted, CaptureID: "3C679366HH908993F"}}
		svc := newTestPaymentService(repo, orders, &fakeStripeGateway{}, pp)

		got, err := svc.ConfirmPayPal(context.Background(), "pay-1", "5O190127TN364715T")
		require.NoError(t, err)

		assert.Equal(t, models.PaymentStatusCompleted, got.Status)
		assert.Equal(t, []uint64{1}, orders.markedPaid)
		assert.Equal(t, []models.OrderStatus{models.OrderStatusPaid}, orders.transitions)
		assert.Equal(t, []string{"3C679366HH908993F"}, repo.completedRefs)
	})

	t.Run("idempotent_on_completed", func(t *testing.T) {
		repo := newFakePaymentRepo()
		payment := &models.Payment{ID: "pay-1", OrderID: 1, Status: models.PaymentStatusCompleted}
		repo.payments[payment.ID] = payment
		pp := &fakePayPalGateway{}
		svc := newTestPaymentService(repo, newFakePaymentOrders(), &fakeStripeGateway{}, pp)

		got, err := svc.ConfirmPayPal(context.Background(), "pay-1", "5O190127TN364715T")
		require.NoError(t, err)

		assert.Equal(t, models.PaymentStatusCompleted, got.Status)
		assert.Zero(t, pp.captureCalls)
		assert.Zero(t, repo.completeCalls)
	})

	t.Run("capture_rejected", func(t *testing.T) {
		repo := newFakePaymentRepo()
		order := pendingOrder(1, 3)
		orders := newFakePaymentOrders(order)
		payment := &models.Payment{ID: "pay-1", OrderID: 1, Status: models.PaymentStatusPending}
		repo.payments[payment.ID] = payment
		pp := &fakePayPalGateway{capture: &paypal.Order{Status: "DECLINED"}}
		svc := newTestPaymentService(repo, orders, &fakeStripeGateway{}, pp)

		_, err := svc.ConfirmPayPal(context.Background(), "pay-1", "5O190127TN364715T")
		require.ErrorIs(t, err, models.ErrCaptureFailed)

		assert.Equal(t, models.PaymentStatusFailed, repo.payments["pay-1"].Status)
		assert.Equal(t, []uint64{1}, orders.markedFailed)
		assert.Empty(t, orders.transitions)
	})

	t.Run("unknown_payment", func(t *testing.T) {
		svc := newTestPaymentService(newFakePaymentRepo(), newFakePaymentOrders(), &fakeStripeGateway{}, &fakePayPalGateway{})

		_, err := svc.ConfirmPayPal(context.Background(), "missing", "5O190127TN364715T")
		assert.ErrorIs(t, err, models.ErrDataNotFound)
	})
}

func TestPaymentService_CancelPayPal(t *testing.T) {
	repo := newFakePaymentRepo()
	order := pendingOrder(1, 3)
	orders := newFakePaymentOrders(order)
	payment := &models.Payment{ID: "pay-1", OrderID: 1, Status: models.PaymentStatusPending}
	repo.payments[payment.ID] = payment
	pp := &fakePayPalGateway{}
	svc := newTestPaymentService(repo, orders, &fakeStripeGateway{}, pp)

	got, err := svc.CancelPayPal(context.Background(), "pay-1")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusFailed, got.Status)
	assert.Equal(t, []uint64{1}, orders.markedFailed)
	assert.Zero(t, pp.captureCalls)
}

func TestPaymentService_HandleStripeWebhook(t *testing.T) {
	t.Run("invalid_signature", func(t *testing.T) {
		repo := newFakePaymentRepo()
		stripe := &fakeStripeGateway{verifyErr: models.ErrInvalidSignature}
		svc := newTestPaymentService(repo, newFakePaymentOrders(), stripe, &fakePayPalGateway{})

		err := svc.HandleStripeWebhook(context.Background(), []byte("{}"), "bad")
		require.ErrorIs(t, err, models.ErrInvalidSignature)
		assert.Zero(t, repo.completeCalls)
		assert.Zero(t, repo.failCalls)
	})

	t.Run("payment_succeeded", func(t *testing.T) {
		repo := newFakePaymentRepo()
		order := pendingOrder(1, 3)
		orders := newFakePaymentOrders(order)
		payment := &models.Payment{ID: "pay-1", OrderID: 1, Status: models.PaymentStatusPending, PaymentIntentID: "pi_1"}
		repo.payments[payment.ID] = payment
		repo.byIntent["pi_1"] = payment
		stripe := &fakeStripeGateway{event: &stripegw.Event{Type: stripegw.EventPaymentSucceeded, IntentID: "pi_1"}}
		svc := newTestPaymentService(repo, orders, stripe, &fakePayPalGateway{})

		require.NoError(t, svc.HandleStripeWebhook(context.Background(), []byte("{}"), "sig"))

		assert.Equal(t, models.PaymentStatusCompleted, repo.payments["pay-1"].Status)
		assert.Equal(t, []uint64{1}, orders.markedPaid)
		assert.Equal(t, []models.OrderStatus{models.OrderStatusPaid}, orders.transitions)
	})

	t.Run("redelivery_is_noop", func(t *testing.T) {
		repo := newFakePaymentRepo()
		order := pendingOrder(1, 3)
		order.PaymentStatus = models.PaymentStatusCompleted
		order.Status = models.OrderStatusPaid
		orders := newFakePaymentOrders(order)
		payment := &models.Payment{ID: "pay-1", OrderID: 1, Status: models.PaymentStatusCompleted, PaymentIntentID: "pi_1"}
		repo.payments[payment.ID] = payment
		repo.byIntent["pi_1"] = payment
		stripe := &fakeStripeGateway{event: &stripegw.Event{Type: stripegw.EventPaymentSucceeded, IntentID: "pi_1"}}
		svc := newTestPaymentService(repo, orders, stripe, &fakePayPalGateway{})

		require.NoError(t, svc.HandleStripeWebhook(context.Background(), []byte("{}"), "sig"))

		assert.Zero(t, repo.completeCalls)
		assert.Empty(t, orders.markedPaid)
	})

	t.Run("metadata_fallback", func(t *testing.T) {
		repo := newFakePaymentRepo()
		order := pendingOrder(1, 3)
		orders := newFakePaymentOrders(order)
		payment := &models.Payment{ID: "pay-1", OrderID: 1, Status: models.PaymentStatusPending}
		repo.payments[payment.ID] = payment
		stripe := &fakeStripeGateway{event: &stripegw.Event{
			Type:     stripegw.EventPaymentSucceeded,
			IntentID: "pi_unknown",
			Metadata: map[string]string{"payment_id": "pay-1"},
		}}
		svc := newTestPaymentService(repo, orders, stripe, &fakePayPalGateway{})

		require.NoError(t, svc.HandleStripeWebhook(context.Background(), []byte("{}"), "sig"))
		assert.Equal(t, models.PaymentStatusCompleted, repo.payments["pay-1"].Status)
	})

	t.Run("unknown_payment_acknowledged", func(t *testing.T) {
		repo := newFakePaymentRepo()
		stripe := &fakeStripeGateway{event: &stripegw.Event{Type: stripegw.EventPaymentSucceeded, IntentID: "pi_unknown"}}
		svc := newTestPaymentService(repo, newFakePaymentOrders(), stripe, &fakePayPalGateway{})

		assert.NoError(t, svc.HandleStripeWebhook(context.Background(), []byte("{}"), "sig"))
	})

	t.Run("payment_failed", func(t *testing.T) {
		repo := newFakePaymentRepo()
		order := pendingOrder(1, 3)
		orders := newFakePaymentOrders(order)
		payment := &models.Payment{ID: "pay-1", OrderID: 1, Status: models.PaymentStatusPending, PaymentIntentID: "pi_1"}
		repo.payments[payment.ID] = payment
		repo.byIntent["pi_1"] = payment
		stripe := &fakeStripeGateway{event: &stripegw.Event{Type: stripegw.EventPaymentFailed, IntentID: "pi_1"}}
		svc := newTestPaymentService(repo, orders, stripe, &fakePayPalGateway{})

		require.NoError(t, svc.HandleStripeWebhook(context.Background(), []byte("{}"), "sig"))

		assert.Equal(t, models.PaymentStatusFailed, repo.payments["pay-1"].Status)
		assert.Equal(t, []uint64{1}, orders.markedFailed)
	})

	t.Run("unhandled_event_acknowledged", func(t *testing.T) {
		repo := newFakePaymentRepo()
		stripe := &fakeStripeGateway{event: &stripegw.Event{Type: "charge.refunded"}}
		svc := newTestPaymentService(repo, newFakePaymentOrders(), stripe, &fakePayPalGateway{})

		assert.NoError(t, svc.HandleStripeWebhook(context.Background(), []byte("{}"), "sig"))
		assert.Zero(t, repo.completeCalls)
	})
}

func TestPaymentService_Reconcile(t *testing.T) {
	repo := newFakePaymentRepo()
	order := pendingOrder(1, 3)
	orders := newFakePaymentOrders(order)
	repo.unreconciled = []models.Payment{{
		ID:              "pay-1",
		OrderID:         1,
		Provider:        models.PaymentProviderStripe,
		Status:          models.PaymentStatusCompleted,
		PaymentIntentID: "pi_1",
	}}
	svc := newTestPaymentService(repo, orders, &fakeStripeGateway{}, &fakePayPalGateway{})

	require.NoError(t, svc.Reconcile(context.Background()))

	assert.Equal(t, []uint64{1}, orders.markedPaid)
	assert.Equal(t, "pi_1", order.TransactionID)
	assert.Equal(t, []models.OrderStatus{models.OrderStatusPaid}, orders.transitions)
}
