package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopmart/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	transitions []models.StatusHistory
	failWith    error
	paidOrders  map[uint64]string
	failedPays  map[uint64]bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		paidOrders: make(map[uint64]string),
		failedPays: make(map[uint64]bool),
	}
}

func (f *fakeOrderRepo) GetOrderByID(ctx context.Context, id uint64) (*models.Order, error) {
	return nil, models.ErrDataNotFound
}

func (f *fakeOrderRepo) ListOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) TransitionOrder(ctx context.Context, orderID uint64, from, to models.OrderStatus, changedBy *uint64, note string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.transitions = append(f.transitions, models.StatusHistory{
		OrderID:    orderID,
		FromStatus: &from,
		ToStatus:   to,
		ChangedBy:  changedBy,
		Note:       note,
	})
	return nil
}

func (f *fakeOrderRepo) ListStatusHistory(ctx context.Context, orderID uint64) ([]models.StatusHistory, error) {
	return f.transitions, nil
}

func (f *fakeOrderRepo) MarkOrderPaid(ctx context.Context, orderID uint64, transactionID string) error {
	f.paidOrders[orderID] = transactionID
	return nil
}

func (f *fakeOrderRepo) MarkOrderPaymentFailed(ctx context.Context, orderID uint64) error {
	f.failedPays[orderID] = true
	return nil
}

type recordingBroadcaster struct {
	events []models.OrderStatusChangedEvent
}

func (b *recordingBroadcaster) Publish(_ context.Context, event models.OrderStatusChangedEvent) error {
	b.events = append(b.events, event)
	return nil
}

type recordingNotifier struct {
	orders []*models.Order
}

func (n *recordingNotifier) OrderStatusChanged(_ context.Context, order *models.Order) {
	n.orders = append(n.orders, order)
}

func TestOrderService_TransitionTo(t *testing.T) {
	actor := &models.TokenPayload{UserID: 7, Name: "Ops Admin", Role: models.RoleAdmin}

	tests := []struct {
		name          string
		from          models.OrderStatus
		to            models.OrderStatus
		wantErr       bool
		wantHistory   int
		wantEvents    int
		wantEndStatus models.OrderStatus
	}{
		{
			name:          "legal_transition",
			from:          models.OrderStatusPending,
			to:            models.OrderStatusPaid,
			wantHistory:   1,
			wantEvents:    1,
			wantEndStatus: models.OrderStatusPaid,
		},
		{
			name:          "same_status_noop",
			from:          models.OrderStatusShipped,
			to:            models.OrderStatusShipped,
			wantHistory:   0,
			wantEvents:    0,
			wantEndStatus: models.OrderStatusShipped,
		},
		{
			name:          "illegal_transition",
			from:          models.OrderStatusPending,
			to:            models.OrderStatusShipped,
			wantErr:       true,
			wantHistory:   0,
			wantEvents:    0,
			wantEndStatus: models.OrderStatusPending,
		},
		{
			name:          "terminal_status",
			from:          models.OrderStatusDelivered,
			to:            models.OrderStatusPaid,
			wantErr:       true,
			wantHistory:   0,
			wantEvents:    0,
			wantEndStatus: models.OrderStatusDelivered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeOrderRepo()
			broadcaster := &recordingBroadcaster{}
			notifier := &recordingNotifier{}
			svc := NewOrderService(repo, broadcaster, notifier)

			order := &models.Order{ID: 1, UserID: 3, OrderNumber: "ORD-2026-ABC123", Status: tt.from}

			err := svc.TransitionTo(context.Background(), order, tt.to, actor, "test")
			if tt.wantErr {
				var invalid *models.InvalidTransitionError
				require.Error(t, err)
				require.True(t, errors.As(err, &invalid))
				assert.Equal(t, tt.from, invalid.From)
				assert.Equal(t, tt.to, invalid.To)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantEndStatus, order.Status)
			assert.Len(t, repo.transitions, tt.wantHistory)
			assert.Len(t, broadcaster.events, tt.wantEvents)
			assert.Len(t, notifier.orders, tt.wantEvents)
		})
	}
}

func TestOrderService_TransitionTo_Event(t *testing.T) {
	repo := newFakeOrderRepo()
	broadcaster := &recordingBroadcaster{}
	svc := NewOrderService(repo, broadcaster, &recordingNotifier{})

	actor := &models.TokenPayload{UserID: 7, Name: "Ops Admin", Role: models.RoleAdmin}
	order := &models.Order{ID: 5, UserID: 3, OrderNumber: "ORD-2026-XYZ789", Status: models.OrderStatusPaid, Total: 16000}

	require.NoError(t, svc.TransitionTo(context.Background(), order, models.OrderStatusProcessing, actor, ""))

	require.Len(t, broadcaster.events, 1)
	event := broadcaster.events[0]
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, models.EventOrderStatusChanged, event.Type)
	assert.Equal(t, models.OrderStatusPaid, event.PreviousStatus)
	assert.Equal(t, models.OrderStatusProcessing, event.CurrentStatus)
	assert.Equal(t, "Ops Admin", event.ChangedBy)
	assert.Equal(t, int64(16000), event.Total)
}

func TestOrderService_TransitionTo_ConcurrentChange(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.failWith = models.ErrConflictData
	broadcaster := &recordingBroadcaster{}
	svc := NewOrderService(repo, broadcaster, &recordingNotifier{})

	order := &models.Order{ID: 1, OrderNumber: "ORD-2026-ABC123", Status: models.OrderStatusPending}

	err := svc.TransitionTo(context.Background(), order, models.OrderStatusPaid, nil, "")
	var invalid *models.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Empty(t, broadcaster.events)
}

func TestOrderService_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		status  models.OrderStatus
		wantErr error
	}{
		{name: "pending_cancellable", status: models.OrderStatusPending},
		{name: "paid_cancellable", status: models.OrderStatusPaid},
		{name: "processing_denied", status: models.OrderStatusProcessing, wantErr: models.ErrCannotCancel},
		{name: "shipped_denied", status: models.OrderStatusShipped, wantErr: models.ErrCannotCancel},
		{name: "delivered_denied", status: models.OrderStatusDelivered, wantErr: models.ErrCannotCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeOrderRepo()
			svc := NewOrderService(repo, &recordingBroadcaster{}, &recordingNotifier{})

			order := &models.Order{ID: 1, OrderNumber: "ORD-2026-ABC123", Status: tt.status}
			err := svc.Cancel(context.Background(), order, nil, "customer request")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.status, order.Status)
				assert.Empty(t, repo.transitions)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusCancelled, order.Status)
			require.Len(t, repo.transitions, 1)
			assert.Equal(t, "Cancelled: customer request", repo.transitions[0].Note)
		})
	}
}

func TestOrderService_GetUserOrder_OtherUser(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, &recordingBroadcaster{}, &recordingNotifier{})

	_, err := svc.GetUserOrder(context.Background(), 99, 1)
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}
