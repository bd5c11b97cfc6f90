package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
		OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusDelivered},
		OrderStatusDelivered:  {},
		OrderStatusCancelled:  {},
	}

	isAllowed := func(from, to OrderStatus) bool {
		for _, s := range allowed[from] {
			if s == to {
				return true
			}
		}
		return false
	}

	// every ordered pair, including self-pairs
	for _, from := range OrderStatusValues() {
		for _, to := range OrderStatusValues() {
			got := CanTransition(from, to)
			want := isAllowed(from, to)
			assert.Equalf(t, want, got, "transition %s -> %s", from, to)
		}
	}
}

func TestAllowedTransitions_Terminal(t *testing.T) {
	assert.Empty(t, AllowedTransitions(OrderStatusDelivered))
	assert.Empty(t, AllowedTransitions(OrderStatusCancelled))
}

func TestAllowedTransitions_Unknown(t *testing.T) {
	assert.Empty(t, AllowedTransitions(OrderStatus("archived")))
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    OrderStatus
		wantErr bool
	}{
		{name: "pending", raw: "pending", want: OrderStatusPending},
		{name: "delivered", raw: "delivered", want: OrderStatusDelivered},
		{name: "unknown", raw: "archived", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "case_sensitive", raw: "Pending", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderStatus(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownOrderStatus))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderStatusLabel(t *testing.T) {
	assert.Equal(t, "Pending Payment", OrderStatusPending.Label())
	assert.Equal(t, "Payment Confirmed", OrderStatusPaid.Label())
	assert.Equal(t, "Being Prepared", OrderStatusProcessing.Label())
	assert.Equal(t, "Shipped", OrderStatusShipped.Label())
	assert.Equal(t, "Delivered", OrderStatusDelivered.Label())
	assert.Equal(t, "Cancelled", OrderStatusCancelled.Label())
}
