package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber_Format(t *testing.T) {
	re := regexp.MustCompile(`^ORD-\d{4}-[A-Z0-9]{6}$`)

	for i := 0; i < 100; i++ {
		number := GenerateOrderNumber()
		assert.Regexp(t, re, number)
	}
}

func TestGenerateOrderNumber_Distinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		number := GenerateOrderNumber()
		_, dup := seen[number]
		assert.Falsef(t, dup, "duplicate order number %s", number)
		seen[number] = struct{}{}
	}
}

func TestOrderCanBeCancelled(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusPaid, true},
		{OrderStatusProcessing, false},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			order := Order{Status: tt.status}
			assert.Equal(t, tt.want, order.CanBeCancelled())
		})
	}
}

func TestOrderAvailableTransitions(t *testing.T) {
	order := Order{Status: OrderStatusPaid}
	assert.ElementsMatch(t,
		[]OrderStatus{OrderStatusProcessing, OrderStatusCancelled},
		order.AvailableTransitions())
}
