package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopmart/storefront/internal/handler/http/mocks"
	"github.com/shopmart/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutHandler_Checkout(t *testing.T) {
	token := &models.TokenPayload{UserID: 3, Name: "Jane Roe", Role: models.RoleCustomer}

	validBody := `{"shipping_name":"Jane Roe","shipping_address":"1 Main St","payment_method":"stripe"}`

	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockCheckoutService
		wantStatusCode int
	}{
		{
			// 201 — order created.
			name:  "valid_request_return_201",
			token: token,
			body:  validBody,
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), uint64(3), gomock.Any()).Return(&models.Order{
					ID:            1,
					OrderNumber:   "ORD-2026-ABC123",
					Status:        models.OrderStatusPending,
					PaymentStatus: models.PaymentStatusPending,
					Subtotal:      10000,
					Tax:           1000,
					ShippingCost:  5000,
					Total:         16000,
					CreatedAt:     time.Now(),
				}, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			// 400 — cart is empty.
			name:  "empty_cart_return_400",
			token: token,
			body:  validBody,
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrEmptyCart).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 400 — product no longer available.
			name:  "unavailable_product_return_400",
			token: token,
			body:  validBody,
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, &models.ProductUnavailableError{Name: "keyboard"}).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 400 — not enough stock.
			name:  "insufficient_stock_return_400",
			token: token,
			body:  validBody,
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, &models.InsufficientStockError{Name: "keyboard"}).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 400 — missing shipping fields.
			name:  "missing_shipping_return_400",
			token: token,
			body:  `{"payment_method":"stripe"}`,
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 401 — user not authenticated.
			name: "unauthorized_request_return_401",
			body: validBody,
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			// 500 — internal server error.
			name:  "internal_error_return_500",
			token: token,
			body:  validBody,
			setup: func(t *testing.T) *mocks.MockCheckoutService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockCheckoutService(ctrl)
				svcMock.EXPECT().Checkout(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(tt.body))
			require.NoError(t, err)

			w := httptest.NewRecorder()
			st := tt.setup(t)
			ctx := context.WithValue(req.Context(), authPayloadKey, tt.token)

			handler := NewCheckoutHandler(st)
			h := handler.Checkout()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
