package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopmart/storefront/internal/models"
	"github.com/shopmart/storefront/internal/repository/postgres"
)

const (
	insertOrderQuery = `
						INSERT INTO orders (user_id, order_number, status, payment_status, payment_method,
						                    shipping_name, shipping_address, shipping_city, shipping_state,
						                    shipping_zipcode, shipping_country, shipping_phone,
						                    subtotal, tax, shipping_cost, total, notes)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
						RETURNING id, created_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, product_id, product_name, product_sku, quantity, unit_price, subtotal)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING id
`
	lockProductForCheckoutQuery = `
						SELECT name, stock, is_active FROM products
						WHERE id = $1
						FOR UPDATE
`
	decrementStockQuery = `
						UPDATE products
						SET stock = stock - $1
						WHERE id = $2
`
	clearUserCartQuery = `
						DELETE FROM cart_items
						WHERE user_id = $1
`
	selectOrderColumns = `id, user_id, order_number, status, payment_status, payment_method, transaction_id,
						shipping_name, shipping_address, shipping_city, shipping_state, shipping_zipcode,
						shipping_country, shipping_phone, subtotal, tax, shipping_cost, total, notes, paid_at, created_at`

	selectOrderItemsQuery = `
						SELECT id, order_id, product_id, product_name, product_sku, quantity, unit_price, subtotal
						FROM order_items
						WHERE order_id = $1
						ORDER BY id
`
	updateOrderStatusGuardedQuery = `
						UPDATE orders
						SET status = $1
						WHERE id = $2 AND status = $3
`
	insertStatusHistoryQuery = `
						INSERT INTO order_status_history (order_id, from_status, to_status, changed_by, note)
						VALUES ($1, $2, $3, $4, $5)
`
	selectStatusHistoryQuery = `
						SELECT id, order_id, from_status, to_status, changed_by, note, created_at
						FROM order_status_history
						WHERE order_id = $1
						ORDER BY created_at DESC, id DESC
`
	markOrderPaidQuery = `
						UPDATE orders
						SET payment_status = 'completed', transaction_id = $1, paid_at = now()
						WHERE id = $2
`
	markOrderPaymentFailedQuery = `
						UPDATE orders
						SET payment_status = 'failed'
						WHERE id = $1
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder creates order with line items inside one transaction: each
// product row is locked, availability re-checked under the lock, stock
// decremented and the user cart cleared. Any failure rolls the whole
// checkout back.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback(ctx)

	// check-then-decrement runs under a row lock so two concurrent checkouts
	// cannot both take the last unit
	for _, item := range items {
		var (
			name     string
			stock    int32
			isActive bool
		)
		if err := tx.QueryRow(ctx, lockProductForCheckoutQuery, item.ProductID).Scan(&name, &stock, &isActive); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, models.ErrDataNotFound
			}
			return nil, err
		}
		if !isActive {
			return nil, &models.ProductUnavailableError{Name: name}
		}
		if stock < item.Quantity {
			return nil, &models.InsufficientStockError{Name: name}
		}
		if _, err := tx.Exec(ctx, decrementStockQuery, item.Quantity, item.ProductID); err != nil {
			return nil, err
		}
	}

	err = tx.QueryRow(ctx, insertOrderQuery,
		order.UserID, order.OrderNumber, order.Status, order.PaymentStatus, order.PaymentMethod,
		order.ShippingName, order.ShippingAddress, order.ShippingCity, order.ShippingState,
		order.ShippingZipcode, order.ShippingCountry, order.ShippingPhone,
		order.Subtotal, order.Tax, order.ShippingCost, order.Total, order.Notes).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for i := range items {
		items[i].OrderID = order.ID
		err = tx.QueryRow(ctx, insertOrderItemQuery,
			order.ID, items[i].ProductID, items[i].ProductName, items[i].ProductSKU,
			items[i].Quantity, items[i].UnitPrice, items[i].Subtotal).
			Scan(&items[i].ID)
		if err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, clearUserCartQuery, order.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	order.Items = items
	return order, nil
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id uint64) (*models.Order, error) {
	return or.getOrder(ctx, `SELECT `+selectOrderColumns+` FROM orders WHERE id = $1`, id)
}

// GetOrderByNumber returns order by order number
func (or *OrderRepository) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	return or.getOrder(ctx, `SELECT `+selectOrderColumns+` FROM orders WHERE order_number = $1`, number)
}

func (or *OrderRepository) getOrder(ctx context.Context, query string, arg any) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, query, arg).Scan(
		&order.ID, &order.UserID, &order.OrderNumber, &order.Status, &order.PaymentStatus,
		&order.PaymentMethod, &order.TransactionID,
		&order.ShippingName, &order.ShippingAddress, &order.ShippingCity, &order.ShippingState,
		&order.ShippingZipcode, &order.ShippingCountry, &order.ShippingPhone,
		&order.Subtotal, &order.Tax, &order.ShippingCost, &order.Total, &order.Notes,
		&order.PaidAt, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	items, err := or.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

// GetOrderItems returns order line items
func (or *OrderRepository) GetOrderItems(ctx context.Context, orderID uint64) ([]models.OrderItem, error) {
	rows, err := or.db.Query(ctx, selectOrderItemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}

	for rows.Next() {
		item := models.OrderItem{}
		err = rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.ProductSKU,
			&item.Quantity, &item.UnitPrice, &item.Subtotal)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// ListOrdersByUserID returns user orders, newest first
func (or *OrderRepository) ListOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error) {
	return or.listOrders(ctx, `SELECT `+selectOrderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListOrders returns all orders, optionally filtered by status, newest first
func (or *OrderRepository) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if status == "" {
		return or.listOrders(ctx, `SELECT ` + selectOrderColumns + ` FROM orders ORDER BY created_at DESC`)
	}
	return or.listOrders(ctx, `SELECT `+selectOrderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC`, status)
}

func (or *OrderRepository) listOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err = rows.Scan(
			&order.ID, &order.UserID, &order.OrderNumber, &order.Status, &order.PaymentStatus,
			&order.PaymentMethod, &order.TransactionID,
			&order.ShippingName, &order.ShippingAddress, &order.ShippingCity, &order.ShippingState,
			&order.ShippingZipcode, &order.ShippingCountry, &order.ShippingPhone,
			&order.Subtotal, &order.Tax, &order.ShippingCost, &order.Total, &order.Notes,
			&order.PaidAt, &order.CreatedAt)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// TransitionOrder updates order status and appends history entry in one
// transaction. The update is guarded by the expected current status, a lost
// race reports ErrConflictData and writes nothing.
func (or *OrderRepository) TransitionOrder(ctx context.Context, orderID uint64, from, to models.OrderStatus, changedBy *uint64, note string) error {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, updateOrderStatusGuardedQuery, to, orderID, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrConflictData
	}

	if _, err := tx.Exec(ctx, insertStatusHistoryQuery, orderID, from, to, changedBy, note); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}

	return nil
}

// ListStatusHistory returns order status history, newest first
func (or *OrderRepository) ListStatusHistory(ctx context.Context, orderID uint64) ([]models.StatusHistory, error) {
	rows, err := or.db.Query(ctx, selectStatusHistoryQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.StatusHistory{}

	for rows.Next() {
		entry := models.StatusHistory{}
		err = rows.Scan(&entry.ID, &entry.OrderID, &entry.FromStatus, &entry.ToStatus,
			&entry.ChangedBy, &entry.Note, &entry.CreatedAt)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// MarkOrderPaid sets payment status to completed with transaction reference
// and paid timestamp. Order status itself is not touched here.
func (or *OrderRepository) MarkOrderPaid(ctx context.Context, orderID uint64, transactionID string) error {
	cmd, err := or.db.Exec(ctx, markOrderPaidQuery, transactionID, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// MarkOrderPaymentFailed sets payment status to failed, order status is left untouched
func (or *OrderRepository) MarkOrderPaymentFailed(ctx context.Context, orderID uint64) error {
	cmd, err := or.db.Exec(ctx, markOrderPaymentFailedQuery, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
