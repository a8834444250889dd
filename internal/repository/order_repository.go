package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
)

type OrderRepository interface {
	// CreateOrderFromCart atomically snapshots the user's cart into a new
	// PENDING order and clears the cart. Exactly one order can be created
	// per cart snapshot; a concurrent call for the same user blocks on the
	// cart row locks and then fails with ErrEmptyCart.
	CreateOrderFromCart(ctx context.Context, userID int64, currency string) (*domain.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, gatewayOrderID, gatewayPaymentID string) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)
}

type postgresOrderRepository struct {
	db    *sql.DB
	carts CartRepository
}

func NewOrderRepository(db *sql.DB, carts CartRepository) OrderRepository {
	return &postgresOrderRepository{db: db, carts: carts}
}

func (r *postgresOrderRepository) CreateOrderFromCart(ctx context.Context, userID int64, currency string) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	lines, err := r.carts.ListLinesForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		ID:       uuid.New(),
		UserID:   userID,
		Currency: currency,
		Status:   domain.OrderStatusPending,
		Items:    make([]domain.OrderItem, 0, len(lines)),
	}

	total := decimal.Zero
	for _, line := range lines {
		item := domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
		order.Items = append(order.Items, item)
		total = total.Add(item.LineTotal())
	}
	order.TotalAmount = total

	insertOrder := `INSERT INTO orders (id, user_id, total_amount, currency, status, created_at, updated_at)
	                VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	                RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, insertOrder,
		order.ID,
		order.UserID,
		order.TotalAmount,
		order.Currency,
		order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	insertItem := `INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
	               VALUES ($1, $2, $3, $4, $5)`
	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			order.ID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := r.carts.ClearCart(ctx, tx, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout tx: %w", err)
	}
	committed = true

	return order, nil
}

func (r *postgresOrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, gatewayOrderID, gatewayPaymentID string) error {
	query := `UPDATE orders
	          SET status = $2, gateway_order_id = $3, gateway_payment_id = $4, updated_at = NOW()
	          WHERE id = $1 AND status = $5`

	return r.updateStatus(ctx, query,
		id, domain.OrderStatusPaid, gatewayOrderID, gatewayPaymentID, domain.OrderStatusPending)
}

func (r *postgresOrderRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE orders SET status = $2, updated_at = NOW()
	          WHERE id = $1 AND status = $3`

	return r.updateStatus(ctx, query, id, domain.OrderStatusFailed, domain.OrderStatusPending)
}

func (r *postgresOrderRepository) updateStatus(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT id, user_id, total_amount, currency, status,
	                 COALESCE(gateway_order_id, ''), COALESCE(gateway_payment_id, ''),
	                 created_at, updated_at
	          FROM orders WHERE id = $1`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.Currency,
		&order.Status,
		&order.GatewayOrderID,
		&order.GatewayPaymentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	items, err := r.listItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *postgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	query := `SELECT id, user_id, total_amount, currency, status,
	                 COALESCE(gateway_order_id, ''), COALESCE(gateway_payment_id, ''),
	                 created_at, updated_at
	          FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order := &domain.Order{}
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.TotalAmount,
			&order.Currency,
			&order.Status,
			&order.GatewayOrderID,
			&order.GatewayPaymentID,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, order := range orders {
		items, err := r.listItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

func (r *postgresOrderRepository) listItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `SELECT product_id, product_name, unit_price, quantity
	          FROM order_items WHERE order_id = $1 ORDER BY product_id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}
