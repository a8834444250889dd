package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/lib/pq"
)

var (
	ErrCartItemNotFound = errors.New("item not found in cart")
)

// CartRepository owns the cart ledger rows. The transactional methods are
// used by the checkout flow, which composes them with the order insert.
type CartRepository interface {
	AddItem(ctx context.Context, userID, productID int64) (*domain.CartItem, error)
	GetItem(ctx context.Context, userID, productID int64) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID int64) error
	ListLines(ctx context.Context, userID int64) ([]domain.CartLine, error)
	ListLinesForUpdate(ctx context.Context, tx *sql.Tx, userID int64) ([]domain.CartLine, error)
	ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error
}

type postgresCartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartRepository {
	return &postgresCartRepository{db: db}
}

// AddItem creates the (user, product) row with quantity 1 or increments an
// existing one. The products FK doubles as the existence check.
func (r *postgresCartRepository) AddItem(ctx context.Context, userID, productID int64) (*domain.CartItem, error) {
	query := `INSERT INTO cart_items (user_id, product_id, quantity, added_at, updated_at)
	          VALUES ($1, $2, 1, NOW(), NOW())
	          ON CONFLICT (user_id, product_id)
	          DO UPDATE SET quantity = cart_items.quantity + 1, updated_at = NOW()
	          RETURNING user_id, product_id, quantity, added_at, updated_at`

	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.AddedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	return item, nil
}

func (r *postgresCartRepository) GetItem(ctx context.Context, userID, productID int64) (*domain.CartItem, error) {
	query := `SELECT user_id, product_id, quantity, added_at, updated_at
	          FROM cart_items WHERE user_id = $1 AND product_id = $2`

	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.AddedAt,
		&item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart item: %w", err)
	}

	return item, nil
}

func (r *postgresCartRepository) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) (*domain.CartItem, error) {
	query := `UPDATE cart_items SET quantity = $3, updated_at = NOW()
	          WHERE user_id = $1 AND product_id = $2
	          RETURNING user_id, product_id, quantity, added_at, updated_at`

	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, query, userID, productID, quantity).Scan(
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.AddedAt,
		&item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update cart item quantity: %w", err)
	}

	return item, nil
}

func (r *postgresCartRepository) RemoveItem(ctx context.Context, userID, productID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart item rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

const cartLinesQuery = `SELECT ci.product_id, p.name, ci.quantity, p.price
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	WHERE ci.user_id = $1
	ORDER BY ci.added_at`

func (r *postgresCartRepository) ListLines(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	rows, err := r.db.QueryContext(ctx, cartLinesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	return scanCartLines(rows)
}

// ListLinesForUpdate locks the user's cart rows for the lifetime of tx.
// This is the per-user serialization boundary for checkout: a second
// checkout blocks here until the first commits.
func (r *postgresCartRepository) ListLinesForUpdate(ctx context.Context, tx *sql.Tx, userID int64) ([]domain.CartLine, error) {
	rows, err := tx.QueryContext(ctx, cartLinesQuery+` FOR UPDATE OF ci`, userID)
	if err != nil {
		return nil, fmt.Errorf("lock cart lines: %w", err)
	}
	return scanCartLines(rows)
}

func (r *postgresCartRepository) ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func scanCartLines(rows *sql.Rows) ([]domain.CartLine, error) {
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lines, nil
}
