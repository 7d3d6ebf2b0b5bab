package catalog

import (
	"context"
	"database/sql"
	"errors"
)

// Ledger guards a product's available quantity with conditional writes.
// All methods run against a caller-owned transaction so stock mutations
// commit or roll back with the rest of the order.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// GetForOrder loads the product row inside the order transaction.
func (l *Ledger) GetForOrder(ctx context.Context, tx *sql.Tx, productID string) (*Product, error) {
	query := `
		SELECT id, title, price, image_url, artisan_id, status, stock_quantity, sales_count
		FROM products
		WHERE id = $1
	`

	var p Product
	err := tx.QueryRowContext(ctx, query, productID).Scan(
		&p.ID,
		&p.Title,
		&p.Price,
		&p.ImageURL,
		&p.ArtisanID,
		&p.Status,
		&p.StockQuantity,
		&p.SalesCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Reserve decrements stock and bumps sales_count in one conditional
// write. The stock check rides the UPDATE itself, so a concurrent order
// that drained the product between our read and this write loses here,
// not at commit.
func (l *Ledger) Reserve(ctx context.Context, tx *sql.Tx, productID string, qty int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $1,
		    sales_count = sales_count + $1
		WHERE id = $2 AND stock_quantity >= $1
	`, qty, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

// Release puts the cancelled quantity back. sales_count is deliberately
// left alone; cancellation compensates stock only.
func (l *Ledger) Release(ctx context.Context, tx *sql.Tx, productID string, qty int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $1
		WHERE id = $2
	`, qty, productID)
	return err
}
