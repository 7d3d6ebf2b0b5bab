package artisan

import (
	"context"
	"database/sql"
	"errors"
)

var ErrArtisanNotFound = errors.New("artisan not found")

// Aggregator maintains the per-artisan running totals. It only ever
// applies increments on the order-creation path; it never recomputes
// from order history, so the totals are trusted as-is.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// ApplyOrderRevenue bumps total_sales by one and total_revenue by the
// artisan's line-item revenue for this order. Called once per distinct
// artisan per order, inside the order-creation transaction.
func (a *Aggregator) ApplyOrderRevenue(ctx context.Context, tx *sql.Tx, artisanID string, revenue float64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE artisans
		SET total_sales = total_sales + 1,
		    total_revenue = total_revenue + $1
		WHERE id = $2
	`, revenue, artisanID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrArtisanNotFound
	}

	return nil
}
