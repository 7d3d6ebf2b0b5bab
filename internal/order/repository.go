package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"craftconnect-be/internal/artisan"
	"craftconnect-be/internal/catalog"
	"craftconnect-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order) error
	CancelOrderTx(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	FetchOrders(ctx context.Context, buyerID *string, status *OrderStatus, limit, offset int32) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus, trackingNumber *string, deliveredAt *time.Time) error
}

type repository struct {
	db     *sql.DB
	ledger *catalog.Ledger
	agg    *artisan.Aggregator
}

func NewRepository(db *sql.DB, ledger *catalog.Ledger, agg *artisan.Aggregator) Repository {
	return &repository{db: db, ledger: ledger, agg: agg}
}

// transient marks connection/commit-level failures so the transport can
// answer with a retryable status instead of leaking driver detail.
func transient(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrTransient)
}

// CreateOrderTx runs the whole creation as one transaction: availability
// checks, the order row, line items, conditional stock reservation and
// artisan aggregates. Any failure rolls back everything.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID),
		zap.Int("item_count", len(o.Items)),
	)

	log.Debug("starting order creation transaction")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return transient("begin order tx", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("transaction rolled back")
			}
		}
	}()

	// Availability pass: load every product, reject unsellable rows and
	// obvious shortfalls early, and take the title/image/artisan
	// snapshots. The authoritative stock check still happens on the
	// conditional write below.
	for i := range o.Items {
		item := &o.Items[i]

		p, err := r.ledger.GetForOrder(ctx, tx, item.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			log.Warn("product missing", zap.String("product_id", item.ProductID))
			return NotAvailableError(item.ProductID)
		}
		if err != nil {
			log.Error("failed to load product", zap.String("product_id", item.ProductID), zap.Error(err))
			return err
		}

		if !p.Sellable() {
			log.Warn("product not sellable",
				zap.String("product_id", p.ID),
				zap.String("status", p.Status),
			)
			return NotAvailableError(p.ID)
		}
		if p.StockQuantity < item.Quantity {
			log.Warn("insufficient stock on read",
				zap.String("product_id", p.ID),
				zap.Int("stock", p.StockQuantity),
				zap.Int("requested", item.Quantity),
			)
			return InsufficientStockError(p.ID)
		}

		item.Title = p.Title
		item.ImageURL = p.ImageURL
		item.ArtisanID = p.ArtisanID
	}

	shippingJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return err
	}
	billingJSON, err := json.Marshal(o.BillingAddress)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, order_number, buyer_id,
			subtotal, tax, shipping_fee, discount, total_amount, currency,
			status, payment_status,
			shipping_address, billing_address, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$15)
	`,
		o.ID,
		o.OrderNumber,
		o.BuyerID,
		o.Subtotal,
		o.Tax,
		o.ShippingFee,
		o.Discount,
		o.TotalAmount,
		o.Currency,
		o.Status,
		o.PaymentStatus,
		shippingJSON,
		billingJSON,
		o.Notes,
		o.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, title, unit_price,
				quantity, image_url, artisan_id, customization
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			o.ID,
			item.ProductID,
			item.Title,
			item.UnitPrice,
			item.Quantity,
			item.ImageURL,
			item.ArtisanID,
			item.Customization,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}

		// Conditional decrement: the guard against two orders racing on
		// the same last units.
		err = r.ledger.Reserve(ctx, tx, item.ProductID, item.Quantity)
		if errors.Is(err, catalog.ErrInsufficientStock) {
			log.Warn("insufficient stock on write",
				zap.String("product_id", item.ProductID),
				zap.Int("requested", item.Quantity),
			)
			return InsufficientStockError(item.ProductID)
		}
		if err != nil {
			log.Error("failed to reserve stock",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	// One sale per distinct artisan, revenue summed per line item.
	for artisanID, revenue := range o.ArtisanRevenue() {
		if err := r.agg.ApplyOrderRevenue(ctx, tx, artisanID, revenue); err != nil {
			log.Error("failed to apply artisan revenue",
				zap.String("artisan_id", artisanID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return transient("commit order tx", err)
	}

	committed = true
	log.Info("order creation transaction committed",
		zap.String("order_number", o.OrderNumber),
		zap.Float64("total_amount", o.TotalAmount),
	)

	return nil
}

// CancelOrderTx is the compensating transaction: a conditional status
// flip plus exact stock restoration for every original line item.
// Aggregates are intentionally not reversed.
func (r *repository) CancelOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CancelOrderTx"),
		zap.String("order_id", o.ID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return transient("begin cancel tx", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// The status guard re-checks cancellability at write time; a racing
	// shipment flips zero rows here and the whole cancel aborts.
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status IN ($4, $5)
	`, StatusCancelled, time.Now(), o.ID, StatusPending, StatusConfirmed)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Warn("order no longer cancellable", zap.String("status", string(o.Status)))
		return ErrNotCancellable
	}

	for _, item := range o.Items {
		if err := r.ledger.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
			log.Error("failed to restore stock",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit cancel transaction", zap.Error(err))
		return transient("commit cancel tx", err)
	}

	committed = true
	log.Info("order cancelled, stock restored", zap.Int("item_count", len(o.Items)))

	return nil
}

func (r *repository) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	var shippingJSON, billingJSON []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_number, buyer_id,
		       subtotal, tax, shipping_fee, discount, total_amount, currency,
		       status, payment_status, payment_method, payment_id,
		       shipping_address, billing_address,
		       tracking_number, estimated_delivery, delivered_at, notes,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.OrderNumber, &o.BuyerID,
		&o.Subtotal, &o.Tax, &o.ShippingFee, &o.Discount, &o.TotalAmount, &o.Currency,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.PaymentID,
		&shippingJSON, &billingJSON,
		&o.TrackingNumber, &o.EstimatedDelivery, &o.DeliveredAt, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(shippingJSON) > 0 {
		if err := json.Unmarshal(shippingJSON, &o.ShippingAddress); err != nil {
			return nil, err
		}
	}
	if len(billingJSON) > 0 {
		if err := json.Unmarshal(billingJSON, &o.BillingAddress); err != nil {
			return nil, err
		}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, title, unit_price,
		       quantity, image_url, artisan_id, customization
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Title, &item.UnitPrice,
			&item.Quantity, &item.ImageURL, &item.ArtisanID, &item.Customization,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) FetchOrders(
	ctx context.Context,
	buyerID *string,
	status *OrderStatus,
	limit, offset int32,
) ([]*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FetchOrders"),
		zap.Int32("limit", limit),
		zap.Int32("offset", offset),
	)

	query := `
		SELECT o.id, o.order_number, o.buyer_id,
		       o.total_amount, o.currency, o.status, o.payment_status,
		       o.created_at, o.updated_at
		FROM orders o
		WHERE 1=1
	`

	args := []any{}
	argIndex := 1

	if buyerID != nil {
		query += fmt.Sprintf(" AND o.buyer_id = $%d", argIndex)
		args = append(args, *buyerID)
		argIndex++
	}

	if status != nil {
		query += fmt.Sprintf(" AND o.status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += " ORDER BY o.created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.BuyerID,
			&o.TotalAmount, &o.Currency, &o.Status, &o.PaymentStatus,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}

	log.Debug("fetched orders", zap.Int("count", len(orders)))

	return orders, nil
}

func (r *repository) UpdateOrderStatus(
	ctx context.Context,
	orderID string,
	status OrderStatus,
	trackingNumber *string,
	deliveredAt *time.Time,
) error {

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    tracking_number = COALESCE($2, tracking_number),
		    delivered_at = COALESCE($3, delivered_at),
		    updated_at = $4
		WHERE id = $5
	`, status, trackingNumber, deliveredAt, time.Now(), orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
