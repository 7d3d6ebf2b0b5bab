package order

import (
	"context"
	"errors"
	"time"

	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/logger"
	"craftconnect-be/internal/metrics"

	"go.uber.org/zap"
)

// LineItemInput is a requested line: the product, how many, and the
// price quoted to the buyer. The price becomes the immutable snapshot on
// the line item.
type LineItemInput struct {
	ProductID     string
	Quantity      int
	Price         float64
	ArtisanID     string
	Customization *string
}

type PlaceOrderInput struct {
	Items           []LineItemInput
	ShippingAddress Address
	BillingAddress  Address
	Notes           *string
	Discount        float64
	ShippingFee     float64
}

type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Order, error)
	ListOrders(ctx context.Context, status *OrderStatus, limit, offset int32) ([]*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus, trackingNumber *string) (*Order, error)
	CancelOrder(ctx context.Context, orderID string) (*Order, error)
}

type service struct {
	repo      Repository
	metrics   *metrics.OrderMetrics
	taxRate   float64
	txTimeout time.Duration
	currency  string
}

func NewService(repo Repository, m *metrics.OrderMetrics, taxRate float64, txTimeout time.Duration) Service {
	if m == nil {
		m = metrics.NewOrderMetrics()
	}
	if txTimeout <= 0 {
		txTimeout = 5 * time.Second
	}
	return &service{
		repo:      repo,
		metrics:   m,
		taxRate:   taxRate,
		txTimeout: txTimeout,
		currency:  "USD",
	}
}

// PlaceOrder coordinates the creation transaction: it validates the
// request shape, snapshots prices, computes the totals once, and hands
// the draft to the repository which runs everything atomically.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Order, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.String("buyer_id", caller.UserID),
		zap.Int("item_count", len(input.Items)),
	)

	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if input.Discount < 0 || input.ShippingFee < 0 {
		return nil, ErrInvalidPrice
	}

	now := time.Now()
	o := &Order{
		ID:              NewOrderID(),
		OrderNumber:     NewOrderNumber(),
		BuyerID:         caller.UserID,
		Currency:        s.currency,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		Notes:           input.Notes,
		Discount:        round2(input.Discount),
		ShippingFee:     round2(input.ShippingFee),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, in := range input.Items {
		if in.Quantity <= 0 {
			log.Warn("invalid quantity", zap.String("product_id", in.ProductID))
			return nil, ErrInvalidQuantity
		}
		if in.Price < 0 {
			log.Warn("invalid price", zap.String("product_id", in.ProductID))
			return nil, ErrInvalidPrice
		}

		o.Items = append(o.Items, OrderItem{
			OrderID:       o.ID,
			ProductID:     in.ProductID,
			UnitPrice:     in.Price,
			Quantity:      in.Quantity,
			ArtisanID:     in.ArtisanID,
			Customization: in.Customization,
		})
	}

	// Totals are computed exactly once here and never recomputed; the
	// order row carries them forever.
	o.ComputeTotals()
	o.Tax = round2(o.Subtotal * s.taxRate)
	o.TotalAmount = round2(o.Subtotal + o.Tax + o.ShippingFee - o.Discount)

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	if err := s.repo.CreateOrderTx(txCtx, o); err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			s.metrics.StockConflicts.Inc()
		}
		return nil, err
	}

	s.metrics.OrdersCreated.Inc()
	log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Float64("subtotal", o.Subtotal),
		zap.Float64("total_amount", o.TotalAmount),
	)

	return o, nil
}

func (s *service) ListOrders(ctx context.Context, status *OrderStatus, limit, offset int32) ([]*Order, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if status != nil && !ValidStatus(*status) {
		return nil, ErrInvalidTransition
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var buyerID *string
	if !caller.IsAdmin() {
		buyerID = &caller.UserID
	}

	return s.repo.FetchOrders(ctx, buyerID, status, limit, offset)
}

func (s *service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := AuthorizeRead(caller, o); err != nil {
		return nil, err
	}

	return o, nil
}

// UpdateStatus applies a role-gated transition. A buyer's one legal move
// (own order, cancellable stage, to cancelled) routes through the
// compensating cancellation so their stock comes back; other actors'
// status changes never touch stock.
func (s *service) UpdateStatus(ctx context.Context, orderID string, status OrderStatus, trackingNumber *string) (*Order, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := AuthorizeTransition(caller, o, status); err != nil {
		return nil, err
	}

	if caller.IsBuyer() && status == StatusCancelled {
		return s.cancel(ctx, o)
	}

	var deliveredAt *time.Time
	if status == StatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}

	if err := s.repo.UpdateOrderStatus(ctx, orderID, status, trackingNumber, deliveredAt); err != nil {
		return nil, err
	}

	o.Status = status
	if trackingNumber != nil {
		o.TrackingNumber = trackingNumber
	}
	if deliveredAt != nil {
		o.DeliveredAt = deliveredAt
	}

	logger.FromCtx(ctx).Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
		zap.String("actor_role", string(caller.Role)),
	)

	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := AuthorizeCancel(caller, o); err != nil {
		return nil, err
	}

	return s.cancel(ctx, o)
}

func (s *service) cancel(ctx context.Context, o *Order) (*Order, error) {
	if !Cancellable(o.Status) {
		return nil, ErrNotCancellable
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	if err := s.repo.CancelOrderTx(txCtx, o); err != nil {
		return nil, err
	}

	o.Status = StatusCancelled
	s.metrics.OrdersCancelled.Inc()

	logger.FromCtx(ctx).Info("order cancelled",
		zap.String("order_id", o.ID),
		zap.Int("restored_items", len(o.Items)),
	)

	return o, nil
}
