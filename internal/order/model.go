package order

import (
	"math"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Address is snapshotted onto the order; later edits to a buyer's saved
// addresses never change existing orders.
type Address struct {
	FullName   string `json:"full_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type Order struct {
	ID          string
	OrderNumber string
	BuyerID     string
	Items       []OrderItem

	Subtotal    float64
	Tax         float64
	ShippingFee float64
	Discount    float64
	TotalAmount float64
	Currency    string

	Status        OrderStatus
	PaymentStatus PaymentStatus
	PaymentMethod *string
	PaymentID     *string

	ShippingAddress Address
	BillingAddress  Address

	TrackingNumber    *string
	EstimatedDelivery *time.Time
	DeliveredAt       *time.Time
	Notes             *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem carries the product snapshot taken at order time. UnitPrice is
// the price the buyer paid; later product price changes do not touch it.
type OrderItem struct {
	ID            int64
	OrderID       string
	ProductID     string
	Title         string
	UnitPrice     float64
	Quantity      int
	ImageURL      *string
	ArtisanID     string
	Customization *string
}

func (i OrderItem) LineTotal() float64 {
	return round2(i.UnitPrice * float64(i.Quantity))
}

// ArtisanRevenue groups line-item revenue by artisan. Each distinct
// artisan counts as one sale for the order regardless of how many of
// their items it contains.
func (o *Order) ArtisanRevenue() map[string]float64 {
	revenue := make(map[string]float64, len(o.Items))
	for _, item := range o.Items {
		revenue[item.ArtisanID] = round2(revenue[item.ArtisanID] + item.LineTotal())
	}
	return revenue
}

// ContainsArtisan reports whether any line item belongs to the artisan.
func (o *Order) ContainsArtisan(artisanID string) bool {
	for _, item := range o.Items {
		if item.ArtisanID == artisanID {
			return true
		}
	}
	return false
}

// ComputeTotals fills Subtotal and TotalAmount from the line items and
// the order-level fees. Called exactly once at creation.
func (o *Order) ComputeTotals() {
	subtotal := 0.0
	for _, item := range o.Items {
		subtotal += item.LineTotal()
	}
	o.Subtotal = round2(subtotal)
	o.TotalAmount = round2(o.Subtotal + o.Tax + o.ShippingFee - o.Discount)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
