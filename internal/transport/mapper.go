package transport

import (
	"time"

	"craftconnect-be/internal/order"
)

type placedOrderView struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	TotalAmount float64   `json:"totalAmount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type addressView struct {
	FullName   string `json:"fullName"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type lineItemView struct {
	ProductID     string  `json:"productId"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Image         *string `json:"image,omitempty"`
	ArtisanID     string  `json:"artisanId"`
	Customization *string `json:"customization,omitempty"`
}

type orderView struct {
	OrderID           string         `json:"orderId"`
	OrderNumber       string         `json:"orderNumber"`
	BuyerID           string         `json:"buyerId"`
	Items             []lineItemView `json:"items,omitempty"`
	Subtotal          float64        `json:"subtotal"`
	Tax               float64        `json:"tax"`
	Shipping          float64        `json:"shipping"`
	Discount          float64        `json:"discount"`
	TotalAmount       float64        `json:"totalAmount"`
	Currency          string         `json:"currency"`
	OrderStatus       string         `json:"orderStatus"`
	PaymentStatus     string         `json:"paymentStatus"`
	PaymentMethod     *string        `json:"paymentMethod,omitempty"`
	PaymentID         *string        `json:"paymentId,omitempty"`
	ShippingAddress   *addressView   `json:"shippingAddress,omitempty"`
	BillingAddress    *addressView   `json:"billingAddress,omitempty"`
	TrackingNumber    *string        `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time     `json:"estimatedDelivery,omitempty"`
	DeliveredAt       *time.Time     `json:"deliveredAt,omitempty"`
	Notes             *string        `json:"notes,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func toPlacedOrderView(o *order.Order) placedOrderView {
	return placedOrderView{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
	}
}

func toAddressView(a order.Address) *addressView {
	if a == (order.Address{}) {
		return nil
	}
	return &addressView{
		FullName:   a.FullName,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

func toOrderView(o *order.Order) orderView {
	view := orderView{
		OrderID:           o.ID,
		OrderNumber:       o.OrderNumber,
		BuyerID:           o.BuyerID,
		Subtotal:          o.Subtotal,
		Tax:               o.Tax,
		Shipping:          o.ShippingFee,
		Discount:          o.Discount,
		TotalAmount:       o.TotalAmount,
		Currency:          o.Currency,
		OrderStatus:       string(o.Status),
		PaymentStatus:     string(o.PaymentStatus),
		PaymentMethod:     o.PaymentMethod,
		PaymentID:         o.PaymentID,
		ShippingAddress:   toAddressView(o.ShippingAddress),
		BillingAddress:    toAddressView(o.BillingAddress),
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		DeliveredAt:       o.DeliveredAt,
		Notes:             o.Notes,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}

	for _, item := range o.Items {
		view.Items = append(view.Items, lineItemView{
			ProductID:     item.ProductID,
			Title:         item.Title,
			Price:         item.UnitPrice,
			Quantity:      item.Quantity,
			Image:         item.ImageURL,
			ArtisanID:     item.ArtisanID,
			Customization: item.Customization,
		})
	}

	return view
}
