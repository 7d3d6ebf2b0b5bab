package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/order"
)

type Handler struct {
	svc order.Service
}

func NewHandler(svc order.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.CreateOrder)
	mux.HandleFunc("GET /orders", h.ListOrders)
	mux.HandleFunc("GET /orders/{id}", h.GetOrder)
	mux.HandleFunc("PATCH /orders/{id}/status", h.UpdateStatus)
	mux.HandleFunc("POST /orders/{id}/cancel", h.CancelOrder)
}

func requireIdentity(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := identity.FromContext(r.Context()); !ok {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
		return false
	}
	return true
}

type addressPayload struct {
	FullName   string `json:"fullName"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

func (a addressPayload) valid() bool {
	return a.Street != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}

func (a addressPayload) toModel() order.Address {
	return order.Address{
		FullName:   a.FullName,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

type lineItemPayload struct {
	ProductID     string  `json:"productId"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	ArtisanID     string  `json:"artisanId"`
	Customization *string `json:"customization"`
}

type createOrderRequest struct {
	Items           []lineItemPayload `json:"items"`
	ShippingAddress addressPayload    `json:"shippingAddress"`
	BillingAddress  addressPayload    `json:"billingAddress"`
	Notes           *string           `json:"notes"`
	Discount        float64           `json:"discount"`
	Shipping        float64           `json:"shipping"`
}

// CreateOrder handles POST /orders. Shape validation happens here so the
// coordinator never opens a transaction for a malformed request.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if !requireIdentity(w, r) {
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Items) == 0 {
		writeMessage(w, http.StatusBadRequest, "order must contain at least one item")
		return
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			writeMessage(w, http.StatusBadRequest, "item is missing productId")
			return
		}
		if item.Quantity <= 0 {
			writeMessage(w, http.StatusBadRequest, "quantity must be greater than zero")
			return
		}
		if item.Price < 0 {
			writeMessage(w, http.StatusBadRequest, "price must not be negative")
			return
		}
	}
	if !req.ShippingAddress.valid() {
		writeMessage(w, http.StatusBadRequest, "shipping address is incomplete")
		return
	}

	billing := req.BillingAddress
	if billing == (addressPayload{}) {
		billing = req.ShippingAddress
	}

	input := order.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress.toModel(),
		BillingAddress:  billing.toModel(),
		Notes:           req.Notes,
		Discount:        req.Discount,
		ShippingFee:     req.Shipping,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, order.LineItemInput{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			Price:         item.Price,
			ArtisanID:     item.ArtisanID,
			Customization: item.Customization,
		})
	}

	o, err := h.svc.PlaceOrder(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeData(w, http.StatusCreated, toPlacedOrderView(o))
}

// ListOrders handles GET /orders?limit=&offset=&status=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if !requireIdentity(w, r) {
		return
	}

	q := r.URL.Query()

	limit, err := parseInt32(q.Get("limit"), 20)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := parseInt32(q.Get("offset"), 0)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid offset")
		return
	}

	var status *order.OrderStatus
	if s := q.Get("status"); s != "" {
		st := order.OrderStatus(s)
		if !order.ValidStatus(st) {
			writeMessage(w, http.StatusBadRequest, "unknown status")
			return
		}
		status = &st
	}

	orders, err := h.svc.ListOrders(r.Context(), status, limit, offset)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}

	writeData(w, http.StatusOK, views)
}

// GetOrder handles GET /orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	if !requireIdentity(w, r) {
		return
	}

	o, err := h.svc.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeData(w, http.StatusOK, toOrderView(o))
}

type updateStatusRequest struct {
	Status         string  `json:"status"`
	TrackingNumber *string `json:"trackingNumber"`
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !requireIdentity(w, r) {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := order.OrderStatus(req.Status)
	if !order.ValidStatus(status) {
		writeMessage(w, http.StatusBadRequest, "unknown status")
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), r.PathValue("id"), status, req.TrackingNumber)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeData(w, http.StatusOK, toOrderView(o))
}

// CancelOrder handles POST /orders/{id}/cancel. No body.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	if !requireIdentity(w, r) {
		return
	}

	o, err := h.svc.CancelOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeData(w, http.StatusOK, toOrderView(o))
}

func parseInt32(s string, fallback int32) (int32, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}
