package order

import "time"

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is an immutable snapshot taken from a cart at checkout time. Only the
// status and the payment/delivery flags change after creation; items and
// total never do.
type Order struct {
	ID              string     `json:"id"`
	UserID          uint       `json:"user_id"`
	Items           []Item     `json:"items"`
	ShippingAddress Address    `json:"shipping_address"`
	PaymentMethod   string     `json:"payment_method"`
	TotalPrice      float64    `json:"total_price"`
	Status          Status     `json:"status"`
	IsPaid          bool       `json:"is_paid"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	PaymentID       *string    `json:"payment_id,omitempty"`
	PaymentStatus   *string    `json:"payment_status,omitempty"`
	PaymentEmail    *string    `json:"payment_email,omitempty"`
	IsDelivered     bool       `json:"is_delivered"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Item struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type CheckoutParams struct {
	ShippingAddress Address
	PaymentMethod   string
}

// PaymentConfirmation carries the provider-specific details attached to an
// order when it is marked paid. Opaque to this service.
type PaymentConfirmation struct {
	PaymentID string
	Status    string
	Email     string
}
