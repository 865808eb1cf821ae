package order

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
	StatusFailed    Status = "Failed"
)

// CartItem is what the client submits at checkout. Only the product id and
// quantity are trusted; price and name are re-read from the products table.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type ShippingAddress struct {
	FullName string `json:"full_name"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

// Item is a line-item snapshot captured from the products table at order
// time, decoupled from later product edits.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image"`
}

type Order struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uint            `json:"user_id"`
	Items            []Item          `json:"items"`
	ShippingAddress  ShippingAddress `json:"shipping_address"`
	TotalPrice       float64         `json:"total_price"`
	Status           Status          `json:"status"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	PaymentStatus    string          `json:"payment_status,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CheckoutProduct is the authoritative product row used to validate and
// price a cart line.
type CheckoutProduct struct {
	ID       uuid.UUID
	Name     string
	Price    float64
	Quantity int
	Image    string
}
