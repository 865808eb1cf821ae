package product

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID              uuid.UUID `json:"id"`
	SellerID        uint      `json:"seller_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Images          []string  `json:"images"`
	Price           float64   `json:"price"`
	Category        string    `json:"category"`
	Quantity        int       `json:"quantity"`
	DeliveryTime    *string   `json:"delivery_time,omitempty"`
	CountryOfOrigin *string   `json:"country_of_origin,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type NewProduct struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Images          []string `json:"images"`
	Price           float64  `json:"price"`
	Category        string   `json:"category"`
	Quantity        int      `json:"quantity"`
	DeliveryTime    *string  `json:"delivery_time,omitempty"`
	CountryOfOrigin *string  `json:"country_of_origin,omitempty"`
}

type ListOptions struct {
	Category string
	SellerID *uint
	Page     int32
	Limit    int32
}
