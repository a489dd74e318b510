package model

import "time"

// Item is a catalog entry used as a template for list and pantry items.
type Item struct {
	ID             int64     `json:"id" yaml:"-"`
	Name           string    `json:"name" yaml:"name"`
	Category       string    `json:"category" yaml:"category"`
	Quantity       string    `json:"quantity" yaml:"quantity"`
	Unit           string    `json:"unit" yaml:"unit"`
	Price          string    `json:"price" yaml:"price"`
	ExpirationDate string    `json:"expirationDate" yaml:"expirationDate"`
	CreatedAt      time.Time `json:"created_at" yaml:"-"`
}
