package model

import "time"

// Order snapshots the chosen address and card by value at purchase time,
// so later edits or deletions of either never rewrite history. Orders are
// immutable once created.
type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customer_id"`
	Address    Address     `json:"address"`
	Card       Card        `json:"card"`
	Items      []OrderItem `json:"items"`
	Total      float64     `json:"total"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderItem captures the unit price at checkout; it is never recomputed
// from the current product price.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
