package model

import "time"

type Product struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
