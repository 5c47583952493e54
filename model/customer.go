package model

import "time"

// Customer is the locally persisted account. StripeID references the
// customer record inside the payment provider; a Customer row is never
// written before that remote record exists.
type Customer struct {
	ID           string    `json:"id"`
	StripeID     string    `json:"-"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Address is keyed by its name within a customer. Addresses are created
// and deleted wholesale; there is no partial update.
type Address struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	City    string `json:"city"`
	Line    string `json:"line"`
	ZipCode string `json:"zip_code"`
}

// Card is the non-sensitive view of a stored card. The full number and
// CVC only ever live inside the payment provider.
type Card struct {
	Brand    string `json:"brand"`
	Last4    int64  `json:"last4"`
	ExpMonth int64  `json:"exp_month"`
	ExpYear  int64  `json:"exp_year"`
}

// CartItem quantities are kept in [1,10]; repeated adds upsert.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
