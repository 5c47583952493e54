package service

import (
	"context"
	"io"

	"shopping-backend/model"
)

// Interfaces consumed by the HTTP layer.

type CustomerServiceInterface interface {
	SignUp(ctx context.Context, name, email, password string) (model.Customer, error)
	Authenticate(email, password string) (model.Customer, error)
	GetCustomer(id string) (model.Customer, error)
	UpdateProfile(ctx context.Context, id, name, email string) (model.Customer, error)
	UpdatePassword(ctx context.Context, id, oldPassword, newPassword string) error
	UpdateImage(ctx context.Context, id string, r io.Reader) (string, error)
	DeleteCustomer(ctx context.Context, id string) error

	CreateAddress(customerID string, a model.Address) (model.Address, error)
	GetAddress(customerID, name string) (model.Address, error)
	ListAddresses(customerID string) ([]model.Address, error)
	DeleteAddress(customerID, name string) error

	AddCard(ctx context.Context, customerID, number string, expMonth, expYear, cvc int64) (model.Card, error)
	GetCard(ctx context.Context, customerID string, last4 int64) (model.Card, error)
	ListCards(ctx context.Context, customerID string) ([]model.Card, error)
	DeleteCard(ctx context.Context, customerID string, last4 int64) error

	AddCartItem(customerID, productID string, quantity int) error
	RemoveCartItem(customerID, productID string) error
	GetCart(customerID string) ([]PricedCartItem, float64, error)
}

type ProductServiceInterface interface {
	CreateProduct(category, brand, name, description string, price float64, images []string) (model.Product, error)
	GetProduct(id string) (model.Product, error)
	ListProducts() ([]model.Product, error)
}

type CheckoutServiceInterface interface {
	CreateOrder(ctx context.Context, customerID, addressName string, cardLast4 int64) (model.Order, error)
	GetOrder(customerID, orderID string) (model.Order, error)
	ListOrders(customerID string) ([]model.Order, error)
}
