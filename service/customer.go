package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopping-backend/model"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CustomerAccounts is the repository surface CustomerService drives.
type CustomerAccounts interface {
	GetCustomerByID(id string) (model.Customer, error)
	GetCustomerByEmail(email string) (model.Customer, error)
	CreateCustomer(ctx context.Context, c model.Customer) (model.Customer, error)
	UpdateCustomer(ctx context.Context, c model.Customer) (model.Customer, error)
	DeleteCustomerByID(ctx context.Context, id string) error

	CreateCard(ctx context.Context, customerID string, cvc int64) (model.Card, error)
	GetCard(ctx context.Context, customerID string, last4 int64) (model.Card, error)
	ListCards(ctx context.Context, customerID string) ([]model.Card, error)
	DeleteCard(ctx context.Context, customerID string, last4 int64) error

	CreateAddress(customerID string, a model.Address) (model.Address, error)
	GetAddress(customerID, name string) (model.Address, error)
	ListAddresses(customerID string) ([]model.Address, error)
	DeleteAddress(customerID, name string) error

	GetCart(customerID string) ([]model.CartItem, error)
	UpsertCartItem(customerID string, item model.CartItem) error
	DeleteCartItem(customerID, productID string) error
}

// ImageStore uploads customer images and returns the public URL. Upload
// mechanics live behind this interface.
type ImageStore interface {
	UploadImage(ctx context.Context, imageID string, r io.Reader) (string, error)
}

// PricedCartItem is a cart row joined with its live product price.
type PricedCartItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type CustomerService struct {
	customers CustomerAccounts
	products  ProductCatalog
	images    ImageStore
}

func NewCustomerService(customers CustomerAccounts, products ProductCatalog, images ImageStore) *CustomerService {
	return &CustomerService{customers: customers, products: products, images: images}
}

// SignUp validates the credentials, hashes the password and creates the
// customer through the dual-write repository.
func (s *CustomerService) SignUp(ctx context.Context, name, email, password string) (model.Customer, error) {
	if strings.TrimSpace(name) == "" {
		return model.Customer{}, errors.New("name required")
	}
	if !emailPattern.MatchString(email) {
		return model.Customer{}, errors.New("invalid email address")
	}
	if err := validatePassword(password); err != nil {
		return model.Customer{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Customer{}, err
	}

	customer := model.Customer{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	return s.customers.CreateCustomer(ctx, customer)
}

// Authenticate verifies the password against the stored hash. Both an
// unknown email and a wrong password come back as ErrNotFound so the
// caller cannot probe which emails exist.
func (s *CustomerService) Authenticate(email, password string) (model.Customer, error) {
	customer, err := s.customers.GetCustomerByEmail(email)
	if err != nil {
		return model.Customer{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return model.Customer{}, fmt.Errorf("customer %s: %w", email, model.ErrNotFound)
	}
	return customer, nil
}

func (s *CustomerService) GetCustomer(id string) (model.Customer, error) {
	return s.customers.GetCustomerByID(id)
}

// UpdateProfile applies a partial name/email change; empty fields keep
// their current values.
func (s *CustomerService) UpdateProfile(ctx context.Context, id, name, email string) (model.Customer, error) {
	customer, err := s.customers.GetCustomerByID(id)
	if err != nil {
		return model.Customer{}, err
	}
	if name != "" {
		customer.Name = name
	}
	if email != "" {
		if !emailPattern.MatchString(email) {
			return model.Customer{}, errors.New("invalid email address")
		}
		customer.Email = email
	}
	return s.customers.UpdateCustomer(ctx, customer)
}

func (s *CustomerService) UpdatePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	customer, err := s.customers.GetCustomerByID(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("passwords don't match: %w", model.ErrInvalidState)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	customer.PasswordHash = string(hash)
	_, err = s.customers.UpdateCustomer(ctx, customer)
	return err
}

func (s *CustomerService) UpdateImage(ctx context.Context, id string, r io.Reader) (string, error) {
	if s.images == nil {
		return "", errors.New("image store not configured")
	}
	customer, err := s.customers.GetCustomerByID(id)
	if err != nil {
		return "", err
	}
	url, err := s.images.UploadImage(ctx, id, r)
	if err != nil {
		return "", err
	}
	customer.ImageURL = url
	if _, err := s.customers.UpdateCustomer(ctx, customer); err != nil {
		return "", err
	}
	return url, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	return s.customers.DeleteCustomerByID(ctx, id)
}

// --- addresses ---

func (s *CustomerService) CreateAddress(customerID string, a model.Address) (model.Address, error) {
	if strings.TrimSpace(a.Name) == "" {
		return model.Address{}, errors.New("address name required")
	}
	return s.customers.CreateAddress(customerID, a)
}

func (s *CustomerService) GetAddress(customerID, name string) (model.Address, error) {
	return s.customers.GetAddress(customerID, name)
}

func (s *CustomerService) ListAddresses(customerID string) ([]model.Address, error) {
	return s.customers.ListAddresses(customerID)
}

func (s *CustomerService) DeleteAddress(customerID, name string) error {
	return s.customers.DeleteAddress(customerID, name)
}

// --- cards ---

// AddCard validates the card fields locally and forwards only the
// tokenization input; number and CVC are never persisted or logged.
func (s *CustomerService) AddCard(ctx context.Context, customerID, number string, expMonth, expYear, cvc int64) (model.Card, error) {
	if !isDigits(number) || len(number) < 13 || len(number) > 19 {
		return model.Card{}, errors.New("invalid card number")
	}
	if expMonth < 1 || expMonth > 12 {
		return model.Card{}, errors.New("invalid expiration month")
	}
	if expYear < int64(time.Now().Year()) {
		return model.Card{}, errors.New("card expired")
	}
	if cvc < 100 || cvc > 9999 {
		return model.Card{}, errors.New("invalid cvc")
	}
	return s.customers.CreateCard(ctx, customerID, cvc)
}

func (s *CustomerService) GetCard(ctx context.Context, customerID string, last4 int64) (model.Card, error) {
	return s.customers.GetCard(ctx, customerID, last4)
}

func (s *CustomerService) ListCards(ctx context.Context, customerID string) ([]model.Card, error) {
	return s.customers.ListCards(ctx, customerID)
}

func (s *CustomerService) DeleteCard(ctx context.Context, customerID string, last4 int64) error {
	return s.customers.DeleteCard(ctx, customerID, last4)
}

// --- cart ---

const (
	minCartQuantity = 1
	maxCartQuantity = 10
)

func (s *CustomerService) AddCartItem(customerID, productID string, quantity int) error {
	if quantity < minCartQuantity || quantity > maxCartQuantity {
		return fmt.Errorf("quantity must be between %d and %d: %w", minCartQuantity, maxCartQuantity, model.ErrInvalidState)
	}
	if _, err := s.products.GetProductByID(productID); err != nil {
		return err
	}
	return s.customers.UpsertCartItem(customerID, model.CartItem{ProductID: productID, Quantity: quantity})
}

func (s *CustomerService) RemoveCartItem(customerID, productID string) error {
	return s.customers.DeleteCartItem(customerID, productID)
}

// GetCart joins the cart rows with live product prices and sums a
// running total. The total is informational; checkout re-prices.
func (s *CustomerService) GetCart(customerID string) ([]PricedCartItem, float64, error) {
	items, err := s.customers.GetCart(customerID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PricedCartItem, 0, len(items))
	var total float64
	for _, it := range items {
		product, err := s.products.GetProductByID(it.ProductID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, PricedCartItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: product.Price})
		total += product.Price * float64(it.Quantity)
	}
	return out, total, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must contain at least 8 characters and one number")
	}
	for _, r := range password {
		if unicode.IsDigit(r) {
			return nil
		}
	}
	return errors.New("password must contain at least 8 characters and one number")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
