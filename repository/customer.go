// Package repository orchestrates writes that span the local store and
// the payment provider. There is no shared transaction between the two,
// so every dual write follows the same protocol: mutate the provider
// first, persist locally second, and compensate the provider mutation
// when the local write fails.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"shopping-backend/model"
	"shopping-backend/payment"
	"shopping-backend/store"
)

// CustomerRepository keeps customer and card state consistent across the
// store and the payment provider. The provider is authoritative for
// sensitive card data, which is why it is always mutated first: a failed
// local write is revertible, a failed remote write is not.
type CustomerRepository struct {
	store    store.Store
	provider payment.Provider
}

func NewCustomerRepository(s store.Store, p payment.Provider) *CustomerRepository {
	return &CustomerRepository{store: s, provider: p}
}

func (r *CustomerRepository) GetCustomerByID(id string) (model.Customer, error) {
	row, err := r.store.GetCustomerByID(id)
	if err != nil {
		return model.Customer{}, err
	}
	return toCustomer(row), nil
}

func (r *CustomerRepository) GetCustomerByEmail(email string) (model.Customer, error) {
	row, err := r.store.GetCustomerByEmail(email)
	if err != nil {
		return model.Customer{}, err
	}
	return toCustomer(row), nil
}

// CreateCustomer creates the provider customer first, then the local
// row. If the local write fails the just-created provider customer is
// deleted again, so no remote orphan survives. A failed compensation is
// logged and surfaced as ErrCompensationFailed, never swallowed.
func (r *CustomerRepository) CreateCustomer(ctx context.Context, c model.Customer) (model.Customer, error) {
	pc, err := r.provider.CreateCustomer(ctx, c.Name, c.Email)
	if err != nil {
		return model.Customer{}, fmt.Errorf("create provider customer: %v: %w", err, model.ErrPaymentProvider)
	}

	row := store.CustomerRow{
		ID:        c.ID,
		StripeID:  pc.ID,
		Name:      c.Name,
		Email:     c.Email,
		Password:  c.PasswordHash,
		ImageURL:  toNullString(c.ImageURL),
		CreatedAt: c.CreatedAt,
	}
	if err := r.store.CreateCustomer(row); err != nil {
		if derr := r.provider.DeleteCustomer(ctx, pc.ID); derr != nil {
			log.Printf("repository: compensating delete of provider customer %s failed: %v", pc.ID, derr)
			return model.Customer{}, fmt.Errorf("customer %s: %w", c.Email, model.ErrCompensationFailed)
		}
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.Customer{}, err
		}
		return model.Customer{}, fmt.Errorf("persist customer: %v: %w", err, model.ErrLocalPersistence)
	}

	return r.GetCustomerByID(c.ID)
}

// UpdateCustomer pushes the change to the provider first; a remote
// failure aborts before anything local moves, leaving the old pair
// intact. A local failure after a successful remote update is surfaced
// as an error but not compensated: the provider is allowed to drift
// ahead until the next successful update (see DESIGN.md).
func (r *CustomerRepository) UpdateCustomer(ctx context.Context, c model.Customer) (model.Customer, error) {
	current, err := r.store.GetCustomerByID(c.ID)
	if err != nil {
		return model.Customer{}, err
	}

	if _, err := r.provider.UpdateCustomer(ctx, current.StripeID, c.Name, c.Email); err != nil {
		return model.Customer{}, fmt.Errorf("update provider customer: %v: %w", err, model.ErrPaymentProvider)
	}

	row := store.CustomerRow{
		ID:       c.ID,
		StripeID: current.StripeID,
		Name:     c.Name,
		Email:    c.Email,
		Password: c.PasswordHash,
		ImageURL: toNullString(c.ImageURL),
	}
	if err := r.store.UpdateCustomer(row); err != nil {
		if errors.Is(err, model.ErrAlreadyExists) || errors.Is(err, model.ErrNotFound) {
			return model.Customer{}, err
		}
		return model.Customer{}, fmt.Errorf("persist customer update: %v: %w", err, model.ErrLocalPersistence)
	}

	return r.GetCustomerByID(c.ID)
}

// DeleteCustomerByID deletes the provider customer first; only on
// success does the local cascade (customer, addresses, cards, cart) run
// as one transaction. A remote failure leaves everything local in place.
func (r *CustomerRepository) DeleteCustomerByID(ctx context.Context, id string) error {
	row, err := r.store.GetCustomerByID(id)
	if err != nil {
		return err
	}

	if err := r.provider.DeleteCustomer(ctx, row.StripeID); err != nil {
		return fmt.Errorf("delete provider customer: %v: %w", err, model.ErrPaymentProvider)
	}

	if err := r.store.DeleteCustomerCascade(id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete customer locally: %v: %w", err, model.ErrLocalPersistence)
	}
	return nil
}

// CreateCard creates the provider card from a tokenized source selected
// by the CVC, then persists the local fingerprint row, compensating with
// a provider-side delete when the local write fails. After either
// outcome, a local card row exists iff its provider counterpart does.
func (r *CustomerRepository) CreateCard(ctx context.Context, customerID string, cvc int64) (model.Card, error) {
	row, err := r.store.GetCustomerByID(customerID)
	if err != nil {
		return model.Card{}, err
	}

	pc, err := r.provider.CreateCard(ctx, row.StripeID, payment.SourceForCVC(cvc))
	if err != nil {
		return model.Card{}, fmt.Errorf("create provider card: %v: %w", err, model.ErrPaymentProvider)
	}

	cardRow := store.CardRow{
		CustomerID:   customerID,
		StripeCardID: pc.ID,
		Last4:        pc.Last4,
	}
	if err := r.store.CreateCard(cardRow); err != nil {
		if derr := r.provider.DeleteCard(ctx, row.StripeID, pc.ID); derr != nil {
			log.Printf("repository: compensating delete of provider card %s failed: %v", pc.ID, derr)
			return model.Card{}, fmt.Errorf("card %d: %w", pc.Last4, model.ErrCompensationFailed)
		}
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.Card{}, err
		}
		return model.Card{}, fmt.Errorf("persist card: %v: %w", err, model.ErrLocalPersistence)
	}

	return toCardModel(pc), nil
}

// GetCard resolves the local fingerprint row to the live provider card.
func (r *CustomerRepository) GetCard(ctx context.Context, customerID string, last4 int64) (model.Card, error) {
	row, err := r.store.GetCustomerByID(customerID)
	if err != nil {
		return model.Card{}, err
	}
	cardRow, err := r.store.GetCardByLast4(customerID, last4)
	if err != nil {
		return model.Card{}, err
	}
	pc, err := r.provider.GetCard(ctx, row.StripeID, cardRow.StripeCardID)
	if err != nil {
		return model.Card{}, fmt.Errorf("get provider card: %v: %w", err, model.ErrNotFound)
	}
	return toCardModel(pc), nil
}

func (r *CustomerRepository) ListCards(ctx context.Context, customerID string) ([]model.Card, error) {
	row, err := r.store.GetCustomerByID(customerID)
	if err != nil {
		return nil, err
	}
	cards, err := r.provider.ListCards(ctx, row.StripeID)
	if err != nil {
		return nil, fmt.Errorf("list provider cards: %v: %w", err, model.ErrPaymentProvider)
	}
	out := make([]model.Card, 0, len(cards))
	for _, pc := range cards {
		out = append(out, toCardModel(pc))
	}
	return out, nil
}

// DeleteCard removes the provider card first; on remote success the
// local fingerprint row goes too.
func (r *CustomerRepository) DeleteCard(ctx context.Context, customerID string, last4 int64) error {
	cardRow, err := r.store.GetCardByLast4(customerID, last4)
	if err != nil {
		return err
	}
	row, err := r.store.GetCustomerByID(customerID)
	if err != nil {
		return err
	}

	if err := r.provider.DeleteCard(ctx, row.StripeID, cardRow.StripeCardID); err != nil {
		return fmt.Errorf("delete provider card: %v: %w", err, model.ErrPaymentProvider)
	}
	return r.store.DeleteCard(customerID, cardRow.StripeCardID)
}

// ChargeCard is a pure pass-through: it resolves the remote ids and
// charges the provider. No local state changes on either outcome.
func (r *CustomerRepository) ChargeCard(ctx context.Context, customerID string, last4 int64, amount float64) error {
	row, err := r.store.GetCustomerByID(customerID)
	if err != nil {
		return err
	}
	cardRow, err := r.store.GetCardByLast4(customerID, last4)
	if err != nil {
		return err
	}

	if err := r.provider.ChargeCard(ctx, row.StripeID, cardRow.StripeCardID, amount); err != nil {
		return fmt.Errorf("charge card %d: %v: %w", last4, err, model.ErrPaymentProvider)
	}
	return nil
}

// --- addresses (local only) ---

func (r *CustomerRepository) CreateAddress(customerID string, a model.Address) (model.Address, error) {
	row := store.AddressRow{
		CustomerID: customerID,
		Name:       a.Name,
		Country:    a.Country,
		City:       a.City,
		Line:       a.Line,
		ZipCode:    a.ZipCode,
	}
	if err := r.store.CreateAddress(row); err != nil {
		return model.Address{}, err
	}
	return r.GetAddress(customerID, a.Name)
}

func (r *CustomerRepository) GetAddress(customerID, name string) (model.Address, error) {
	row, err := r.store.GetAddress(customerID, name)
	if err != nil {
		return model.Address{}, err
	}
	return toAddress(row), nil
}

func (r *CustomerRepository) ListAddresses(customerID string) ([]model.Address, error) {
	rows, err := r.store.ListAddresses(customerID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Address, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAddress(row))
	}
	return out, nil
}

func (r *CustomerRepository) DeleteAddress(customerID, name string) error {
	return r.store.DeleteAddress(customerID, name)
}

// --- cart (local only) ---

func (r *CustomerRepository) GetCart(customerID string) ([]model.CartItem, error) {
	rows, err := r.store.GetCart(customerID)
	if err != nil {
		return nil, err
	}
	out := make([]model.CartItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.CartItem{ProductID: row.ProductID, Quantity: row.Quantity})
	}
	return out, nil
}

func (r *CustomerRepository) GetCartItem(customerID, productID string) (model.CartItem, error) {
	row, err := r.store.GetCartItem(customerID, productID)
	if err != nil {
		return model.CartItem{}, err
	}
	return model.CartItem{ProductID: row.ProductID, Quantity: row.Quantity}, nil
}

func (r *CustomerRepository) UpsertCartItem(customerID string, item model.CartItem) error {
	return r.store.UpsertCartItem(customerID, item.ProductID, item.Quantity)
}

func (r *CustomerRepository) DeleteCartItem(customerID, productID string) error {
	return r.store.DeleteCartItem(customerID, productID)
}

func (r *CustomerRepository) ClearCart(customerID string) error {
	return r.store.ClearCart(customerID)
}

// --- mapping ---

func toCustomer(row store.CustomerRow) model.Customer {
	c := model.Customer{
		ID:           row.ID,
		StripeID:     row.StripeID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.Password,
		CreatedAt:    row.CreatedAt,
	}
	if row.ImageURL.Valid {
		c.ImageURL = row.ImageURL.String
	}
	return c
}

func toAddress(row store.AddressRow) model.Address {
	return model.Address{
		Name:    row.Name,
		Country: row.Country,
		City:    row.City,
		Line:    row.Line,
		ZipCode: row.ZipCode,
	}
}

func toCardModel(pc payment.Card) model.Card {
	return model.Card{
		Brand:    pc.Brand,
		Last4:    pc.Last4,
		ExpMonth: pc.ExpMonth,
		ExpYear:  pc.ExpYear,
	}
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
