package repository

import (
	"context"
	"errors"
	"fmt"

	"shopping-backend/model"
	"shopping-backend/payment"
	"shopping-backend/store"
)

// fakeStore is an in-memory store.Store with per-operation error
// injection, so dual-write tests can fail exactly one side.
type fakeStore struct {
	customers map[string]store.CustomerRow
	addresses map[string]store.AddressRow // key customerID/name
	cards     map[string]store.CardRow    // key customerID/stripeCardID
	cart      map[string][]store.CartRow
	products  map[string]store.ProductRow
	orders    map[string]store.OrderRow
	items     map[string][]store.OrderItemRow

	createCustomerErr error
	updateCustomerErr error
	createCardErr     error
	createOrderErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: map[string]store.CustomerRow{},
		addresses: map[string]store.AddressRow{},
		cards:     map[string]store.CardRow{},
		cart:      map[string][]store.CartRow{},
		products:  map[string]store.ProductRow{},
		orders:    map[string]store.OrderRow{},
		items:     map[string][]store.OrderItemRow{},
	}
}

func addrKey(customerID, name string) string { return customerID + "/" + name }

func (f *fakeStore) CreateCustomer(c store.CustomerRow) error {
	if f.createCustomerErr != nil {
		return f.createCustomerErr
	}
	for _, existing := range f.customers {
		if existing.Email == c.Email {
			return fmt.Errorf("customer %s: %w", c.Email, model.ErrAlreadyExists)
		}
	}
	f.customers[c.ID] = c
	return nil
}

func (f *fakeStore) GetCustomerByID(id string) (store.CustomerRow, error) {
	c, ok := f.customers[id]
	if !ok {
		return store.CustomerRow{}, fmt.Errorf("customer %s: %w", id, model.ErrNotFound)
	}
	return c, nil
}

func (f *fakeStore) GetCustomerByEmail(email string) (store.CustomerRow, error) {
	for _, c := range f.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return store.CustomerRow{}, fmt.Errorf("customer %s: %w", email, model.ErrNotFound)
}

func (f *fakeStore) UpdateCustomer(c store.CustomerRow) error {
	if f.updateCustomerErr != nil {
		return f.updateCustomerErr
	}
	current, ok := f.customers[c.ID]
	if !ok {
		return fmt.Errorf("customer %s: %w", c.ID, model.ErrNotFound)
	}
	c.CreatedAt = current.CreatedAt
	f.customers[c.ID] = c
	return nil
}

func (f *fakeStore) DeleteCustomerCascade(id string) error {
	if _, ok := f.customers[id]; !ok {
		return fmt.Errorf("customer %s: %w", id, model.ErrNotFound)
	}
	delete(f.customers, id)
	for k, a := range f.addresses {
		if a.CustomerID == id {
			delete(f.addresses, k)
		}
	}
	for k, c := range f.cards {
		if c.CustomerID == id {
			delete(f.cards, k)
		}
	}
	delete(f.cart, id)
	return nil
}

func (f *fakeStore) CreateAddress(a store.AddressRow) error {
	key := addrKey(a.CustomerID, a.Name)
	if _, ok := f.addresses[key]; ok {
		return fmt.Errorf("address %s: %w", a.Name, model.ErrAlreadyExists)
	}
	f.addresses[key] = a
	return nil
}

func (f *fakeStore) GetAddress(customerID, name string) (store.AddressRow, error) {
	a, ok := f.addresses[addrKey(customerID, name)]
	if !ok {
		return store.AddressRow{}, fmt.Errorf("address %s: %w", name, model.ErrNotFound)
	}
	return a, nil
}

func (f *fakeStore) ListAddresses(customerID string) ([]store.AddressRow, error) {
	out := []store.AddressRow{}
	for _, a := range f.addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteAddress(customerID, name string) error {
	key := addrKey(customerID, name)
	if _, ok := f.addresses[key]; !ok {
		return fmt.Errorf("address %s: %w", name, model.ErrNotFound)
	}
	delete(f.addresses, key)
	return nil
}

func (f *fakeStore) CreateCard(c store.CardRow) error {
	if f.createCardErr != nil {
		return f.createCardErr
	}
	f.cards[addrKey(c.CustomerID, c.StripeCardID)] = c
	return nil
}

func (f *fakeStore) GetCardByLast4(customerID string, last4 int64) (store.CardRow, error) {
	for _, c := range f.cards {
		if c.CustomerID == customerID && c.Last4 == last4 {
			return c, nil
		}
	}
	return store.CardRow{}, fmt.Errorf("card %d: %w", last4, model.ErrNotFound)
}

func (f *fakeStore) DeleteCard(customerID, stripeCardID string) error {
	key := addrKey(customerID, stripeCardID)
	if _, ok := f.cards[key]; !ok {
		return fmt.Errorf("card %s: %w", stripeCardID, model.ErrNotFound)
	}
	delete(f.cards, key)
	return nil
}

func (f *fakeStore) UpsertCartItem(customerID, productID string, qty int) error {
	rows := f.cart[customerID]
	for i, r := range rows {
		if r.ProductID == productID {
			rows[i].Quantity = qty
			return nil
		}
	}
	f.cart[customerID] = append(rows, store.CartRow{ProductID: productID, Quantity: qty})
	return nil
}

func (f *fakeStore) GetCartItem(customerID, productID string) (store.CartRow, error) {
	for _, r := range f.cart[customerID] {
		if r.ProductID == productID {
			return r, nil
		}
	}
	return store.CartRow{}, fmt.Errorf("cart item %s: %w", productID, model.ErrNotFound)
}

func (f *fakeStore) GetCart(customerID string) ([]store.CartRow, error) {
	return append([]store.CartRow{}, f.cart[customerID]...), nil
}

func (f *fakeStore) DeleteCartItem(customerID, productID string) error {
	rows := f.cart[customerID]
	for i, r := range rows {
		if r.ProductID == productID {
			f.cart[customerID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("cart item %s: %w", productID, model.ErrNotFound)
}

func (f *fakeStore) ClearCart(customerID string) error {
	delete(f.cart, customerID)
	return nil
}

func (f *fakeStore) CreateProduct(p store.ProductRow) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeStore) GetProductByID(id string) (store.ProductRow, error) {
	p, ok := f.products[id]
	if !ok {
		return store.ProductRow{}, fmt.Errorf("product %s: %w", id, model.ErrNotFound)
	}
	return p, nil
}

func (f *fakeStore) ListProducts() ([]store.ProductRow, error) {
	out := []store.ProductRow{}
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) CreateOrder(o store.OrderRow, items []store.OrderItemRow) error {
	if f.createOrderErr != nil {
		return f.createOrderErr
	}
	f.orders[o.ID] = o
	f.items[o.ID] = items
	return nil
}

func (f *fakeStore) GetOrderByID(id string) (store.OrderRow, error) {
	o, ok := f.orders[id]
	if !ok {
		return store.OrderRow{}, fmt.Errorf("order %s: %w", id, model.ErrNotFound)
	}
	return o, nil
}

func (f *fakeStore) ListOrdersByCustomer(customerID string) ([]store.OrderRow, error) {
	out := []store.OrderRow{}
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) GetOrderItems(orderID string) ([]store.OrderItemRow, error) {
	return append([]store.OrderItemRow{}, f.items[orderID]...), nil
}

func (f *fakeStore) Close() error { return nil }

// stubProvider simulates the payment provider with injectable failures.
type stubProvider struct {
	customers map[string]payment.Customer
	cards     map[string]map[string]payment.Card // customerID -> cardID -> card
	charges   []float64
	seq       int

	createCustomerErr error
	updateCustomerErr error
	deleteCustomerErr error
	createCardErr     error
	deleteCardErr     error
	chargeErr         error
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		customers: map[string]payment.Customer{},
		cards:     map[string]map[string]payment.Card{},
	}
}

func (p *stubProvider) CreateCustomer(_ context.Context, name, email string) (payment.Customer, error) {
	if p.createCustomerErr != nil {
		return payment.Customer{}, p.createCustomerErr
	}
	p.seq++
	c := payment.Customer{ID: fmt.Sprintf("cus_%d", p.seq), Name: name, Email: email}
	p.customers[c.ID] = c
	return c, nil
}

func (p *stubProvider) UpdateCustomer(_ context.Context, id, name, email string) (payment.Customer, error) {
	if p.updateCustomerErr != nil {
		return payment.Customer{}, p.updateCustomerErr
	}
	c, ok := p.customers[id]
	if !ok {
		return payment.Customer{}, errors.New("no such customer")
	}
	c.Name, c.Email = name, email
	p.customers[id] = c
	return c, nil
}

func (p *stubProvider) DeleteCustomer(_ context.Context, id string) error {
	if p.deleteCustomerErr != nil {
		return p.deleteCustomerErr
	}
	if _, ok := p.customers[id]; !ok {
		return errors.New("no such customer")
	}
	delete(p.customers, id)
	delete(p.cards, id)
	return nil
}

func (p *stubProvider) CreateCard(_ context.Context, customerID, source string) (payment.Card, error) {
	if p.createCardErr != nil {
		return payment.Card{}, p.createCardErr
	}
	if _, ok := p.customers[customerID]; !ok {
		return payment.Card{}, errors.New("no such customer")
	}
	p.seq++
	brand := "Visa"
	last4 := int64(4242)
	if source == "tok_mastercard" {
		brand = "MasterCard"
		last4 = 4444
	}
	card := payment.Card{
		ID:       fmt.Sprintf("card_%d", p.seq),
		Brand:    brand,
		Last4:    last4,
		ExpMonth: 12,
		ExpYear:  2030,
	}
	if p.cards[customerID] == nil {
		p.cards[customerID] = map[string]payment.Card{}
	}
	p.cards[customerID][card.ID] = card
	return card, nil
}

func (p *stubProvider) GetCard(_ context.Context, customerID, cardID string) (payment.Card, error) {
	card, ok := p.cards[customerID][cardID]
	if !ok {
		return payment.Card{}, errors.New("no such card")
	}
	return card, nil
}

func (p *stubProvider) ListCards(_ context.Context, customerID string) ([]payment.Card, error) {
	out := []payment.Card{}
	for _, c := range p.cards[customerID] {
		out = append(out, c)
	}
	return out, nil
}

func (p *stubProvider) DeleteCard(_ context.Context, customerID, cardID string) error {
	if p.deleteCardErr != nil {
		return p.deleteCardErr
	}
	if _, ok := p.cards[customerID][cardID]; !ok {
		return errors.New("no such card")
	}
	delete(p.cards[customerID], cardID)
	return nil
}

func (p *stubProvider) ChargeCard(_ context.Context, customerID, cardID string, amount float64) error {
	if p.chargeErr != nil {
		return p.chargeErr
	}
	if _, ok := p.cards[customerID][cardID]; !ok {
		return errors.New("no such card")
	}
	p.charges = append(p.charges, amount)
	return nil
}
