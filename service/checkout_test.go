package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"shopping-backend/events"
	"shopping-backend/model"
)

// fakeDirectory records call order so tests can assert the charge /
// persist / clear ordering invariant.
type fakeDirectory struct {
	addresses map[string]model.Address
	cards     map[int64]model.Card
	cart      []model.CartItem
	chargeErr error
	charges   []float64
	calls     *[]string
}

func (f *fakeDirectory) GetAddress(customerID, name string) (model.Address, error) {
	a, ok := f.addresses[name]
	if !ok {
		return model.Address{}, fmt.Errorf("address %s: %w", name, model.ErrNotFound)
	}
	return a, nil
}

func (f *fakeDirectory) GetCard(_ context.Context, customerID string, last4 int64) (model.Card, error) {
	c, ok := f.cards[last4]
	if !ok {
		return model.Card{}, fmt.Errorf("card %d: %w", last4, model.ErrNotFound)
	}
	return c, nil
}

func (f *fakeDirectory) GetCart(customerID string) ([]model.CartItem, error) {
	return f.cart, nil
}

func (f *fakeDirectory) ChargeCard(_ context.Context, customerID string, last4 int64, amount float64) error {
	*f.calls = append(*f.calls, "charge")
	if f.chargeErr != nil {
		return fmt.Errorf("charge: %v: %w", f.chargeErr, model.ErrPaymentProvider)
	}
	f.charges = append(f.charges, amount)
	return nil
}

func (f *fakeDirectory) ClearCart(customerID string) error {
	*f.calls = append(*f.calls, "clear")
	f.cart = nil
	return nil
}

type fakeCatalog struct {
	prices map[string]float64
}

func (f *fakeCatalog) GetProductByID(id string) (model.Product, error) {
	price, ok := f.prices[id]
	if !ok {
		return model.Product{}, fmt.Errorf("product %s: %w", id, model.ErrNotFound)
	}
	return model.Product{ID: id, Name: "product " + id, Price: price}, nil
}

type fakeOrders struct {
	created   []model.Order
	createErr error
	calls     *[]string
}

func (f *fakeOrders) CreateOrder(o model.Order) (model.Order, error) {
	*f.calls = append(*f.calls, "persist")
	if f.createErr != nil {
		return model.Order{}, fmt.Errorf("persist order: %v: %w", f.createErr, model.ErrLocalPersistence)
	}
	f.created = append(f.created, o)
	return o, nil
}

func (f *fakeOrders) GetOrderByID(id string) (model.Order, error) {
	for _, o := range f.created {
		if o.ID == id {
			return o, nil
		}
	}
	return model.Order{}, fmt.Errorf("order %s: %w", id, model.ErrNotFound)
}

func (f *fakeOrders) ListOrdersByCustomer(customerID string) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range f.created {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

type checkoutFixture struct {
	svc       *CheckoutService
	directory *fakeDirectory
	catalog   *fakeCatalog
	orders    *fakeOrders
	calls     []string
}

func newCheckoutFixture() *checkoutFixture {
	fx := &checkoutFixture{}
	fx.directory = &fakeDirectory{
		addresses: map[string]model.Address{
			"Home": {Name: "Home", Country: "US", City: "NYC", Line: "1 Main St", ZipCode: "10001"},
		},
		cards: map[int64]model.Card{
			4242: {Brand: "Visa", Last4: 4242, ExpMonth: 12, ExpYear: 2030},
		},
		cart:  []model.CartItem{{ProductID: "p1", Quantity: 2}},
		calls: &fx.calls,
	}
	fx.catalog = &fakeCatalog{prices: map[string]float64{"p1": 10.0}}
	fx.orders = &fakeOrders{calls: &fx.calls}
	fx.svc = NewCheckoutService(fx.directory, fx.catalog, fx.orders)
	return fx
}

func TestCreateOrder_ExampleScenario(t *testing.T) {
	fx := newCheckoutFixture()

	order, err := fx.svc.CreateOrder(context.Background(), "c1", "Home", 4242)
	require.NoError(t, err)

	require.Equal(t, []float64{20.0}, fx.directory.charges)
	require.Equal(t, 20.0, order.Total)
	require.Len(t, order.Items, 1)
	require.Equal(t, model.OrderItem{ProductID: "p1", Quantity: 2, Price: 10.0}, order.Items[0])
	require.Equal(t, "Home", order.Address.Name)
	require.EqualValues(t, 4242, order.Card.Last4)
	require.Empty(t, fx.directory.cart, "cart is cleared after the order commits")
}

func TestCreateOrder_ChargeNeverAfterPersist(t *testing.T) {
	fx := newCheckoutFixture()

	_, err := fx.svc.CreateOrder(context.Background(), "c1", "Home", 4242)
	require.NoError(t, err)
	require.Equal(t, []string{"charge", "persist", "clear"}, fx.calls)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	fx := newCheckoutFixture()
	fx.directory.cart = nil

	_, err := fx.svc.CreateOrder(context.Background(), "c1", "Home", 4242)
	require.ErrorIs(t, err, model.ErrInvalidState)
	require.Empty(t, fx.calls, "no charge and no persist for an empty cart")
}

func TestCreateOrder_UnknownAddress(t *testing.T) {
	fx := newCheckoutFixture()

	_, err := fx.svc.CreateOrder(context.Background(), "c1", "Work", 4242)
	require.ErrorIs(t, err, model.ErrNotFound)
	require.Empty(t, fx.calls)
	require.NotEmpty(t, fx.directory.cart)
}

func TestCreateOrder_UnknownCard(t *testing.T) {
	fx := newCheckoutFixture()

	_, err := fx.svc.CreateOrder(context.Background(), "c1", "Home", 1111)
	require.ErrorIs(t, err, model.ErrNotFound)
	require.Empty(t, fx.calls)
}

func TestCreateOrder_StaleCartEntryAborts(t *testing.T) {
	fx := newCheckoutFixture()
	fx.directory.cart = append(fx.directory.cart, model.CartItem{ProductID: "gone", Quantity: 1})

	_, err := fx.svc.CreateOrder(context.Background(), "c1", "Home", 4242)
	require.ErrorIs(t, err, model.ErrNotFound)
	require.Empty(t, fx.calls, "no partial orders from stale cart entries")
	require.Empty(t, fx.orders.created)
}

func TestCreateOrder_ChargeFailureLeavesCartAndNoOrder(t *testing.T) {
	fx := newCheckoutFixture()
	fx.directory.chargeErr = errors.New("card declined")

	_, err := fx.svc.CreateOrder(context.Background(), "c1", "Home", 4242)
	require.ErrorIs(t, err, model.ErrPaymentProvider)
	require.Empty(t, fx.orders.created, "nothing persisted on a failed charge")
	require.Len(t, fx.directory.cart, 1, "cart untouched, so the customer can retry")
}

func TestCreateOrder_PersistFailureAfterCharge(t *testing.T) {
	fx := newCheckoutFixture()
	fx.orders.createErr = errors.New("connection reset")

	_, err := fx.svc.CreateOrder(context.Background(), "c1", "Home", 4242)
	require.ErrorIs(t, err, model.ErrLocalPersistence)
	require.Equal(t, []float64{20.0}, fx.directory.charges, "the charge already happened")
	require.Len(t, fx.directory.cart, 1, "cart is only cleared after a committed order")
}

func TestCreateOrder_PriceSnapshotSurvivesLaterChange(t *testing.T) {
	fx := newCheckoutFixture()

	order, err := fx.svc.CreateOrder(context.Background(), "c1", "Home", 4242)
	require.NoError(t, err)

	fx.catalog.prices["p1"] = 99.0
	persisted, err := fx.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	require.Equal(t, 10.0, persisted.Items[0].Price)
	require.Equal(t, 20.0, persisted.Total)
}

func TestCreateOrder_MultipleItemsTotal(t *testing.T) {
	fx := newCheckoutFixture()
	fx.directory.cart = []model.CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	}
	fx.catalog.prices["p2"] = 5.5

	order, err := fx.svc.CreateOrder(context.Background(), "c1", "Home", 4242)
	require.NoError(t, err)
	require.InDelta(t, 36.5, order.Total, 1e-9)
	require.Equal(t, []float64{36.5}, fx.directory.charges)
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) PublishOrderCreated(context.Context, events.OrderCreated) error {
	p.calls++
	return errors.New("broker unavailable")
}

func TestCreateOrder_PublishFailureDoesNotFailCheckout(t *testing.T) {
	fx := newCheckoutFixture()
	pub := &failingPublisher{}
	fx.svc.WithPublisher(pub)

	order, err := fx.svc.CreateOrder(context.Background(), "c1", "Home", 4242)
	require.NoError(t, err)
	require.Equal(t, 1, pub.calls)
	require.NotEmpty(t, order.ID)
}

func TestGetOrder_WrongCustomer(t *testing.T) {
	fx := newCheckoutFixture()
	order, err := fx.svc.CreateOrder(context.Background(), "c1", "Home", 4242)
	require.NoError(t, err)

	_, err = fx.svc.GetOrder("someone-else", order.ID)
	require.ErrorIs(t, err, model.ErrNotFound, "orders are only visible to their owner")
}
