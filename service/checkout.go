package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopping-backend/events"
	"shopping-backend/metrics"
	"shopping-backend/model"
)

// CustomerDirectory is the slice of the customer repository the checkout
// flow needs: resolving the chosen address/card, reading and clearing
// the cart, and charging the card.
type CustomerDirectory interface {
	GetAddress(customerID, name string) (model.Address, error)
	GetCard(ctx context.Context, customerID string, last4 int64) (model.Card, error)
	GetCart(customerID string) ([]model.CartItem, error)
	ChargeCard(ctx context.Context, customerID string, last4 int64, amount float64) error
	ClearCart(customerID string) error
}

// ProductCatalog resolves authoritative current prices.
type ProductCatalog interface {
	GetProductByID(id string) (model.Product, error)
}

// OrderStore persists an order with its items atomically.
type OrderStore interface {
	CreateOrder(o model.Order) (model.Order, error)
	GetOrderByID(id string) (model.Order, error)
	ListOrdersByCustomer(customerID string) ([]model.Order, error)
}

// CheckoutService turns a customer's cart into a persisted, paid order:
// validate address/card, price the cart, charge, persist, clear the
// cart, in that order. Charging before persisting means a failed charge
// leaves no trace, while a failed persist after a successful charge is a
// known, logged inconsistency window (reconciled out-of-band).
type CheckoutService struct {
	customers CustomerDirectory
	products  ProductCatalog
	orders    OrderStore
	publisher events.Publisher
	metrics   *metrics.CheckoutMetrics

	// per-customer mutexes so two concurrent checkouts cannot price and
	// charge from an overlapping cart snapshot
	locks sync.Map // map[string]*sync.Mutex
}

func NewCheckoutService(customers CustomerDirectory, products ProductCatalog, orders OrderStore) *CheckoutService {
	return &CheckoutService{customers: customers, products: products, orders: orders}
}

// WithPublisher attaches a best-effort order-created publisher.
func (s *CheckoutService) WithPublisher(p events.Publisher) *CheckoutService {
	s.publisher = p
	return s
}

// WithMetrics attaches checkout outcome counters.
func (s *CheckoutService) WithMetrics(m *metrics.CheckoutMetrics) *CheckoutService {
	s.metrics = m
	return s
}

func (s *CheckoutService) lockForCustomer(customerID string) func() {
	if v, ok := s.locks.Load(customerID); ok {
		m := v.(*sync.Mutex)
		m.Lock()
		return m.Unlock
	}
	m := &sync.Mutex{}
	actual, _ := s.locks.LoadOrStore(customerID, m)
	mtx := actual.(*sync.Mutex)
	mtx.Lock()
	return mtx.Unlock
}

// CreateOrder runs the checkout state machine for one customer request.
func (s *CheckoutService) CreateOrder(ctx context.Context, customerID, addressName string, cardLast4 int64) (model.Order, error) {
	if customerID == "" {
		return model.Order{}, errors.New("customer id required")
	}
	if addressName == "" {
		return model.Order{}, errors.New("address name required")
	}

	unlock := s.lockForCustomer(customerID)
	defer unlock()

	// Validating: both must belong to the requesting customer.
	address, err := s.customers.GetAddress(customerID, addressName)
	if err != nil {
		s.count(metrics.OutcomeNotFound)
		return model.Order{}, err
	}
	card, err := s.customers.GetCard(ctx, customerID, cardLast4)
	if err != nil {
		s.count(metrics.OutcomeNotFound)
		return model.Order{}, err
	}

	// Pricing: current product prices, captured once.
	cart, err := s.customers.GetCart(customerID)
	if err != nil {
		return model.Order{}, err
	}
	if len(cart) == 0 {
		s.count(metrics.OutcomeEmptyCart)
		return model.Order{}, fmt.Errorf("cart is empty: %w", model.ErrInvalidState)
	}

	items := make([]model.OrderItem, 0, len(cart))
	var total float64
	for _, ci := range cart {
		product, err := s.products.GetProductByID(ci.ProductID)
		if err != nil {
			// a stale cart entry aborts the whole checkout, no partial orders
			s.count(metrics.OutcomeNotFound)
			return model.Order{}, err
		}
		items = append(items, model.OrderItem{
			ProductID: ci.ProductID,
			Quantity:  ci.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(ci.Quantity)
	}

	// Charging: on failure nothing is persisted and the cart is
	// untouched, so the customer can simply retry.
	if err := s.customers.ChargeCard(ctx, customerID, card.Last4, total); err != nil {
		s.count(metrics.OutcomePaymentDeclined)
		return model.Order{}, err
	}

	// Persisting: only after a successful charge.
	order := model.Order{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Address:    address,
		Card:       card,
		Items:      items,
		Total:      total,
		CreatedAt:  time.Now().UTC(),
	}
	created, err := s.orders.CreateOrder(order)
	if err != nil {
		// The charge already went through with no order recorded; this
		// window is reconciled out-of-band against the provider ledger.
		log.Printf("checkout: order %s for customer %s failed to persist after successful charge of %.2f: %v",
			order.ID, customerID, total, err)
		s.count(metrics.OutcomePersistFailed)
		return model.Order{}, err
	}

	// ClearingCart: the order is already correct; a leftover cart is a
	// cosmetic inconsistency, safe to retry or ignore.
	if err := s.customers.ClearCart(customerID); err != nil {
		log.Printf("checkout: clearing cart for customer %s after order %s: %v", customerID, created.ID, err)
	}

	if s.publisher != nil {
		evt := events.OrderCreated{
			OrderID:    created.ID,
			CustomerID: created.CustomerID,
			Total:      created.Total,
			ItemCount:  len(created.Items),
			CreatedAt:  created.CreatedAt,
		}
		if err := s.publisher.PublishOrderCreated(ctx, evt); err != nil {
			log.Printf("checkout: publishing order %s: %v", created.ID, err)
		}
	}

	s.count(metrics.OutcomeSuccess)
	if s.metrics != nil {
		s.metrics.OrderTotal.Observe(created.Total)
	}
	return created, nil
}

// GetOrder returns the order only to its owner.
func (s *CheckoutService) GetOrder(customerID, orderID string) (model.Order, error) {
	order, err := s.orders.GetOrderByID(orderID)
	if err != nil {
		return model.Order{}, err
	}
	if order.CustomerID != customerID {
		return model.Order{}, fmt.Errorf("order %s: %w", orderID, model.ErrNotFound)
	}
	return order, nil
}

func (s *CheckoutService) ListOrders(customerID string) ([]model.Order, error) {
	if customerID == "" {
		return nil, errors.New("customer id required")
	}
	return s.orders.ListOrdersByCustomer(customerID)
}

func (s *CheckoutService) count(outcome string) {
	if s.metrics != nil {
		s.metrics.Checkouts.WithLabelValues(outcome).Inc()
	}
}
