package repository

import (
	"errors"
	"fmt"

	"shopping-backend/model"
	"shopping-backend/store"
)

// OrderRepository persists orders. An order and its line items are
// written as one atomic unit; orders are immutable after that.
type OrderRepository struct {
	store store.Store
}

func NewOrderRepository(s store.Store) *OrderRepository {
	return &OrderRepository{store: s}
}

func (r *OrderRepository) CreateOrder(o model.Order) (model.Order, error) {
	row := store.OrderRow{
		ID:             o.ID,
		CustomerID:     o.CustomerID,
		AddressName:    o.Address.Name,
		AddressCountry: o.Address.Country,
		AddressCity:    o.Address.City,
		AddressLine:    o.Address.Line,
		AddressZip:     o.Address.ZipCode,
		CardBrand:      o.Card.Brand,
		CardLast4:      o.Card.Last4,
		CardExpMonth:   o.Card.ExpMonth,
		CardExpYear:    o.Card.ExpYear,
		Total:          o.Total,
		CreatedAt:      o.CreatedAt,
	}
	items := make([]store.OrderItemRow, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, store.OrderItemRow{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	if err := r.store.CreateOrder(row, items); err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.Order{}, err
		}
		return model.Order{}, fmt.Errorf("persist order: %v: %w", err, model.ErrLocalPersistence)
	}
	return r.GetOrderByID(o.ID)
}

func (r *OrderRepository) GetOrderByID(id string) (model.Order, error) {
	row, err := r.store.GetOrderByID(id)
	if err != nil {
		return model.Order{}, err
	}
	items, err := r.store.GetOrderItems(id)
	if err != nil {
		return model.Order{}, err
	}
	return toOrder(row, items), nil
}

func (r *OrderRepository) ListOrdersByCustomer(customerID string) ([]model.Order, error) {
	rows, err := r.store.ListOrdersByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		items, err := r.store.GetOrderItems(row.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toOrder(row, items))
	}
	return out, nil
}

func toOrder(row store.OrderRow, itemRows []store.OrderItemRow) model.Order {
	items := make([]model.OrderItem, 0, len(itemRows))
	for _, it := range itemRows {
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return model.Order{
		ID:         row.ID,
		CustomerID: row.CustomerID,
		Address: model.Address{
			Name:    row.AddressName,
			Country: row.AddressCountry,
			City:    row.AddressCity,
			Line:    row.AddressLine,
			ZipCode: row.AddressZip,
		},
		Card: model.Card{
			Brand:    row.CardBrand,
			Last4:    row.CardLast4,
			ExpMonth: row.CardExpMonth,
			ExpYear:  row.CardExpYear,
		},
		Items:     items,
		Total:     row.Total,
		CreatedAt: row.CreatedAt,
	}
}
