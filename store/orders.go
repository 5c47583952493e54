package store

import "fmt"

// CreateOrder persists the order row and all of its items atomically, so
// a committed order is never missing line items.
func (s *PostgresStore) CreateOrder(o OrderRow, items []OrderItemRow) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO orders (id, customer_id, address_name, address_country, address_city,
		                     address_line, address_zip, card_brand, card_last4,
		                     card_exp_month, card_exp_year, total, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.CustomerID, o.AddressName, o.AddressCountry, o.AddressCity,
		o.AddressLine, o.AddressZip, o.CardBrand, o.CardLast4,
		o.CardExpMonth, o.CardExpYear, o.Total, o.CreatedAt,
	); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.Exec(o.ID, it.ProductID, it.Quantity, it.Price); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) GetOrderByID(id string) (OrderRow, error) {
	var o OrderRow
	err := s.DB.QueryRow(
		`SELECT id, customer_id, address_name, address_country, address_city,
		        address_line, address_zip, card_brand, card_last4,
		        card_exp_month, card_exp_year, total, created_at
		 FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.CustomerID, &o.AddressName, &o.AddressCountry, &o.AddressCity,
		&o.AddressLine, &o.AddressZip, &o.CardBrand, &o.CardLast4,
		&o.CardExpMonth, &o.CardExpYear, &o.Total, &o.CreatedAt)
	if err != nil {
		return OrderRow{}, fmt.Errorf("order %s: %w", id, mapRowErr(err))
	}
	return o, nil
}

func (s *PostgresStore) ListOrdersByCustomer(customerID string) ([]OrderRow, error) {
	rows, err := s.DB.Query(
		`SELECT id, customer_id, address_name, address_country, address_city,
		        address_line, address_zip, card_brand, card_last4,
		        card_exp_month, card_exp_year, total, created_at
		 FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []OrderRow{}
	for rows.Next() {
		var o OrderRow
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.AddressName, &o.AddressCountry, &o.AddressCity,
			&o.AddressLine, &o.AddressZip, &o.CardBrand, &o.CardLast4,
			&o.CardExpMonth, &o.CardExpYear, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetOrderItems(orderID string) ([]OrderItemRow, error) {
	rows, err := s.DB.Query(
		`SELECT product_id, quantity, price FROM order_items WHERE order_id = $1 ORDER BY product_id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []OrderItemRow{}
	for rows.Next() {
		var it OrderItemRow
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
