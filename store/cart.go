package store

import (
	"fmt"

	"shopping-backend/model"
)

// UpsertCartItem keeps one row per (customer, product); a repeated add
// replaces the quantity.
func (s *PostgresStore) UpsertCartItem(customerID, productID string, qty int) error {
	_, err := s.DB.Exec(
		`INSERT INTO cart_items (customer_id, product_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (customer_id, product_id)
		 DO UPDATE SET quantity = EXCLUDED.quantity`,
		customerID, productID, qty,
	)
	return err
}

func (s *PostgresStore) GetCartItem(customerID, productID string) (CartRow, error) {
	var c CartRow
	err := s.DB.QueryRow(
		`SELECT product_id, quantity FROM cart_items
		 WHERE customer_id = $1 AND product_id = $2`,
		customerID, productID,
	).Scan(&c.ProductID, &c.Quantity)
	if err != nil {
		return CartRow{}, fmt.Errorf("cart item %s: %w", productID, mapRowErr(err))
	}
	return c, nil
}

func (s *PostgresStore) GetCart(customerID string) ([]CartRow, error) {
	rows, err := s.DB.Query(
		`SELECT product_id, quantity FROM cart_items WHERE customer_id = $1 ORDER BY product_id`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []CartRow{}
	for rows.Next() {
		var c CartRow
		if err := rows.Scan(&c.ProductID, &c.Quantity); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteCartItem(customerID, productID string) error {
	res, err := s.DB.Exec(
		`DELETE FROM cart_items WHERE customer_id = $1 AND product_id = $2`,
		customerID, productID,
	)
	if err != nil {
		return err
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return fmt.Errorf("cart item %s: %w", productID, model.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ClearCart(customerID string) error {
	_, err := s.DB.Exec(`DELETE FROM cart_items WHERE customer_id = $1`, customerID)
	return err
}
