package store

import (
	"fmt"

	"shopping-backend/model"
)

func (s *PostgresStore) CreateCustomer(c CustomerRow) error {
	_, err := s.DB.Exec(
		`INSERT INTO customers (id, stripe_id, name, email, password, image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.StripeID, c.Name, c.Email, c.Password, c.ImageURL, c.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("customer %s: %w", c.Email, model.ErrAlreadyExists)
	}
	return err
}

func (s *PostgresStore) GetCustomerByID(id string) (CustomerRow, error) {
	var c CustomerRow
	err := s.DB.QueryRow(
		`SELECT id, stripe_id, name, email, password, image_url, created_at
		 FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.StripeID, &c.Name, &c.Email, &c.Password, &c.ImageURL, &c.CreatedAt)
	if err != nil {
		return CustomerRow{}, fmt.Errorf("customer %s: %w", id, mapRowErr(err))
	}
	return c, nil
}

func (s *PostgresStore) GetCustomerByEmail(email string) (CustomerRow, error) {
	var c CustomerRow
	err := s.DB.QueryRow(
		`SELECT id, stripe_id, name, email, password, image_url, created_at
		 FROM customers WHERE email = $1`, email,
	).Scan(&c.ID, &c.StripeID, &c.Name, &c.Email, &c.Password, &c.ImageURL, &c.CreatedAt)
	if err != nil {
		return CustomerRow{}, fmt.Errorf("customer %s: %w", email, mapRowErr(err))
	}
	return c, nil
}

func (s *PostgresStore) UpdateCustomer(c CustomerRow) error {
	res, err := s.DB.Exec(
		`UPDATE customers SET name = $1, email = $2, password = $3, image_url = $4 WHERE id = $5`,
		c.Name, c.Email, c.Password, c.ImageURL, c.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("customer %s: %w", c.Email, model.ErrAlreadyExists)
	}
	if err != nil {
		return err
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return fmt.Errorf("customer %s: %w", c.ID, model.ErrNotFound)
	}
	return nil
}

// DeleteCustomerCascade removes the customer row together with its
// addresses, cards and cart items in one transaction, so concurrent
// readers never observe a half-deleted account.
func (s *PostgresStore) DeleteCustomerCascade(id string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE customer_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM customer_cards WHERE customer_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM customer_addresses WHERE customer_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return fmt.Errorf("customer %s: %w", id, model.ErrNotFound)
	}
	return tx.Commit()
}
