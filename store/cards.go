package store

import (
	"fmt"

	"shopping-backend/model"
)

func (s *PostgresStore) CreateCard(c CardRow) error {
	_, err := s.DB.Exec(
		`INSERT INTO customer_cards (customer_id, stripe_card_id, last4)
		 VALUES ($1, $2, $3)`,
		c.CustomerID, c.StripeCardID, c.Last4,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("card %d: %w", c.Last4, model.ErrAlreadyExists)
	}
	return err
}

func (s *PostgresStore) GetCardByLast4(customerID string, last4 int64) (CardRow, error) {
	var c CardRow
	err := s.DB.QueryRow(
		`SELECT customer_id, stripe_card_id, last4
		 FROM customer_cards WHERE customer_id = $1 AND last4 = $2`,
		customerID, last4,
	).Scan(&c.CustomerID, &c.StripeCardID, &c.Last4)
	if err != nil {
		return CardRow{}, fmt.Errorf("card %d: %w", last4, mapRowErr(err))
	}
	return c, nil
}

func (s *PostgresStore) DeleteCard(customerID, stripeCardID string) error {
	res, err := s.DB.Exec(
		`DELETE FROM customer_cards WHERE customer_id = $1 AND stripe_card_id = $2`,
		customerID, stripeCardID,
	)
	if err != nil {
		return err
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return fmt.Errorf("card %s: %w", stripeCardID, model.ErrNotFound)
	}
	return nil
}
