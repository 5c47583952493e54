package store

import (
	"fmt"

	"shopping-backend/model"
)

func (s *PostgresStore) CreateAddress(a AddressRow) error {
	_, err := s.DB.Exec(
		`INSERT INTO customer_addresses (customer_id, name, country, city, line, zip_code)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.CustomerID, a.Name, a.Country, a.City, a.Line, a.ZipCode,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("address %s: %w", a.Name, model.ErrAlreadyExists)
	}
	return err
}

func (s *PostgresStore) GetAddress(customerID, name string) (AddressRow, error) {
	var a AddressRow
	err := s.DB.QueryRow(
		`SELECT customer_id, name, country, city, line, zip_code
		 FROM customer_addresses WHERE customer_id = $1 AND name = $2`,
		customerID, name,
	).Scan(&a.CustomerID, &a.Name, &a.Country, &a.City, &a.Line, &a.ZipCode)
	if err != nil {
		return AddressRow{}, fmt.Errorf("address %s: %w", name, mapRowErr(err))
	}
	return a, nil
}

func (s *PostgresStore) ListAddresses(customerID string) ([]AddressRow, error) {
	rows, err := s.DB.Query(
		`SELECT customer_id, name, country, city, line, zip_code
		 FROM customer_addresses WHERE customer_id = $1 ORDER BY name`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AddressRow{}
	for rows.Next() {
		var a AddressRow
		if err := rows.Scan(&a.CustomerID, &a.Name, &a.Country, &a.City, &a.Line, &a.ZipCode); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteAddress(customerID, name string) error {
	res, err := s.DB.Exec(
		`DELETE FROM customer_addresses WHERE customer_id = $1 AND name = $2`,
		customerID, name,
	)
	if err != nil {
		return err
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return fmt.Errorf("address %s: %w", name, model.ErrNotFound)
	}
	return nil
}
