package store

import (
	"fmt"

	"github.com/lib/pq"

	"shopping-backend/model"
)

func (s *PostgresStore) CreateProduct(p ProductRow) error {
	_, err := s.DB.Exec(
		`INSERT INTO products (id, category, brand, name, description, price, images, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Category, p.Brand, p.Name, p.Description, p.Price, pq.Array(p.Images), p.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("product %s: %w", p.ID, model.ErrAlreadyExists)
	}
	return err
}

func (s *PostgresStore) GetProductByID(id string) (ProductRow, error) {
	var p ProductRow
	err := s.DB.QueryRow(
		`SELECT id, category, brand, name, description, price, images, created_at
		 FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Category, &p.Brand, &p.Name, &p.Description, &p.Price, &p.Images, &p.CreatedAt)
	if err != nil {
		return ProductRow{}, fmt.Errorf("product %s: %w", id, mapRowErr(err))
	}
	return p, nil
}

func (s *PostgresStore) ListProducts() ([]ProductRow, error) {
	rows, err := s.DB.Query(
		`SELECT id, category, brand, name, description, price, images, created_at
		 FROM products ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ProductRow{}
	for rows.Next() {
		var p ProductRow
		if err := rows.Scan(&p.ID, &p.Category, &p.Brand, &p.Name, &p.Description, &p.Price, &p.Images, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
