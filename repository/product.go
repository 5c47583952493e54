package repository

import (
	"shopping-backend/model"
	"shopping-backend/store"
)

// ProductRepository is plain local reads/writes; the checkout flow only
// ever consumes the current price.
type ProductRepository struct {
	store store.Store
}

func NewProductRepository(s store.Store) *ProductRepository {
	return &ProductRepository{store: s}
}

func (r *ProductRepository) CreateProduct(p model.Product) (model.Product, error) {
	row := store.ProductRow{
		ID:          p.ID,
		Category:    p.Category,
		Brand:       p.Brand,
		Name:        p.Name,
		Description: toNullString(p.Description),
		Price:       p.Price,
		Images:      p.Images,
		CreatedAt:   p.CreatedAt,
	}
	if err := r.store.CreateProduct(row); err != nil {
		return model.Product{}, err
	}
	return r.GetProductByID(p.ID)
}

func (r *ProductRepository) GetProductByID(id string) (model.Product, error) {
	row, err := r.store.GetProductByID(id)
	if err != nil {
		return model.Product{}, err
	}
	return toProduct(row), nil
}

func (r *ProductRepository) ListProducts() ([]model.Product, error) {
	rows, err := r.store.ListProducts()
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, toProduct(row))
	}
	return out, nil
}

func toProduct(row store.ProductRow) model.Product {
	p := model.Product{
		ID:        row.ID,
		Category:  row.Category,
		Brand:     row.Brand,
		Name:      row.Name,
		Price:     row.Price,
		Images:    row.Images,
		CreatedAt: row.CreatedAt,
	}
	if row.Description.Valid {
		p.Description = row.Description.String
	}
	return p
}
