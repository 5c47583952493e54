package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"shopping-backend/model"
)

// ProductRegistry is the repository surface ProductService drives.
type ProductRegistry interface {
	CreateProduct(p model.Product) (model.Product, error)
	GetProductByID(id string) (model.Product, error)
	ListProducts() ([]model.Product, error)
}

type ProductService struct {
	products ProductRegistry
}

func NewProductService(products ProductRegistry) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) CreateProduct(category, brand, name, description string, price float64, images []string) (model.Product, error) {
	if name == "" {
		return model.Product{}, errors.New("name required")
	}
	if price < 0 {
		return model.Product{}, errors.New("price must be >= 0")
	}
	product := model.Product{
		ID:          uuid.NewString(),
		Category:    category,
		Brand:       brand,
		Name:        name,
		Description: description,
		Price:       price,
		Images:      images,
		CreatedAt:   time.Now().UTC(),
	}
	return s.products.CreateProduct(product)
}

func (s *ProductService) GetProduct(id string) (model.Product, error) {
	return s.products.GetProductByID(id)
}

func (s *ProductService) ListProducts() ([]model.Product, error) {
	return s.products.ListProducts()
}
