package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"shopping-backend/model"
)

// Row structs are direct images of DB rows.
type CustomerRow struct {
	ID        string
	StripeID  string
	Name      string
	Email     string
	Password  string
	ImageURL  sql.NullString
	CreatedAt time.Time
}

type AddressRow struct {
	CustomerID string
	Name       string
	Country    string
	City       string
	Line       string
	ZipCode    string
}

type CardRow struct {
	CustomerID   string
	StripeCardID string
	Last4        int64
}

type CartRow struct {
	ProductID string
	Quantity  int
}

type ProductRow struct {
	ID          string
	Category    string
	Brand       string
	Name        string
	Description sql.NullString
	Price       float64
	Images      pq.StringArray
	CreatedAt   time.Time
}

type OrderRow struct {
	ID             string
	CustomerID     string
	AddressName    string
	AddressCountry string
	AddressCity    string
	AddressLine    string
	AddressZip     string
	CardBrand      string
	CardLast4      int64
	CardExpMonth   int64
	CardExpYear    int64
	Total          float64
	CreatedAt      time.Time
}

type OrderItemRow struct {
	ProductID string
	Quantity  int
	Price     float64
}

// PostgresStore is a Store backed by Postgres.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// conflict, so callers can surface model.ErrAlreadyExists instead of a
// raw driver error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func mapRowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}
