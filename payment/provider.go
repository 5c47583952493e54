// Package payment wraps the external payment provider. The provider is
// the system of record for sensitive card data; callers only ever see
// opaque ids and non-sensitive card fingerprints.
package payment

import "context"

type Customer struct {
	ID    string
	Name  string
	Email string
}

type Card struct {
	ID       string
	Brand    string
	Last4    int64
	ExpMonth int64
	ExpYear  int64
}

// Provider is the remote payment capability. Every call can fail with a
// network-level error and carries a bounded timeout via ctx; there is no
// transactional coupling with the local store.
type Provider interface {
	CreateCustomer(ctx context.Context, name, email string) (Customer, error)
	UpdateCustomer(ctx context.Context, id, name, email string) (Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	CreateCard(ctx context.Context, customerID, source string) (Card, error)
	GetCard(ctx context.Context, customerID, cardID string) (Card, error)
	ListCards(ctx context.Context, customerID string) ([]Card, error)
	DeleteCard(ctx context.Context, customerID, cardID string) error

	ChargeCard(ctx context.Context, customerID, cardID string, amount float64) error
}

const (
	tokenMastercard = "tok_mastercard"
	tokenVisa       = "tok_visa"
)

// SourceForCVC picks a pre-tokenized test source by a deterministic rule
// on the CVC. Raw PAN/CVC are never transmitted; a real deployment would
// replace this with client-side tokenization.
func SourceForCVC(cvc int64) string {
	if cvc > 500 {
		return tokenMastercard
	}
	return tokenVisa
}
