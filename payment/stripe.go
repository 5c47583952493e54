package payment

import (
	"context"
	"math"
	"strconv"
	"time"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// DefaultTimeout bounds every remote call. A timed-out call is ambiguous
// (money may or may not have moved); callers treat it as a provider
// failure and do not persist.
const DefaultTimeout = 10 * time.Second

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct {
	api     *client.API
	timeout time.Duration
}

func NewStripeProvider(apiKey string) *StripeProvider {
	return &StripeProvider{
		api:     client.New(apiKey, nil),
		timeout: DefaultTimeout,
	}
}

func (p *StripeProvider) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.timeout)
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, name, email string) (Customer, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(name),
		Email:  stripe.String(email),
	}
	c, err := p.api.Customers.New(params)
	if err != nil {
		return Customer{}, err
	}
	return Customer{ID: c.ID, Name: c.Name, Email: c.Email}, nil
}

func (p *StripeProvider) UpdateCustomer(ctx context.Context, id, name, email string) (Customer, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(name),
		Email:  stripe.String(email),
	}
	c, err := p.api.Customers.Update(id, params)
	if err != nil {
		return Customer{}, err
	}
	return Customer{ID: c.ID, Name: c.Name, Email: c.Email}, nil
}

func (p *StripeProvider) DeleteCustomer(ctx context.Context, id string) error {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	params := &stripe.CustomerParams{Params: stripe.Params{Context: ctx}}
	_, err := p.api.Customers.Del(id, params)
	return err
}

func (p *StripeProvider) CreateCard(ctx context.Context, customerID, source string) (Card, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	params := &stripe.CardParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
		Token:    stripe.String(source),
	}
	c, err := p.api.Cards.New(params)
	if err != nil {
		return Card{}, err
	}
	return toCard(c), nil
}

func (p *StripeProvider) GetCard(ctx context.Context, customerID, cardID string) (Card, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	params := &stripe.CardParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
	}
	c, err := p.api.Cards.Get(cardID, params)
	if err != nil {
		return Card{}, err
	}
	return toCard(c), nil
}

func (p *StripeProvider) ListCards(ctx context.Context, customerID string) ([]Card, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	params := &stripe.CardListParams{
		ListParams: stripe.ListParams{Context: ctx},
		Customer:   stripe.String(customerID),
	}
	out := []Card{}
	iter := p.api.Cards.List(params)
	for iter.Next() {
		out = append(out, toCard(iter.Card()))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *StripeProvider) DeleteCard(ctx context.Context, customerID, cardID string) error {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	params := &stripe.CardParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
	}
	_, err := p.api.Cards.Del(cardID, params)
	return err
}

func (p *StripeProvider) ChargeCard(ctx context.Context, customerID, cardID string, amount float64) error {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	params := &stripe.ChargeParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(toCents(amount)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerID),
	}
	if err := params.SetSource(cardID); err != nil {
		return err
	}
	_, err := p.api.Charges.New(params)
	return err
}

// toCents converts a price in dollars to Stripe's minor units.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func toCard(c *stripe.Card) Card {
	last4, _ := strconv.ParseInt(c.Last4, 10, 64)
	return Card{
		ID:       c.ID,
		Brand:    string(c.Brand),
		Last4:    last4,
		ExpMonth: c.ExpMonth,
		ExpYear:  c.ExpYear,
	}
}
