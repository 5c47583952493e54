package store

// Store is the relational persistence surface consumed by the
// repositories. Multi-row writes (customer delete cascade, order +
// items) are atomic inside the implementation.
type Store interface {
	// Customers
	CreateCustomer(c CustomerRow) error
	GetCustomerByID(id string) (CustomerRow, error)
	GetCustomerByEmail(email string) (CustomerRow, error)
	UpdateCustomer(c CustomerRow) error
	DeleteCustomerCascade(id string) error

	// Addresses
	CreateAddress(a AddressRow) error
	GetAddress(customerID, name string) (AddressRow, error)
	ListAddresses(customerID string) ([]AddressRow, error)
	DeleteAddress(customerID, name string) error

	// Cards (local fingerprint rows only)
	CreateCard(c CardRow) error
	GetCardByLast4(customerID string, last4 int64) (CardRow, error)
	DeleteCard(customerID, stripeCardID string) error

	// Cart
	UpsertCartItem(customerID, productID string, qty int) error
	GetCartItem(customerID, productID string) (CartRow, error)
	GetCart(customerID string) ([]CartRow, error)
	DeleteCartItem(customerID, productID string) error
	ClearCart(customerID string) error

	// Products
	CreateProduct(p ProductRow) error
	GetProductByID(id string) (ProductRow, error)
	ListProducts() ([]ProductRow, error)

	// Orders
	CreateOrder(o OrderRow, items []OrderItemRow) error
	GetOrderByID(id string) (OrderRow, error)
	ListOrdersByCustomer(customerID string) ([]OrderRow, error)
	GetOrderItems(orderID string) ([]OrderItemRow, error)

	Close() error
}
