package model

import "errors"

// Sentinel errors shared across the store, repository and service layers.
// Callers inspect them with errors.Is; lower layers wrap them with context
// via fmt.Errorf("...: %w", ...).
var (
	// ErrNotFound means the requested entity does not exist, or does not
	// belong to the requesting customer.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is a unique-constraint conflict (duplicate email,
	// duplicate address name, duplicate cart item).
	ErrAlreadyExists = errors.New("already exists")

	// ErrPaymentProvider covers any failed remote payment call: network
	// error, timeout, declined card, invalid token.
	ErrPaymentProvider = errors.New("payment provider failure")

	// ErrLocalPersistence is a store-level failure that is not a
	// constraint conflict.
	ErrLocalPersistence = errors.New("local persistence failure")

	// ErrCompensationFailed means a best-effort rollback of a remote
	// side effect did not succeed. The remote system may now hold an
	// orphan resource; the failure is logged before being surfaced.
	ErrCompensationFailed = errors.New("compensation failed")

	// ErrInvalidState rejects an operation whose preconditions do not
	// hold, e.g. checking out an empty cart.
	ErrInvalidState = errors.New("invalid state")
)
