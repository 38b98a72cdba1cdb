package monzo

import (
	"context"
)

// API defines the read operations offered by Client.
// Consumers should depend on this interface so tests can substitute a fake.
type API interface {
	Accounts(ctx context.Context) ([]Account, error)
	Balance(ctx context.Context, accountID string) (*Balance, error)
	Transactions(ctx context.Context, accountID string) ([]Transaction, error)
	Transaction(ctx context.Context, accountID, transactionID string) (*Transaction, error)
	Pots(ctx context.Context) ([]Pot, error)
}
