package repository

import "context"

// TransactionManager groups several cart writes so that identity transitions
// (save the merged cart, drop the anonymous one) land together.
type TransactionManager interface {
	// Execute runs fn with a repository bound to one transaction. If fn returns an
	// error, the writes are discarded where the provider supports it.
	// Reads through the bound repository are not guaranteed to see writes made
	// earlier in the same transaction; load what you need before calling Execute.
	Execute(ctx context.Context, fn func(carts CartRepository) error) error
}
