package checkpoint

import "context"

// ObjectProvider is the abstract capability the change engines consult for
// any prior-version object lookup. Implementations (a network client, a
// database-backed store, a test mock) must be safe for concurrent use and
// may block on I/O; every method takes a context so callers can bound that
// wait.
//
// This is deliberately a two-method interface rather than a tagged variant:
// implementations vary too widely (network, database, in-memory fixture)
// for a closed set of cases to make sense (spec.md §9 Design Notes).
type ObjectProvider interface {
	// Get fetches the object at exactly the given version. Returns
	// ErrNotFound if the pair is unknown.
	Get(ctx context.Context, id ObjectID, version SequenceNumber) (Object, error)

	// FindLE returns the object at the greatest known version <= version,
	// or ok == false if no such version is known.
	FindLE(ctx context.Context, id ObjectID, version SequenceNumber) (obj Object, ok bool, err error)
}
