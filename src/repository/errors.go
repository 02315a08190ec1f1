package repository

import "errors"

var (
	// ErrCredentialExists means the (user, exchange) pair already has a
	// credential. Surfaced as a 409 at the API boundary.
	ErrCredentialExists = errors.New("repository: credential already exists for this user and exchange")

	ErrCredentialNotFound = errors.New("repository: credential not found")
)

// insertBatchSize bounds each insert transaction during sync so a large
// backfill cannot hold row locks for the whole batch.
const insertBatchSize = 100
