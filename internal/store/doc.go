// Package store defines the persistence interfaces for the course catalog:
// the four taxonomy stores, the course store with its filter type, the DBTX
// abstraction over connections and transactions, and the shared transaction
// helper. Implementations live in internal/platform/postgres.
package store
