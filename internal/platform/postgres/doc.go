// Package postgres provides PostgreSQL implementations of the store
// interfaces. Uniqueness and referential integrity rely on the database's
// constraints; this package maps the driver's error codes onto the store
// package's sentinel errors.
package postgres
