// Package postgres provides PostgreSQL implementations of the store
// interfaces and the embedded goose migrations that create the schema.
package postgres
