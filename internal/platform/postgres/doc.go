// Package postgres provides PostgreSQL implementations of the store
// interfaces. Queries are built with goqu, identifiers come from BIGSERIAL
// columns, and driver errors are mapped to store errors by MapError.
// The schema lives in embedded goose migrations.
package postgres
