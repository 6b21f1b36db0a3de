//go:build integration

// Package testdb connects integration tests to a real PostgreSQL database.
//
// Tests call GetTestDBWithT, which skips when no database URL is configured
// (and fails instead on CI), applies the embedded migrations and empties every
// table so each test starts from a known state:
//
//	db := testdb.GetTestDBWithT(t)
//	catalog := postgres.NewDB(db, logger)
package testdb
