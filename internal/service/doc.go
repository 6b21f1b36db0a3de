// Package service holds the library's use cases: registering books and users,
// and moving loans through their lifecycle.
//
// Services depend only on the interfaces in internal/store. Operations that
// touch several entities run inside store.Transactor.WithinTx so a failed
// step leaves no partial change. Expected conditions are returned as the
// sentinel errors of this package, internal/store and internal/domain;
// anything else is wrapped in a ServiceError.
package service
