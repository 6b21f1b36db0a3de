// Package mocks provides function-field mocks of the store and event
// interfaces.
//
// Each mock method calls the matching Fn field when it is set and otherwise
// returns a zero value or the entity's not-found error:
//
//	books := &mocks.MockBookStore{
//	    GetByIDFn: func(ctx context.Context, id int64) (*domain.Book, error) {
//	        return nil, errors.New("connection refused")
//	    },
//	}
//
// MockTransactor passes its Stores to the unit of work, so a service under
// test sees the same mocks inside and outside a transaction.
package mocks
