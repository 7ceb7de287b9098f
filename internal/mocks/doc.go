// Package mocks provides centralized mock implementations for testing.
//
// Mocks come in two flavors. The Mock* types hold function fields for each
// interface method, so a test overrides only the calls it cares about:
//
//	tasks := &mocks.MockTaskStore{
//	    GetByIDFn: func(ctx context.Context, id int64) (*domain.Task, error) {
//	        return nil, store.ErrTaskNotFound
//	    },
//	}
//
// The TestifyMock* types embed testify's mock.Mock for tests that assert on
// call expectations.
package mocks
