// Package mocks holds testify mocks for the store boundary.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/owl2lpg/api/schemas"
	"github.com/xkilldash9x/owl2lpg/internal/cypher"
)

var _ cypher.Store = (*MockStore)(nil)

// -- Store Mock --

// MockStore mocks the cypher.Store interface.
type MockStore struct {
	mock.Mock
}

// Run provides a mock function for statement execution.
func (m *MockStore) Run(ctx context.Context, stmts []cypher.Statement) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return m.Called(ctx, stmts).Error(0)
}

// ReadPaths provides a mock function for path queries.
func (m *MockStore) ReadPaths(ctx context.Context, q cypher.ReadQuery) ([]schemas.Path, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schemas.Path), args.Error(1)
}

// Reload provides a mock function for targeted reloads.
func (m *MockStore) Reload(ctx context.Context, id schemas.NodeID, hops int) ([]schemas.Path, error) {
	args := m.Called(ctx, id, hops)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schemas.Path), args.Error(1)
}

// -- Runner Mock --

// MockRunner mocks the cypher.Runner interface and keeps every batch it is given.
type MockRunner struct {
	mock.Mock
	Batches [][]cypher.Statement
}

// Run records the batch before returning the configured result.
func (m *MockRunner) Run(ctx context.Context, stmts []cypher.Statement) error {
	m.Batches = append(m.Batches, stmts)
	return m.Called(ctx, stmts).Error(0)
}
