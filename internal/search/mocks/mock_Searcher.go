// Package mocks provides test doubles for the search capability.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/sells-group/people-finder/internal/model"
)

// MockSearcher is a mock type for the Searcher interface.
type MockSearcher struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, query, maxResults
func (_m *MockSearcher) Search(ctx context.Context, query string, maxResults int) ([]model.Source, error) {
	ret := _m.Called(ctx, query, maxResults)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 []model.Source
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int) ([]model.Source, error)); ok {
		return rf(ctx, query, maxResults)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Source)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockSearcher creates a new instance of MockSearcher.
func NewMockSearcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSearcher {
	m := &MockSearcher{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
