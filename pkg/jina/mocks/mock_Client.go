// Package mocks provides test doubles for the jina client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	jina "github.com/sells-group/people-finder/pkg/jina"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Read provides a mock function with given fields: ctx, targetURL
func (_m *MockClient) Read(ctx context.Context, targetURL string) (*jina.ReadResponse, error) {
	ret := _m.Called(ctx, targetURL)

	if len(ret) == 0 {
		panic("no return value specified for Read")
	}

	var r0 *jina.ReadResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*jina.ReadResponse, error)); ok {
		return rf(ctx, targetURL)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*jina.ReadResponse)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// Search provides a mock function with given fields: ctx, query
func (_m *MockClient) Search(ctx context.Context, query string) (*jina.SearchResponse, error) {
	ret := _m.Called(ctx, query)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 *jina.SearchResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*jina.SearchResponse, error)); ok {
		return rf(ctx, query)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*jina.SearchResponse)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
