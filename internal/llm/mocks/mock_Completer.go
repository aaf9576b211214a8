// Package mocks provides test doubles for the llm backends.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	llm "github.com/sells-group/people-finder/internal/llm"
)

// MockCompleter is a mock type for the Completer interface.
type MockCompleter struct {
	mock.Mock
}

// Complete provides a mock function with given fields: ctx, req
func (_m *MockCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Complete")
	}

	if rf, ok := ret.Get(0).(func(context.Context, llm.Request) (string, error)); ok {
		return rf(ctx, req)
	}
	return ret.String(0), ret.Error(1)
}

// Name provides a mock function with no fields. It returns "mock" when no
// expectation is set.
func (_m *MockCompleter) Name() string {
	for _, c := range _m.ExpectedCalls {
		if c.Method == "Name" {
			return _m.Called().String(0)
		}
	}
	return "mock"
}

// NewMockCompleter creates a new instance of MockCompleter.
func NewMockCompleter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCompleter {
	m := &MockCompleter{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
