package cmd

import (
	"context"

	"github.com/stretchr/testify/mock"

	"islet.dev/pkg/islet/internal/domain"
	m "islet.dev/pkg/islet/internal/model"
)

// mockWorkflow is a testify mock of domain.Workflow for command tests.
type mockWorkflow struct {
	mock.Mock
}

func newMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *mockWorkflow {
	mw := &mockWorkflow{}
	mw.Mock.Test(t)

	t.Cleanup(func() { mw.AssertExpectations(t) })

	return mw
}

func (mw *mockWorkflow) Test(ctx context.Context, args domain.TestArgs) (m.RunSummary, error) {
	called := mw.Called(ctx, args)

	return called.Get(0).(m.RunSummary), called.Error(1)
}

func (mw *mockWorkflow) List(ctx context.Context, root m.Path) ([]m.Path, error) {
	called := mw.Called(ctx, root)

	if called.Get(0) == nil {
		return nil, called.Error(1)
	}

	return called.Get(0).([]m.Path), called.Error(1)
}

func (mw *mockWorkflow) View(ctx context.Context, reports m.Path) error {
	return mw.Called(ctx, reports).Error(0)
}
