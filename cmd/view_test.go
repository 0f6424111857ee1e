package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	m "islet.dev/pkg/islet/internal/model"
)

func TestViewCmd_ShowsLatestReport(t *testing.T) {
	mw := newMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mw
	t.Cleanup(func() { workflow = originalWorkflow })

	mw.On("View", mock.Anything, m.Path(".islet-reports")).Return(nil)

	cmd.SetArgs([]string{"view"})
	require.NoError(t, cmd.Execute())
}

func TestViewCmd_NoReportYet(t *testing.T) {
	mw := newMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mw
	t.Cleanup(func() { workflow = originalWorkflow })

	wantErr := errors.New("read latest report: file does not exist")
	mw.On("View", mock.Anything, mock.Anything).Return(wantErr)

	cmd.SetArgs([]string{"view"})
	require.ErrorIs(t, cmd.Execute(), wantErr)
}
