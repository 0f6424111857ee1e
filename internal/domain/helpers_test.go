package domain

import (
	"context"

	"islet.dev/pkg/islet/internal/adapter"
	m "islet.dev/pkg/islet/internal/model"
)

// nullUI exercises the runner without producing output.
type nullUI struct{}

func (nullUI) Start(context.Context) error                      { return nil }
func (nullUI) Close(context.Context)                            {}
func (nullUI) SuiteStarted(context.Context, []m.Path)           {}
func (nullUI) FileStarted(context.Context, m.Path)              {}
func (nullUI) FileFinished(context.Context, m.FileResult)       {}
func (nullUI) DisplaySummary(context.Context, m.RunSummary) error { return nil }

func newMemorySource(units map[m.Locator]string) *adapter.MemoryUnitSourceAdapter {
	source := adapter.NewMemoryUnitSourceAdapter()

	for locator, body := range units {
		source.AddUnit(locator, body)
	}

	return source
}
