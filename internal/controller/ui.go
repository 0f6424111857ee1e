// Package controller provides output controllers for displaying harness
// run progress and results.
package controller

import (
	"context"

	m "islet.dev/pkg/islet/internal/model"
)

// UI defines the interface for displaying a test run. Implementations can
// use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)

	// SuiteStarted announces discovery results before the first file runs.
	SuiteStarted(ctx context.Context, files []m.Path)

	// FileStarted announces that a test file is about to execute.
	FileStarted(ctx context.Context, file m.Path)

	// FileFinished reports one file's outcome as soon as it completes.
	FileFinished(ctx context.Context, result m.FileResult)

	// DisplaySummary renders the aggregate result after the last file.
	DisplaySummary(ctx context.Context, summary m.RunSummary) error
}
