package domain

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"islet.dev/pkg/islet/internal/adapter"
	"islet.dev/pkg/islet/internal/controller"
	m "islet.dev/pkg/islet/internal/model"
)

// Workflow orchestrates a run end to end: execute the suite, persist the
// report and the rendered-output artifact, and hand the summary to the UI.
type Workflow interface {
	Test(ctx context.Context, args TestArgs) (m.RunSummary, error)
	List(ctx context.Context, root m.Path) ([]m.Path, error)
	View(ctx context.Context, reports m.Path) error
}

// TestArgs configures a Workflow.Test call.
type TestArgs struct {
	TestRoot m.Path
	Single   m.Path
	Reports  m.Path
	Artifact m.Path
}

type workflow struct {
	runner    Runner
	store     adapter.ReportStore
	artifacts adapter.ArtifactWriter
	ui        controller.UI
}

// NewWorkflow constructs a Workflow over the given runner and adapters.
func NewWorkflow(runner Runner, store adapter.ReportStore, artifacts adapter.ArtifactWriter, ui controller.UI) Workflow {
	return &workflow{
		runner:    runner,
		store:     store,
		artifacts: artifacts,
		ui:        ui,
	}
}

// Test runs the suite and persists its outputs. The returned summary is
// valid even when persistence fails; the caller decides the exit code
// from summary.Ok().
func (w *workflow) Test(ctx context.Context, args TestArgs) (m.RunSummary, error) {
	if err := w.ui.Start(ctx); err != nil {
		return m.RunSummary{}, err
	}
	defer w.ui.Close(ctx)

	summary, err := w.runner.Run(ctx, RunArgs{TestRoot: args.TestRoot, Single: args.Single})
	if err != nil {
		return summary, err
	}

	// Report and artifact are independent outputs.
	var group errgroup.Group

	group.Go(func() error {
		path, err := w.store.SaveSummary(args.Reports, summary)
		if err != nil {
			slog.Error("failed to save run report", "dir", args.Reports, "error", err)
			return err
		}

		slog.Info("run report saved", "path", path)

		return nil
	})

	group.Go(func() error {
		if err := w.artifacts.Write(args.Artifact, summary); err != nil {
			slog.Error("failed to write rendered-output artifact", "path", args.Artifact, "error", err)
			return err
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return summary, err
	}

	if err := w.ui.DisplaySummary(ctx, summary); err != nil {
		return summary, err
	}

	return summary, nil
}

// List returns the discovered test files without running them.
func (w *workflow) List(_ context.Context, root m.Path) ([]m.Path, error) {
	return w.runner.Discover(root)
}

// View renders the most recently saved report.
func (w *workflow) View(ctx context.Context, reports m.Path) error {
	summary, err := w.store.LoadLatest(reports)
	if err != nil {
		return err
	}

	return w.ui.DisplaySummary(ctx, summary)
}
