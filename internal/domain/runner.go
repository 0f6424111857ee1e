package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"islet.dev/pkg/islet/internal/adapter"
	"islet.dev/pkg/islet/internal/controller"
	m "islet.dev/pkg/islet/internal/model"
	"islet.dev/pkg/islet/internal/script"
)

// Runner discovers test files and executes each in a freshly reset
// sandbox, collecting assertion results into a run summary. Execution is
// strictly sequential in discovery order: the sandbox is shared state
// within a file and must never be shared across files.
type Runner interface {
	Discover(root m.Path) ([]m.Path, error)
	Run(ctx context.Context, args RunArgs) (m.RunSummary, error)
}

// RunArgs configures one run.
type RunArgs struct {
	// TestRoot is the directory test files are discovered under.
	TestRoot m.Path
	// Single, when set, restricts the run to that one file.
	Single m.Path
}

type runner struct {
	suite   adapter.SuiteFSAdapter
	source  adapter.UnitSourceAdapter
	sandbox *Sandbox
	ui      controller.UI
}

// NewRunner constructs a Runner over the given suite and unit adapters.
// The runner owns the sandbox's lifecycle across files.
func NewRunner(suite adapter.SuiteFSAdapter, source adapter.UnitSourceAdapter, sandbox *Sandbox, ui controller.UI) Runner {
	return &runner{
		suite:   suite,
		source:  source,
		sandbox: sandbox,
		ui:      ui,
	}
}

// Discover returns the eligible test files under root.
func (r *runner) Discover(root m.Path) ([]m.Path, error) {
	return r.suite.Discover(root)
}

// Run executes the suite. A file's fatal error is recorded as that file's
// failure and never aborts the run; the error return covers run-level
// problems only (discovery failure, cancellation).
func (r *runner) Run(ctx context.Context, args RunArgs) (m.RunSummary, error) {
	summary := m.RunSummary{
		ID:      uuid.NewString(),
		Started: time.Now(),
	}

	files := []m.Path{args.Single}
	if args.Single == "" {
		discovered, err := r.Discover(args.TestRoot)
		if err != nil {
			return summary, err
		}

		files = discovered
	}

	// Teardown: no alias outlives the run.
	defer r.sandbox.Reset()

	r.ui.SuiteStarted(ctx, files)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		r.ui.FileStarted(ctx, file)

		result := r.runFile(file)
		summary.Files = append(summary.Files, result)

		r.ui.FileFinished(ctx, result)
	}

	summary.Elapsed = time.Since(summary.Started)

	return summary, nil
}

// runFile executes one test file against a fresh sandbox. Parse and
// execution errors outside assertion blocks are fatal for this file only:
// blocks already recorded are kept, the remainder is skipped, and the
// runner proceeds to the next file.
func (r *runner) runFile(file m.Path) m.FileResult {
	start := time.Now()

	r.sandbox.Reset()

	host := NewHost(r.sandbox, r.source)
	result := m.FileResult{File: file}

	err := r.execFile(file, host)

	result.Blocks = host.Results()
	result.Captures = host.Captures()
	result.Elapsed = time.Since(start)

	if err != nil {
		result.Fatal = fmt.Sprintf("%s: %s", ErrorKind(err), err)

		slog.Error("test file failed",
			"file", file,
			"kind", ErrorKind(err),
			"error", err,
		)
	}

	return result
}

func (r *runner) execFile(file m.Path, host *Host) error {
	body, err := r.suite.ReadTest(file)
	if err != nil {
		return err
	}

	stmts, err := script.Parse(body)
	if err != nil {
		return err
	}

	return script.Exec(stmts, script.NewBarrierEnv(host.Env()))
}
