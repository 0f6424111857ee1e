package model

import "time"

// BlockStatus represents the outcome of one assertion block.
type BlockStatus int

const (
	// Passed indicates every assertion in the block held.
	Passed BlockStatus = iota
	// Failed indicates an assertion failure was recorded.
	Failed
	// Skipped indicates the block never ran because an earlier fatal
	// error aborted the file.
	Skipped
)

// String returns the lowercase label used in reports and summaries.
func (s BlockStatus) String() string {
	switch s {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}

	return "unknown"
}

// BlockOutcome is the recorded result of a single assertion block.
type BlockOutcome struct {
	Name    string        `yaml:"name"`
	Status  BlockStatus   `yaml:"status"`
	Message string        `yaml:"message,omitempty"` // failure diagnostic, empty on pass
	Elapsed time.Duration `yaml:"elapsed"`
}

// Capture is a rendered-output string recorded by a block for later
// inspection in the run artifact.
type Capture struct {
	Block    string `yaml:"block"`
	Label    string `yaml:"label"`
	Rendered string `yaml:"rendered"`
}

// FileResult holds the outcome of one test file: the ordered block
// outcomes, any captures, and a fatal diagnostic when the file aborted
// outside an assertion block.
type FileResult struct {
	File     Path           `yaml:"file"`
	Blocks   []BlockOutcome `yaml:"blocks"`
	Captures []Capture      `yaml:"captures,omitempty"`
	Fatal    string         `yaml:"fatal,omitempty"`
	Elapsed  time.Duration  `yaml:"elapsed"`
}

// Failed reports whether the file contains any failure, fatal or per-block.
func (r FileResult) Failed() bool {
	if r.Fatal != "" {
		return true
	}

	for _, b := range r.Blocks {
		if b.Status == Failed {
			return true
		}
	}

	return false
}

// RunSummary aggregates one full run across all discovered test files.
type RunSummary struct {
	ID      string        `yaml:"id"`
	Started time.Time     `yaml:"started"`
	Elapsed time.Duration `yaml:"elapsed"`
	Files   []FileResult  `yaml:"files"`
}

// Totals returns the aggregate block counts across all files.
func (s RunSummary) Totals() (total, passed, failed int) {
	for _, f := range s.Files {
		for _, b := range f.Blocks {
			total++

			switch b.Status {
			case Passed:
				passed++
			case Failed:
				failed++
			case Skipped:
			}
		}
	}

	return total, passed, failed
}

// FailedFiles returns the number of files with at least one failure.
func (s RunSummary) FailedFiles() int {
	count := 0

	for _, f := range s.Files {
		if f.Failed() {
			count++
		}
	}

	return count
}

// Ok reports whether the run contained no failure of any kind.
func (s RunSummary) Ok() bool {
	return s.FailedFiles() == 0
}
