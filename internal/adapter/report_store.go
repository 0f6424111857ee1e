package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "islet.dev/pkg/islet/internal/model"
)

// latestReportName is the well-known file the view command reads.
const latestReportName = "latest.yaml"

// ReportStore persists run summaries.
type ReportStore interface {
	SaveSummary(dir m.Path, summary m.RunSummary) (m.Path, error)
	LoadLatest(dir m.Path) (m.RunSummary, error)
}

// LocalReportStore writes YAML run reports under a reports directory: one
// file per run plus a "latest" copy for quick viewing.
type LocalReportStore struct{}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore() *LocalReportStore {
	return &LocalReportStore{}
}

// SaveSummary writes the summary and returns the per-run report path.
func (s *LocalReportStore) SaveSummary(dir m.Path, summary m.RunSummary) (m.Path, error) {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	data, err := yaml.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	runPath := filepath.Join(string(dir), "run-"+summary.ID+".yaml")

	for _, path := range []string{runPath, filepath.Join(string(dir), latestReportName)} {
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return "", fmt.Errorf("write report %q: %w", path, err)
		}
	}

	return m.Path(runPath), nil
}

// LoadLatest reads the most recent run summary from dir.
func (s *LocalReportStore) LoadLatest(dir m.Path) (m.RunSummary, error) {
	data, err := os.ReadFile(filepath.Join(string(dir), latestReportName))
	if err != nil {
		return m.RunSummary{}, fmt.Errorf("read latest report: %w", err)
	}

	var summary m.RunSummary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return m.RunSummary{}, fmt.Errorf("decode latest report: %w", err)
	}

	return summary, nil
}
