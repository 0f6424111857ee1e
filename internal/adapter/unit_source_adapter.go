// Package adapter contains the filesystem and persistence adapters for the
// islet CLI.
package adapter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	m "islet.dev/pkg/islet/internal/model"
)

// UnitExt is the source unit file extension. Locators may omit it.
const UnitExt = ".isl"

// UnitSourceAdapter resolves locator strings to source unit bodies. It
// hides the storage behind the loader so the harness's own tests can swap
// in in-memory fixtures. A locator that resolves to nothing yields an
// error wrapping fs.ErrNotExist.
type UnitSourceAdapter interface {
	ReadUnit(locator m.Locator) (m.SourceUnit, error)
}

// SuiteFSAdapter abstracts discovery and reading of test files so the
// runner logic can be tested without touching the disk.
type SuiteFSAdapter interface {
	// Discover returns every eligible test file under root in
	// lexicographic order.
	Discover(root m.Path) ([]m.Path, error)

	// ReadTest loads a test file's body.
	ReadTest(path m.Path) (string, error)
}

// LocalUnitSourceAdapter reads units from a configured root directory.
type LocalUnitSourceAdapter struct {
	root m.Path
}

// NewLocalUnitSourceAdapter constructs an adapter rooted at root.
func NewLocalUnitSourceAdapter(root m.Path) *LocalUnitSourceAdapter {
	return &LocalUnitSourceAdapter{root: root}
}

// ReadUnit resolves locator relative to the unit root and loads its body.
func (a *LocalUnitSourceAdapter) ReadUnit(locator m.Locator) (m.SourceUnit, error) {
	rel, err := normalizeLocator(locator)
	if err != nil {
		return m.SourceUnit{}, err
	}

	path := filepath.Join(string(a.root), rel)

	body, err := os.ReadFile(path) // #nosec G304 - path is confined to the unit root above
	if err != nil {
		if os.IsNotExist(err) {
			return m.SourceUnit{}, fmt.Errorf("locator %q: %w", locator, fs.ErrNotExist)
		}

		return m.SourceUnit{}, fmt.Errorf("read unit %q: %w", locator, err)
	}

	return m.SourceUnit{Locator: locator, Path: m.Path(path), Body: string(body)}, nil
}

// normalizeLocator cleans a locator, appends the unit extension when
// missing, and rejects paths escaping the unit root.
func normalizeLocator(locator m.Locator) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(string(locator)))

	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("locator %q escapes the unit root", locator)
	}

	if filepath.Ext(rel) == "" {
		rel += UnitExt
	}

	return rel, nil
}

// MemoryUnitSourceAdapter serves units from an in-memory fixture map. It
// backs the harness's own tests and any embedded suite.
type MemoryUnitSourceAdapter struct {
	units map[m.Locator]string
}

// NewMemoryUnitSourceAdapter constructs an empty in-memory adapter.
func NewMemoryUnitSourceAdapter() *MemoryUnitSourceAdapter {
	return &MemoryUnitSourceAdapter{units: map[m.Locator]string{}}
}

// AddUnit registers a unit body under locator, replacing any previous one.
func (a *MemoryUnitSourceAdapter) AddUnit(locator m.Locator, body string) {
	a.units[locator] = body
}

// ReadUnit returns the registered body for locator, with or without the
// unit extension.
func (a *MemoryUnitSourceAdapter) ReadUnit(locator m.Locator) (m.SourceUnit, error) {
	if body, ok := a.units[locator]; ok {
		return m.SourceUnit{Locator: locator, Path: m.Path(locator), Body: body}, nil
	}

	trimmed := m.Locator(strings.TrimSuffix(string(locator), UnitExt))
	if body, ok := a.units[trimmed]; ok {
		return m.SourceUnit{Locator: locator, Path: m.Path(trimmed), Body: body}, nil
	}

	return m.SourceUnit{}, fmt.Errorf("locator %q: %w", locator, fs.ErrNotExist)
}

// LocalSuiteFSAdapter discovers and reads test files on disk.
type LocalSuiteFSAdapter struct{}

// NewLocalSuiteFSAdapter constructs a LocalSuiteFSAdapter.
func NewLocalSuiteFSAdapter() *LocalSuiteFSAdapter {
	return &LocalSuiteFSAdapter{}
}

// Discover walks root and returns every *.isl file in lexicographic order
// so runs are deterministic across filesystems.
func (a *LocalSuiteFSAdapter) Discover(root m.Path) ([]m.Path, error) {
	var files []m.Path

	err := filepath.WalkDir(string(root), func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() || filepath.Ext(path) != UnitExt {
			return nil
		}

		files = append(files, m.Path(path))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover tests under %q: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

// ReadTest loads a test file's body from disk.
func (a *LocalSuiteFSAdapter) ReadTest(path m.Path) (string, error) {
	body, err := os.ReadFile(string(path)) // #nosec G304 - path comes from Discover
	if err != nil {
		return "", fmt.Errorf("read test %q: %w", path, err)
	}

	return string(body), nil
}

// MemorySuiteFSAdapter serves a fixed in-memory suite for tests.
type MemorySuiteFSAdapter struct {
	files map[m.Path]string
}

// NewMemorySuiteFSAdapter constructs an empty in-memory suite.
func NewMemorySuiteFSAdapter() *MemorySuiteFSAdapter {
	return &MemorySuiteFSAdapter{files: map[m.Path]string{}}
}

// AddTest registers a test file body under path.
func (a *MemorySuiteFSAdapter) AddTest(path m.Path, body string) {
	a.files[path] = body
}

// Discover returns every registered file under root in lexicographic order.
func (a *MemorySuiteFSAdapter) Discover(root m.Path) ([]m.Path, error) {
	var files []m.Path

	prefix := strings.TrimSuffix(string(root), "/") + "/"

	for path := range a.files {
		if root == "" || root == "." || strings.HasPrefix(string(path), prefix) {
			files = append(files, path)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

// ReadTest returns the registered body for path.
func (a *MemorySuiteFSAdapter) ReadTest(path m.Path) (string, error) {
	body, ok := a.files[path]
	if !ok {
		return "", fmt.Errorf("test %q: %w", path, fs.ErrNotExist)
	}

	return body, nil
}
