package adapter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	m "islet.dev/pkg/islet/internal/model"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestLocalUnitSourceAdapter_ReadUnit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "people.isl"), `exports = {ok: true}`)
	writeFile(t, filepath.Join(root, "chat", "channel.isl"), `exports = {ok: true}`)

	source := NewLocalUnitSourceAdapter(m.Path(root))

	tests := []struct {
		name    string
		locator m.Locator
	}{
		{"extension omitted", "people"},
		{"extension given", "people.isl"},
		{"nested locator", "chat/channel"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			unit, err := source.ReadUnit(tc.locator)
			if err != nil {
				t.Fatalf("ReadUnit(%q) failed: %v", tc.locator, err)
			}

			if unit.Locator != tc.locator {
				t.Fatalf("expected locator %q, got %q", tc.locator, unit.Locator)
			}

			if unit.Body != `exports = {ok: true}` {
				t.Fatalf("unexpected body %q", unit.Body)
			}
		})
	}
}

func TestLocalUnitSourceAdapter_ReadUnitNotFound(t *testing.T) {
	source := NewLocalUnitSourceAdapter(m.Path(t.TempDir()))

	_, err := source.ReadUnit("ghost")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLocalUnitSourceAdapter_RejectsEscapingLocator(t *testing.T) {
	source := NewLocalUnitSourceAdapter(m.Path(t.TempDir()))

	for _, locator := range []m.Locator{"../secrets", "../../etc/passwd", ".."} {
		if _, err := source.ReadUnit(locator); err == nil {
			t.Fatalf("expected %q to be rejected", locator)
		}
	}
}

func TestMemoryUnitSourceAdapter_ResolvesWithAndWithoutExtension(t *testing.T) {
	source := NewMemoryUnitSourceAdapter()
	source.AddUnit("people", `exports = {ok: true}`)

	for _, locator := range []m.Locator{"people", "people.isl"} {
		unit, err := source.ReadUnit(locator)
		if err != nil {
			t.Fatalf("ReadUnit(%q) failed: %v", locator, err)
		}

		if unit.Path != "people" {
			t.Fatalf("expected the canonical path, got %q", unit.Path)
		}
	}

	if _, err := source.ReadUnit("missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLocalSuiteFSAdapter_DiscoverSortedAndFiltered(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.isl"), ``)
	writeFile(t, filepath.Join(root, "a.isl"), ``)
	writeFile(t, filepath.Join(root, "sub", "c.isl"), ``)
	writeFile(t, filepath.Join(root, "notes.txt"), ``)

	suite := NewLocalSuiteFSAdapter()

	files, err := suite.Discover(m.Path(root))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []m.Path{
		m.Path(filepath.Join(root, "a.isl")),
		m.Path(filepath.Join(root, "b.isl")),
		m.Path(filepath.Join(root, "sub", "c.isl")),
	}

	if !reflect.DeepEqual(files, want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
}

func TestLocalSuiteFSAdapter_ReadTest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.isl")
	writeFile(t, path, `run("x", func() end)`)

	suite := NewLocalSuiteFSAdapter()

	body, err := suite.ReadTest(m.Path(path))
	if err != nil {
		t.Fatalf("ReadTest failed: %v", err)
	}

	if body != `run("x", func() end)` {
		t.Fatalf("unexpected body %q", body)
	}

	if _, err := suite.ReadTest(m.Path(filepath.Join(root, "ghost.isl"))); err == nil {
		t.Fatal("expected an error for a missing test file")
	}
}

func TestMemorySuiteFSAdapter_DiscoverScopedToRoot(t *testing.T) {
	suite := NewMemorySuiteFSAdapter()
	suite.AddTest("tests/b.isl", ``)
	suite.AddTest("tests/a.isl", ``)
	suite.AddTest("other/c.isl", ``)

	files, err := suite.Discover("tests")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []m.Path{"tests/a.isl", "tests/b.isl"}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
}
