package domain

import (
	"errors"
	"strings"
	"testing"

	m "islet.dev/pkg/islet/internal/model"
	"islet.dev/pkg/islet/internal/script"
)

func newTestTable(units map[m.Locator]string) (*DeclarationTable, *Sandbox) {
	sandbox := NewSandbox()
	loader := NewLoader(newMemorySource(units), sandbox)

	return NewDeclarationTable(loader, sandbox), sandbox
}

func TestDeclarationTable_DeclareInstallsAliases(t *testing.T) {
	table, sandbox := newTestTable(map[m.Locator]string{
		"people_impl": `
people = {count: 3}

if standalone then
	exports = people
end
`,
		"settings_impl": `
settings = {theme: "dark"}

if standalone then
	exports = settings
end
`,
	})

	err := table.Declare([]Declaration{
		{Alias: "people", Locator: "people_impl"},
		{Alias: "settings", Locator: "settings_impl"},
	})
	if err != nil {
		t.Fatalf("Declare failed: %v", err)
	}

	people, err := sandbox.Get("people")
	if err != nil {
		t.Fatalf("expected people alias to be installed: %v", err)
	}

	count, _ := people.(*script.Namespace).Get("count")
	if count != script.Number(3) {
		t.Fatalf("expected the real export under the alias, got %v", count)
	}

	if _, err := sandbox.Get("settings"); err != nil {
		t.Fatalf("expected settings alias to be installed: %v", err)
	}
}

func TestDeclarationTable_DeclareUnknownLocatorNamesAlias(t *testing.T) {
	table, sandbox := newTestTable(nil)

	err := table.Declare([]Declaration{{Alias: "people", Locator: "missing"}})
	if !errors.Is(err, ErrUnitNotFound) {
		t.Fatalf("expected ErrUnitNotFound, got %v", err)
	}

	if !strings.Contains(err.Error(), `declare "people"`) {
		t.Fatalf("expected the alias in the error, got %q", err)
	}

	// The failing entry must not be half-installed.
	if _, err := sandbox.Get("people"); !errors.Is(err, ErrUnknownAlias) {
		t.Fatalf("expected no installation after a failed declare, got %v", err)
	}
}

func TestDeclarationTable_RedeclareReplacesStub(t *testing.T) {
	table, sandbox := newTestTable(map[m.Locator]string{"people_impl": `
people = {real: true}

if standalone then
	exports = people
end
`})

	sandbox.Set("people", script.String("stubbed"))

	err := table.Declare([]Declaration{{Alias: "people", Locator: "people_impl"}})
	if err != nil {
		t.Fatalf("Declare failed: %v", err)
	}

	v, _ := sandbox.Get("people")
	if _, ok := v.(*script.Namespace); !ok {
		t.Fatalf("expected the declared export to replace the stub, got %s", script.TypeName(v))
	}
}

func TestDeclarationTable_DuplicateAliasLastWriteWins(t *testing.T) {
	table, sandbox := newTestTable(map[m.Locator]string{
		"first": `
if standalone then
	exports = {origin: "first"}
end
`,
		"second": `
if standalone then
	exports = {origin: "second"}
end
`,
	})

	err := table.Declare([]Declaration{
		{Alias: "people", Locator: "first"},
		{Alias: "people", Locator: "second"},
	})
	if err != nil {
		t.Fatalf("Declare failed: %v", err)
	}

	v, _ := sandbox.Get("people")

	origin, _ := v.(*script.Namespace).Get("origin")
	if origin != script.String("second") {
		t.Fatalf("expected the last declaration to win, got %v", origin)
	}
}
