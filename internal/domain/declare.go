package domain

import (
	"fmt"
	"log/slog"

	m "islet.dev/pkg/islet/internal/model"
)

// Declaration is one (alias, locator) entry of a declaration call.
type Declaration struct {
	Alias   m.Alias
	Locator m.Locator
}

// DeclarationTable pre-populates the sandbox with real implementations:
// for each entry it loads the locator's export surface and installs it
// under the alias. Declaring is idempotent per test file; declaring the
// same alias again reloads and overwrites.
type DeclarationTable struct {
	loader  *Loader
	sandbox *Sandbox
}

// NewDeclarationTable constructs a table over the given loader and sandbox.
func NewDeclarationTable(loader *Loader, sandbox *Sandbox) *DeclarationTable {
	return &DeclarationTable{loader: loader, sandbox: sandbox}
}

// Declare loads every entry in order and installs the results. A
// duplicate alias within one call is a misuse condition: the last write
// wins and a warning is logged. Load failures abort the call and name the
// offending alias.
func (t *DeclarationTable) Declare(decls []Declaration) error {
	seen := map[m.Alias]bool{}

	for _, decl := range decls {
		if seen[decl.Alias] {
			slog.Warn("duplicate alias in declaration call, last write wins", "alias", decl.Alias)
		}

		seen[decl.Alias] = true

		exported, err := t.loader.Load(decl.Locator)
		if err != nil {
			return fmt.Errorf("declare %q: %w", decl.Alias, err)
		}

		t.sandbox.Set(decl.Alias, exported)
	}

	return nil
}
