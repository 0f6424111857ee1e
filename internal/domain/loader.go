package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"islet.dev/pkg/islet/internal/adapter"
	m "islet.dev/pkg/islet/internal/model"
	"islet.dev/pkg/islet/internal/script"
)

// Export slot and capability flag names shared with unit authors. A unit
// assigns its namespace to the export slot only when the standalone flag
// is set; the loader injects the flag, so the condition is an explicit
// binding rather than ambient state.
const (
	exportsSlot    = "exports"
	standaloneFlag = "standalone"
)

// Loader loads a source unit's body, executes it against the current
// sandbox, and returns its exported surface. Every Load re-executes the
// body: there is no cache, so module-local state never persists between
// loads.
type Loader struct {
	source    adapter.UnitSourceAdapter
	sandbox   *Sandbox
	core      *script.Env
	loadStack []m.Locator
}

// NewLoader constructs a Loader over the given unit source and sandbox.
func NewLoader(source adapter.UnitSourceAdapter, sandbox *Sandbox) *Loader {
	return &Loader{
		source:  source,
		sandbox: sandbox,
		core:    script.CoreEnv(),
	}
}

// Load resolves locator, executes the unit body, and returns its export.
// Errors: UnitNotFound when the locator resolves to nothing,
// ExportMissing when the body exports no surface, CyclicDependency when a
// require chain closes on itself.
func (l *Loader) Load(locator m.Locator) (script.Value, error) {
	unit, err := l.source.ReadUnit(locator)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &UnitNotFoundError{Locator: locator}
		}

		return nil, err
	}

	// Cycle detection against the canonical resolved path, so "a" and
	// "a.isl" close the same cycle.
	for _, frame := range l.loadStack {
		if frame == m.Locator(unit.Path) {
			chain := append(append([]m.Locator{}, l.loadStack...), m.Locator(unit.Path))
			return nil, &CyclicDependencyError{Chain: chain}
		}
	}

	l.loadStack = append(l.loadStack, m.Locator(unit.Path))
	defer func() { l.loadStack = l.loadStack[:len(l.loadStack)-1] }()

	stmts, err := script.Parse(unit.Body)
	if err != nil {
		return nil, fmt.Errorf("parse unit %q: %w", locator, err)
	}

	unitEnv := script.NewBarrierEnv(l.unitHostEnv())

	if err := script.Exec(stmts, unitEnv); err != nil {
		return nil, fmt.Errorf("unit %q: %w", locator, err)
	}

	exported, ok := unitEnv.Lookup(exportsSlot)
	if !ok || isNull(exported) {
		return nil, &ExportMissingError{Locator: locator}
	}

	slog.Debug("loaded unit", "locator", locator, "path", unit.Path)

	return exported, nil
}

// unitHostEnv builds the execution context a unit body sees: the current
// sandbox aliases as its globals, a require primitive, and the standalone
// marker. Built fresh per load so each execution observes the sandbox as
// of its own load time.
func (l *Loader) unitHostEnv() *script.Env {
	host := script.NewEnv(l.core)

	l.sandbox.installInto(host)

	// A name a unit cannot resolve is a global read, and a unit's globals
	// are the sandbox's aliases. Classify the miss through the sandbox so
	// the diagnostic carries the unknown-alias kind.
	host.OnMiss(func(name string) error {
		if _, err := l.sandbox.Get(m.Alias(name)); err != nil {
			return err
		}

		return nil
	})

	host.Define(standaloneFlag, script.Bool(true))
	host.Define("require", &script.Builtin{
		Name:  "require",
		Arity: 1,
		Fn: func(args []script.Value) (script.Value, error) {
			target, ok := args[0].(script.String)
			if !ok {
				return nil, fmt.Errorf("require: locator must be a string, got %s", script.TypeName(args[0]))
			}

			return l.Load(m.Locator(target))
		},
	})

	return host
}

func isNull(v script.Value) bool {
	_, ok := v.(script.Null)
	return ok
}
