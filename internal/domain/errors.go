// Package domain implements the isolation harness: the sandbox, the
// dependency declaration table, the module loader, the override installer,
// and the test runner.
package domain

import (
	"errors"
	"fmt"
	"strings"

	m "islet.dev/pkg/islet/internal/model"
)

// Sentinel error kinds. Typed wrappers below carry the alias or locator
// involved and unwrap to these for errors.Is matching.
var (
	ErrUnitNotFound     = errors.New("unit not found")
	ErrExportMissing    = errors.New("export missing")
	ErrUnknownAlias     = errors.New("unknown alias")
	ErrNotPatchable     = errors.New("not patchable")
	ErrCyclicDependency = errors.New("cyclic dependency")
	ErrAssertionFailure = errors.New("assertion failure")
)

// UnitNotFoundError reports a locator that resolved to no source unit.
type UnitNotFoundError struct {
	Locator m.Locator
}

func (e *UnitNotFoundError) Error() string {
	return fmt.Sprintf("unit not found: %q", e.Locator)
}

func (e *UnitNotFoundError) Unwrap() error { return ErrUnitNotFound }

// ExportMissingError reports a unit whose body produced no export surface.
type ExportMissingError struct {
	Locator m.Locator
}

func (e *ExportMissingError) Error() string {
	return fmt.Sprintf("unit %q produced no export surface", e.Locator)
}

func (e *ExportMissingError) Unwrap() error { return ErrExportMissing }

// UnknownAliasError reports a sandbox read of an alias that was never set.
type UnknownAliasError struct {
	Alias m.Alias
}

func (e *UnknownAliasError) Error() string {
	return fmt.Sprintf("unknown alias %q", e.Alias)
}

func (e *UnknownAliasError) Unwrap() error { return ErrUnknownAlias }

// NotPatchableError reports a patch against a non-namespace target.
type NotPatchableError struct {
	Alias  m.Alias
	Reason string
}

func (e *NotPatchableError) Error() string {
	return fmt.Sprintf("alias %q is not patchable: %s", e.Alias, e.Reason)
}

func (e *NotPatchableError) Unwrap() error { return ErrNotPatchable }

// CyclicDependencyError reports a load cycle as the chain of locators that
// closed it.
type CyclicDependencyError struct {
	Chain []m.Locator
}

func (e *CyclicDependencyError) Error() string {
	parts := make([]string, 0, len(e.Chain))
	for _, loc := range e.Chain {
		parts = append(parts, string(loc))
	}

	return "cyclic dependency: " + strings.Join(parts, " -> ")
}

func (e *CyclicDependencyError) Unwrap() error { return ErrCyclicDependency }

// AssertionError is a failed assertion inside a block. It is recovered by
// the block runner and recorded; it never aborts a file.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string { return e.Message }

func (e *AssertionError) Unwrap() error { return ErrAssertionFailure }

// ErrorKind names the harness error category for diagnostics.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnitNotFound):
		return "UnitNotFound"
	case errors.Is(err, ErrExportMissing):
		return "ExportMissing"
	case errors.Is(err, ErrUnknownAlias):
		return "UnknownAlias"
	case errors.Is(err, ErrNotPatchable):
		return "NotPatchable"
	case errors.Is(err, ErrCyclicDependency):
		return "CyclicDependency"
	case errors.Is(err, ErrAssertionFailure):
		return "AssertionFailure"
	}

	return "Error"
}
