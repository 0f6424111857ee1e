package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"islet.dev/pkg/islet/internal/adapter"
	m "islet.dev/pkg/islet/internal/model"
	"islet.dev/pkg/islet/internal/script"
)

// Host wires one test file's execution context: the harness primitives
// (declare, stub, patch, load, run, assertions, capture) bound to the
// file's sandbox, plus the recorded block outcomes and captures. A Host
// lives for exactly one test file.
type Host struct {
	sandbox   *Sandbox
	loader    *Loader
	table     *DeclarationTable
	installer *Installer

	blocks   []m.BlockOutcome
	captures []m.Capture
	current  string
}

// NewHost constructs a Host over a sandbox and unit source.
func NewHost(sandbox *Sandbox, source adapter.UnitSourceAdapter) *Host {
	loader := NewLoader(source, sandbox)

	return &Host{
		sandbox:   sandbox,
		loader:    loader,
		table:     NewDeclarationTable(loader, sandbox),
		installer: NewInstaller(sandbox),
	}
}

// Results returns the recorded block outcomes in execution order.
func (h *Host) Results() []m.BlockOutcome {
	return h.blocks
}

// Captures returns the rendered-output records in execution order.
func (h *Host) Captures() []m.Capture {
	return h.captures
}

// Env returns the scope a test file's top-level code executes in.
func (h *Host) Env() *script.Env {
	env := script.NewEnv(script.CoreEnv())

	define := func(name string, arity int, fn func([]script.Value) (script.Value, error)) {
		env.Define(name, &script.Builtin{Name: name, Arity: arity, Fn: fn})
	}

	define("declare", 1, h.builtinDeclare)
	define("stub", 2, h.builtinStub)
	define("patch", 2, h.builtinPatch)
	define("load", 1, h.builtinLoad)
	define("run", 2, h.builtinRun)
	define("capture", 2, h.builtinCapture)

	define("assert_equal", 2, h.builtinAssertEqual)
	define("assert_not_equal", 2, h.builtinAssertNotEqual)
	define("assert_true", 1, h.builtinAssertTrue)
	define("assert_false", 1, h.builtinAssertFalse)
	define("assert_contains", 2, h.builtinAssertContains)
	define("fail", 1, h.builtinFail)

	return env
}

func (h *Host) builtinDeclare(args []script.Value) (script.Value, error) {
	entries, ok := args[0].(*script.Namespace)
	if !ok {
		return nil, fmt.Errorf("declare: expected a namespace of alias: locator pairs, got %s", script.TypeName(args[0]))
	}

	decls := make([]Declaration, 0, entries.Len())

	for _, alias := range entries.Keys() {
		v, _ := entries.Get(alias)

		locator, ok := v.(script.String)
		if !ok {
			return nil, fmt.Errorf("declare: locator for %q must be a string, got %s", alias, script.TypeName(v))
		}

		decls = append(decls, Declaration{Alias: m.Alias(alias), Locator: m.Locator(locator)})
	}

	return nil, h.table.Declare(decls)
}

func (h *Host) builtinStub(args []script.Value) (script.Value, error) {
	alias, ok := args[0].(script.String)
	if !ok {
		return nil, fmt.Errorf("stub: alias must be a string, got %s", script.TypeName(args[0]))
	}

	h.installer.Stub(m.Alias(alias), args[1])

	return nil, nil
}

func (h *Host) builtinPatch(args []script.Value) (script.Value, error) {
	alias, ok := args[0].(script.String)
	if !ok {
		return nil, fmt.Errorf("patch: alias must be a string, got %s", script.TypeName(args[0]))
	}

	return nil, h.installer.Patch(m.Alias(alias), args[1])
}

func (h *Host) builtinLoad(args []script.Value) (script.Value, error) {
	locator, ok := args[0].(script.String)
	if !ok {
		return nil, fmt.Errorf("load: locator must be a string, got %s", script.TypeName(args[0]))
	}

	return h.loader.Load(m.Locator(locator))
}

// builtinRun executes one assertion block. Failures inside the block are
// recorded and never abort the remaining blocks of the file.
func (h *Host) builtinRun(args []script.Value) (script.Value, error) {
	name, ok := args[0].(script.String)
	if !ok {
		return nil, fmt.Errorf("run: block name must be a string, got %s", script.TypeName(args[0]))
	}

	if h.current != "" {
		return nil, fmt.Errorf("run: block %q cannot nest inside %q", name, h.current)
	}

	h.current = string(name)
	defer func() { h.current = "" }()

	start := time.Now()
	_, err := script.Call(args[1], nil)

	outcome := m.BlockOutcome{
		Name:    string(name),
		Status:  m.Passed,
		Elapsed: time.Since(start),
	}

	if err != nil {
		outcome.Status = m.Failed

		var assertion *AssertionError
		if errors.As(err, &assertion) {
			outcome.Message = assertion.Message
		} else {
			outcome.Message = fmt.Sprintf("%s: %s", ErrorKind(err), err)
		}
	}

	h.blocks = append(h.blocks, outcome)

	return nil, nil
}

func (h *Host) builtinCapture(args []script.Value) (script.Value, error) {
	label, ok := args[0].(script.String)
	if !ok {
		return nil, fmt.Errorf("capture: label must be a string, got %s", script.TypeName(args[0]))
	}

	rendered, ok := args[1].(script.String)
	if !ok {
		return nil, fmt.Errorf("capture: rendered output must be a string, got %s", script.TypeName(args[1]))
	}

	h.captures = append(h.captures, m.Capture{
		Block:    h.current,
		Label:    string(label),
		Rendered: string(rendered),
	})

	return nil, nil
}

// ---- Assertions ----

func (h *Host) builtinAssertEqual(args []script.Value) (script.Value, error) {
	if !script.Equal(args[0], args[1]) {
		return nil, &AssertionError{Message: "assert_equal failed:\n" + mismatch(args[1], args[0])}
	}

	return nil, nil
}

func (h *Host) builtinAssertNotEqual(args []script.Value) (script.Value, error) {
	if script.Equal(args[0], args[1]) {
		return nil, &AssertionError{
			Message: fmt.Sprintf("assert_not_equal failed: both sides are %s", script.Format(args[0])),
		}
	}

	return nil, nil
}

func (h *Host) builtinAssertTrue(args []script.Value) (script.Value, error) {
	if !script.Truthy(args[0]) {
		return nil, &AssertionError{
			Message: fmt.Sprintf("assert_true failed: got %s", script.Format(args[0])),
		}
	}

	return nil, nil
}

func (h *Host) builtinAssertFalse(args []script.Value) (script.Value, error) {
	if script.Truthy(args[0]) {
		return nil, &AssertionError{
			Message: fmt.Sprintf("assert_false failed: got %s", script.Format(args[0])),
		}
	}

	return nil, nil
}

func (h *Host) builtinAssertContains(args []script.Value) (script.Value, error) {
	haystack, ok := args[0].(script.String)
	if !ok {
		return nil, fmt.Errorf("assert_contains: expected a string, got %s", script.TypeName(args[0]))
	}

	needle, ok := args[1].(script.String)
	if !ok {
		return nil, fmt.Errorf("assert_contains: expected a string needle, got %s", script.TypeName(args[1]))
	}

	if !strings.Contains(string(haystack), string(needle)) {
		return nil, &AssertionError{
			Message: fmt.Sprintf("assert_contains failed: %q not found in %q", needle, haystack),
		}
	}

	return nil, nil
}

func (h *Host) builtinFail(args []script.Value) (script.Value, error) {
	msg, ok := args[0].(script.String)
	if !ok {
		return nil, fmt.Errorf("fail: message must be a string, got %s", script.TypeName(args[0]))
	}

	return nil, &AssertionError{Message: string(msg)}
}

// mismatch renders a want/got diagnostic. Multi-line values get a unified
// diff; short values a one-line comparison.
func mismatch(want, got script.Value) string {
	wantText := script.Format(want)
	gotText := script.Format(got)

	if strings.Contains(wantText, "\n") || strings.Contains(gotText, "\n") {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(wantText),
			B:        difflib.SplitLines(gotText),
			FromFile: "want",
			ToFile:   "got",
			Context:  3,
		})
		if err == nil {
			return diff
		}
	}

	return fmt.Sprintf("want %s, got %s", wantText, gotText)
}
