package domain

import (
	"sort"

	m "islet.dev/pkg/islet/internal/model"
	"islet.dev/pkg/islet/internal/script"
)

// Sandbox is the isolated, resettable namespace standing in for
// process-wide globals. It is owned by the runner across files and by the
// executing test file for the duration of that file. Nothing survives a
// Reset: isolation between test files is the harness's core correctness
// property.
type Sandbox struct {
	entries map[m.Alias]script.Value
}

// NewSandbox returns an empty sandbox.
func NewSandbox() *Sandbox {
	return &Sandbox{entries: map[m.Alias]script.Value{}}
}

// Reset discards every alias. The runner calls this before each test file.
func (s *Sandbox) Reset() {
	s.entries = map[m.Alias]script.Value{}
}

// Set installs or replaces a value, visible to any subsequently loaded
// unit that reads global state by that alias.
func (s *Sandbox) Set(alias m.Alias, v script.Value) {
	s.entries[alias] = v
}

// Get returns the current value for alias, or UnknownAliasError if the
// alias was never set since the last reset.
func (s *Sandbox) Get(alias m.Alias) (script.Value, error) {
	v, ok := s.entries[alias]
	if !ok {
		return nil, &UnknownAliasError{Alias: alias}
	}

	return v, nil
}

// Aliases returns the currently set aliases in sorted order.
func (s *Sandbox) Aliases() []m.Alias {
	out := make([]m.Alias, 0, len(s.entries))
	for alias := range s.entries {
		out = append(out, alias)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// installInto copies the current aliases into env as the globals a loaded
// unit will see. Copy-at-load matches the contract: a Set is visible to
// units loaded after it, and namespace values stay shared by reference so
// later patches are observed through them.
func (s *Sandbox) installInto(env *script.Env) {
	for alias, v := range s.entries {
		env.Define(string(alias), v)
	}
}
