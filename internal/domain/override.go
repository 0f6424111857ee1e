package domain

import (
	"fmt"
	"log/slog"

	m "islet.dev/pkg/islet/internal/model"
	"islet.dev/pkg/islet/internal/script"
)

// Installer replaces or partially patches sandbox entries after real
// modules are loaded: full synthetic stubs, or hybrids where selected
// members are overridden and the rest stay real.
type Installer struct {
	sandbox *Sandbox
}

// NewInstaller constructs an Installer over the sandbox.
func NewInstaller(sandbox *Sandbox) *Installer {
	return &Installer{sandbox: sandbox}
}

// Stub unconditionally installs value under alias, whether or not the
// alias previously existed.
func (i *Installer) Stub(alias m.Alias, value script.Value) {
	i.sandbox.Set(alias, value)
}

// Patch overwrites only the members named in partial, leaving all other
// members of the existing value intact. The target is mutated in place so
// any previously-taken reference to the namespace observes the patched
// members. The alias must already exist (UnknownAlias) and both target
// and partial must be namespaces (NotPatchable); a shape mismatch is
// never coerced.
func (i *Installer) Patch(alias m.Alias, partial script.Value) error {
	current, err := i.sandbox.Get(alias)
	if err != nil {
		return err
	}

	target, ok := current.(*script.Namespace)
	if !ok {
		return &NotPatchableError{
			Alias:  alias,
			Reason: fmt.Sprintf("target is %s, not a namespace", script.TypeName(current)),
		}
	}

	members, ok := partial.(*script.Namespace)
	if !ok {
		return &NotPatchableError{
			Alias:  alias,
			Reason: fmt.Sprintf("patch is %s, not a namespace", script.TypeName(partial)),
		}
	}

	for _, key := range members.Keys() {
		v, _ := members.Get(key)
		target.Set(key, v)

		slog.Debug("patched member", "alias", alias, "member", key)
	}

	return nil
}
