package script

// Env is a lexical environment: a mapping of names to values with a
// parent chain. Name lookup walks the chain; assignment stops at barrier
// environments so a script can read host-provided state without ever
// writing through into it.
type Env struct {
	parent  *Env
	barrier bool
	miss    func(name string) error
	vars    map[string]Value
}

// NewEnv returns an environment with the given parent (nil for a root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: map[string]Value{}}
}

// NewBarrierEnv returns an environment whose parent chain is visible for
// reads but closed for assignment. A loaded unit's top scope is a barrier
// child of the host scope: the unit sees sandbox aliases as globals, but
// its own top-level assignments stay local.
func NewBarrierEnv(parent *Env) *Env {
	return &Env{parent: parent, barrier: true, vars: map[string]Value{}}
}

// Lookup resolves a name through the parent chain.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// OnMiss registers a classifier consulted when a name misses the whole
// chain. It returns the error the miss should carry, or nil to fall back
// to the interpreter's plain undefined-name error. The host sets one on a
// unit's environment so an unresolved global read reports which alias was
// never provided.
func (e *Env) OnMiss(fn func(name string) error) {
	e.miss = fn
}

// missError runs the nearest registered miss classifier for name.
func (e *Env) missError(name string) error {
	for env := e; env != nil; env = env.parent {
		if env.miss != nil {
			return env.miss(name)
		}
	}

	return nil
}

// Define binds a name in this environment, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Assign rebinds an existing name in the nearest assignable scope, or
// defines it locally when no assignable scope holds it. The search never
// crosses a barrier.
func (e *Env) Assign(name string, v Value) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return
		}

		if env.barrier {
			break
		}
	}

	e.vars[name] = v
}
