package script

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is any runtime value of the unit language. Namespaces and lists
// have reference semantics: copies of a Value share the underlying data,
// which is what lets a patched namespace be observed through every
// previously-taken reference.
type Value interface {
	valueNode()
}

type Null struct{}

type Bool bool

type Number float64

type String string

// List is a mutable ordered sequence.
type List struct {
	Items []Value
}

// Namespace is a mutable, insertion-ordered mapping from member name to
// value. It is the export surface of a module-pattern unit and the common
// target of member-level patches.
type Namespace struct {
	keys    []string
	entries map[string]Value
}

// Function is a script-defined closure.
type Function struct {
	Params []string
	Body   []Stmt
	Env    *Env
}

// Builtin is a host-provided function. Arity < 0 means variadic.
type Builtin struct {
	Name  string
	Arity int
	Fn    func(args []Value) (Value, error)
}

func (Null) valueNode()       {}
func (Bool) valueNode()       {}
func (Number) valueNode()     {}
func (String) valueNode()     {}
func (*List) valueNode()      {}
func (*Namespace) valueNode() {}
func (*Function) valueNode()  {}
func (*Builtin) valueNode()   {}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{entries: map[string]Value{}}
}

// Get returns the member named key and whether it exists.
func (ns *Namespace) Get(key string) (Value, bool) {
	v, ok := ns.entries[key]
	return v, ok
}

// Set installs or replaces a member, preserving first-insertion order.
func (ns *Namespace) Set(key string, v Value) {
	if _, ok := ns.entries[key]; !ok {
		ns.keys = append(ns.keys, key)
	}

	ns.entries[key] = v
}

// Keys returns the member names in insertion order.
func (ns *Namespace) Keys() []string {
	out := make([]string, len(ns.keys))
	copy(out, ns.keys)

	return out
}

// Len returns the number of members.
func (ns *Namespace) Len() int {
	return len(ns.keys)
}

// Truthy reports the language's truthiness: null and false are falsy,
// everything else is truthy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(v)
	}

	return true
}

// Equal is deep structural equality. Functions and builtins compare by
// identity.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}

		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}

		return true
	case *Namespace:
		bv, ok := b.(*Namespace)
		if !ok || av.Len() != bv.Len() {
			return false
		}

		for _, key := range av.keys {
			other, ok := bv.Get(key)
			if !ok || !Equal(av.entries[key], other) {
				return false
			}
		}

		return true
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *Builtin:
		bv, ok := b.(*Builtin)
		return ok && av == bv
	}

	return false
}

// Format renders a value for diagnostics and string concatenation.
// Namespace members are rendered in sorted order so failure diffs are
// stable regardless of insertion order.
func Format(v Value) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case Null:
		return "null"
	case Bool:
		if v {
			return "true"
		}

		return "false"
	case Number:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case String:
		return string(v)
	case *List:
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			parts = append(parts, quoteIfString(item))
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case *Namespace:
		keys := v.Keys()
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+": "+quoteIfString(v.entries[key]))
		}

		return "{" + strings.Join(parts, ", ") + "}"
	case *Function:
		return fmt.Sprintf("func/%d", len(v.Params))
	case *Builtin:
		return "builtin " + v.Name
	}

	return fmt.Sprintf("%v", v)
}

// quoteIfString renders nested strings quoted so container diffs stay
// unambiguous.
func quoteIfString(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}

	return Format(v)
}

// TypeName returns a short name for diagnostics.
func TypeName(v Value) string {
	switch v.(type) {
	case nil, Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case *List:
		return "list"
	case *Namespace:
		return "namespace"
	case *Function, *Builtin:
		return "function"
	}

	return "unknown"
}
