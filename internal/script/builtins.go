package script

import (
	"fmt"
	"strings"
)

// CoreEnv returns the root environment with the language's small builtin
// surface. Both units and test files resolve names through it.
func CoreEnv() *Env {
	env := NewEnv(nil)

	env.Define("len", &Builtin{Name: "len", Arity: 1, Fn: builtinLen})
	env.Define("str", &Builtin{Name: "str", Arity: 1, Fn: builtinStr})
	env.Define("keys", &Builtin{Name: "keys", Arity: 1, Fn: builtinKeys})
	env.Define("contains", &Builtin{Name: "contains", Arity: 2, Fn: builtinContains})

	return env
}

func builtinLen(args []Value) (Value, error) {
	switch v := args[0].(type) {
	case String:
		return Number(len(v)), nil
	case *List:
		return Number(len(v.Items)), nil
	case *Namespace:
		return Number(v.Len()), nil
	}

	return nil, fmt.Errorf("len: cannot measure %s", TypeName(args[0]))
}

func builtinStr(args []Value) (Value, error) {
	return String(Format(args[0])), nil
}

func builtinKeys(args []Value) (Value, error) {
	ns, ok := args[0].(*Namespace)
	if !ok {
		return nil, fmt.Errorf("keys: expected a namespace, got %s", TypeName(args[0]))
	}

	keys := ns.Keys()
	items := make([]Value, 0, len(keys))

	for _, key := range keys {
		items = append(items, String(key))
	}

	return &List{Items: items}, nil
}

func builtinContains(args []Value) (Value, error) {
	haystack, ok := args[0].(String)
	if !ok {
		return nil, fmt.Errorf("contains: expected a string, got %s", TypeName(args[0]))
	}

	needle, ok := args[1].(String)
	if !ok {
		return nil, fmt.Errorf("contains: expected a string needle, got %s", TypeName(args[1]))
	}

	return Bool(strings.Contains(string(haystack), string(needle))), nil
}
