package script

import (
	"strings"
	"testing"
)

// runScript parses and executes src in a fresh scope over CoreEnv and
// returns the scope for inspection.
func runScript(t *testing.T, src string) *Env {
	t.Helper()

	env := NewEnv(CoreEnv())

	stmts, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if err := Exec(stmts, env); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	return env
}

func lookupValue(t *testing.T, env *Env, name string) Value {
	t.Helper()

	v, ok := env.Lookup(name)
	if !ok {
		t.Fatalf("name %q not defined", name)
	}

	return v
}

func TestExec_Literals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Value
	}{
		{"number", `x = 42`, Number(42)},
		{"negative number", `x = -7`, Number(-7)},
		{"string", `x = "hello"`, String("hello")},
		{"string escapes", `x = "a\nb\"c"`, String("a\nb\"c")},
		{"bool", `x = true`, Bool(true)},
		{"null", `x = null`, Null{}},
		{"arithmetic", `x = 2 + 3 * 4`, Number(14)},
		{"precedence with parens", `x = (2 + 3) * 4`, Number(20)},
		{"string concat", `x = "a" + "b"`, String("ab")},
		{"string concat coerces number", `x = "n=" + 3`, String("n=3")},
		{"comparison", `x = 2 < 3`, Bool(true)},
		{"equality", `x = "a" == "a"`, Bool(true)},
		{"logical and", `x = true and false`, Bool(false)},
		{"logical or short circuit", `x = true or undefined_name`, Bool(true)},
		{"not", `x = not null`, Bool(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := runScript(t, tt.src)

			if got := lookupValue(t, env, "x"); !Equal(got, tt.want) {
				t.Fatalf("x = %s, want %s", Format(got), Format(tt.want))
			}
		})
	}
}

func TestExec_IfElse(t *testing.T) {
	env := runScript(t, `
x = "unset"
if 1 < 2 then
    x = "then"
else
    x = "else"
end

y = "unset"
if false then
    y = "then"
else
    y = "else"
end
`)

	if got := lookupValue(t, env, "x"); !Equal(got, String("then")) {
		t.Fatalf("x = %s, want then", Format(got))
	}

	if got := lookupValue(t, env, "y"); !Equal(got, String("else")) {
		t.Fatalf("y = %s, want else", Format(got))
	}
}

func TestExec_FunctionsAndClosures(t *testing.T) {
	env := runScript(t, `
make_adder = func(n)
    return func(x)
        return x + n
    end
end

add2 = make_adder(2)
result = add2(40)
`)

	if got := lookupValue(t, env, "result"); !Equal(got, Number(42)) {
		t.Fatalf("result = %s, want 42", Format(got))
	}
}

func TestExec_NamespaceReferenceSemantics(t *testing.T) {
	env := runScript(t, `
ns = { a: 1, b: 2 }
alias = ns
alias.b = 20
ns.c = 3
from_ns = ns.b
from_alias_c = alias.c
`)

	if got := lookupValue(t, env, "from_ns"); !Equal(got, Number(20)) {
		t.Fatalf("writes through one reference must be visible through the other, got %s", Format(got))
	}

	if got := lookupValue(t, env, "from_alias_c"); !Equal(got, Number(3)) {
		t.Fatalf("alias.c = %s, want 3", Format(got))
	}
}

func TestExec_NamespaceKeyOrder(t *testing.T) {
	env := runScript(t, `ns = { z: 1, a: 2, m: 3 }`)

	ns, ok := lookupValue(t, env, "ns").(*Namespace)
	if !ok {
		t.Fatalf("ns is not a namespace")
	}

	got := ns.Keys()
	want := []string{"z", "a", "m"}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want insertion order %v", got, want)
		}
	}
}

func TestExec_Lists(t *testing.T) {
	env := runScript(t, `
xs = [10, 20, 30]
first = xs[0]
xs[1] = 21
second = xs[1]
count = len(xs)
`)

	if got := lookupValue(t, env, "first"); !Equal(got, Number(10)) {
		t.Fatalf("first = %s", Format(got))
	}

	if got := lookupValue(t, env, "second"); !Equal(got, Number(21)) {
		t.Fatalf("second = %s", Format(got))
	}

	if got := lookupValue(t, env, "count"); !Equal(got, Number(3)) {
		t.Fatalf("count = %s", Format(got))
	}
}

func TestExec_Builtins(t *testing.T) {
	env := runScript(t, `
s = str(42)
n = len("abcd")
ks = keys({ b: 1, a: 2 })
has = contains("hello world", "lo w")
`)

	if got := lookupValue(t, env, "s"); !Equal(got, String("42")) {
		t.Fatalf("str(42) = %s", Format(got))
	}

	if got := lookupValue(t, env, "n"); !Equal(got, Number(4)) {
		t.Fatalf("len = %s", Format(got))
	}

	wantKeys := &List{Items: []Value{String("b"), String("a")}}
	if got := lookupValue(t, env, "ks"); !Equal(got, wantKeys) {
		t.Fatalf("keys = %s", Format(got))
	}

	if got := lookupValue(t, env, "has"); !Equal(got, Bool(true)) {
		t.Fatalf("contains = %s", Format(got))
	}
}

func TestExec_BarrierStopsAssignment(t *testing.T) {
	host := NewEnv(CoreEnv())
	host.Define("shared", String("host value"))

	unit := NewBarrierEnv(host)

	stmts, err := Parse(`
seen = shared
shared = "unit value"
after = shared
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if err := Exec(stmts, unit); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	// Reads fall through to the host scope.
	if seen, _ := unit.Lookup("seen"); !Equal(seen, String("host value")) {
		t.Fatalf("seen = %s, want host value", Format(seen))
	}

	// The unit-local rebinding shadows without writing through.
	if after, _ := unit.Lookup("after"); !Equal(after, String("unit value")) {
		t.Fatalf("after = %s, want unit value", Format(after))
	}

	if hostValue, _ := host.Lookup("shared"); !Equal(hostValue, String("host value")) {
		t.Fatalf("host binding mutated to %s", Format(hostValue))
	}
}

// A miss classifier on a host scope rewrites unresolved reads anywhere
// down the chain; a classifier returning nil keeps the plain message.
func TestExec_MissClassifier(t *testing.T) {
	sentinel := &sentinelError{}

	host := NewEnv(CoreEnv())
	host.OnMiss(func(name string) error {
		if name == "page_params" {
			return sentinel
		}

		return nil
	})

	stmts, err := Parse(`x = page_params`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	err = Exec(stmts, NewBarrierEnv(host))
	if err == nil {
		t.Fatalf("Exec() succeeded, want error")
	}

	rt, ok := err.(*RuntimeError)
	if !ok || rt.Unwrap() != sentinel {
		t.Fatalf("Exec() error = %v, want the classifier's cause", err)
	}

	stmts, err = Parse(`x = nope`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	err = Exec(stmts, NewBarrierEnv(host))
	if err == nil || !strings.Contains(err.Error(), `undefined name "nope"`) {
		t.Fatalf("Exec() error = %v, want the plain undefined-name message", err)
	}
}

func TestExec_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"undefined name", `x = nope`, `undefined name "nope"`},
		{"unknown member", `x = { a: 1 }.b`, `unknown member "b"`},
		{"member of non-namespace", `x = 5.a`, "cannot access member"},
		{"not callable", `x = 5(1)`, "not callable"},
		{"division by zero", `x = 1 / 0`, "division by zero"},
		{"bad arity", `f = func(a) return a end
x = f(1, 2)`, "takes 1 argument(s), got 2"},
		{"list out of range", `x = [1][5]`, "out of range"},
		{"return at top level", `return 1`, "return outside function"},
		{"add incompatible", `x = true + 1`, "cannot add"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			err = Exec(stmts, NewEnv(CoreEnv()))
			if err == nil {
				t.Fatalf("Exec() succeeded, want error containing %q", tt.wantMsg)
			}

			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("Exec() error = %q, want substring %q", err, tt.wantMsg)
			}
		})
	}
}

func TestExec_RecursionLimit(t *testing.T) {
	stmts, err := Parse(`
loop = func()
    return loop()
end
loop()
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	err = Exec(stmts, NewEnv(CoreEnv()))
	if err == nil || !strings.Contains(err.Error(), "call stack exceeded") {
		t.Fatalf("Exec() error = %v, want call stack exceeded", err)
	}
}

func TestCall_FromHost(t *testing.T) {
	env := runScript(t, `
greet = func(name)
    return "Hello, " + name
end
`)

	fn := lookupValue(t, env, "greet")

	got, err := Call(fn, []Value{String("bob")})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	if !Equal(got, String("Hello, bob")) {
		t.Fatalf("Call() = %s, want Hello, bob", Format(got))
	}
}

func TestExec_HostBuiltinErrorKeepsCause(t *testing.T) {
	env := NewEnv(CoreEnv())

	sentinel := &sentinelError{}
	env.Define("boom", &Builtin{
		Name:  "boom",
		Arity: 0,
		Fn: func([]Value) (Value, error) {
			return nil, sentinel
		},
	})

	stmts, err := Parse(`boom()`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	err = Exec(stmts, env)
	if err == nil {
		t.Fatalf("Exec() succeeded, want error")
	}

	rt, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("Exec() error type = %T, want *RuntimeError", err)
	}

	if rt.Unwrap() != sentinel {
		t.Fatalf("RuntimeError does not carry the builtin's cause")
	}
}

type sentinelError struct{}

func (*sentinelError) Error() string { return "sentinel" }
