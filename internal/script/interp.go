package script

import (
	"errors"
	"fmt"
)

// maxCallDepth bounds script recursion so a runaway unit fails the file
// instead of exhausting the goroutine stack.
const maxCallDepth = 256

// RuntimeError is a script evaluation failure with its source position.
// When the failure originated in a host builtin, Err carries the original
// error for errors.Is / errors.As matching.
type RuntimeError struct {
	Msg string
	Pos Position
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %s: %s", e.Pos, e.Msg)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

type interp struct {
	depth int
}

// Exec runs a parsed script body in the given environment.
func Exec(stmts []Stmt, env *Env) error {
	in := &interp{}

	_, returned, err := in.execBlock(stmts, env)
	if err != nil {
		return err
	}

	if returned {
		return &RuntimeError{Msg: "return outside function", Pos: stmts[0].Pos()}
	}

	return nil
}

// Call invokes a script function or builtin from the host.
func Call(fn Value, args []Value) (Value, error) {
	in := &interp{}

	return in.call(fn, args, Position{Line: 1, Col: 1})
}

// execBlock runs statements until a return. It reports the returned value
// and whether a return was hit.
func (in *interp) execBlock(stmts []Stmt, env *Env) (Value, bool, error) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *AssignStmt:
			if err := in.execAssign(s, env); err != nil {
				return nil, false, err
			}
		case *IfStmt:
			cond, err := in.eval(s.Cond, env)
			if err != nil {
				return nil, false, err
			}

			branch := s.Then
			if !Truthy(cond) {
				branch = s.Else
			}

			v, returned, err := in.execBlock(branch, env)
			if err != nil || returned {
				return v, returned, err
			}
		case *ReturnStmt:
			if s.Value == nil {
				return Null{}, true, nil
			}

			v, err := in.eval(s.Value, env)
			if err != nil {
				return nil, false, err
			}

			return v, true, nil
		case *ExprStmt:
			if _, err := in.eval(s.X, env); err != nil {
				return nil, false, err
			}
		}
	}

	return Null{}, false, nil
}

func (in *interp) execAssign(s *AssignStmt, env *Env) error {
	value, err := in.eval(s.Value, env)
	if err != nil {
		return err
	}

	switch target := s.Target.(type) {
	case *Ident:
		env.Assign(target.Name, value)
		return nil
	case *MemberExpr:
		container, err := in.eval(target.X, env)
		if err != nil {
			return err
		}

		ns, ok := container.(*Namespace)
		if !ok {
			return in.errf(target.Pos(), "cannot set member on %s", TypeName(container))
		}

		ns.Set(target.Name, value)

		return nil
	case *IndexExpr:
		container, err := in.eval(target.X, env)
		if err != nil {
			return err
		}

		index, err := in.eval(target.Index, env)
		if err != nil {
			return err
		}

		return in.setIndex(container, index, value, target.Pos())
	}

	return in.errf(s.Target.Pos(), "invalid assignment target")
}

func (in *interp) setIndex(container, index, value Value, pos Position) error {
	switch c := container.(type) {
	case *Namespace:
		key, ok := index.(String)
		if !ok {
			return in.errf(pos, "namespace index must be a string, got %s", TypeName(index))
		}

		c.Set(string(key), value)

		return nil
	case *List:
		i, err := in.listIndex(c, index, pos)
		if err != nil {
			return err
		}

		c.Items[i] = value

		return nil
	}

	return in.errf(pos, "cannot index %s", TypeName(container))
}

func (in *interp) eval(expr Expr, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *Ident:
		v, ok := env.Lookup(e.Name)
		if !ok {
			if cause := env.missError(e.Name); cause != nil {
				return nil, &RuntimeError{Msg: cause.Error(), Pos: e.Position, Err: cause}
			}

			return nil, in.errf(e.Position, "undefined name %q", e.Name)
		}

		return v, nil
	case *StringLit:
		return String(e.Value), nil
	case *NumberLit:
		return Number(e.Value), nil
	case *BoolLit:
		return Bool(e.Value), nil
	case *NullLit:
		return Null{}, nil
	case *NamespaceLit:
		ns := NewNamespace()

		for i, key := range e.Keys {
			v, err := in.eval(e.Values[i], env)
			if err != nil {
				return nil, err
			}

			ns.Set(key, v)
		}

		return ns, nil
	case *ListLit:
		list := &List{Items: make([]Value, 0, len(e.Elems))}

		for _, elem := range e.Elems {
			v, err := in.eval(elem, env)
			if err != nil {
				return nil, err
			}

			list.Items = append(list.Items, v)
		}

		return list, nil
	case *FuncLit:
		return &Function{Params: e.Params, Body: e.Body, Env: env}, nil
	case *CallExpr:
		fn, err := in.eval(e.Fn, env)
		if err != nil {
			return nil, err
		}

		args := make([]Value, 0, len(e.Args))

		for _, argExpr := range e.Args {
			arg, err := in.eval(argExpr, env)
			if err != nil {
				return nil, err
			}

			args = append(args, arg)
		}

		return in.call(fn, args, e.Pos())
	case *MemberExpr:
		container, err := in.eval(e.X, env)
		if err != nil {
			return nil, err
		}

		ns, ok := container.(*Namespace)
		if !ok {
			return nil, in.errf(e.Pos(), "cannot access member %q of %s", e.Name, TypeName(container))
		}

		v, ok := ns.Get(e.Name)
		if !ok {
			return nil, in.errf(e.Pos(), "unknown member %q", e.Name)
		}

		return v, nil
	case *IndexExpr:
		container, err := in.eval(e.X, env)
		if err != nil {
			return nil, err
		}

		index, err := in.eval(e.Index, env)
		if err != nil {
			return nil, err
		}

		return in.getIndex(container, index, e.Pos())
	case *BinaryExpr:
		return in.evalBinary(e, env)
	case *UnaryExpr:
		operand, err := in.eval(e.X, env)
		if err != nil {
			return nil, err
		}

		switch e.Op {
		case NOT:
			return Bool(!Truthy(operand)), nil
		case MINUS:
			n, ok := operand.(Number)
			if !ok {
				return nil, in.errf(e.Position, "cannot negate %s", TypeName(operand))
			}

			return Number(-n), nil
		}
	}

	return nil, in.errf(expr.Pos(), "unsupported expression")
}

func (in *interp) getIndex(container, index Value, pos Position) (Value, error) {
	switch c := container.(type) {
	case *Namespace:
		key, ok := index.(String)
		if !ok {
			return nil, in.errf(pos, "namespace index must be a string, got %s", TypeName(index))
		}

		v, ok := c.Get(string(key))
		if !ok {
			return nil, in.errf(pos, "unknown member %q", string(key))
		}

		return v, nil
	case *List:
		i, err := in.listIndex(c, index, pos)
		if err != nil {
			return nil, err
		}

		return c.Items[i], nil
	}

	return nil, in.errf(pos, "cannot index %s", TypeName(container))
}

func (in *interp) listIndex(list *List, index Value, pos Position) (int, error) {
	n, ok := index.(Number)
	if !ok {
		return 0, in.errf(pos, "list index must be a number, got %s", TypeName(index))
	}

	i := int(n)
	if Number(i) != n || i < 0 || i >= len(list.Items) {
		return 0, in.errf(pos, "list index %s out of range (length %d)", Format(n), len(list.Items))
	}

	return i, nil
}

func (in *interp) evalBinary(e *BinaryExpr, env *Env) (Value, error) {
	// Logical operators short-circuit.
	if e.Op == AND || e.Op == OR {
		left, err := in.eval(e.L, env)
		if err != nil {
			return nil, err
		}

		if e.Op == AND && !Truthy(left) {
			return Bool(false), nil
		}

		if e.Op == OR && Truthy(left) {
			return Bool(true), nil
		}

		right, err := in.eval(e.R, env)
		if err != nil {
			return nil, err
		}

		return Bool(Truthy(right)), nil
	}

	left, err := in.eval(e.L, env)
	if err != nil {
		return nil, err
	}

	right, err := in.eval(e.R, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case EQ:
		return Bool(Equal(left, right)), nil
	case NEQ:
		return Bool(!Equal(left, right)), nil
	case PLUS:
		if l, ok := left.(Number); ok {
			if r, ok := right.(Number); ok {
				return l + r, nil
			}
		}

		// String concatenation coerces the other operand.
		_, ls := left.(String)
		_, rs := right.(String)

		if ls || rs {
			return String(Format(left) + Format(right)), nil
		}

		return nil, in.errf(e.Pos(), "cannot add %s and %s", TypeName(left), TypeName(right))
	case MINUS, STAR, SLASH:
		l, lok := left.(Number)
		r, rok := right.(Number)

		if !lok || !rok {
			return nil, in.errf(e.Pos(), "arithmetic requires numbers, got %s and %s", TypeName(left), TypeName(right))
		}

		switch e.Op {
		case MINUS:
			return l - r, nil
		case STAR:
			return l * r, nil
		default:
			if r == 0 {
				return nil, in.errf(e.Pos(), "division by zero")
			}

			return l / r, nil
		}
	case LT, LTE, GT, GTE:
		return in.compare(e.Op, left, right, e.Pos())
	}

	return nil, in.errf(e.Pos(), "unsupported operator")
}

func (in *interp) compare(op TokenType, left, right Value, pos Position) (Value, error) {
	if l, ok := left.(Number); ok {
		if r, ok := right.(Number); ok {
			return orderResult(op, float64(l), float64(r)), nil
		}
	}

	if l, ok := left.(String); ok {
		if r, ok := right.(String); ok {
			return orderResult(op, string(l), string(r)), nil
		}
	}

	return nil, in.errf(pos, "cannot compare %s with %s", TypeName(left), TypeName(right))
}

func orderResult[T float64 | string](op TokenType, l, r T) Bool {
	switch op {
	case LT:
		return Bool(l < r)
	case LTE:
		return Bool(l <= r)
	case GT:
		return Bool(l > r)
	default:
		return Bool(l >= r)
	}
}

func (in *interp) call(fn Value, args []Value, pos Position) (Value, error) {
	if in.depth >= maxCallDepth {
		return nil, in.errf(pos, "call stack exceeded %d frames", maxCallDepth)
	}

	in.depth++
	defer func() { in.depth-- }()

	switch f := fn.(type) {
	case *Function:
		if len(args) != len(f.Params) {
			return nil, in.errf(pos, "function takes %d argument(s), got %d", len(f.Params), len(args))
		}

		callEnv := NewEnv(f.Env)
		for i, param := range f.Params {
			callEnv.Define(param, args[i])
		}

		v, _, err := in.execBlock(f.Body, callEnv)
		if err != nil {
			return nil, err
		}

		return v, nil
	case *Builtin:
		if f.Arity >= 0 && len(args) != f.Arity {
			return nil, in.errf(pos, "%s takes %d argument(s), got %d", f.Name, f.Arity, len(args))
		}

		v, err := f.Fn(args)
		if err != nil {
			var rt *RuntimeError
			if errors.As(err, &rt) {
				return nil, err
			}

			return nil, &RuntimeError{Msg: err.Error(), Pos: pos, Err: err}
		}

		if v == nil {
			v = Null{}
		}

		return v, nil
	}

	return nil, in.errf(pos, "%s is not callable", TypeName(fn))
}

func (in *interp) errf(pos Position, format string, args ...any) error {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}
