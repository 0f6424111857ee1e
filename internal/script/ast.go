package script

// Node is any AST node with a source position.
type Node interface {
	Pos() Position
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// ---- Statements ----

// AssignStmt is "target = value" where target is an identifier, a member
// access, or an index expression.
type AssignStmt struct {
	Target Expr
	Value  Expr
}

// IfStmt is "if cond then ... [else ...] end". The branches share the
// enclosing scope.
type IfStmt struct {
	Position Position
	Cond     Expr
	Then     []Stmt
	Else     []Stmt
}

// ReturnStmt is "return [value]" inside a function body.
type ReturnStmt struct {
	Position Position
	Value    Expr // nil for a bare return
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	X Expr
}

func (s *AssignStmt) Pos() Position { return s.Target.Pos() }
func (s *IfStmt) Pos() Position     { return s.Position }
func (s *ReturnStmt) Pos() Position { return s.Position }
func (s *ExprStmt) Pos() Position   { return s.X.Pos() }

func (*AssignStmt) stmtNode() {}
func (*IfStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}

// ---- Expressions ----

type Ident struct {
	Position Position
	Name     string
}

type StringLit struct {
	Position Position
	Value    string
}

type NumberLit struct {
	Position Position
	Value    float64
}

type BoolLit struct {
	Position Position
	Value    bool
}

type NullLit struct {
	Position Position
}

// NamespaceLit is "{key: value, ...}". Key order is preserved.
type NamespaceLit struct {
	Position Position
	Keys     []string
	Values   []Expr
}

// ListLit is "[a, b, c]".
type ListLit struct {
	Position Position
	Elems    []Expr
}

// FuncLit is "func(params) body end".
type FuncLit struct {
	Position Position
	Params   []string
	Body     []Stmt
}

type CallExpr struct {
	Fn   Expr
	Args []Expr
}

type MemberExpr struct {
	X    Expr
	Name string
}

type IndexExpr struct {
	X     Expr
	Index Expr
}

type BinaryExpr struct {
	Op TokenType
	L  Expr
	R  Expr
}

type UnaryExpr struct {
	Position Position
	Op       TokenType
	X        Expr
}

func (e *Ident) Pos() Position        { return e.Position }
func (e *StringLit) Pos() Position    { return e.Position }
func (e *NumberLit) Pos() Position    { return e.Position }
func (e *BoolLit) Pos() Position      { return e.Position }
func (e *NullLit) Pos() Position      { return e.Position }
func (e *NamespaceLit) Pos() Position { return e.Position }
func (e *ListLit) Pos() Position      { return e.Position }
func (e *FuncLit) Pos() Position      { return e.Position }
func (e *CallExpr) Pos() Position     { return e.Fn.Pos() }
func (e *MemberExpr) Pos() Position   { return e.X.Pos() }
func (e *IndexExpr) Pos() Position    { return e.X.Pos() }
func (e *BinaryExpr) Pos() Position   { return e.L.Pos() }
func (e *UnaryExpr) Pos() Position    { return e.Position }

func (*Ident) exprNode()        {}
func (*StringLit) exprNode()    {}
func (*NumberLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*NullLit) exprNode()      {}
func (*NamespaceLit) exprNode() {}
func (*ListLit) exprNode()      {}
func (*FuncLit) exprNode()      {}
func (*CallExpr) exprNode()     {}
func (*MemberExpr) exprNode()   {}
func (*IndexExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
