package cast

// Exprs builds expressions. Values passed where an expression is expected
// may be an Expr, a string or a Go number; see Call for how each is read.
type Exprs interface {
	Sym(name string) *Symbol
	// Num builds a numeric literal from a Go number or literal text such
	// as "0x1f" or "1.5f".
	Num(v any) *Number
	Char(r rune) *Character
	Str(s string) *String

	// Call builds a call of target. A string target names a function; string
	// arguments become string literals and numbers numeric literals. nil
	// arguments are skipped. Inside a block the call also becomes a
	// statement, until something else consumes it as an operand.
	Call(target any, args ...any) *Call
	// Assign builds lhs = rhs (= more...) with the same statement behavior
	// as Call.
	Assign(lhs, rhs any, more ...any) *MultaryOp

	Subscript(x, index any) *Subscript
	Cast(t, x any) *Cast

	// Op applies op to the operands: one operand yields a prefix operator,
	// more an infix chain.
	Op(op string, xs ...any) Expr
	Not(x any) Expr
	Deref(x any) Expr
	AddressOf(x any) Expr
	And(xs ...any) Expr
	Or(xs ...any) Expr
	Eq(xs ...any) Expr
	Neq(xs ...any) Expr
	Lt(xs ...any) Expr
	Gt(xs ...any) Expr
	Lte(xs ...any) Expr
	Gte(xs ...any) Expr
	Add(xs ...any) Expr
	Sub(xs ...any) Expr
	Mul(xs ...any) Expr
	Div(xs ...any) Expr
	Mod(xs ...any) Expr
}

// Types builds type descriptors. A spec is a type string such as
// "static const char" or an existing *Type, which is modified in place.
type Types interface {
	Type(spec any) *Type
	Const(spec any) *Type
	NotConst(spec any) *Type
	Volatile(spec any) *Type
	NotVolatile(spec any) *Type
	Storage(storage string, spec any) *Type
	Ptr(levels int, spec any) *Type
	DropPtr(levels int, spec any) *Type
	Array(spec any, sizes ...ArraySize) *Type
	FuncPtr(fn func(Signature)) *Type
}

// Scope is the context of a block-bearing node: the top level, a block, a
// function body or an if/else branch.
type Scope interface {
	Exprs
	Types

	Include(path string) *Include
	Block(fn func(Scope)) *Block
	Func(name string, fn func(FuncScope)) *FuncDef
	If(cond any, fn func(Scope)) IfChain
	Return(value any) *ReturnStatement
	Var(name string, t any, value any) *VarDeclaration
	Goto(label string) *GotoStatement
	Label(name string) *LabelStatement
	Struct(name string, fn func(StructScope)) *StructDecl
	Define(name string, fn func(MacroScope) Node) *Define

	// Stmt appends a prebuilt node. Expressions become explicit statements
	// that survive pruning.
	Stmt(node Node) Node
}

// Signature declares the return type and arguments of a function or
// function pointer. It is only valid while that declaration is being built.
type Signature interface {
	Returns(t any) *Type
	Arg(name string, t any) *FuncArg
}

type FuncScope interface {
	Scope
	Signature
}

// IfChain attaches the optional else clause of an if statement.
type IfChain interface {
	Else(fn func(Scope)) IfChain
	Node() *IfStatement
}

// MacroScope is the context of a macro definition. Calls made here are not
// turned into statements.
type MacroScope interface {
	Exprs
	Types

	Param(names ...string)
	// Block builds a block to use as the macro body.
	Block(fn func(Scope)) *Block
}

type StructScope interface {
	Types

	Field(name string, t any) *StructField
}

type blockScope struct {
	ops
}

var _ Scope = (*blockScope)(nil)

func (s *blockScope) Include(path string) *Include {
	node := &Include{Path: path}
	s.f.attach("include", node, false)
	return node
}

func (s *blockScope) Block(fn func(Scope)) *Block {
	node := &Block{}
	s.f.within("block", frameBlock, node, func(f *frame) {
		if fn != nil {
			fn(&blockScope{ops{f}})
		}
	})
	s.f.attach("block", node, false)
	return node
}

func (s *blockScope) Func(name string, fn func(FuncScope)) *FuncDef {
	node := &FuncDef{Name: name, Returns: &Type{Name: "void"}}
	s.f.within("func", frameFunc, node, func(f *frame) {
		if fn != nil {
			fn(&funcScope{blockScope{ops{f}}, signature{f}})
		}
	})
	s.f.attach("func", node, false)
	return node
}

func (s *blockScope) If(cond any, fn func(Scope)) IfChain {
	node := &IfStatement{Cond: s.operand("if", cond)}
	s.f.within("if", frameBlock, node, func(f *frame) {
		if fn != nil {
			fn(&blockScope{ops{f}})
		}
	})
	s.f.attach("if", node, false)
	return &ifChain{parent: s.f, node: node}
}

func (s *blockScope) Return(value any) *ReturnStatement {
	node := &ReturnStatement{}
	if value != nil {
		node.Value = s.operand("return", value)
	}
	s.f.attach("return", node, false)
	return node
}

func (s *blockScope) Var(name string, t any, value any) *VarDeclaration {
	node := &VarDeclaration{Name: name, Type: s.Type(t)}
	if value != nil {
		node.Init = s.operand("var", value)
	}
	s.f.attach("var", node, false)
	return node
}

func (s *blockScope) Goto(label string) *GotoStatement {
	node := &GotoStatement{Label: label}
	s.f.attach("goto", node, false)
	return node
}

func (s *blockScope) Label(name string) *LabelStatement {
	node := &LabelStatement{Name: name}
	s.f.attach("label", node, false)
	return node
}

func (s *blockScope) Struct(name string, fn func(StructScope)) *StructDecl {
	node := &StructDecl{Name: name}
	s.f.within("struct", frameStruct, node, func(f *frame) {
		if fn != nil {
			fn(&structScope{ops{f}})
		}
	})
	s.f.attach("struct", node, false)
	return node
}

func (s *blockScope) Define(name string, fn func(MacroScope) Node) *Define {
	node := &Define{Name: name}
	s.f.within("define", frameMacro, node, func(f *frame) {
		if fn != nil {
			node.Body = fn(&macroScope{ops{f}})
		}
	})
	s.f.attach("define", node, false)
	return node
}

func (s *blockScope) Stmt(node Node) Node {
	if isNil(node) {
		fail(&InvalidExpressionError{Op: "stmt", Value: node})
	}
	// An explicit statement replaces the implicit one made for the same
	// expression, if any.
	if x, ok := node.(Expr); ok {
		x.markNested()
	}
	return s.f.attach("stmt", node, false)
}

type funcScope struct {
	blockScope
	signature
}

var _ FuncScope = (*funcScope)(nil)

// signature declares into a FuncDef or a function pointer Type.
type signature struct {
	sf *frame
}

func (s signature) Returns(t any) *Type {
	s.sf.checkOpen("returns", "function declaration")
	ret := ops{s.sf}.Type(t)
	switch node := s.sf.node.(type) {
	case *FuncDef:
		node.Returns = ret
	case *Type:
		node.Returns = ret
	}
	return ret
}

func (s signature) Arg(name string, t any) *FuncArg {
	s.sf.checkOpen("arg", "function declaration")
	arg := &FuncArg{Name: name, Type: ops{s.sf}.Type(t)}
	switch node := s.sf.node.(type) {
	case *FuncDef:
		node.Args = append(node.Args, arg)
	case *Type:
		node.Args = append(node.Args, arg)
	}
	return arg
}

type ifChain struct {
	parent *frame
	node   *IfStatement
}

func (c *ifChain) Node() *IfStatement { return c.node }

func (c *ifChain) Else(fn func(Scope)) IfChain {
	if c.node.Else != nil {
		failScope("else", "else clauses aren't chainable")
	}
	clause := &ElseClause{}
	c.parent.within("else", frameBlock, clause, func(f *frame) {
		if fn != nil {
			fn(&blockScope{ops{f}})
		}
	})
	c.node.Else = clause
	return c
}

type macroScope struct {
	ops
}

var _ MacroScope = (*macroScope)(nil)

func (s *macroScope) Param(names ...string) {
	s.f.checkOpen("param", "macro definition")
	def := s.f.node.(*Define)
	if def.Params == nil {
		def.Params = []string{}
	}
	def.Params = append(def.Params, names...)
}

func (s *macroScope) Block(fn func(Scope)) *Block {
	node := &Block{}
	s.f.within("block", frameBlock, node, func(f *frame) {
		if fn != nil {
			fn(&blockScope{ops{f}})
		}
	})
	return node
}

type structScope struct {
	ops
}

var _ StructScope = (*structScope)(nil)

func (s *structScope) Field(name string, t any) *StructField {
	s.f.checkOpen("field", "struct declaration")
	decl := s.f.node.(*StructDecl)
	field := &StructField{Name: name, Type: s.Type(t)}
	for i, existing := range decl.Fields {
		if existing.Name == name {
			decl.Fields[i] = field
			return field
		}
	}
	decl.Fields = append(decl.Fields, field)
	return field
}
