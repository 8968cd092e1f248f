package cast

// ops implements Exprs and Types for every scope. Expressions that may stand
// alone as statements (calls and assignments) attach to the scope's frame.
type ops struct {
	f *frame
}

var (
	_ Exprs = ops{}
	_ Types = ops{}
)

// operand coerces x into an expression consumed by another node: strings
// name symbols, Go numbers become literals. The result is marked nested.
func (o ops) operand(op string, x any) Expr {
	var e Expr
	switch v := x.(type) {
	case Expr:
		if isNil(v) {
			fail(&InvalidExpressionError{Op: op, Value: x})
		}
		e = v
	case string:
		e = &Symbol{Name: v}
	default:
		lit, ok := numberLiteral(x)
		if !ok {
			fail(&InvalidExpressionError{Op: op, Value: x})
		}
		e = &Number{Value: lit}
	}
	e.markNested()
	return e
}

// argument is like operand, except that strings become string literals.
func (o ops) argument(x any) Expr {
	if s, ok := x.(string); ok {
		e := &String{Value: s}
		e.markNested()
		return e
	}
	return o.operand("call", x)
}

func (o ops) Sym(name string) *Symbol {
	return &Symbol{Name: name}
}

func (o ops) Num(v any) *Number {
	if s, ok := v.(string); ok {
		return &Number{Value: s}
	}
	lit, ok := numberLiteral(v)
	if !ok {
		fail(&InvalidExpressionError{Op: "num", Value: v})
	}
	return &Number{Value: lit}
}

func (o ops) Char(r rune) *Character {
	return &Character{Value: r}
}

func (o ops) Str(s string) *String {
	return &String{Value: s}
}

func (o ops) Call(target any, args ...any) *Call {
	node := &Call{Target: o.operand("call", target)}
	for _, arg := range args {
		if arg == nil {
			continue
		}
		node.Args = append(node.Args, o.argument(arg))
	}
	o.f.attach("call", node, true)
	return node
}

func (o ops) Assign(lhs, rhs any, more ...any) *MultaryOp {
	xs := append([]any{lhs, rhs}, more...)
	node := &MultaryOp{Op: OpAssign, Operands: o.operands("assign", xs)}
	if len(node.Operands) < 2 {
		fail(&InvalidExpressionError{Op: "assign", Value: xs})
	}
	o.f.attach("assign", node, true)
	return node
}

func (o ops) operands(op string, xs []any) []Expr {
	var out []Expr
	for _, x := range xs {
		if x == nil {
			continue
		}
		out = append(out, o.operand(op, x))
	}
	return out
}

func (o ops) Subscript(x, index any) *Subscript {
	return &Subscript{
		X:     o.operand("subscript", x),
		Index: o.operand("subscript", index),
	}
}

func (o ops) Cast(t, x any) *Cast {
	return &Cast{
		Type: o.Type(t),
		X:    o.operand("cast", x),
	}
}

func (o ops) Op(op string, xs ...any) Expr {
	operands := o.operands(op, xs)
	switch len(operands) {
	case 0:
		fail(&InvalidExpressionError{Op: op, Value: xs})
		return nil
	case 1:
		return &UnaryOp{Op: op, X: operands[0]}
	default:
		return &MultaryOp{Op: op, Operands: operands}
	}
}

func (o ops) Not(x any) Expr       { return o.Op(OpNot, x) }
func (o ops) Deref(x any) Expr     { return o.Op(OpDeref, x) }
func (o ops) AddressOf(x any) Expr { return o.Op(OpAddressOf, x) }
func (o ops) And(xs ...any) Expr   { return o.Op(OpAnd, xs...) }
func (o ops) Or(xs ...any) Expr    { return o.Op(OpOr, xs...) }
func (o ops) Eq(xs ...any) Expr    { return o.Op(OpEq, xs...) }
func (o ops) Neq(xs ...any) Expr   { return o.Op(OpNeq, xs...) }
func (o ops) Lt(xs ...any) Expr    { return o.Op(OpLt, xs...) }
func (o ops) Gt(xs ...any) Expr    { return o.Op(OpGt, xs...) }
func (o ops) Lte(xs ...any) Expr   { return o.Op(OpLte, xs...) }
func (o ops) Gte(xs ...any) Expr   { return o.Op(OpGte, xs...) }
func (o ops) Add(xs ...any) Expr   { return o.Op(OpAdd, xs...) }
func (o ops) Sub(xs ...any) Expr   { return o.Op(OpSub, xs...) }
func (o ops) Mul(xs ...any) Expr   { return o.Op(OpMul, xs...) }
func (o ops) Div(xs ...any) Expr   { return o.Op(OpDiv, xs...) }
func (o ops) Mod(xs ...any) Expr   { return o.Op(OpMod, xs...) }

func (o ops) Type(spec any) *Type {
	t, err := AsType(spec)
	if err != nil {
		fail(err)
	}
	return t
}

func (o ops) Const(spec any) *Type       { return o.Type(spec).WithConst() }
func (o ops) NotConst(spec any) *Type    { return o.Type(spec).WithoutConst() }
func (o ops) Volatile(spec any) *Type    { return o.Type(spec).WithVolatile() }
func (o ops) NotVolatile(spec any) *Type { return o.Type(spec).WithoutVolatile() }

func (o ops) Storage(storage string, spec any) *Type {
	t, err := o.Type(spec).WithStorage(storage)
	if err != nil {
		fail(err)
	}
	return t
}

func (o ops) Ptr(levels int, spec any) *Type {
	return o.Type(spec).PointerTo(levels)
}

func (o ops) DropPtr(levels int, spec any) *Type {
	return o.Type(spec).DropPointer(levels)
}

func (o ops) Array(spec any, sizes ...ArraySize) *Type {
	return o.Type(spec).ArrayOf(sizes...)
}

// FuncPtr builds a function pointer type. fn declares its signature; the
// return type defaults to void.
func (o ops) FuncPtr(fn func(Signature)) *Type {
	node := &Type{FuncPointer: true, Returns: &Type{Name: "void"}}
	sf := o.f.b.open(frameSignature, node)
	if fn != nil {
		fn(signature{sf})
	}
	o.f.b.close(sf)
	return node
}
