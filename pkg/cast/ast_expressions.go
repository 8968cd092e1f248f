package cast

// Call is a function call expression.
type Call struct {
	exprBase
	Target Expr
	Args   []Expr
}

func (*Call) Kind() Kind { return KindCall }

// Subscript indexes X by Index.
type Subscript struct {
	exprBase
	X     Expr
	Index Expr
}

func (*Subscript) Kind() Kind { return KindSubscript }

// Cast converts X to Type.
type Cast struct {
	exprBase
	Type *Type
	X    Expr
}

func (*Cast) Kind() Kind { return KindCast }

// UnaryOp applies a prefix operator to a single operand.
type UnaryOp struct {
	exprBase
	Op string
	X  Expr
}

func (*UnaryOp) Kind() Kind { return KindUnaryOp }

// MultaryOp joins two or more operands with an infix operator.
type MultaryOp struct {
	exprBase
	Op       string
	Operands []Expr
}

func (*MultaryOp) Kind() Kind { return KindMultaryOp }

// Operators understood by the builder helpers.
const (
	OpNot       = "!"
	OpDeref     = "*"
	OpAddressOf = "&"
	OpAnd       = "&&"
	OpOr        = "||"
	OpEq        = "=="
	OpNeq       = "!="
	OpLt        = "<"
	OpGt        = ">"
	OpLte       = "<="
	OpGte       = ">="
	OpAdd       = "+"
	OpSub       = "-"
	OpMul       = "*"
	OpDiv       = "/"
	OpMod       = "%"
	OpAssign    = "="
)
