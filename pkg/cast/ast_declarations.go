package cast

// TopLevel is the root of a translation unit.
type TopLevel struct {
	stmtList
}

func (*TopLevel) Kind() Kind { return KindTopLevel }

// Block is a braced compound statement.
type Block struct {
	stmtList
}

func (*Block) Kind() Kind { return KindBlock }

// Include is a preprocessor include. Path is emitted verbatim, so it carries
// its own delimiters: `<stdio.h>` or `"local.h"`.
type Include struct {
	Path string
}

func (*Include) Kind() Kind { return KindInclude }

// FuncDef is a function definition with a body.
type FuncDef struct {
	Name    string
	Returns *Type
	Args    []*FuncArg
	stmtList
}

func (*FuncDef) Kind() Kind { return KindFuncDef }

// FuncArg is a named parameter of a function or function pointer.
type FuncArg struct {
	Name string
	Type *Type
}

func (*FuncArg) Kind() Kind { return KindFuncArg }

// StructDecl declares a struct with fields in declaration order.
type StructDecl struct {
	Name   string
	Fields []*StructField
}

func (*StructDecl) Kind() Kind { return KindStructDecl }

// Field returns the field with the given name, or nil.
func (s *StructDecl) Field(name string) *StructField {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

type StructField struct {
	Name string
	Type *Type
}

func (*StructField) Kind() Kind { return KindStructField }

// Define is a preprocessor macro definition.
//
// A nil Params renders an object-like macro; a non-nil (possibly empty)
// Params renders a function-like macro. Body is an expression or a block.
type Define struct {
	Name   string
	Params []string
	Body   Node
}

func (*Define) Kind() Kind { return KindDefine }

// ExprStatement wraps an expression evaluated for its side effects.
type ExprStatement struct {
	Expr Expr

	// Implicit is set when the builder created the statement on the
	// assumption that its expression would stand alone.
	Implicit bool
}

func (*ExprStatement) Kind() Kind { return KindExprStatement }

// ReturnStatement returns Value, or nothing when Value is nil.
type ReturnStatement struct {
	Value Expr
}

func (*ReturnStatement) Kind() Kind { return KindReturnStatement }

type IfStatement struct {
	Cond Expr
	stmtList
	Else *ElseClause
}

func (*IfStatement) Kind() Kind { return KindIfStatement }

type ElseClause struct {
	stmtList
}

func (*ElseClause) Kind() Kind { return KindElseClause }

type GotoStatement struct {
	Label string
}

func (*GotoStatement) Kind() Kind { return KindGotoStatement }

type LabelStatement struct {
	Name string
}

func (*LabelStatement) Kind() Kind { return KindLabelStatement }

// VarDeclaration declares a variable, optionally initialized.
type VarDeclaration struct {
	Name string
	Type *Type
	Init Expr
}

func (*VarDeclaration) Kind() Kind { return KindVarDeclaration }
