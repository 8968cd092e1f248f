package cast

import "reflect"

// Kind identifies which variant of the IR a node is. The string value doubles
// as the tag in serialized trees.
type Kind string

const (
	KindTopLevel        Kind = "topLevel"
	KindBlock           Kind = "block"
	KindInclude         Kind = "include"
	KindFuncDef         Kind = "funcdef"
	KindFuncArg         Kind = "funcArg"
	KindType            Kind = "type"
	KindStructDecl      Kind = "structDecl"
	KindStructField     Kind = "structField"
	KindDefine          Kind = "define"
	KindExprStatement   Kind = "exprStatement"
	KindReturnStatement Kind = "returnStatement"
	KindIfStatement     Kind = "ifStatement"
	KindElseClause      Kind = "elseClause"
	KindGotoStatement   Kind = "gotoStatement"
	KindLabelStatement  Kind = "labelStatement"
	KindVarDeclaration  Kind = "varDeclaration"
	KindSymbol          Kind = "symbol"
	KindNumber          Kind = "number"
	KindCharacter       Kind = "character"
	KindString          Kind = "string"
	KindCall            Kind = "call"
	KindSubscript       Kind = "subscript"
	KindCast            Kind = "cast"
	KindUnaryOp         Kind = "unaryOp"
	KindMultaryOp       Kind = "multaryOp"
)

// AllKinds lists every node kind in declaration order.
var AllKinds = []Kind{
	KindTopLevel,
	KindBlock,
	KindInclude,
	KindFuncDef,
	KindFuncArg,
	KindType,
	KindStructDecl,
	KindStructField,
	KindDefine,
	KindExprStatement,
	KindReturnStatement,
	KindIfStatement,
	KindElseClause,
	KindGotoStatement,
	KindLabelStatement,
	KindVarDeclaration,
	KindSymbol,
	KindNumber,
	KindCharacter,
	KindString,
	KindCall,
	KindSubscript,
	KindCast,
	KindUnaryOp,
	KindMultaryOp,
}

type kindClass uint8

const (
	classExpr kindClass = 1 << iota
	classStmt
	classBlock
)

var kindClasses = map[Kind]kindClass{
	KindTopLevel:        classBlock,
	KindBlock:           classBlock | classStmt,
	KindInclude:         classStmt,
	KindFuncDef:         classBlock | classStmt,
	KindStructDecl:      classStmt,
	KindDefine:          classStmt,
	KindExprStatement:   classStmt,
	KindReturnStatement: classStmt,
	KindIfStatement:     classBlock | classStmt,
	KindElseClause:      classBlock,
	KindGotoStatement:   classStmt,
	KindLabelStatement:  classStmt,
	KindVarDeclaration:  classStmt,
	KindSymbol:          classExpr,
	KindNumber:          classExpr,
	KindCharacter:       classExpr,
	KindString:          classExpr,
	KindCall:            classExpr,
	KindSubscript:       classExpr,
	KindCast:            classExpr,
	KindUnaryOp:         classExpr,
	KindMultaryOp:       classExpr,
}

// Node is any node of the IR.
type Node interface {
	Kind() Kind
}

// Expr is an expression-family node. Every expression tracks whether it has
// been consumed as an operand of another expression.
type Expr interface {
	Node
	IsNested() bool
	markNested()
}

// BlockNode is implemented by nodes that own a statement list.
type BlockNode interface {
	Node
	Statements() []Node
	setStatements([]Node)
}

// IsKind reports whether n is a non-nil node of kind k.
func IsKind(n Node, k Kind) bool {
	return n != nil && n.Kind() == k
}

// IsExpr reports whether n belongs to the expression family.
func IsExpr(n Node) bool {
	return n != nil && kindClasses[n.Kind()]&classExpr != 0
}

// IsStatement reports whether n may appear in a statement list.
func IsStatement(n Node) bool {
	return n != nil && kindClasses[n.Kind()]&classStmt != 0
}

// IsBlockBearing reports whether n owns a statement list.
func IsBlockBearing(n Node) bool {
	return n != nil && kindClasses[n.Kind()]&classBlock != 0
}

// isNil reports whether n is nil or a nil pointer wrapped in the interface.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// exprBase is embedded in every expression node.
type exprBase struct {
	Nested bool
}

func (e *exprBase) IsNested() bool { return e.Nested }

func (e *exprBase) markNested() { e.Nested = true }

// stmtList is embedded in every block-bearing node.
type stmtList struct {
	Stmts []Node
}

func (s *stmtList) Statements() []Node { return s.Stmts }

func (s *stmtList) setStatements(stmts []Node) { s.Stmts = stmts }

// PruneImplicit drops implicitly created expression statements whose
// expression was later consumed as a sub-expression. Order of the remaining
// statements is preserved. An empty result is nil.
func PruneImplicit(stmts []Node) []Node {
	var kept []Node
	for _, stmt := range stmts {
		if es, ok := stmt.(*ExprStatement); ok && es.Implicit && es.Expr != nil && es.Expr.IsNested() {
			continue
		}
		kept = append(kept, stmt)
	}
	return kept
}
