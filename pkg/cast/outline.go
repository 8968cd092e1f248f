package cast

import (
	"strconv"
	"strings"
)

// OutlineEntry is one line of a tree outline.
type OutlineEntry struct {
	Depth int
	Kind  Kind
	// Label is a short rendering of the node's own data, without children.
	Label string
	// Implicit marks expression statements the builder created
	// speculatively.
	Implicit bool
	// Nested marks expressions consumed by another node.
	Nested bool
}

// Outline flattens a tree depth-first for display.
func Outline(node Node) ([]OutlineEntry, error) {
	var entries []OutlineEntry
	var walk func(n Node, depth int) error
	walk = func(n Node, depth int) error {
		o, err := outlineTable.Dispatch(n, struct{}{})
		if err != nil {
			return err
		}
		entry := OutlineEntry{Depth: depth, Kind: n.Kind(), Label: o.label}
		if x, ok := n.(Expr); ok {
			entry.Nested = x.IsNested()
		}
		if es, ok := n.(*ExprStatement); ok {
			entry.Implicit = es.Implicit
		}
		entries = append(entries, entry)
		for _, child := range o.children {
			if child == nil {
				continue
			}
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(node, 0); err != nil {
		return nil, err
	}
	return entries, nil
}

type outlined struct {
	label    string
	children []Node
}

var outlineTable = NewTable[struct{}, outlined]("outline")

func nodesOf[T Node](xs []T) []Node {
	out := make([]Node, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func init() {
	reg := outlineTable.Register
	leaf := func(label string) (outlined, error) { return outlined{label: label}, nil }

	reg(KindTopLevel, func(n Node, _ struct{}) (outlined, error) {
		return outlined{children: n.(*TopLevel).Stmts}, nil
	})
	reg(KindBlock, func(n Node, _ struct{}) (outlined, error) {
		return outlined{children: n.(*Block).Stmts}, nil
	})
	reg(KindElseClause, func(n Node, _ struct{}) (outlined, error) {
		return outlined{children: n.(*ElseClause).Stmts}, nil
	})
	reg(KindInclude, func(n Node, _ struct{}) (outlined, error) {
		return leaf(n.(*Include).Path)
	})
	reg(KindFuncDef, func(n Node, _ struct{}) (outlined, error) {
		fn := n.(*FuncDef)
		return outlined{label: funcHeader(fn), children: fn.Stmts}, nil
	})
	reg(KindFuncArg, func(n Node, _ struct{}) (outlined, error) {
		arg := n.(*FuncArg)
		return leaf(declare(arg.Type, arg.Name))
	})
	reg(KindType, func(n Node, _ struct{}) (outlined, error) {
		return leaf(n.(*Type).Declare(""))
	})
	reg(KindStructDecl, func(n Node, _ struct{}) (outlined, error) {
		decl := n.(*StructDecl)
		return outlined{label: decl.Name, children: nodesOf(decl.Fields)}, nil
	})
	reg(KindStructField, func(n Node, _ struct{}) (outlined, error) {
		field := n.(*StructField)
		return leaf(declare(field.Type, field.Name))
	})
	reg(KindDefine, func(n Node, _ struct{}) (outlined, error) {
		def := n.(*Define)
		label := def.Name
		if def.Params != nil {
			label += "(" + strings.Join(def.Params, ", ") + ")"
		}
		return outlined{label: label, children: []Node{def.Body}}, nil
	})
	reg(KindExprStatement, func(n Node, _ struct{}) (outlined, error) {
		return outlined{children: []Node{exprNode(n.(*ExprStatement).Expr)}}, nil
	})
	reg(KindReturnStatement, func(n Node, _ struct{}) (outlined, error) {
		return outlined{children: []Node{exprNode(n.(*ReturnStatement).Value)}}, nil
	})
	reg(KindIfStatement, func(n Node, _ struct{}) (outlined, error) {
		stmt := n.(*IfStatement)
		children := append([]Node{exprNode(stmt.Cond)}, stmt.Stmts...)
		if stmt.Else != nil {
			children = append(children, stmt.Else)
		}
		return outlined{children: children}, nil
	})
	reg(KindGotoStatement, func(n Node, _ struct{}) (outlined, error) {
		return leaf(n.(*GotoStatement).Label)
	})
	reg(KindLabelStatement, func(n Node, _ struct{}) (outlined, error) {
		return leaf(n.(*LabelStatement).Name)
	})
	reg(KindVarDeclaration, func(n Node, _ struct{}) (outlined, error) {
		v := n.(*VarDeclaration)
		return outlined{label: declare(v.Type, v.Name), children: []Node{exprNode(v.Init)}}, nil
	})
	reg(KindSymbol, func(n Node, _ struct{}) (outlined, error) {
		return leaf(n.(*Symbol).Name)
	})
	reg(KindNumber, func(n Node, _ struct{}) (outlined, error) {
		return leaf(n.(*Number).Value)
	})
	reg(KindCharacter, func(n Node, _ struct{}) (outlined, error) {
		return leaf(quoteChar(n.(*Character).Value))
	})
	reg(KindString, func(n Node, _ struct{}) (outlined, error) {
		return leaf(quoteString(n.(*String).Value))
	})
	reg(KindCall, func(n Node, _ struct{}) (outlined, error) {
		call := n.(*Call)
		children := append([]Node{exprNode(call.Target)}, nodesOf(call.Args)...)
		return outlined{label: strconv.Itoa(len(call.Args)) + " args", children: children}, nil
	})
	reg(KindSubscript, func(n Node, _ struct{}) (outlined, error) {
		sub := n.(*Subscript)
		return outlined{children: []Node{exprNode(sub.X), exprNode(sub.Index)}}, nil
	})
	reg(KindCast, func(n Node, _ struct{}) (outlined, error) {
		c := n.(*Cast)
		return outlined{label: declare(c.Type, ""), children: []Node{exprNode(c.X)}}, nil
	})
	reg(KindUnaryOp, func(n Node, _ struct{}) (outlined, error) {
		op := n.(*UnaryOp)
		return outlined{label: op.Op, children: []Node{exprNode(op.X)}}, nil
	})
	reg(KindMultaryOp, func(n Node, _ struct{}) (outlined, error) {
		op := n.(*MultaryOp)
		return outlined{label: op.Op, children: nodesOf(op.Operands)}, nil
	})
}

// exprNode converts a possibly-nil Expr into a possibly-nil Node.
func exprNode(x Expr) Node {
	if x == nil {
		return nil
	}
	return x
}
