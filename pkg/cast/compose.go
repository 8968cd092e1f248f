package cast

import (
	"strings"
)

// composer renders bottom-up: every handler returns the full text of its
// subtree, and nested statement lists are indented after the fact.
type composer struct {
	indent string
}

func (c *composer) compose(node Node) (string, error) {
	return composeTable.Dispatch(node, c)
}

func (c *composer) composeAll(nodes []Node) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		s, err := c.compose(n)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (c *composer) composeList(exprs []Expr, sep string) (string, error) {
	parts := make([]string, len(exprs))
	for i, x := range exprs {
		s, err := c.compose(x)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, sep), nil
}

// reindent prefixes every non-empty line with one indent unit.
func (c *composer) reindent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	for i, line := range lines {
		if line != "" && line != "\n" {
			lines[i] = c.indent + line
		}
	}
	return strings.Join(lines, "")
}

// body renders a braced statement list without the trailing newline.
func (c *composer) body(stmts []Node) (string, error) {
	inner, err := c.composeAll(stmts)
	if err != nil {
		return "", err
	}
	return "{\n" + c.reindent(inner) + "}", nil
}

var composeTable = NewTable[*composer, string]("compose")

func init() {
	reg := composeTable.Register

	reg(KindTopLevel, func(n Node, c *composer) (string, error) {
		return c.composeAll(n.(*TopLevel).Stmts)
	})
	reg(KindBlock, func(n Node, c *composer) (string, error) {
		body, err := c.body(n.(*Block).Stmts)
		if err != nil {
			return "", err
		}
		return body + "\n", nil
	})
	reg(KindInclude, func(n Node, c *composer) (string, error) {
		return "#include " + n.(*Include).Path + "\n", nil
	})
	reg(KindFuncDef, func(n Node, c *composer) (string, error) {
		fn := n.(*FuncDef)
		body, err := c.body(fn.Stmts)
		if err != nil {
			return "", err
		}
		return funcHeader(fn) + " " + body + "\n", nil
	})
	reg(KindFuncArg, func(n Node, c *composer) (string, error) {
		arg := n.(*FuncArg)
		return declare(arg.Type, arg.Name), nil
	})
	reg(KindType, func(n Node, c *composer) (string, error) {
		return n.(*Type).Declare(""), nil
	})
	reg(KindStructDecl, func(n Node, c *composer) (string, error) {
		decl := n.(*StructDecl)
		var fields strings.Builder
		for _, field := range decl.Fields {
			s, err := c.compose(field)
			if err != nil {
				return "", err
			}
			fields.WriteString(s)
		}
		return "struct " + decl.Name + " {\n" + c.reindent(fields.String()) + "};\n", nil
	})
	reg(KindStructField, func(n Node, c *composer) (string, error) {
		field := n.(*StructField)
		return declare(field.Type, field.Name) + ";\n", nil
	})
	reg(KindDefine, func(n Node, c *composer) (string, error) {
		def := n.(*Define)
		var body string
		if def.Body != nil {
			var err error
			if body, err = c.compose(def.Body); err != nil {
				return "", err
			}
		}
		return defineLine(def, body), nil
	})
	reg(KindExprStatement, func(n Node, c *composer) (string, error) {
		x, err := c.compose(n.(*ExprStatement).Expr)
		if err != nil {
			return "", err
		}
		return x + ";\n", nil
	})
	reg(KindReturnStatement, func(n Node, c *composer) (string, error) {
		ret := n.(*ReturnStatement)
		if ret.Value == nil {
			return "return;\n", nil
		}
		x, err := c.compose(ret.Value)
		if err != nil {
			return "", err
		}
		return "return " + x + ";\n", nil
	})
	reg(KindIfStatement, func(n Node, c *composer) (string, error) {
		stmt := n.(*IfStatement)
		cond, err := c.compose(stmt.Cond)
		if err != nil {
			return "", err
		}
		body, err := c.body(stmt.Stmts)
		if err != nil {
			return "", err
		}
		out := "if (" + cond + ") " + body
		if stmt.Else == nil {
			return out + "\n", nil
		}
		els, err := c.compose(stmt.Else)
		if err != nil {
			return "", err
		}
		return out + " " + els, nil
	})
	reg(KindElseClause, func(n Node, c *composer) (string, error) {
		body, err := c.body(n.(*ElseClause).Stmts)
		if err != nil {
			return "", err
		}
		return "else " + body + "\n", nil
	})
	reg(KindGotoStatement, func(n Node, c *composer) (string, error) {
		return "goto " + n.(*GotoStatement).Label + ";\n", nil
	})
	reg(KindLabelStatement, func(n Node, c *composer) (string, error) {
		return n.(*LabelStatement).Name + ":\n", nil
	})
	reg(KindVarDeclaration, func(n Node, c *composer) (string, error) {
		v := n.(*VarDeclaration)
		out := declare(v.Type, v.Name)
		if v.Init != nil {
			value, err := c.compose(v.Init)
			if err != nil {
				return "", err
			}
			out += " = " + value
		}
		return out + ";\n", nil
	})
	reg(KindSymbol, func(n Node, c *composer) (string, error) {
		return n.(*Symbol).Name, nil
	})
	reg(KindNumber, func(n Node, c *composer) (string, error) {
		return n.(*Number).Value, nil
	})
	reg(KindCharacter, func(n Node, c *composer) (string, error) {
		return quoteChar(n.(*Character).Value), nil
	})
	reg(KindString, func(n Node, c *composer) (string, error) {
		return quoteString(n.(*String).Value), nil
	})
	reg(KindCall, func(n Node, c *composer) (string, error) {
		call := n.(*Call)
		target, err := c.compose(call.Target)
		if err != nil {
			return "", err
		}
		args, err := c.composeList(call.Args, ", ")
		if err != nil {
			return "", err
		}
		return target + "(" + args + ")", nil
	})
	reg(KindSubscript, func(n Node, c *composer) (string, error) {
		sub := n.(*Subscript)
		x, err := c.compose(sub.X)
		if err != nil {
			return "", err
		}
		index, err := c.compose(sub.Index)
		if err != nil {
			return "", err
		}
		return "(" + x + ")[" + index + "]", nil
	})
	reg(KindCast, func(n Node, c *composer) (string, error) {
		cast := n.(*Cast)
		x, err := c.compose(cast.X)
		if err != nil {
			return "", err
		}
		return "(" + declare(cast.Type, "") + ")(" + x + ")", nil
	})
	reg(KindUnaryOp, func(n Node, c *composer) (string, error) {
		op := n.(*UnaryOp)
		x, err := c.compose(op.X)
		if err != nil {
			return "", err
		}
		return op.Op + "(" + x + ")", nil
	})
	reg(KindMultaryOp, func(n Node, c *composer) (string, error) {
		op := n.(*MultaryOp)
		xs, err := c.composeList(op.Operands, " "+op.Op+" ")
		if err != nil {
			return "", err
		}
		return "(" + xs + ")", nil
	})
}
