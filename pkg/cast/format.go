package cast

import (
	"bytes"
	"fmt"
	"strings"
)

const defaultIndentSize = 2

// Strategy selects how Render produces text. Both strategies yield identical
// output.
type Strategy string

const (
	// StrategyWriter streams into a buffer, tracking the indent depth.
	StrategyWriter Strategy = "writer"
	// StrategyCompose builds each subtree as a string and re-indents nested
	// blocks as a text post-process.
	StrategyCompose Strategy = "compose"
)

// ParseStrategy validates a strategy name. An empty name selects the writer.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategyWriter, nil
	case StrategyWriter, StrategyCompose:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown render strategy %q (want %s or %s)", s, StrategyWriter, StrategyCompose)
	}
}

type renderConfig struct {
	indentSize int
	strategy   Strategy
}

type RenderOption func(*renderConfig)

// WithIndent sets the number of spaces per indent level. Defaults to 2.
func WithIndent(size int) RenderOption {
	return func(c *renderConfig) {
		c.indentSize = size
	}
}

func WithStrategy(s Strategy) RenderOption {
	return func(c *renderConfig) {
		c.strategy = s
	}
}

// Render formats a finished tree as C source.
func Render(node Node, opts ...RenderOption) (string, error) {
	cfg := renderConfig{
		indentSize: defaultIndentSize,
		strategy:   StrategyWriter,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.indentSize <= 0 {
		return "", fmt.Errorf("indent size must be positive, got %d", cfg.indentSize)
	}

	switch cfg.strategy {
	case StrategyWriter:
		f := &Formatter{indentSize: cfg.indentSize, lineStart: true}
		if err := f.formatNode(node); err != nil {
			return "", err
		}
		return f.buf.String(), nil
	case StrategyCompose:
		c := &composer{indent: strings.Repeat(" ", cfg.indentSize)}
		return c.compose(node)
	default:
		return "", fmt.Errorf("unknown render strategy %q", cfg.strategy)
	}
}

// Formatter renders a tree by writing into a buffer. Indentation is applied
// lazily at the first character of each line, so handlers can emit
// multi-line text without tracking columns.
type Formatter struct {
	buf        bytes.Buffer
	indent     int
	indentSize int
	lineStart  bool
}

func (f *Formatter) write(s string) {
	for len(s) > 0 {
		if f.lineStart && s[0] != '\n' {
			f.buf.WriteString(strings.Repeat(" ", f.indent*f.indentSize))
			f.lineStart = false
		}
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			f.buf.WriteString(s)
			return
		}
		f.buf.WriteString(s[:i+1])
		f.lineStart = true
		s = s[i+1:]
	}
}

func (f *Formatter) formatNode(node Node) error {
	_, err := writerTable.Dispatch(node, f)
	return err
}

func (f *Formatter) formatNodes(nodes []Node) error {
	for _, n := range nodes {
		if err := f.formatNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) formatList(exprs []Expr, sep string) error {
	for i, x := range exprs {
		if i > 0 {
			f.write(sep)
		}
		if err := f.formatNode(x); err != nil {
			return err
		}
	}
	return nil
}

// formatBody writes a braced statement list.
func (f *Formatter) formatBody(stmts []Node) error {
	f.write("{\n")
	f.indent++
	if err := f.formatNodes(stmts); err != nil {
		return err
	}
	f.indent--
	f.write("}")
	return nil
}

var writerTable = NewTable[*Formatter, struct{}]("writer")

func emitter(fn func(Node, *Formatter) error) Handler[*Formatter, struct{}] {
	return func(n Node, f *Formatter) (struct{}, error) {
		return struct{}{}, fn(n, f)
	}
}

func init() {
	reg := func(k Kind, fn func(Node, *Formatter) error) {
		writerTable.Register(k, emitter(fn))
	}

	reg(KindTopLevel, func(n Node, f *Formatter) error {
		return f.formatNodes(n.(*TopLevel).Stmts)
	})
	reg(KindBlock, func(n Node, f *Formatter) error {
		if err := f.formatBody(n.(*Block).Stmts); err != nil {
			return err
		}
		f.write("\n")
		return nil
	})
	reg(KindInclude, func(n Node, f *Formatter) error {
		f.write("#include " + n.(*Include).Path + "\n")
		return nil
	})
	reg(KindFuncDef, func(n Node, f *Formatter) error {
		fn := n.(*FuncDef)
		f.write(funcHeader(fn) + " ")
		if err := f.formatBody(fn.Stmts); err != nil {
			return err
		}
		f.write("\n")
		return nil
	})
	reg(KindFuncArg, func(n Node, f *Formatter) error {
		arg := n.(*FuncArg)
		f.write(declare(arg.Type, arg.Name))
		return nil
	})
	reg(KindType, func(n Node, f *Formatter) error {
		f.write(n.(*Type).Declare(""))
		return nil
	})
	reg(KindStructDecl, func(n Node, f *Formatter) error {
		decl := n.(*StructDecl)
		f.write("struct " + decl.Name + " {\n")
		f.indent++
		for _, field := range decl.Fields {
			if err := f.formatNode(field); err != nil {
				return err
			}
		}
		f.indent--
		f.write("};\n")
		return nil
	})
	reg(KindStructField, func(n Node, f *Formatter) error {
		field := n.(*StructField)
		f.write(declare(field.Type, field.Name) + ";\n")
		return nil
	})
	reg(KindDefine, func(n Node, f *Formatter) error {
		def := n.(*Define)
		var body string
		if def.Body != nil {
			sub := &Formatter{indentSize: f.indentSize, lineStart: true}
			if err := sub.formatNode(def.Body); err != nil {
				return err
			}
			body = sub.buf.String()
		}
		f.write(defineLine(def, body))
		return nil
	})
	reg(KindExprStatement, func(n Node, f *Formatter) error {
		if err := f.formatNode(n.(*ExprStatement).Expr); err != nil {
			return err
		}
		f.write(";\n")
		return nil
	})
	reg(KindReturnStatement, func(n Node, f *Formatter) error {
		ret := n.(*ReturnStatement)
		if ret.Value == nil {
			f.write("return;\n")
			return nil
		}
		f.write("return ")
		if err := f.formatNode(ret.Value); err != nil {
			return err
		}
		f.write(";\n")
		return nil
	})
	reg(KindIfStatement, func(n Node, f *Formatter) error {
		stmt := n.(*IfStatement)
		f.write("if (")
		if err := f.formatNode(stmt.Cond); err != nil {
			return err
		}
		f.write(") ")
		if err := f.formatBody(stmt.Stmts); err != nil {
			return err
		}
		if stmt.Else == nil {
			f.write("\n")
			return nil
		}
		f.write(" ")
		return f.formatNode(stmt.Else)
	})
	reg(KindElseClause, func(n Node, f *Formatter) error {
		f.write("else ")
		if err := f.formatBody(n.(*ElseClause).Stmts); err != nil {
			return err
		}
		f.write("\n")
		return nil
	})
	reg(KindGotoStatement, func(n Node, f *Formatter) error {
		f.write("goto " + n.(*GotoStatement).Label + ";\n")
		return nil
	})
	reg(KindLabelStatement, func(n Node, f *Formatter) error {
		f.write(n.(*LabelStatement).Name + ":\n")
		return nil
	})
	reg(KindVarDeclaration, func(n Node, f *Formatter) error {
		v := n.(*VarDeclaration)
		f.write(declare(v.Type, v.Name))
		if v.Init != nil {
			f.write(" = ")
			if err := f.formatNode(v.Init); err != nil {
				return err
			}
		}
		f.write(";\n")
		return nil
	})
	reg(KindSymbol, func(n Node, f *Formatter) error {
		f.write(n.(*Symbol).Name)
		return nil
	})
	reg(KindNumber, func(n Node, f *Formatter) error {
		f.write(n.(*Number).Value)
		return nil
	})
	reg(KindCharacter, func(n Node, f *Formatter) error {
		f.write(quoteChar(n.(*Character).Value))
		return nil
	})
	reg(KindString, func(n Node, f *Formatter) error {
		f.write(quoteString(n.(*String).Value))
		return nil
	})
	reg(KindCall, func(n Node, f *Formatter) error {
		call := n.(*Call)
		if err := f.formatNode(call.Target); err != nil {
			return err
		}
		f.write("(")
		if err := f.formatList(call.Args, ", "); err != nil {
			return err
		}
		f.write(")")
		return nil
	})
	reg(KindSubscript, func(n Node, f *Formatter) error {
		sub := n.(*Subscript)
		f.write("(")
		if err := f.formatNode(sub.X); err != nil {
			return err
		}
		f.write(")[")
		if err := f.formatNode(sub.Index); err != nil {
			return err
		}
		f.write("]")
		return nil
	})
	reg(KindCast, func(n Node, f *Formatter) error {
		c := n.(*Cast)
		f.write("(" + declare(c.Type, "") + ")(")
		if err := f.formatNode(c.X); err != nil {
			return err
		}
		f.write(")")
		return nil
	})
	reg(KindUnaryOp, func(n Node, f *Formatter) error {
		op := n.(*UnaryOp)
		f.write(op.Op + "(")
		if err := f.formatNode(op.X); err != nil {
			return err
		}
		f.write(")")
		return nil
	})
	reg(KindMultaryOp, func(n Node, f *Formatter) error {
		op := n.(*MultaryOp)
		f.write("(")
		if err := f.formatList(op.Operands, " "+op.Op+" "); err != nil {
			return err
		}
		f.write(")")
		return nil
	})
}

// declare renders t declaring name, tolerating a missing type.
func declare(t *Type, name string) string {
	if t == nil {
		t = &Type{Name: "int"}
	}
	return t.Declare(name)
}

func funcHeader(fn *FuncDef) string {
	args := make([]string, len(fn.Args))
	for i, arg := range fn.Args {
		args[i] = declare(arg.Type, arg.Name)
	}
	ret := fn.Returns
	if ret == nil {
		ret = &Type{Name: "void"}
	}
	return ret.Declare(fn.Name + "(" + strings.Join(args, ", ") + ")")
}

// defineLine renders a macro definition on one logical line; newlines in
// the rendered body become line continuations.
func defineLine(def *Define, body string) string {
	var b strings.Builder
	b.WriteString("#define ")
	b.WriteString(def.Name)
	if def.Params != nil {
		b.WriteString("(" + strings.Join(def.Params, ", ") + ")")
	}
	if body = strings.TrimSpace(body); body != "" {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(body, "\n", " \\\n"))
	}
	b.WriteString("\n")
	return b.String()
}
