package cast

import (
	"log/slog"
)

type frameKind int

const (
	frameBlock frameKind = iota
	frameFunc
	frameMacro
	frameStruct
	frameSignature
)

func (k frameKind) String() string {
	switch k {
	case frameBlock:
		return "block"
	case frameFunc:
		return "function"
	case frameMacro:
		return "macro"
	case frameStruct:
		return "struct"
	case frameSignature:
		return "signature"
	default:
		return "unknown"
	}
}

// builder tracks the open frames of one TopLevel call. Frames nest strictly:
// only the innermost open frame may receive statements.
type builder struct {
	stack []*frame
}

type frame struct {
	b      *builder
	kind   frameKind
	node   Node
	closed bool
}

func (b *builder) open(kind frameKind, node Node) *frame {
	f := &frame{b: b, kind: kind, node: node}
	b.stack = append(b.stack, f)
	return f
}

// close finalizes the frame's node, pruning implicit statements whose
// expressions ended up nested, and pops it.
func (b *builder) close(f *frame) {
	if n := len(b.stack); n == 0 || b.stack[n-1] != f {
		failScope("close "+f.kind.String(), "frame is not innermost")
	}
	if bn, ok := f.node.(BlockNode); ok {
		before := len(bn.Statements())
		bn.setStatements(PruneImplicit(bn.Statements()))
		if pruned := before - len(bn.Statements()); pruned > 0 {
			slog.Debug("pruned implicit statements", "kind", f.node.Kind(), "pruned", pruned)
		}
	}
	f.closed = true
	b.stack = b.stack[:len(b.stack)-1]
}

// check fails unless the frame is open and innermost.
func (f *frame) check(op string) {
	if f.closed {
		failScope(op, "no enclosing "+f.kind.String()+": it has already been finalized")
	}
	if n := len(f.b.stack); n == 0 || f.b.stack[n-1] != f {
		failScope(op, "a nested "+f.b.stack[len(f.b.stack)-1].kind.String()+" is still open")
	}
}

// checkOpen fails unless the frame is still open, nested or not.
func (f *frame) checkOpen(op, outside string) {
	if f.closed {
		failScope(op, "used outside "+outside)
	}
}

// within runs fn in a new child frame of f and finalizes it.
func (f *frame) within(op string, kind frameKind, node Node, fn func(*frame)) {
	f.check(op)
	child := f.b.open(kind, node)
	fn(child)
	f.b.close(child)
}

// attach places a finished node into the frame's statement list, going
// through the build table so that each kind decides how it lands.
func (f *frame) attach(op string, node Node, implicit bool) Node {
	f.check(op)
	res, err := buildTable.Dispatch(node, attachment{frame: f, implicit: implicit})
	if err != nil {
		fail(err)
	}
	return res
}

type attachment struct {
	frame    *frame
	implicit bool
}

var buildTable = NewTable[attachment, Node]("build")

func init() {
	for _, kind := range AllKinds {
		switch {
		case kindClasses[kind]&classExpr != 0:
			buildTable.Register(kind, attachExpr)
		case kindClasses[kind]&classStmt != 0:
			buildTable.Register(kind, attachStmt)
		default:
			buildTable.Register(kind, rejectStmt)
		}
	}
}

func attachStmt(node Node, a attachment) (Node, error) {
	bn, ok := a.frame.node.(BlockNode)
	if !ok {
		return nil, &ScopeError{
			Op:     string(node.Kind()),
			Reason: "cannot append a statement inside a " + a.frame.kind.String(),
		}
	}
	bn.setStatements(append(bn.Statements(), node))
	return node, nil
}

// attachExpr wraps an expression into a statement. Macro bodies are single
// expressions, so nothing is wrapped there.
func attachExpr(node Node, a attachment) (Node, error) {
	if a.frame.kind == frameMacro {
		return node, nil
	}
	stmt := &ExprStatement{Expr: node.(Expr), Implicit: a.implicit}
	return attachStmt(stmt, a)
}

func rejectStmt(node Node, a attachment) (Node, error) {
	return nil, &ScopeError{
		Op:     string(node.Kind()),
		Reason: "not a statement",
	}
}

// Build assembles a translation unit. fn receives the top-level scope;
// every builder call made through it and its nested scopes adds to the tree.
//
// Builder misuse aborts construction: the offending call's error is
// returned and no tree is produced.
func Build(fn func(Scope)) (top *TopLevel, err error) {
	b := &builder{}
	top = &TopLevel{}
	defer func() {
		if r := recover(); r != nil {
			bp, ok := r.(buildPanic)
			if !ok {
				panic(r)
			}
			top, err = nil, bp.err
		}
	}()

	f := b.open(frameBlock, top)
	if fn != nil {
		fn(&blockScope{ops{f}})
	}
	b.close(f)
	return top, nil
}
