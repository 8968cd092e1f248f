package cast

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// record is the generic tagged form of a node: a "kind" key plus the
// kind-specific fields.
type record map[string]any

const varLenTag = "n"

// MarshalJSON serializes a tree into tagged JSON records.
func MarshalJSON(node Node) ([]byte, error) {
	rec, err := encodeNode(node)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(rec, "", "  ")
}

// UnmarshalJSON restores a tree serialized by MarshalJSON.
func UnmarshalJSON(data []byte) (Node, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding json")
	}
	return decodeNode(raw)
}

// MarshalYAML serializes a tree into the YAML rendering of its tagged
// records.
func MarshalYAML(node Node) ([]byte, error) {
	js, err := MarshalJSON(node)
	if err != nil {
		return nil, err
	}
	out, err := yaml.JSONToYAML(js)
	if err != nil {
		return nil, errors.Wrap(err, "converting to yaml")
	}
	return out, nil
}

func UnmarshalYAML(data []byte) (Node, error) {
	js, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	return UnmarshalJSON(js)
}

var encodeTable = NewTable[struct{}, record]("encode")

func encodeNode(node Node) (record, error) {
	rec, err := encodeTable.Dispatch(node, struct{}{})
	if err != nil {
		return nil, err
	}
	rec["kind"] = string(node.Kind())
	if x, ok := node.(Expr); ok && x.IsNested() {
		rec["nestedExpression"] = true
	}
	return rec, nil
}

func encodeNodes[T Node](nodes []T) ([]any, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]any, len(nodes))
	for i, n := range nodes {
		rec, err := encodeNode(n)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		out[i] = rec
	}
	return out, nil
}

// put sets key when the encoded child list is non-empty.
func (r record) put(key string, v []any) {
	if len(v) > 0 {
		r[key] = v
	}
}

func (r record) putNode(key string, n Node) error {
	if n == nil {
		return nil
	}
	rec, err := encodeNode(n)
	if err != nil {
		return errors.Wrap(err, key)
	}
	r[key] = rec
	return nil
}

func encodeStmts(n Node) (record, error) {
	stmts, err := encodeNodes(n.(BlockNode).Statements())
	if err != nil {
		return nil, err
	}
	rec := record{}
	rec.put("stmts", stmts)
	return rec, nil
}

func encodeType(t *Type) (record, error) {
	rec := record{}
	if t.Name != "" {
		rec["name"] = t.Name
	}
	if t.Const {
		rec["const"] = true
	}
	if t.Volatile {
		rec["volatile"] = true
	}
	if t.Storage != "" {
		rec["storage"] = string(t.Storage)
	}
	if len(t.Layers) > 0 {
		layers := make([]any, len(t.Layers))
		for i, l := range t.Layers {
			if l.isPointer() {
				layers[i] = map[string]any{"pointer": l.Pointer}
				continue
			}
			dims := make([]any, len(l.Array))
			for j, d := range l.Array {
				if d == VarLen {
					dims[j] = varLenTag
				} else {
					dims[j] = int(d)
				}
			}
			layers[i] = map[string]any{"array": dims}
		}
		rec["layers"] = layers
	}
	if t.FuncPointer {
		rec["funcPointer"] = true
		if err := rec.putNode("returns", nilIfNoType(t.Returns)); err != nil {
			return nil, err
		}
		args, err := encodeNodes(t.Args)
		if err != nil {
			return nil, err
		}
		rec.put("args", args)
	}
	return rec, nil
}

func nilIfNoType(t *Type) Node {
	if t == nil {
		return nil
	}
	return t
}

func init() {
	reg := encodeTable.Register

	reg(KindTopLevel, func(n Node, _ struct{}) (record, error) { return encodeStmts(n) })
	reg(KindBlock, func(n Node, _ struct{}) (record, error) { return encodeStmts(n) })
	reg(KindElseClause, func(n Node, _ struct{}) (record, error) { return encodeStmts(n) })
	reg(KindInclude, func(n Node, _ struct{}) (record, error) {
		return record{"path": n.(*Include).Path}, nil
	})
	reg(KindFuncDef, func(n Node, _ struct{}) (record, error) {
		fn := n.(*FuncDef)
		rec, err := encodeStmts(fn)
		if err != nil {
			return nil, err
		}
		rec["name"] = fn.Name
		if err := rec.putNode("returns", nilIfNoType(fn.Returns)); err != nil {
			return nil, err
		}
		args, err := encodeNodes(fn.Args)
		if err != nil {
			return nil, err
		}
		rec.put("args", args)
		return rec, nil
	})
	reg(KindFuncArg, func(n Node, _ struct{}) (record, error) {
		arg := n.(*FuncArg)
		rec := record{"name": arg.Name}
		return rec, rec.putNode("type", nilIfNoType(arg.Type))
	})
	reg(KindType, func(n Node, _ struct{}) (record, error) {
		return encodeType(n.(*Type))
	})
	reg(KindStructDecl, func(n Node, _ struct{}) (record, error) {
		decl := n.(*StructDecl)
		fields, err := encodeNodes(decl.Fields)
		if err != nil {
			return nil, err
		}
		rec := record{"name": decl.Name}
		rec.put("fields", fields)
		return rec, nil
	})
	reg(KindStructField, func(n Node, _ struct{}) (record, error) {
		field := n.(*StructField)
		rec := record{"name": field.Name}
		return rec, rec.putNode("type", nilIfNoType(field.Type))
	})
	reg(KindDefine, func(n Node, _ struct{}) (record, error) {
		def := n.(*Define)
		rec := record{"name": def.Name}
		if def.Params != nil {
			params := make([]any, len(def.Params))
			for i, p := range def.Params {
				params[i] = p
			}
			rec["params"] = params
		}
		return rec, rec.putNode("body", def.Body)
	})
	reg(KindExprStatement, func(n Node, _ struct{}) (record, error) {
		stmt := n.(*ExprStatement)
		rec := record{}
		if stmt.Implicit {
			rec["implicitlyCreated"] = true
		}
		return rec, rec.putNode("expr", exprNode(stmt.Expr))
	})
	reg(KindReturnStatement, func(n Node, _ struct{}) (record, error) {
		rec := record{}
		return rec, rec.putNode("value", exprNode(n.(*ReturnStatement).Value))
	})
	reg(KindIfStatement, func(n Node, _ struct{}) (record, error) {
		stmt := n.(*IfStatement)
		rec, err := encodeStmts(stmt)
		if err != nil {
			return nil, err
		}
		if err := rec.putNode("cond", exprNode(stmt.Cond)); err != nil {
			return nil, err
		}
		if stmt.Else != nil {
			if err := rec.putNode("else", stmt.Else); err != nil {
				return nil, err
			}
		}
		return rec, nil
	})
	reg(KindGotoStatement, func(n Node, _ struct{}) (record, error) {
		return record{"label": n.(*GotoStatement).Label}, nil
	})
	reg(KindLabelStatement, func(n Node, _ struct{}) (record, error) {
		return record{"name": n.(*LabelStatement).Name}, nil
	})
	reg(KindVarDeclaration, func(n Node, _ struct{}) (record, error) {
		v := n.(*VarDeclaration)
		rec := record{"name": v.Name}
		if err := rec.putNode("type", nilIfNoType(v.Type)); err != nil {
			return nil, err
		}
		return rec, rec.putNode("init", exprNode(v.Init))
	})
	reg(KindSymbol, func(n Node, _ struct{}) (record, error) {
		return record{"name": n.(*Symbol).Name}, nil
	})
	reg(KindNumber, func(n Node, _ struct{}) (record, error) {
		return record{"value": n.(*Number).Value}, nil
	})
	reg(KindCharacter, func(n Node, _ struct{}) (record, error) {
		return record{"value": string(n.(*Character).Value)}, nil
	})
	reg(KindString, func(n Node, _ struct{}) (record, error) {
		return record{"value": n.(*String).Value}, nil
	})
	reg(KindCall, func(n Node, _ struct{}) (record, error) {
		call := n.(*Call)
		rec := record{}
		if err := rec.putNode("target", exprNode(call.Target)); err != nil {
			return nil, err
		}
		args, err := encodeNodes(call.Args)
		if err != nil {
			return nil, err
		}
		rec.put("args", args)
		return rec, nil
	})
	reg(KindSubscript, func(n Node, _ struct{}) (record, error) {
		sub := n.(*Subscript)
		rec := record{}
		if err := rec.putNode("x", exprNode(sub.X)); err != nil {
			return nil, err
		}
		return rec, rec.putNode("index", exprNode(sub.Index))
	})
	reg(KindCast, func(n Node, _ struct{}) (record, error) {
		c := n.(*Cast)
		rec := record{}
		if err := rec.putNode("type", nilIfNoType(c.Type)); err != nil {
			return nil, err
		}
		return rec, rec.putNode("x", exprNode(c.X))
	})
	reg(KindUnaryOp, func(n Node, _ struct{}) (record, error) {
		op := n.(*UnaryOp)
		rec := record{"op": op.Op}
		return rec, rec.putNode("x", exprNode(op.X))
	})
	reg(KindMultaryOp, func(n Node, _ struct{}) (record, error) {
		op := n.(*MultaryOp)
		operands, err := encodeNodes(op.Operands)
		if err != nil {
			return nil, err
		}
		rec := record{"op": op.Op}
		rec.put("operands", operands)
		return rec, nil
	})
}

// decoder reads one generic record.
type decoder struct {
	rec  map[string]any
	kind Kind
}

var decoders = map[Kind]func(d *decoder) (Node, error){}

func decodeNode(raw any) (Node, error) {
	rec, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.Errorf("expected a node record, got %T", raw)
	}
	kind, ok := rec["kind"].(string)
	if !ok {
		return nil, errors.Errorf("node record has no kind")
	}
	decode, ok := decoders[Kind(kind)]
	if !ok {
		return nil, &MissingHandlerError{Table: "decode", Kind: Kind(kind)}
	}
	d := &decoder{rec: rec, kind: Kind(kind)}
	node, err := decode(d)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", kind)
	}
	if x, ok := node.(Expr); ok && d.bool("nestedExpression") {
		x.markNested()
	}
	return node, nil
}

func (d *decoder) string(key string) string {
	s, _ := d.rec[key].(string)
	return s
}

func (d *decoder) bool(key string) bool {
	b, _ := d.rec[key].(bool)
	return b
}

func (d *decoder) list(key string) ([]any, error) {
	raw, ok := d.rec[key]
	if !ok || raw == nil {
		return nil, nil
	}
	xs, ok := raw.([]any)
	if !ok {
		return nil, errors.Errorf("%s: expected a list, got %T", key, raw)
	}
	return xs, nil
}

// node decodes an optional child.
func (d *decoder) node(key string) (Node, error) {
	raw, ok := d.rec[key]
	if !ok || raw == nil {
		return nil, nil
	}
	n, err := decodeNode(raw)
	if err != nil {
		return nil, errors.Wrap(err, key)
	}
	return n, nil
}

func (d *decoder) nodes(key string) ([]Node, error) {
	xs, err := d.list(key)
	if err != nil {
		return nil, err
	}
	var out []Node
	for i, raw := range xs {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", key, i)
		}
		out = append(out, n)
	}
	return out, nil
}

func (d *decoder) expr(key string) (Expr, error) {
	n, err := d.node(key)
	if err != nil || n == nil {
		return nil, err
	}
	x, ok := n.(Expr)
	if !ok {
		return nil, errors.Errorf("%s: %s is not an expression", key, n.Kind())
	}
	return x, nil
}

func (d *decoder) exprs(key string) ([]Expr, error) {
	nodes, err := d.nodes(key)
	if err != nil {
		return nil, err
	}
	var out []Expr
	for _, n := range nodes {
		x, ok := n.(Expr)
		if !ok {
			return nil, errors.Errorf("%s: %s is not an expression", key, n.Kind())
		}
		out = append(out, x)
	}
	return out, nil
}

func (d *decoder) typ(key string) (*Type, error) {
	n, err := d.node(key)
	if err != nil || n == nil {
		return nil, err
	}
	t, ok := n.(*Type)
	if !ok {
		return nil, errors.Errorf("%s: %s is not a type", key, n.Kind())
	}
	return t, nil
}

func (d *decoder) funcArgs(key string) ([]*FuncArg, error) {
	nodes, err := d.nodes(key)
	if err != nil {
		return nil, err
	}
	var out []*FuncArg
	for _, n := range nodes {
		arg, ok := n.(*FuncArg)
		if !ok {
			return nil, errors.Errorf("%s: %s is not a function argument", key, n.Kind())
		}
		out = append(out, arg)
	}
	return out, nil
}

func (d *decoder) stmts() ([]Node, error) {
	nodes, err := d.nodes("stmts")
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if !IsStatement(n) {
			return nil, errors.Errorf("stmts: %s is not a statement", n.Kind())
		}
	}
	return nodes, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

func decodeLayers(raw []any) ([]Layer, error) {
	var layers []Layer
	for i, x := range raw {
		m, ok := x.(map[string]any)
		if !ok {
			return nil, errors.Errorf("layers[%d]: expected a record, got %T", i, x)
		}
		if dims, ok := m["array"].([]any); ok {
			l := Layer{}
			for _, dim := range dims {
				if dim == varLenTag {
					l.Array = append(l.Array, VarLen)
					continue
				}
				size, err := toInt(dim)
				if err != nil {
					return nil, errors.Wrapf(err, "layers[%d]", i)
				}
				l.Array = append(l.Array, ArraySize(size))
			}
			layers = append(layers, l)
			continue
		}
		depth, err := toInt(m["pointer"])
		if err != nil {
			return nil, errors.Wrapf(err, "layers[%d]", i)
		}
		layers = append(layers, Layer{Pointer: depth})
	}
	return layers, nil
}

func init() {
	blockDecoder := func(mk func([]Node) Node) func(d *decoder) (Node, error) {
		return func(d *decoder) (Node, error) {
			stmts, err := d.stmts()
			if err != nil {
				return nil, err
			}
			return mk(stmts), nil
		}
	}

	decoders[KindTopLevel] = blockDecoder(func(s []Node) Node { return &TopLevel{stmtList{s}} })
	decoders[KindBlock] = blockDecoder(func(s []Node) Node { return &Block{stmtList{s}} })
	decoders[KindElseClause] = blockDecoder(func(s []Node) Node { return &ElseClause{stmtList{s}} })
	decoders[KindInclude] = func(d *decoder) (Node, error) {
		return &Include{Path: d.string("path")}, nil
	}
	decoders[KindFuncDef] = func(d *decoder) (Node, error) {
		stmts, err := d.stmts()
		if err != nil {
			return nil, err
		}
		ret, err := d.typ("returns")
		if err != nil {
			return nil, err
		}
		args, err := d.funcArgs("args")
		if err != nil {
			return nil, err
		}
		return &FuncDef{Name: d.string("name"), Returns: ret, Args: args, stmtList: stmtList{stmts}}, nil
	}
	decoders[KindFuncArg] = func(d *decoder) (Node, error) {
		t, err := d.typ("type")
		if err != nil {
			return nil, err
		}
		return &FuncArg{Name: d.string("name"), Type: t}, nil
	}
	decoders[KindType] = func(d *decoder) (Node, error) {
		t := &Type{
			Name:        d.string("name"),
			Const:       d.bool("const"),
			Volatile:    d.bool("volatile"),
			Storage:     Storage(d.string("storage")),
			FuncPointer: d.bool("funcPointer"),
		}
		raw, err := d.list("layers")
		if err != nil {
			return nil, err
		}
		if t.Layers, err = decodeLayers(raw); err != nil {
			return nil, err
		}
		if t.Returns, err = d.typ("returns"); err != nil {
			return nil, err
		}
		if t.Args, err = d.funcArgs("args"); err != nil {
			return nil, err
		}
		return t, nil
	}
	decoders[KindStructDecl] = func(d *decoder) (Node, error) {
		nodes, err := d.nodes("fields")
		if err != nil {
			return nil, err
		}
		decl := &StructDecl{Name: d.string("name")}
		for _, n := range nodes {
			field, ok := n.(*StructField)
			if !ok {
				return nil, errors.Errorf("fields: %s is not a struct field", n.Kind())
			}
			decl.Fields = append(decl.Fields, field)
		}
		return decl, nil
	}
	decoders[KindStructField] = func(d *decoder) (Node, error) {
		t, err := d.typ("type")
		if err != nil {
			return nil, err
		}
		return &StructField{Name: d.string("name"), Type: t}, nil
	}
	decoders[KindDefine] = func(d *decoder) (Node, error) {
		def := &Define{Name: d.string("name")}
		if _, ok := d.rec["params"]; ok {
			raw, err := d.list("params")
			if err != nil {
				return nil, err
			}
			def.Params = []string{}
			for _, p := range raw {
				s, ok := p.(string)
				if !ok {
					return nil, errors.Errorf("params: expected a string, got %T", p)
				}
				def.Params = append(def.Params, s)
			}
		}
		body, err := d.node("body")
		if err != nil {
			return nil, err
		}
		def.Body = body
		return def, nil
	}
	decoders[KindExprStatement] = func(d *decoder) (Node, error) {
		x, err := d.expr("expr")
		if err != nil {
			return nil, err
		}
		return &ExprStatement{Expr: x, Implicit: d.bool("implicitlyCreated")}, nil
	}
	decoders[KindReturnStatement] = func(d *decoder) (Node, error) {
		x, err := d.expr("value")
		if err != nil {
			return nil, err
		}
		return &ReturnStatement{Value: x}, nil
	}
	decoders[KindIfStatement] = func(d *decoder) (Node, error) {
		cond, err := d.expr("cond")
		if err != nil {
			return nil, err
		}
		stmts, err := d.stmts()
		if err != nil {
			return nil, err
		}
		stmt := &IfStatement{Cond: cond, stmtList: stmtList{stmts}}
		els, err := d.node("else")
		if err != nil {
			return nil, err
		}
		if els != nil {
			clause, ok := els.(*ElseClause)
			if !ok {
				return nil, errors.Errorf("else: %s is not an else clause", els.Kind())
			}
			stmt.Else = clause
		}
		return stmt, nil
	}
	decoders[KindGotoStatement] = func(d *decoder) (Node, error) {
		return &GotoStatement{Label: d.string("label")}, nil
	}
	decoders[KindLabelStatement] = func(d *decoder) (Node, error) {
		return &LabelStatement{Name: d.string("name")}, nil
	}
	decoders[KindVarDeclaration] = func(d *decoder) (Node, error) {
		t, err := d.typ("type")
		if err != nil {
			return nil, err
		}
		value, err := d.expr("init")
		if err != nil {
			return nil, err
		}
		return &VarDeclaration{Name: d.string("name"), Type: t, Init: value}, nil
	}
	decoders[KindSymbol] = func(d *decoder) (Node, error) {
		return &Symbol{Name: d.string("name")}, nil
	}
	decoders[KindNumber] = func(d *decoder) (Node, error) {
		return &Number{Value: d.string("value")}, nil
	}
	decoders[KindCharacter] = func(d *decoder) (Node, error) {
		s := d.string("value")
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) {
			return nil, errors.Errorf("value: expected a single character, got %q", s)
		}
		return &Character{Value: r}, nil
	}
	decoders[KindString] = func(d *decoder) (Node, error) {
		return &String{Value: d.string("value")}, nil
	}
	decoders[KindCall] = func(d *decoder) (Node, error) {
		target, err := d.expr("target")
		if err != nil {
			return nil, err
		}
		args, err := d.exprs("args")
		if err != nil {
			return nil, err
		}
		return &Call{Target: target, Args: args}, nil
	}
	decoders[KindSubscript] = func(d *decoder) (Node, error) {
		x, err := d.expr("x")
		if err != nil {
			return nil, err
		}
		index, err := d.expr("index")
		if err != nil {
			return nil, err
		}
		return &Subscript{X: x, Index: index}, nil
	}
	decoders[KindCast] = func(d *decoder) (Node, error) {
		t, err := d.typ("type")
		if err != nil {
			return nil, err
		}
		x, err := d.expr("x")
		if err != nil {
			return nil, err
		}
		return &Cast{Type: t, X: x}, nil
	}
	decoders[KindUnaryOp] = func(d *decoder) (Node, error) {
		x, err := d.expr("x")
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: d.string("op"), X: x}, nil
	}
	decoders[KindMultaryOp] = func(d *decoder) (Node, error) {
		operands, err := d.exprs("operands")
		if err != nil {
			return nil, err
		}
		return &MultaryOp{Op: d.string("op"), Operands: operands}, nil
	}
}
