package cast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPrunesConsumedCalls(t *testing.T) {
	var fn *FuncDef
	top, err := Build(func(s Scope) {
		fn = s.Func("main", func(f FuncScope) {
			f.Call("outer", f.Call("inner"))
		})
	})
	require.NoError(t, err)
	require.Len(t, top.Stmts, 1)
	require.Len(t, fn.Stmts, 1)

	stmt := fn.Stmts[0].(*ExprStatement)
	require.True(t, stmt.Implicit)
	call := stmt.Expr.(*Call)
	require.Equal(t, "outer", call.Target.(*Symbol).Name)
	require.False(t, call.IsNested())
	require.True(t, call.Args[0].IsNested())
}

func TestBuildKeepsSiblingCalls(t *testing.T) {
	top, err := Build(func(s Scope) {
		s.Call("f")
		s.Call("g")
	})
	require.NoError(t, err)
	require.Len(t, top.Stmts, 2)
}

func TestBuildEmptyScopes(t *testing.T) {
	top, err := Build(nil)
	require.NoError(t, err)
	require.Nil(t, top.Stmts)

	var fn *FuncDef
	_, err = Build(func(s Scope) {
		fn = s.Func("noop", nil)
	})
	require.NoError(t, err)
	require.Nil(t, fn.Stmts)
	require.Equal(t, "void", fn.Returns.Name)
}

func TestBuildFuncSignature(t *testing.T) {
	var fn *FuncDef
	_, err := Build(func(s Scope) {
		fn = s.Func("copy", func(f FuncScope) {
			f.Arg("dst", f.Ptr(1, "char"))
			f.Returns(f.Ptr(1, "char"))
			f.Arg("src", f.Ptr(1, f.Const("char")))
			f.Arg("n", "size_t")
		})
	})
	require.NoError(t, err)

	var names []string
	for _, arg := range fn.Args {
		names = append(names, arg.Name)
	}
	require.Equal(t, []string{"dst", "src", "n"}, names)
	require.Equal(t, "char *copy(char *dst, const char *src, size_t n)", funcHeader(fn))
}

func TestBuildMacroDoesNotWrapCalls(t *testing.T) {
	var def *Define
	_, err := Build(func(s Scope) {
		def = s.Define("CALL", func(m MacroScope) Node {
			return m.Call("f", m.Call("g"))
		})
	})
	require.NoError(t, err)

	call, ok := def.Body.(*Call)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
	require.Nil(t, def.Params)
}

func TestBuildExpressionPolymorphism(t *testing.T) {
	var ret *ReturnStatement
	var call *Call
	_, err := Build(func(s Scope) {
		call = s.Call("f", "text", 7, s.Sym("x"))
		ret = s.Return("y")
	})
	require.NoError(t, err)

	require.IsType(t, &String{}, call.Args[0])
	require.IsType(t, &Number{}, call.Args[1])
	require.IsType(t, &Symbol{}, call.Args[2])
	require.IsType(t, &Symbol{}, ret.Value)
	require.Equal(t, "7", call.Args[1].(*Number).Value)
}

func TestBuildOp(t *testing.T) {
	var unary, multary Expr
	_, err := Build(func(s Scope) {
		unary = s.Sub("x")
		multary = s.Sub("x", nil, "y")
	})
	require.NoError(t, err)
	require.IsType(t, &UnaryOp{}, unary)
	require.IsType(t, &MultaryOp{}, multary)
	require.Len(t, multary.(*MultaryOp).Operands, 2)
}

func TestBuildScopeErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(Scope)
		err   string
	}{
		{
			name: "function argument after finalization",
			build: func(s Scope) {
				var stale FuncScope
				s.Func("f", func(f FuncScope) { stale = f })
				stale.Arg("x", "int")
			},
			err: "scope error: arg: used outside function declaration",
		},
		{
			name: "return type after finalization",
			build: func(s Scope) {
				var stale FuncScope
				s.Func("f", func(f FuncScope) { stale = f })
				stale.Returns("int")
			},
			err: "scope error: returns: used outside function declaration",
		},
		{
			name: "macro parameter after finalization",
			build: func(s Scope) {
				var stale MacroScope
				s.Define("M", func(m MacroScope) Node {
					stale = m
					return nil
				})
				stale.Param("x")
			},
			err: "scope error: param: used outside macro definition",
		},
		{
			name: "struct field after finalization",
			build: func(s Scope) {
				var stale StructScope
				s.Struct("S", func(st StructScope) { stale = st })
				stale.Field("x", "int")
			},
			err: "scope error: field: used outside struct declaration",
		},
		{
			name: "statement into a finalized block",
			build: func(s Scope) {
				var stale Scope
				s.Block(func(b Scope) { stale = b })
				stale.Return(nil)
			},
			err: "scope error: return: no enclosing block: it has already been finalized",
		},
		{
			name: "statement into an outer scope",
			build: func(s Scope) {
				s.Func("f", func(f FuncScope) {
					s.Include("<stdio.h>")
				})
			},
			err: "scope error: include: a nested function is still open",
		},
		{
			name: "second else",
			build: func(s Scope) {
				s.If(1, nil).Else(nil).Else(nil)
			},
			err: "scope error: else: else clauses aren't chainable",
		},
		{
			name: "non-statement",
			build: func(s Scope) {
				s.Stmt(s.Type("int"))
			},
			err: "scope error: type: not a statement",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			top, err := Build(test.build)
			require.Nil(t, top)
			var scopeErr *ScopeError
			require.ErrorAs(t, err, &scopeErr)
			require.EqualError(t, err, test.err)
		})
	}
}

func TestBuildInvalidExpressions(t *testing.T) {
	tests := []struct {
		name  string
		build func(Scope)
	}{
		{"unsupported argument", func(s Scope) { s.Call("f", struct{}{}) }},
		{"unsupported target", func(s Scope) { s.Call(true) }},
		{"operator without operands", func(s Scope) { s.Add() }},
		{"operator with only nils", func(s Scope) { s.Op("+", nil, nil) }},
		{"assignment without value", func(s Scope) { s.Assign("x", nil) }},
		{"non-numeric number", func(s Scope) { s.Num([]int{1}) }},
		{"nil statement", func(s Scope) { s.Stmt(nil) }},
		{"typed nil argument", func(s Scope) {
			var c *Call
			s.Call("f", c)
		}},
		{"typed nil operand", func(s Scope) {
			var sym *Symbol
			s.Add(sym, 1)
		}},
		{"typed nil statement", func(s Scope) {
			var c *Call
			s.Stmt(c)
		}},
		{"typed nil non-expression statement", func(s Scope) { s.Stmt((*Include)(nil)) }},
		{"not a number", func(s Scope) { s.Var("x", "double", math.NaN()) }},
		{"infinity", func(s Scope) { s.Div(math.Inf(1), 2) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Build(test.build)
			var exprErr *InvalidExpressionError
			require.ErrorAs(t, err, &exprErr)
		})
	}
}

func TestBuildInvalidTypes(t *testing.T) {
	tests := []struct {
		name  string
		build func(Scope)
	}{
		{"mixed storage", func(s Scope) { s.Var("x", "static extern int", nil) }},
		{"missing base", func(s Scope) { s.Var("x", "const volatile", nil) }},
		{"not a type", func(s Scope) { s.Var("x", 42, nil) }},
		{"unknown storage", func(s Scope) { s.Storage("global", "int") }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Build(test.build)
			var typeErr *InvalidTypeSpecError
			require.ErrorAs(t, err, &typeErr)
		})
	}
}

func TestBuildRepanicsForeignPanics(t *testing.T) {
	require.PanicsWithValue(t, "boom", func() {
		_, _ = Build(func(s Scope) {
			panic("boom")
		})
	})
}

func TestPruneImplicit(t *testing.T) {
	nested := &Call{Target: &Symbol{Name: "inner"}}
	nested.markNested()
	explicitNested := &Symbol{Name: "x"}
	explicitNested.markNested()
	standalone := &Call{Target: &Symbol{Name: "f"}}

	stmts := []Node{
		&ExprStatement{Expr: nested, Implicit: true},
		&ExprStatement{Expr: standalone, Implicit: true},
		&ExprStatement{Expr: explicitNested},
		&GotoStatement{Label: "done"},
	}

	kept := PruneImplicit(stmts)
	require.Equal(t, stmts[1:], kept)
	require.Nil(t, PruneImplicit(stmts[:1]))
	require.Nil(t, PruneImplicit(nil))
}

func TestClassifiers(t *testing.T) {
	require.True(t, IsExpr(&Symbol{}))
	require.False(t, IsExpr(&Include{}))
	require.True(t, IsStatement(&Include{}))
	require.True(t, IsStatement(&Block{}))
	require.False(t, IsStatement(&TopLevel{}))
	require.False(t, IsStatement(&Call{}))
	require.True(t, IsBlockBearing(&TopLevel{}))
	require.True(t, IsBlockBearing(&IfStatement{}))
	require.False(t, IsBlockBearing(&StructDecl{}))
	require.True(t, IsKind(&Cast{}, KindCast))
	require.False(t, IsKind(nil, KindCast))
}

func TestOutline(t *testing.T) {
	top, err := Build(func(s Scope) {
		s.Func("main", func(f FuncScope) {
			f.Returns("int")
			f.Return(f.Call("run", 1))
		})
	})
	require.NoError(t, err)

	entries, err := Outline(top)
	require.NoError(t, err)
	require.Equal(t, []OutlineEntry{
		{Depth: 0, Kind: KindTopLevel},
		{Depth: 1, Kind: KindFuncDef, Label: "int main()"},
		{Depth: 2, Kind: KindReturnStatement},
		{Depth: 3, Kind: KindCall, Label: "1 args", Nested: true},
		{Depth: 4, Kind: KindSymbol, Label: "run", Nested: true},
		{Depth: 4, Kind: KindNumber, Label: "1", Nested: true},
	}, entries)
}
