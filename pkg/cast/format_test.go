package cast

import (
	"context"
	"os"
	"testing"

	"github.com/dagger/testctx"
	"github.com/dagger/testctx/oteltest"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func TestMain(m *testing.M) {
	os.Exit(oteltest.Main(m))
}

type FormatSuite struct{}

func TestFormat(tT *testing.T) {
	testctx.New(tT,
		oteltest.WithTracing[*testing.T](),
		oteltest.WithLogging[*testing.T](),
	).RunTests(FormatSuite{})
}

// renderBoth renders node with both strategies and requires them to agree.
func renderBoth(t *testctx.T, node Node, opts ...RenderOption) string {
	written, err := Render(node, append(opts, WithStrategy(StrategyWriter))...)
	require.NoError(t, err)
	composed, err := Render(node, append(opts, WithStrategy(StrategyCompose))...)
	require.NoError(t, err)
	require.Equal(t, written, composed)
	return written
}

func build(t *testctx.T, fn func(Scope)) *TopLevel {
	top, err := Build(fn)
	require.NoError(t, err)
	return top
}

func (FormatSuite) TestHelloWorld(ctx context.Context, t *testctx.T) {
	top := build(t, func(s Scope) {
		s.Include("<stdio.h>")
		s.Func("main", func(f FuncScope) {
			f.Returns("int")
			f.Call("printf", "Hello, world.\n")
			f.Return(0)
		})
	})

	require.Equal(t, `#include <stdio.h>
int main() {
  printf("Hello, world.\n");
  return 0;
}
`, renderBoth(t, top))
}

func (FormatSuite) TestStatements(ctx context.Context, t *testctx.T) {
	tests := []struct {
		name     string
		build    func(Scope)
		expected string
	}{
		{
			name: "nested call is not a statement",
			build: func(s Scope) {
				s.Call("outer", s.Call("inner"))
			},
			expected: "outer(inner());\n",
		},
		{
			name: "sibling calls",
			build: func(s Scope) {
				s.Call("f")
				s.Call("g")
			},
			expected: "f();\ng();\n",
		},
		{
			name: "returned call",
			build: func(s Scope) {
				s.Return(s.Call("g", 1, 2))
			},
			expected: "return g(1, 2);\n",
		},
		{
			name: "bare return",
			build: func(s Scope) {
				s.Return(nil)
			},
			expected: "return;\n",
		},
		{
			name: "assignment",
			build: func(s Scope) {
				s.Assign("x", s.Add("x", 1))
			},
			expected: "(x = (x + 1));\n",
		},
		{
			name: "nil arguments are skipped",
			build: func(s Scope) {
				s.Call("f", nil, "a", nil)
			},
			expected: "f(\"a\");\n",
		},
		{
			name: "variables",
			build: func(s Scope) {
				s.Var("i", "int", 0)
				s.Var("name", s.Ptr(1, s.Const("char")), s.Str("cast"))
				s.Var("count", "static unsigned long", nil)
			},
			expected: "int i = 0;\nconst char *name = \"cast\";\nstatic unsigned long count;\n",
		},
		{
			name: "goto and label",
			build: func(s Scope) {
				s.Goto("done")
				s.Label("done")
			},
			expected: "goto done;\ndone:\n",
		},
		{
			name: "explicit statement",
			build: func(s Scope) {
				s.Stmt(s.Sym("x"))
				s.Stmt(s.Call("f"))
			},
			expected: "x;\nf();\n",
		},
		{
			name: "unary and multary operators",
			build: func(s Scope) {
				s.Call("f", s.Not("ok"), s.Deref("p"), s.AddressOf("v"))
				s.Call("g", s.And(s.Eq("a", 1), s.Neq("b", 2), s.Gte("c", 3)))
			},
			expected: "f(!(ok), *(p), &(v));\ng(((a == 1) && (b != 2) && (c >= 3)));\n",
		},
		{
			name: "subscript and cast",
			build: func(s Scope) {
				s.Call("puts", s.Subscript("argv", 1))
				s.Call("free", s.Cast(s.Ptr(1, "void"), "buf"))
			},
			expected: "puts((argv)[1]);\nfree((void *)(buf));\n",
		},
		{
			name: "literals",
			build: func(s Scope) {
				s.Call("f", s.Char('\''), s.Char('a'), s.Num("0x1f"), 1.5, "tab\there \"quoted\" \x01")
			},
			expected: "f('\\'', 'a', 0x1f, 1.5, \"tab\\there \\\"quoted\\\" \\001\");\n",
		},
		{
			name: "whole floats stay floating",
			build: func(s Scope) {
				s.Var("x", "double", s.Div(1.0, 3))
				s.Var("y", "float", float32(2))
			},
			expected: "double x = (1.0 / 3);\nfloat y = 2.0;\n",
		},
		{
			name: "nested block",
			build: func(s Scope) {
				s.Block(func(b Scope) {
					b.Call("f")
				})
			},
			expected: "{\n  f();\n}\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(ctx context.Context, t *testctx.T) {
			top := build(t, test.build)
			require.Equal(t, test.expected, renderBoth(t, top))
		})
	}
}

func (FormatSuite) TestIfElse(ctx context.Context, t *testctx.T) {
	top := build(t, func(s Scope) {
		s.Func("check", func(f FuncScope) {
			f.Arg("i", "int")
			f.If(f.Lt("i", 10), func(s Scope) {
				s.Call("puts", "small")
			}).Else(func(s Scope) {
				s.Call("puts", "big")
			})
			f.If("i", func(s Scope) {
				s.Return(nil)
			})
		})
	})

	require.Equal(t, `void check(int i) {
  if ((i < 10)) {
    puts("small");
  } else {
    puts("big");
  }
  if (i) {
    return;
  }
}
`, renderBoth(t, top))
}

func (FormatSuite) TestStruct(ctx context.Context, t *testctx.T) {
	top := build(t, func(s Scope) {
		s.Struct("point", func(st StructScope) {
			st.Field("x", "int")
			st.Field("y", "int")
			st.Field("x", "long")
			st.Field("next", st.Ptr(1, "struct point"))
		})
	})

	require.Equal(t, `struct point {
  long x;
  int y;
  struct point *next;
};
`, renderBoth(t, top))
}

func (FormatSuite) TestDefine(ctx context.Context, t *testctx.T) {
	top := build(t, func(s Scope) {
		s.Define("ANSWER", func(m MacroScope) Node {
			return m.Num(42)
		})
		s.Define("SQUARE", func(m MacroScope) Node {
			m.Param("x")
			return m.Mul("x", "x")
		})
		s.Define("LOG", func(m MacroScope) Node {
			m.Param("fmt", "...")
			return m.Call("fprintf", m.Sym("stderr"), m.Sym("fmt"), m.Sym("__VA_ARGS__"))
		})
		s.Define("NOARGS", func(m MacroScope) Node {
			m.Param()
			return m.Call("f")
		})
		s.Define("TWICE", func(m MacroScope) Node {
			return m.Block(func(b Scope) {
				b.Call("a")
				b.Call("b")
			})
		})
		s.Define("FLAG", nil)
	})

	require.Equal(t, `#define ANSWER 42
#define SQUARE(x) (x * x)
#define LOG(fmt, ...) fprintf(stderr, fmt, __VA_ARGS__)
#define NOARGS() f()
#define TWICE { \
  a(); \
  b(); \
}
#define FLAG
`, renderBoth(t, top))
}

func (FormatSuite) TestFunctionPointers(ctx context.Context, t *testctx.T) {
	top := build(t, func(s Scope) {
		s.Var("cb", s.FuncPtr(func(sig Signature) {
			sig.Returns("int")
			sig.Arg("msg", s.Ptr(1, s.Const("char")))
		}), "puts")
		s.Var("handlers", s.Array(s.FuncPtr(nil), 4), nil)
	})

	require.Equal(t, `int (*cb)(const char *msg) = puts;
void (*handlers[4])();
`, renderBoth(t, top))
}

func (FormatSuite) TestIndent(ctx context.Context, t *testctx.T) {
	top := build(t, func(s Scope) {
		s.Func("main", func(f FuncScope) {
			f.Returns("int")
			f.If(1, func(s Scope) {
				s.Return(0)
			})
		})
	})

	require.Equal(t, "int main() {\n    if (1) {\n        return 0;\n    }\n}\n",
		renderBoth(t, top, WithIndent(4)))

	_, err := Render(top, WithIndent(0))
	require.Error(t, err)
}

func (FormatSuite) TestStrategies(ctx context.Context, t *testctx.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	require.Equal(t, StrategyWriter, s)

	s, err = ParseStrategy("compose")
	require.NoError(t, err)
	require.Equal(t, StrategyCompose, s)

	_, err = ParseStrategy("stream")
	require.Error(t, err)

	_, err = Render(&TopLevel{}, WithStrategy("stream"))
	require.Error(t, err)
}

func (FormatSuite) TestRenderErrors(ctx context.Context, t *testctx.T) {
	_, err := Render(&ExprStatement{})
	require.Error(t, err)

	_, err = Render(nil)
	require.Error(t, err)
}

func (FormatSuite) TestGolden(ctx context.Context, t *testctx.T) {
	for name, fn := range goldenPrograms {
		t.Run(name, func(ctx context.Context, t *testctx.T) {
			top := build(t, fn)
			golden.Assert(t, renderBoth(t, top), name+".golden")
		})
	}
}

var goldenPrograms = map[string]func(Scope){
	"wordcount": func(s Scope) {
		s.Include("<stdio.h>")
		s.Include("<ctype.h>")
		s.Define("IN", func(m MacroScope) Node { return m.Num(1) })
		s.Define("OUT", func(m MacroScope) Node { return m.Num(0) })
		s.Func("main", func(f FuncScope) {
			f.Returns("int")
			f.Var("c", "int", nil)
			f.Var("words", "int", 0)
			f.Var("state", "int", "OUT")
			f.Label("next")
			f.If(f.Eq(f.Assign("c", f.Call("getchar")), "EOF"), func(s Scope) {
				s.Call("printf", "%d\n", s.Sym("words"))
				s.Return(0)
			})
			f.If(f.Call("isspace", f.Sym("c")), func(s Scope) {
				s.Assign("state", "OUT")
			}).Else(func(s Scope) {
				s.If(f.Eq("state", "OUT"), func(s Scope) {
					s.Assign("state", "IN")
					s.Assign("words", s.Add("words", 1))
				})
			})
			f.Goto("next")
		})
	},
	"linkedlist": func(s Scope) {
		s.Include("<stdlib.h>")
		s.Struct("node", func(st StructScope) {
			st.Field("value", "int")
			st.Field("next", st.Ptr(1, "struct node"))
		})
		s.Func("push", func(f FuncScope) {
			f.Returns(f.Ptr(1, "struct node"))
			f.Arg("head", f.Ptr(1, "struct node"))
			f.Arg("value", "int")
			f.Var("n", f.Ptr(1, "struct node"), f.Cast(f.Ptr(1, "struct node"), f.Call("malloc", f.Call("sizeof", f.Sym("struct node")))))
			f.Assign(f.Op("->", "n", "value"), "value")
			f.Assign(f.Op("->", "n", "next"), "head")
			f.Return("n")
		})
		s.Func("sum", func(f FuncScope) {
			f.Returns("static long")
			f.Arg("head", f.Const(f.Ptr(1, "struct node")))
			f.Var("total", "long", 0)
			f.Var("matrix", f.Array(f.Ptr(2, "int"), 3, 3), nil)
			f.Var("rows", f.Array("int", 4).PointerTo(1), nil)
			f.Return("total")
		})
	},
}
