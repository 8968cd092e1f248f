package cast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsType(t *testing.T) {
	typ, err := AsType("static const volatile unsigned int")
	require.NoError(t, err)
	require.Equal(t, &Type{
		Name:     "unsigned int",
		Const:    true,
		Volatile: true,
		Storage:  StorageStatic,
	}, typ)

	same, err := AsType(typ)
	require.NoError(t, err)
	require.Same(t, typ, same)

	_, err = AsType("extern register int")
	require.ErrorContains(t, err, "cannot mix storage specifiers")

	_, err = AsType("const")
	require.ErrorContains(t, err, "missing base type")

	_, err = AsType(nil)
	require.Error(t, err)

	_, err = AsType((*Type)(nil))
	require.Error(t, err)
}

func TestTypeDeclare(t *testing.T) {
	tests := []struct {
		name     string
		typ      func() *Type
		declared string
		abstract string
	}{
		{
			name:     "plain",
			typ:      func() *Type { return &Type{Name: "int"} },
			declared: "int x",
			abstract: "int",
		},
		{
			name:     "auto storage is implicit",
			typ:      func() *Type { return &Type{Name: "int", Storage: StorageAuto} },
			declared: "int x",
			abstract: "int",
		},
		{
			name:     "pointer levels merge",
			typ:      func() *Type { return (&Type{Name: "char"}).PointerTo(1).PointerTo(1) },
			declared: "char **x",
			abstract: "char **",
		},
		{
			name:     "array of pointers",
			typ:      func() *Type { return (&Type{Name: "int"}).PointerTo(2).ArrayOf(10) },
			declared: "int **x[10]",
			abstract: "int **[10]",
		},
		{
			name:     "pointer to array",
			typ:      func() *Type { return (&Type{Name: "int"}).ArrayOf(10).PointerTo(2) },
			declared: "int (**x)[10]",
			abstract: "int (**)[10]",
		},
		{
			name:     "array dimensions accumulate",
			typ:      func() *Type { return (&Type{Name: "int"}).ArrayOf(2).ArrayOf(3, 4) },
			declared: "int x[2][3][4]",
			abstract: "int [2][3][4]",
		},
		{
			name:     "variable length",
			typ:      func() *Type { return (&Type{Name: "char"}).ArrayOf() },
			declared: "char x[]",
			abstract: "char []",
		},
		{
			name: "qualified",
			typ: func() *Type {
				return (&Type{Name: "char", Storage: StorageExtern}).WithConst().PointerTo(1)
			},
			declared: "extern const char *x",
			abstract: "extern const char *",
		},
		{
			name: "function pointer",
			typ: func() *Type {
				return &Type{
					FuncPointer: true,
					Returns:     (&Type{Name: "char"}).PointerTo(1),
					Args: []*FuncArg{
						{Name: "n", Type: &Type{Name: "int"}},
						{Type: &Type{Name: "void", Layers: []Layer{{Pointer: 1}}}},
					},
				}
			},
			declared: "char *(*x)(int n, void *)",
			abstract: "char *(*)(int n, void *)",
		},
		{
			name: "pointer to function pointer",
			typ: func() *Type {
				return (&Type{FuncPointer: true}).PointerTo(1)
			},
			declared: "void (**x)()",
			abstract: "void (**)()",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.declared, test.typ().Declare("x"))
			require.Equal(t, test.abstract, test.typ().Declare(""))
		})
	}
}

func TestTypeDropPointer(t *testing.T) {
	typ := (&Type{Name: "int"}).PointerTo(3)
	require.Equal(t, 3, typ.PointerDepth())

	typ.DropPointer(1)
	require.Equal(t, 2, typ.PointerDepth())
	require.Equal(t, "int **x", typ.Declare("x"))

	typ.DropPointer(5)
	require.Nil(t, typ.Layers)
	require.Equal(t, 0, typ.PointerDepth())
	require.Equal(t, "int x", typ.Declare("x"))

	arr := (&Type{Name: "int"}).PointerTo(1).ArrayOf(4)
	require.Equal(t, 0, arr.PointerDepth())
	arr.DropPointer(1)
	require.Equal(t, "int *x[4]", arr.Declare("x"))

	ptrToArr := (&Type{Name: "int"}).ArrayOf(4).PointerTo(1)
	ptrToArr.DropPointer(1)
	require.Equal(t, "int x[4]", ptrToArr.Declare("x"))
}

func TestTypeQualifiers(t *testing.T) {
	typ := &Type{Name: "int"}
	require.Same(t, typ, typ.WithConst().WithVolatile())
	require.Equal(t, "const volatile int", typ.Declare(""))

	typ.WithoutConst().WithoutVolatile()
	require.Equal(t, "int", typ.Declare(""))

	_, err := typ.WithStorage("register")
	require.NoError(t, err)
	require.Equal(t, "register int i", typ.Declare("i"))

	_, err = typ.WithStorage("thread_local")
	require.Error(t, err)
}

func TestNumberLiteral(t *testing.T) {
	for v, expected := range map[any]string{
		42:              "42",
		int8(-3):        "-3",
		uint64(1) << 63: "9223372036854775808",
		float32(0.5):    "0.5",
		2.25:            "2.25",
		uint16(65535):   "65535",
		int64(-1 << 40): "-1099511627776",
		uint8(255):      "255",
		1.0:             "1.0",
		-2.0:            "-2.0",
		float32(3):      "3.0",
		1e21:            "1e+21",
		1.5e-7:          "1.5e-07",
	} {
		lit, ok := numberLiteral(v)
		require.True(t, ok)
		require.Equal(t, expected, lit)
	}

	for _, v := range []any{"1", math.NaN(), math.Inf(1), float32(math.Inf(-1))} {
		_, ok := numberLiteral(v)
		require.False(t, ok, "%v", v)
	}
}

func TestQuoteC(t *testing.T) {
	require.Equal(t, `"a\\b\n\"c\"'"`, quoteString("a\\b\n\"c\"'"))
	require.Equal(t, `"\0331\177"`, quoteString("\x1b1\x7f"))
	require.Equal(t, `"héllo"`, quoteString("héllo"))
	require.Equal(t, `'"'`, quoteChar('"'))
	require.Equal(t, `'\\'`, quoteChar('\\'))
	require.Equal(t, `'\000'`, quoteChar(0))
}
