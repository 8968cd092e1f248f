package cast

import (
	"fmt"
	"strings"
)

// Storage is a C storage class. The zero value is auto.
type Storage string

const (
	StorageAuto     Storage = "auto"
	StorageExtern   Storage = "extern"
	StorageStatic   Storage = "static"
	StorageRegister Storage = "register"
)

func parseStorage(s string) (Storage, bool) {
	switch Storage(s) {
	case StorageAuto, StorageExtern, StorageStatic, StorageRegister:
		return Storage(s), true
	}
	return "", false
}

// ArraySize is one array dimension.
type ArraySize int

// VarLen marks a dimension with no explicit length: `x[]`.
const VarLen ArraySize = -1

func (s ArraySize) String() string {
	if s < 0 {
		return ""
	}
	return fmt.Sprint(int(s))
}

// Layer is one derivation applied to a type: either a run of pointer
// levels or a run of array dimensions.
type Layer struct {
	Pointer int
	Array   []ArraySize
}

func (l Layer) isPointer() bool { return len(l.Array) == 0 }

// Type describes a C type: declaration specifiers around a base name plus
// the derivations applied to it, innermost first.
type Type struct {
	Name     string
	Const    bool
	Volatile bool
	Storage  Storage
	Layers   []Layer

	// FuncPointer makes this a pointer to a function returning Returns and
	// taking Args. Name is unused in that case.
	FuncPointer bool
	Returns     *Type
	Args        []*FuncArg
}

func (*Type) Kind() Kind { return KindType }

// AsType coerces spec into a type descriptor. A *Type is returned as is;
// a string is parsed as leading qualifier and storage keywords followed by
// the base type name.
func AsType(spec any) (*Type, error) {
	switch x := spec.(type) {
	case *Type:
		if x == nil {
			return nil, &InvalidTypeSpecError{Spec: "<nil>", Reason: "nil type"}
		}
		return x, nil
	case string:
		return parseType(x)
	default:
		return nil, &InvalidTypeSpecError{
			Spec:   fmt.Sprintf("%v", spec),
			Reason: fmt.Sprintf("cannot use %T as a type", spec),
		}
	}
}

func parseType(spec string) (*Type, error) {
	t := &Type{}
	words := strings.Fields(spec)
	for len(words) > 0 {
		word := words[0]
		if word == "const" {
			t.Const = true
		} else if word == "volatile" {
			t.Volatile = true
		} else if storage, ok := parseStorage(word); ok {
			if t.Storage != "" {
				return nil, &InvalidTypeSpecError{
					Spec:   spec,
					Reason: fmt.Sprintf("cannot mix storage specifiers %s and %s", t.Storage, storage),
				}
			}
			t.Storage = storage
		} else {
			break
		}
		words = words[1:]
	}
	if len(words) == 0 {
		return nil, &InvalidTypeSpecError{Spec: spec, Reason: "missing base type"}
	}
	t.Name = strings.Join(words, " ")
	return t, nil
}

func (t *Type) WithConst() *Type {
	t.Const = true
	return t
}

func (t *Type) WithoutConst() *Type {
	t.Const = false
	return t
}

func (t *Type) WithVolatile() *Type {
	t.Volatile = true
	return t
}

func (t *Type) WithoutVolatile() *Type {
	t.Volatile = false
	return t
}

// WithStorage sets the storage class.
func (t *Type) WithStorage(s string) (*Type, error) {
	storage, ok := parseStorage(s)
	if !ok {
		return nil, &InvalidTypeSpecError{Spec: s, Reason: "unknown storage class"}
	}
	t.Storage = storage
	return t, nil
}

// PointerTo adds levels of indirection. Consecutive pointer derivations
// merge into one layer.
func (t *Type) PointerTo(levels int) *Type {
	if levels <= 0 {
		return t
	}
	if n := len(t.Layers); n > 0 && t.Layers[n-1].isPointer() {
		t.Layers[n-1].Pointer += levels
		return t
	}
	t.Layers = append(t.Layers, Layer{Pointer: levels})
	return t
}

// DropPointer removes levels of indirection from the outermost pointer
// layer. A layer that reaches zero is removed entirely; when the outermost
// derivation is not a pointer nothing changes, including for an array of
// pointers.
func (t *Type) DropPointer(levels int) *Type {
	n := len(t.Layers)
	if n == 0 || !t.Layers[n-1].isPointer() {
		return t
	}
	t.Layers[n-1].Pointer -= levels
	if t.Layers[n-1].Pointer <= 0 {
		t.Layers = t.Layers[:n-1]
		if len(t.Layers) == 0 {
			t.Layers = nil
		}
	}
	return t
}

// PointerDepth is the depth of the outermost layer when that layer is a
// pointer, or 0. Pointers beneath an array layer are not counted, so an
// array of pointers (int *a[3]) has depth 0.
func (t *Type) PointerDepth() int {
	if n := len(t.Layers); n > 0 && t.Layers[n-1].isPointer() {
		return t.Layers[n-1].Pointer
	}
	return 0
}

// ArrayOf appends array dimensions, or a single VarLen dimension when none
// are given. Consecutive array derivations accumulate left to right.
func (t *Type) ArrayOf(sizes ...ArraySize) *Type {
	if len(sizes) == 0 {
		sizes = []ArraySize{VarLen}
	}
	if n := len(t.Layers); n > 0 && !t.Layers[n-1].isPointer() {
		t.Layers[n-1].Array = append(t.Layers[n-1].Array, sizes...)
		return t
	}
	t.Layers = append(t.Layers, Layer{Array: append([]ArraySize(nil), sizes...)})
	return t
}

// Declare renders the type declaring name. An empty name yields an
// abstract declarator suitable for casts.
func (t *Type) Declare(name string) string {
	var b strings.Builder
	if t.Storage != "" && t.Storage != StorageAuto {
		b.WriteString(string(t.Storage))
		b.WriteByte(' ')
	}

	if t.FuncPointer {
		layers := append([]Layer{{Pointer: 1}}, t.Layers...)
		decl := applyLayers(layers, name)
		args := make([]string, len(t.Args))
		for i, arg := range t.Args {
			args[i] = arg.Type.Declare(arg.Name)
		}
		decl = "(" + decl + ")(" + strings.Join(args, ", ") + ")"
		ret := t.Returns
		if ret == nil {
			ret = &Type{Name: "void"}
		}
		b.WriteString(ret.Declare(decl))
		return b.String()
	}

	if t.Const {
		b.WriteString("const ")
	}
	if t.Volatile {
		b.WriteString("volatile ")
	}
	b.WriteString(t.Name)
	if decl := applyLayers(t.Layers, name); decl != "" {
		b.WriteByte(' ')
		b.WriteString(decl)
	}
	return b.String()
}

// applyLayers wraps the declarator d in the given derivations, outermost
// first. Arrays bind tighter than pointers, so an array applied beneath a
// pointer parenthesizes what has been built so far.
func applyLayers(layers []Layer, d string) string {
	pointer := false
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if l.isPointer() {
			d = strings.Repeat("*", l.Pointer) + d
			pointer = true
			continue
		}
		if pointer {
			d = "(" + d + ")"
		}
		for _, size := range l.Array {
			d += "[" + size.String() + "]"
		}
		pointer = false
	}
	return d
}
