package cast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Symbol references an identifier.
type Symbol struct {
	exprBase
	Name string
}

func (*Symbol) Kind() Kind { return KindSymbol }

// Number is a numeric literal. Value holds the literal text so that hex,
// octal and suffixed forms survive untouched.
type Number struct {
	exprBase
	Value string
}

func (*Number) Kind() Kind { return KindNumber }

// Character is a character literal.
type Character struct {
	exprBase
	Value rune
}

func (*Character) Kind() Kind { return KindCharacter }

// String is a string literal.
type String struct {
	exprBase
	Value string
}

func (*String) Kind() Kind { return KindString }

// numberLiteral formats a Go numeric value as C literal text. The second
// result is false when v is not numeric.
func numberLiteral(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float32:
		return floatLiteral(float64(n), 32)
	case float64:
		return floatLiteral(n, 64)
	default:
		return "", false
	}
}

// floatLiteral keeps a decimal point or exponent in the text so the literal
// stays a floating constant in C. NaN and infinities have no literal form.
func floatLiteral(f float64, bitSize int) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, true
}

// quoteC renders s as a C literal delimited by quote. Printable ASCII and
// UTF-8 sequences pass through; everything else uses the named escapes or a
// three-digit octal escape, which cannot run into a following digit.
func quoteC(s string, quote byte) string {
	var b strings.Builder
	b.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case quote:
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03o`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte(quote)
	return b.String()
}

func quoteString(s string) string { return quoteC(s, '"') }

func quoteChar(r rune) string { return quoteC(string(r), '\'') }
