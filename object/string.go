package object

import (
	"strings"
	"unicode/utf8"

	"github.com/cloudcmds/framevm/op"
)

// String wraps string and implements Object and Hashable interfaces.
type String struct {
	value string
}

func NewString(s string) *String {
	return &String{value: s}
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

// Inspect returns the quoted form of the string. Single quotes are preferred
// unless the string contains a single quote and no double quotes.
func (s *String) Inspect() string {
	quote := byte('\'')
	if strings.Contains(s.value, "'") && !strings.Contains(s.value, `"`) {
		quote = '"'
	}
	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s.value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

func (s *String) String() string {
	return s.value
}

func (s *String) Interface() any {
	return s.value
}

func (s *String) IsTruthy() bool {
	return len(s.value) > 0
}

func (s *String) HashKey() HashKey {
	return HashKey{Type: STRING, Str: s.value}
}

func (s *String) Equals(other Object) bool {
	otherStr, ok := other.(*String)
	return ok && s.value == otherStr.value
}

func (s *String) Compare(other Object) (int, error) {
	otherStr, ok := other.(*String)
	if !ok {
		return 0, TypeErrorf("unable to compare str and %s", other.Type())
	}
	return strings.Compare(s.value, otherStr.value), nil
}

func (s *String) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	switch opType {
	case op.Add:
		if rightStr, ok := right.(*String); ok {
			return NewString(s.value + rightStr.value), nil
		}
		return nil, TypeErrorf("can only concatenate str (not %q) to str", right.Type())
	case op.Multiply:
		if n, ok := repeatCount(right); ok {
			return NewString(strings.Repeat(s.value, n)), nil
		}
	}
	return nil, unsupportedOperands(opType, s, right)
}

func (s *String) GetItem(key Object) (Object, error) {
	runes := []rune(s.value)
	index, err := normalizeIndex(key, len(runes), "string")
	if err != nil {
		return nil, err
	}
	return NewString(string(runes[index])), nil
}

func (s *String) Contains(item Object) (bool, error) {
	sub, ok := item.(*String)
	if !ok {
		return false, TypeErrorf("'in <string>' requires string as left operand, not %s", item.Type())
	}
	return strings.Contains(s.value, sub.value), nil
}

func (s *String) Len() int {
	return utf8.RuneCountInString(s.value)
}

func (s *String) Iter() Iterator {
	runes := []rune(s.value)
	pos := 0
	return NewIter("str_iterator", func() (Object, bool) {
		if pos >= len(runes) {
			return nil, false
		}
		r := runes[pos]
		pos++
		return NewString(string(r)), true
	})
}
