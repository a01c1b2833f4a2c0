package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudcmds/framevm/bytecode"
	"github.com/cloudcmds/framevm/op"
)

// commentIndex returns the index of the ";" starting a comment, ignoring
// semicolons inside quoted strings.
func commentIndex(text string) int {
	var quote rune
	for i, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ';':
			return i
		}
	}
	return -1
}

func appendUnique(items []string, item string) []string {
	if indexOf(items, item) >= 0 {
		return items
	}
	return append(items, item)
}

func indexOf(items []string, item string) int {
	for i, v := range items {
		if v == item {
			return i
		}
	}
	return -1
}

func rawIndex(arg string) (int, bool) {
	if !strings.HasPrefix(arg, "#") {
		return 0, false
	}
	n, err := strconv.Atoi(arg[1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func compareIndex(arg string) (int, error) {
	symbol := strings.Join(strings.Fields(arg), " ")
	for i := 0; i < op.CompareOpCount; i++ {
		if op.CompareOpType(i).String() == symbol {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown comparison operator %q", arg)
}

// splitTopLevel splits a comma separated list, keeping commas inside
// parentheses and quotes together.
func splitTopLevel(text string) ([]string, error) {
	var items []string
	var quote rune
	depth := 0
	start := 0
	for i, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", text)
			}
		case r == ',' && depth == 0:
			items = append(items, strings.TrimSpace(text[start:i]))
			start = i + 1
		}
	}
	if quote != 0 || depth != 0 {
		return nil, fmt.Errorf("unterminated constant %q", text)
	}
	if last := strings.TrimSpace(text[start:]); last != "" {
		items = append(items, last)
	}
	return items, nil
}

func (a *assembler) parseConst(text string) (any, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "None":
		return nil, nil
	case text == "True":
		return true, nil
	case text == "False":
		return false, nil
	case strings.HasPrefix(text, "@"):
		code, ok := a.units[text[1:]]
		if !ok {
			return nil, fmt.Errorf("undefined code unit %q", text[1:])
		}
		return code, nil
	case strings.HasPrefix(text, "("):
		if !strings.HasSuffix(text, ")") {
			return nil, fmt.Errorf("invalid tuple %q", text)
		}
		parts, err := splitTopLevel(text[1 : len(text)-1])
		if err != nil {
			return nil, err
		}
		items := make([]any, 0, len(parts))
		for _, part := range parts {
			item, err := a.parseConst(part)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case strings.HasPrefix(text, "'"):
		if len(text) < 2 || !strings.HasSuffix(text, "'") {
			return nil, fmt.Errorf("invalid string %s", text)
		}
		return text[1 : len(text)-1], nil
	case strings.HasPrefix(text, `"`):
		s, err := strconv.Unquote(text)
		if err != nil {
			return nil, fmt.Errorf("invalid string %s", text)
		}
		return s, nil
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("invalid constant %q", text)
}

func sameConst(a, b any) bool {
	switch a := a.(type) {
	case *bytecode.Code:
		other, ok := b.(*bytecode.Code)
		return ok && a == other
	case []any:
		other, ok := b.([]any)
		if !ok || len(a) != len(other) {
			return false
		}
		for i := range a {
			if !sameConst(a[i], other[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		// bool, int64, float64 and string compare by value and type.
		switch b.(type) {
		case *bytecode.Code, []any:
			return false
		}
		return a == b
	}
}
