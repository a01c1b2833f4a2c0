package bytecode

import (
	"fmt"

	"github.com/cloudcmds/framevm/errz"
)

// copyStrings returns a copy of the given string slice.
func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// copyBytes returns a copy of the given byte slice.
func copyBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

// normalizeConstants copies the constant pool, converting Go integer types to
// int64 and rejecting values the VM cannot represent.
func normalizeConstants(src []any) ([]any, error) {
	if src == nil {
		return nil, nil
	}
	dst := make([]any, len(src))
	for i, value := range src {
		normalized, err := normalizeConstant(value)
		if err != nil {
			return nil, fmt.Errorf("constant %d: %w", i, err)
		}
		dst[i] = normalized
	}
	return dst, nil
}

func normalizeConstant(value any) (any, error) {
	switch value := value.(type) {
	case nil, bool, int64, float64, string, *Code:
		return value, nil
	case int:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case uint8:
		return int64(value), nil
	case float32:
		return float64(value), nil
	case []any:
		return normalizeConstants(value)
	default:
		return nil, fmt.Errorf("unsupported constant type %T", value)
	}
}

func decodeError(name string, err error) *errz.StructuredError {
	return errz.NewStructuredErrorf(errz.ErrDecode, errz.SourceLocation{Code: name}, nil,
		"%s", err.Error()).WithCause(err)
}
