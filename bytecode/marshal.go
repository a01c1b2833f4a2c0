package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// The wire form of a code unit is CBOR. It carries the raw wordcode, so
// Unmarshal decodes and validates exactly like NewCode.

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Constant kinds on the wire.
const (
	constNone  = "none"
	constBool  = "bool"
	constInt   = "int"
	constFloat = "float"
	constStr   = "str"
	constTuple = "tuple"
	constCode  = "code"
)

type codeState struct {
	ID        string          `cbor:"id"`
	Name      string          `cbor:"name"`
	ArgCount  int             `cbor:"argcount"`
	Constants []constantState `cbor:"consts"`
	Names     []string        `cbor:"names"`
	VarNames  []string        `cbor:"varnames"`
	Bytecode  []byte          `cbor:"code"`
}

type constantState struct {
	Kind  string          `cbor:"k"`
	Bool  bool            `cbor:"b,omitempty"`
	Int   int64           `cbor:"i,omitempty"`
	Float float64         `cbor:"f,omitempty"`
	Str   string          `cbor:"s,omitempty"`
	Tuple []constantState `cbor:"t,omitempty"`
	Code  *codeState      `cbor:"c,omitempty"`
}

// Marshal converts a Code into its CBOR wire form.
func Marshal(code *Code) ([]byte, error) {
	state, err := stateFromCode(code)
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(state)
}

// Unmarshal decodes a Code from its CBOR wire form.
func Unmarshal(data []byte) (*Code, error) {
	var state codeState
	if err := cbor.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal code: %w", err)
	}
	return codeFromState(&state)
}

func stateFromCode(code *Code) (*codeState, error) {
	constants, err := stateFromConstants(code.constants)
	if err != nil {
		return nil, fmt.Errorf("bytecode: marshal %s: %w", code.name, err)
	}
	return &codeState{
		ID:        code.id,
		Name:      code.name,
		ArgCount:  code.argCount,
		Constants: constants,
		Names:     code.names,
		VarNames:  code.varNames,
		Bytecode:  code.raw,
	}, nil
}

func stateFromConstants(constants []any) ([]constantState, error) {
	states := make([]constantState, 0, len(constants))
	for _, constant := range constants {
		var state constantState
		switch value := constant.(type) {
		case nil:
			state.Kind = constNone
		case bool:
			state = constantState{Kind: constBool, Bool: value}
		case int64:
			state = constantState{Kind: constInt, Int: value}
		case float64:
			state = constantState{Kind: constFloat, Float: value}
		case string:
			state = constantState{Kind: constStr, Str: value}
		case []any:
			items, err := stateFromConstants(value)
			if err != nil {
				return nil, err
			}
			state = constantState{Kind: constTuple, Tuple: items}
		case *Code:
			child, err := stateFromCode(value)
			if err != nil {
				return nil, err
			}
			state = constantState{Kind: constCode, Code: child}
		default:
			return nil, fmt.Errorf("unsupported constant type %T", constant)
		}
		states = append(states, state)
	}
	return states, nil
}

func codeFromState(state *codeState) (*Code, error) {
	constants, err := constantsFromState(state.Constants)
	if err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal %s: %w", state.Name, err)
	}
	return NewCode(CodeParams{
		ID:        state.ID,
		Name:      state.Name,
		ArgCount:  state.ArgCount,
		Constants: constants,
		Names:     state.Names,
		VarNames:  state.VarNames,
		Bytecode:  state.Bytecode,
	})
}

func constantsFromState(states []constantState) ([]any, error) {
	constants := make([]any, 0, len(states))
	for _, state := range states {
		switch state.Kind {
		case constNone:
			constants = append(constants, nil)
		case constBool:
			constants = append(constants, state.Bool)
		case constInt:
			constants = append(constants, state.Int)
		case constFloat:
			constants = append(constants, state.Float)
		case constStr:
			constants = append(constants, state.Str)
		case constTuple:
			items, err := constantsFromState(state.Tuple)
			if err != nil {
				return nil, err
			}
			constants = append(constants, items)
		case constCode:
			if state.Code == nil {
				return nil, fmt.Errorf("code constant without body")
			}
			child, err := codeFromState(state.Code)
			if err != nil {
				return nil, err
			}
			constants = append(constants, child)
		default:
			return nil, fmt.Errorf("unknown constant kind %q", state.Kind)
		}
	}
	return constants, nil
}
