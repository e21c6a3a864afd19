// Package typecheck implements the pure type-checking functions of
// spec.md §4.3. None of these functions carry state; every decision is a
// function of the types/constants passed in, mirroring the teacher's
// separation between semantic.Analyzer (stateful, drives the passes) and
// its SignaturesEqual/type-compatibility helpers (stateless).
package typecheck

import (
	"fmt"

	"github.com/voidbert/plpc/internal/pltypes"
)

// Error is returned by any of the functions below when the operands are
// not a valid combination for the requested operation.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func errf(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// UnaryType implements unary_type(op, sub_type): "+"/"-" are defined for
// INTEGER and REAL (result = operand type); "not" is defined for BOOLEAN
// (result = BOOLEAN).
func UnaryType(op string, sub pltypes.Type) (pltypes.Type, error) {
	switch op {
	case "+", "-":
		if pltypes.IsNumeric(sub) {
			return sub, nil
		}
		return nil, errf("unary %q is not defined for %s", op, sub)
	case "not":
		if b, ok := sub.(*pltypes.Basic); ok && b.Kind == pltypes.Boolean {
			return pltypes.BooleanType, nil
		}
		return nil, errf("unary %q is not defined for %s", op, sub)
	}
	return nil, errf("unknown unary operator %q", op)
}

func basicKind(t pltypes.Type) (pltypes.BasicKind, bool) {
	b, ok := t.(*pltypes.Basic)
	if !ok {
		return 0, false
	}
	return b.Kind, true
}

// relational is the set of operators requiring identical built-in operand
// types and yielding BOOLEAN. Per spec.md §9 design notes, ">=" is folded
// into this set even though the original typechecker omitted it — doing so
// matches the code generator, which always had its own opcode path for
// ">=" regardless of what the type checker accepted.
var relational = map[string]bool{
	"=": true, "<>": true, "<": true, ">": true, "<=": true, ">=": true,
}

// BinaryType implements binary_type(op, L, R) from spec.md §4.3.
func BinaryType(op string, l, r pltypes.Type) (pltypes.Type, error) {
	switch op {
	case "+", "-", "*":
		if !pltypes.IsNumeric(l) || !pltypes.IsNumeric(r) {
			return nil, errf("operator %q requires numeric operands, got %s and %s", op, l, r)
		}
		lk, _ := basicKind(l)
		rk, _ := basicKind(r)
		if lk == pltypes.Real || rk == pltypes.Real {
			return pltypes.RealType, nil
		}
		return pltypes.IntegerType, nil
	case "/":
		if !pltypes.IsNumeric(l) || !pltypes.IsNumeric(r) {
			return nil, errf("operator %q requires numeric operands, got %s and %s", op, l, r)
		}
		return pltypes.RealType, nil
	case "div", "mod":
		lk, lok := basicKind(l)
		rk, rok := basicKind(r)
		if !lok || !rok || lk != pltypes.Integer || rk != pltypes.Integer {
			return nil, errf("operator %q requires integer operands, got %s and %s", op, l, r)
		}
		return pltypes.IntegerType, nil
	case "and", "or":
		lk, lok := basicKind(l)
		rk, rok := basicKind(r)
		if !lok || !rok || lk != pltypes.Boolean || rk != pltypes.Boolean {
			return nil, errf("operator %q requires boolean operands, got %s and %s", op, l, r)
		}
		return pltypes.BooleanType, nil
	case "in":
		// Accepted by the grammar but always a type error (spec.md §4.3, §9).
		return nil, errf("operator \"in\" is not supported")
	default:
		if relational[op] {
			lk, lok := basicKind(l)
			rk, rok := basicKind(r)
			if !lok || !rok || lk != rk {
				return nil, errf("operator %q requires operands of the same built-in type, got %s and %s", op, l, r)
			}
			return pltypes.BooleanType, nil
		}
	}
	return nil, errf("unknown binary operator %q", op)
}

// CanAssign implements can_assign(L, R): L = R, or (L = REAL and R =
// INTEGER), or (L = STRING and R = CHAR).
func CanAssign(l, r pltypes.Type) bool {
	if pltypes.Equal(l, r) {
		return true
	}
	lk, lok := basicKind(l)
	rk, rok := basicKind(r)
	if lok && rok {
		if lk == pltypes.Real && rk == pltypes.Integer {
			return true
		}
		if lk == pltypes.String && rk == pltypes.Char {
			return true
		}
	}
	return false
}

// TypeAfterIndexation implements type_after_indexation(array_type,
// index_type). A STRING is treated as ARRAY [1..2048] OF CHAR; any real
// array type requires the index to be assignable to the outermost
// dimension's element type, then peels one dimension (or, if that was the
// last dimension, returns the array's element type).
func TypeAfterIndexation(arrayType, indexType pltypes.Type) (pltypes.Type, error) {
	if b, ok := arrayType.(*pltypes.Basic); ok && b.Kind == pltypes.String {
		if !CanAssign(pltypes.IntegerType, indexType) {
			return nil, errf("string index must be assignable to INTEGER, got %s", indexType)
		}
		return pltypes.CharType, nil
	}

	arr, ok := arrayType.(*pltypes.Array)
	if !ok {
		return nil, errf("cannot index non-array type %s", arrayType)
	}
	if len(arr.Dims) == 0 {
		return nil, errf("array type has no dimensions")
	}
	if !CanAssign(arr.Dims[0].Element, indexType) {
		return nil, errf("array index must be assignable to %s, got %s", arr.Dims[0].Element, indexType)
	}
	if len(arr.Dims) == 1 {
		return arr.Element, nil
	}
	return &pltypes.Array{Element: arr.Element, Dims: arr.Dims[1:]}, nil
}

// FailOnStringIndexation implements fail_on_string_indexation(usage):
// walking the indices applied to a variable of type baseType, fail as soon
// as an index is applied to a level whose type is STRING — individual
// characters of a string are never a valid write target (spec.md §4.3).
func FailOnStringIndexation(baseType pltypes.Type, numIndices int) error {
	current := baseType
	for i := 0; i < numIndices; i++ {
		if b, ok := current.(*pltypes.Basic); ok && b.Kind == pltypes.String {
			return errf("cannot write to an individual character of a string")
		}
		arr, ok := current.(*pltypes.Array)
		if !ok {
			return nil
		}
		if len(arr.Dims) == 1 {
			current = arr.Element
		} else {
			current = &pltypes.Array{Element: arr.Element, Dims: arr.Dims[1:]}
		}
	}
	return nil
}
