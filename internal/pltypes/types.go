// Package pltypes implements the TypeValue and ConstantValue sum types of
// spec.md §3, plus the pure predicates of spec.md §4.3.
//
// Following the design notes in spec.md §9, these are modeled as Go
// interfaces with a closed set of implementations rather than an open
// interface hierarchy — callers type-switch exhaustively, the same pattern
// the teacher uses for its own Type/Value sum types in internal/types and
// internal/interp/runtime.
package pltypes

import "fmt"

// Type is the sum type of all type values (spec.md §3 "TypeValue").
type Type interface {
	typeNode()
	String() string
}

// BasicKind enumerates the built-in scalar kinds.
type BasicKind int

const (
	Boolean BasicKind = iota
	Integer
	Real
	Char
	String
)

func (k BasicKind) String() string {
	switch k {
	case Boolean:
		return "BOOLEAN"
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	case Char:
		return "CHAR"
	case String:
		return "STRING"
	default:
		return "?"
	}
}

// Basic is one of the five built-in types.
type Basic struct {
	Kind BasicKind
}

func (*Basic) typeNode()       {}
func (b *Basic) String() string { return b.Kind.String() }

var (
	BooleanType = &Basic{Kind: Boolean}
	IntegerType = &Basic{Kind: Integer}
	RealType    = &Basic{Kind: Real}
	CharType    = &Basic{Kind: Char}
	StringType  = &Basic{Kind: String}
)

// EnumConst is one member of an enumerated type.
type EnumConst struct {
	Owner *Enum
	Name  string
	Value int // ordinal, 0-based, declaration order
}

// Enum is a `(id, id, ...)` enumerated type. Constants is populated after
// the Enum value itself is constructed (spec.md §9: "back-references ...
// set after the definition is created"); use AddConstant to append members
// and fix up their Owner pointer.
type Enum struct {
	TypeName  string // name this type was declared under, for diagnostics
	Constants []*EnumConst
}

func (*Enum) typeNode() {}
func (e *Enum) String() string {
	if e.TypeName != "" {
		return e.TypeName
	}
	return "<anonymous enum>"
}

// AddConstant appends a new member and returns it, with Owner set to e.
func (e *Enum) AddConstant(name string) *EnumConst {
	c := &EnumConst{Owner: e, Name: name, Value: len(e.Constants)}
	e.Constants = append(e.Constants, c)
	return c
}

// Range is a `lower..upper` subrange of an ordinal Element type.
type Range struct {
	Element Type
	Lower   Constant
	Upper   Constant
}

func (*Range) typeNode() {}
func (r *Range) String() string {
	return fmt.Sprintf("%s..%s", r.Lower.String(), r.Upper.String())
}

// DefaultRange is substituted whenever a broken range is parsed, so that
// parsing can continue (spec.md §4.4 "Range type").
func DefaultRange() *Range {
	return &Range{
		Element: IntegerType,
		Lower:   &IntConstant{Value: 1},
		Upper:   &IntConstant{Value: 1},
	}
}

// Array is a (possibly multi-dimensional) array type. Dimensions are
// always stored flattened: `ARRAY [R1,...,Rn] OF T` where T is itself an
// array is coalesced leftmost-outer (spec.md §3, §4.4 "Array flattening").
type Array struct {
	Element Type
	Dims    []*Range
}

func (*Array) typeNode() {}
func (a *Array) String() string {
	s := "ARRAY ["
	for i, d := range a.Dims {
		if i > 0 {
			s += ","
		}
		s += d.String()
	}
	return s + "] OF " + a.Element.String()
}

// Equal reports whether two types are the identical type value. Built-in
// types compare by kind; enums, ranges, and arrays compare by identity or
// structure as appropriate — enum types are singletons once declared, so
// pointer equality is correct and is what distinguishes two
// independently-declared enums with identical member names.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case *Basic:
		bv, ok := b.(*Basic)
		return ok && av.Kind == bv.Kind
	case *Enum:
		return a == b
	case *Range:
		bv, ok := b.(*Range)
		return ok && Equal(av.Element, bv.Element)
	case *Array:
		bv, ok := b.(*Array)
		if !ok || len(av.Dims) != len(bv.Dims) {
			return false
		}
		if !Equal(av.Element, bv.Element) {
			return false
		}
		for i := range av.Dims {
			if !Equal(av.Dims[i].Element, bv.Dims[i].Element) {
				return false
			}
		}
		return true
	}
	return false
}

// IsOrdinal reports whether t has a total order and integer rank
// (spec.md GLOSSARY "Ordinal type").
func IsOrdinal(t Type) bool {
	switch v := t.(type) {
	case *Basic:
		return v.Kind == Boolean || v.Kind == Integer || v.Kind == Char
	case *Enum:
		return true
	case *Range:
		return IsOrdinal(v.Element)
	}
	return false
}

// IsNumeric reports whether t is INTEGER or REAL.
func IsNumeric(t Type) bool {
	b, ok := t.(*Basic)
	return ok && (b.Kind == Integer || b.Kind == Real)
}
