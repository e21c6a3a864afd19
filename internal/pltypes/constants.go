package pltypes

import (
	"fmt"
	"strconv"
)

// Constant is the sum type of compile-time constant values
// (spec.md §3 "ConstantValue").
type Constant interface {
	constNode()
	String() string
}

// BoolConstant is a literal true/false value.
type BoolConstant struct{ Value bool }

func (*BoolConstant) constNode() {}
func (c *BoolConstant) String() string {
	if c.Value {
		return "True"
	}
	return "False"
}

// IntConstant is an integer literal.
type IntConstant struct{ Value int64 }

func (*IntConstant) constNode()        {}
func (c *IntConstant) String() string { return strconv.FormatInt(c.Value, 10) }

// RealConstant is a floating-point literal.
type RealConstant struct{ Value float64 }

func (*RealConstant) constNode()        {}
func (c *RealConstant) String() string { return strconv.FormatFloat(c.Value, 'f', -1, 64) }

// StringConstant is a string literal; per the data model a character
// literal is simply a StringConstant of length 1 (spec.md §3).
type StringConstant struct{ Value string }

func (*StringConstant) constNode()        {}
func (c *StringConstant) String() string { return fmt.Sprintf("%q", c.Value) }

// IsChar reports whether this string constant is exactly one rune long,
// i.e. should be typed CHAR rather than STRING (spec.md §4.3 constant_type).
func (c *StringConstant) IsChar() bool {
	return len([]rune(c.Value)) == 1
}

// EnumConstantValue is a reference to one member of an Enum type.
type EnumConstantValue struct{ Member *EnumConst }

func (*EnumConstantValue) constNode()        {}
func (c *EnumConstantValue) String() string { return c.Member.Name }

// ConstantType implements constant_type(v) from spec.md §4.3: booleans are
// checked before integers, then integer/real/char(len=1)/string(len!=1)/
// enumerated.
func ConstantType(v Constant) Type {
	switch c := v.(type) {
	case *BoolConstant:
		return BooleanType
	case *IntConstant:
		return IntegerType
	case *RealConstant:
		return RealType
	case *StringConstant:
		if c.IsChar() {
			return CharType
		}
		return StringType
	case *EnumConstantValue:
		return c.Member.Owner
	}
	return nil
}

// OrdinalValue implements ordinal_value(v) from spec.md §4.3: booleans map
// to 0/1, integers map to themselves, char maps to its code point,
// enumerated constants map to their ordinal. Any other input fails.
func OrdinalValue(v Constant) (int64, bool) {
	switch c := v.(type) {
	case *BoolConstant:
		if c.Value {
			return 1, true
		}
		return 0, true
	case *IntConstant:
		return c.Value, true
	case *StringConstant:
		if c.IsChar() {
			return int64([]rune(c.Value)[0]), true
		}
		return 0, false
	case *EnumConstantValue:
		return int64(c.Member.Value), true
	}
	return 0, false
}
