package ast

import (
	"github.com/voidbert/plpc/internal/pltypes"
	"github.com/voidbert/plpc/internal/token"
)

// ConstExpr is a literal or named-constant reference folded to its value.
type ConstExpr struct {
	Value pltypes.Constant
	Typ   pltypes.Type
	P     token.Position
}

func (e *ConstExpr) exprNode()            {}
func (e *ConstExpr) Pos() token.Position  { return e.P }
func (e *ConstExpr) Type() pltypes.Type   { return e.Typ }

// VarUsage is a variable reference, optionally followed by zero or more
// index expressions (spec.md §3 "a variable-usage with zero or more index
// lists").
type VarUsage struct {
	Def     *VariableDefinition
	Typ     pltypes.Type // type after applying Indices
	Indices []Expression
	P       token.Position
}

func (e *VarUsage) exprNode()           {}
func (e *VarUsage) Pos() token.Position { return e.P }
func (e *VarUsage) Type() pltypes.Type  { return e.Typ }

// CallExpr is a call to a user-declared or built-in callable used as an
// expression (i.e. the callable is a function).
type CallExpr struct {
	Def  *CallableDefinition
	Typ  pltypes.Type
	Args []Expression
	P    token.Position
}

func (e *CallExpr) exprNode()           {}
func (e *CallExpr) Pos() token.Position { return e.P }
func (e *CallExpr) Type() pltypes.Type  { return e.Typ }

// UnaryExpr is `+x`, `-x`, or `not x`.
type UnaryExpr struct {
	X   Expression
	Typ pltypes.Type
	Op  string
	P   token.Position
}

func (e *UnaryExpr) exprNode()           {}
func (e *UnaryExpr) Pos() token.Position { return e.P }
func (e *UnaryExpr) Type() pltypes.Type  { return e.Typ }

// BinaryExpr is any of the binary operators of spec.md §4.3.
type BinaryExpr struct {
	L, R Expression
	Typ  pltypes.Type
	Op   string
	P    token.Position
}

func (e *BinaryExpr) exprNode()           {}
func (e *BinaryExpr) Pos() token.Position { return e.P }
func (e *BinaryExpr) Type() pltypes.Type  { return e.Typ }
