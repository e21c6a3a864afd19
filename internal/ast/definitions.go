package ast

import "github.com/voidbert/plpc/internal/pltypes"

// LabelDefinition is a `LABEL n` declaration. Statement is filled in when
// the labeled statement is parsed; Used is set the moment a `goto n`
// resolves to this label (spec.md §3 invariant:
// "LabelDefinition.used ⇒ LabelDefinition.statement ≠ None").
type LabelDefinition struct {
	Statement Statement
	Name      int
	Used      bool
}

// ConstantDefinition binds a name to a compile-time constant value.
type ConstantDefinition struct {
	Value pltypes.Constant
	Name  string
}

// TypeDefinition binds a name to a type value.
type TypeDefinition struct {
	Value pltypes.Type
	Name  string
}

// VariableDefinition binds a name to a type and a storage location.
// ScopeOffset is assigned during code generation (spec.md §3 invariant);
// parameters and the return variable of a callable occupy negative
// offsets, locals occupy 0,1,2,....
type VariableDefinition struct {
	Type            pltypes.Type
	Name            string
	ScopeOffset     int
	IsInCallable    bool
	ScopeOffsetSet  bool
}

// CallableDefinition is a procedure (ReturnVar == nil) or function
// (ReturnVar != nil). Builtin marks one of the pre-installed callables —
// write, writeln, read, readln, length — which the code generator
// special-cases by Name rather than emitting a user CALL (spec.md §4.2,
// §4.6). This is tracked by an explicit flag rather than by
// Parameters == nil: a user-declared procedure with no parameter list
// (`procedure Foo; begin ... end;`) also leaves Parameters nil, and Go's
// nil slice carries no None-vs-empty-list distinction to tell the two
// apart.
type CallableDefinition struct {
	Body       *Block
	ReturnVar  *VariableDefinition
	Name       string
	Parameters []*VariableDefinition
	Builtin    bool
}

// IsBuiltin reports whether this callable is one of the pre-installed
// built-ins (write, writeln, read, readln, length) rather than a
// user-declared procedure/function.
func (c *CallableDefinition) IsBuiltin() bool { return c.Builtin }
