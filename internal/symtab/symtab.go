// Package symtab implements the scope stack of spec.md §4.2: a stack of
// scopes mapping lowercased names to symbol definitions, pre-populated
// with built-ins, modeled on the teacher's SymbolTable/outer-scope chain
// (internal/semantic/symbol_table.go) but generalized to an explicit stack
// since spec.md's scope lifecycle is strictly push-on-enter,
// pop-on-completion (spec.md §3 "Lifecycle").
package symtab

import (
	"fmt"
	"strings"

	"github.com/voidbert/plpc/internal/ast"
	"github.com/voidbert/plpc/internal/pltypes"
)

// Kind identifies which of the five definition kinds a Definition holds.
type Kind int

const (
	KindLabel Kind = iota
	KindConstant
	KindType
	KindVariable
	KindCallable
)

func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "Label"
	case KindConstant:
		return "Constant"
	case KindType:
		return "Type"
	case KindVariable:
		return "Variable"
	case KindCallable:
		return "Callable"
	default:
		return "?"
	}
}

// Definition is the tagged union stored in each scope entry. Exactly one
// of the payload fields is non-nil, selected by Kind.
type Definition struct {
	Kind     Kind
	Name     string // original case, for diagnostics
	Label    *ast.LabelDefinition
	Constant *ast.ConstantDefinition
	Type     *ast.TypeDefinition
	Variable *ast.VariableDefinition
	Callable *ast.CallableDefinition
}

func LabelDef(d *ast.LabelDefinition) *Definition {
	return &Definition{Kind: KindLabel, Name: fmt.Sprintf("%d", d.Name), Label: d}
}
func ConstantDef(d *ast.ConstantDefinition) *Definition {
	return &Definition{Kind: KindConstant, Name: d.Name, Constant: d}
}
func TypeDef(d *ast.TypeDefinition) *Definition {
	return &Definition{Kind: KindType, Name: d.Name, Type: d}
}
func VariableDef(d *ast.VariableDefinition) *Definition {
	return &Definition{Kind: KindVariable, Name: d.Name, Variable: d}
}
func CallableDef(d *ast.CallableDefinition) *Definition {
	return &Definition{Kind: KindCallable, Name: d.Name, Callable: d}
}

// Table is a stack of scopes. Scope 0 (the bottom of the stack) holds the
// pre-installed built-ins.
type Table struct {
	scopes []map[string]*Definition
}

// New creates a Table with its built-in scope already populated
// (spec.md §4.2 "Built-ins pre-installed in scope 0").
func New() *Table {
	t := &Table{}
	t.PushScope()
	installBuiltins(t)
	return t
}

// PushScope opens a new, empty scope on top of the stack.
func (t *Table) PushScope() {
	t.scopes = append(t.scopes, make(map[string]*Definition))
}

// PopScope discards the top-most scope.
func (t *Table) PopScope() {
	if len(t.scopes) == 0 {
		return
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Depth returns the number of scopes currently on the stack.
func (t *Table) Depth() int { return len(t.scopes) }

func key(name string) string { return strings.ToLower(name) }

// Add inserts def into the top-most scope. If a definition of that name
// already exists in the top-most scope, it returns an error and does not
// insert (spec.md §4.2). If a definition of that name exists in a deeper
// scope, it inserts but also returns a non-empty shadow warning.
func (t *Table) Add(def *Definition) (shadowWarning string, err error) {
	top := t.scopes[len(t.scopes)-1]
	k := key(def.Name)
	if _, exists := top[k]; exists {
		return "", fmt.Errorf("Object '%s' already exists in this scope", def.Name)
	}
	for i := len(t.scopes) - 2; i >= 0; i-- {
		if _, exists := t.scopes[i][k]; exists {
			shadowWarning = fmt.Sprintf("Shadowing: '%s' shadows a definition in an outer scope", def.Name)
			break
		}
	}
	top[k] = def
	return shadowWarning, nil
}

// Query searches the scope stack top-down for name. isTop reports whether
// the match was found in the top-most scope.
func (t *Table) Query(name string) (def *Definition, isTop bool, err error) {
	k := key(name)
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if d, ok := t.scopes[i][k]; ok {
			return d, i == len(t.scopes)-1, nil
		}
	}
	return nil, false, fmt.Errorf("'%s' not found", name)
}

// notFound reports that no definition at all resolves to name, mirroring
// the original symbol table's "not found" error shape.
func notFound(kind Kind, name string) error {
	return fmt.Errorf("%s '%s' not found", kind, name)
}

// kindMismatch reports that name resolves, but to a definition of a
// different kind than the caller required, mirroring the original symbol
// table's distinct "wrong kind" error shape ("Object with name '...' is
// not a ...").
func kindMismatch(actual Kind, name string) error {
	return fmt.Errorf("Object with name '%s' is not a %s", name, actual)
}

// QueryConstant resolves name, requiring it to be a ConstantDefinition.
func (t *Table) QueryConstant(name string) (*ast.ConstantDefinition, error) {
	d, _, err := t.Query(name)
	if err != nil {
		return nil, notFound(KindConstant, name)
	}
	if d.Kind != KindConstant {
		return nil, kindMismatch(KindConstant, name)
	}
	return d.Constant, nil
}

// QueryType resolves name, requiring it to be a TypeDefinition.
func (t *Table) QueryType(name string) (*ast.TypeDefinition, error) {
	d, _, err := t.Query(name)
	if err != nil {
		return nil, notFound(KindType, name)
	}
	if d.Kind != KindType {
		return nil, kindMismatch(KindType, name)
	}
	return d.Type, nil
}

// QueryVariable resolves name, requiring it to be a VariableDefinition.
func (t *Table) QueryVariable(name string) (*ast.VariableDefinition, error) {
	d, _, err := t.Query(name)
	if err != nil {
		return nil, notFound(KindVariable, name)
	}
	if d.Kind != KindVariable {
		return nil, kindMismatch(KindVariable, name)
	}
	return d.Variable, nil
}

// QueryCallable resolves name, requiring it to be a CallableDefinition.
func (t *Table) QueryCallable(name string) (*ast.CallableDefinition, error) {
	d, _, err := t.Query(name)
	if err != nil {
		return nil, notFound(KindCallable, name)
	}
	if d.Kind != KindCallable {
		return nil, kindMismatch(KindCallable, name)
	}
	return d.Callable, nil
}

// QueryLabel resolves name, requiring it to be a LabelDefinition AND that
// resolution happened in the top-most scope (labels are never visible
// across a callable boundary — spec.md §4.2).
func (t *Table) QueryLabel(name string) (*ast.LabelDefinition, error) {
	d, isTop, err := t.Query(name)
	if err != nil {
		return nil, notFound(KindLabel, name)
	}
	if d.Kind != KindLabel || !isTop {
		return nil, kindMismatch(KindLabel, name)
	}
	return d.Label, nil
}

// installBuiltins pre-populates scope 0 with the types, constants, and
// callables spec.md §4.2 mandates.
func installBuiltins(t *Table) {
	for _, bt := range []struct {
		name string
		typ  pltypes.Type
	}{
		{"integer", pltypes.IntegerType},
		{"real", pltypes.RealType},
		{"boolean", pltypes.BooleanType},
		{"char", pltypes.CharType},
		{"string", pltypes.StringType},
	} {
		_, _ = t.Add(TypeDef(&ast.TypeDefinition{Name: bt.name, Value: bt.typ}))
	}

	_, _ = t.Add(ConstantDef(&ast.ConstantDefinition{Name: "true", Value: &pltypes.BoolConstant{Value: true}}))
	_, _ = t.Add(ConstantDef(&ast.ConstantDefinition{Name: "false", Value: &pltypes.BoolConstant{Value: false}}))
	// maxint = 1 << 16 - 1, which by operator precedence in the source this
	// was ported from is actually (1 << (16-1)) = 1 << 15 = 32768, not
	// 65535. Kept exactly as observed (spec.md §9 open question) rather
	// than "fixed" to the value the expression looks like it should have.
	_, _ = t.Add(ConstantDef(&ast.ConstantDefinition{Name: "maxint", Value: &pltypes.IntConstant{Value: 1 << 15}}))

	for _, name := range []string{"write", "writeln", "read", "readln"} {
		_, _ = t.Add(CallableDef(&ast.CallableDefinition{Name: name, Parameters: nil, Body: nil, Builtin: true}))
	}

	_, _ = t.Add(CallableDef(&ast.CallableDefinition{
		Name:      "length",
		ReturnVar: &ast.VariableDefinition{Name: "length", Type: pltypes.IntegerType},
		Builtin:   true,
	}))
}
