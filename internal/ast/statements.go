package ast

import "github.com/voidbert/plpc/internal/token"

// base carries the optional user label and position shared by every
// statement kind (spec.md §3: "Each statement optionally carries a label").
type base struct {
	Label *LabelDefinition
	P     token.Position
}

func (b base) Pos() token.Position { return b.P }
func (base) stmtNode()             {}

// AssignStmt is `target := value`.
type AssignStmt struct {
	base
	Target *VarUsage
	Value  Expression
}

// GotoStmt is `goto n`.
type GotoStmt struct {
	base
	Target *LabelDefinition
}

// CallStmt is a procedure call used as a statement.
type CallStmt struct {
	base
	Call *CallExpr
}

// CompoundStmt is `begin ... end`.
type CompoundStmt struct {
	base
	Stmts []Statement
}

// IfStmt is `if cond then then_ [else else_]`.
type IfStmt struct {
	base
	Cond Expression
	Then Statement
	Else Statement // nil if no else-branch
}

// CaseArm is one `constant, constant: body` arm of a case statement.
type CaseArm struct {
	Body   Statement
	Values []Expression // each a *ConstExpr
}

// CaseStmt is `case selector of arm... end`.
type CaseStmt struct {
	base
	Selector Expression
	Arms     []CaseArm
}

// RepeatStmt is `repeat body until cond` — the condition is tested after
// the body runs (spec.md §4.6 "REPEAT").
type RepeatStmt struct {
	base
	Body []Statement
	Cond Expression
}

// WhileStmt is `while cond do body`.
type WhileStmt struct {
	base
	Cond Expression
	Body Statement
}

// ForStmt is `for control := initial to|downto final do body`.
type ForStmt struct {
	base
	Control *VariableDefinition
	Initial Expression
	Final   Expression
	Body    Statement
	Down    bool
}
