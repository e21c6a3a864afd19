package ast

import "github.com/voidbert/plpc/internal/token"

// Block is `{label|const|type|var|callable}* BEGIN ... END` (spec.md §3).
type Block struct {
	Body      *CompoundStmt
	Labels    []*LabelDefinition
	Constants []*ConstantDefinition
	Types     []*TypeDefinition
	Variables []*VariableDefinition
	Callables []*CallableDefinition
}

// Program is the root node: `program Name; Block.`
type Program struct {
	Block *Block
	Name  string
	P     token.Position
}

func (p *Program) Pos() token.Position { return p.P }
