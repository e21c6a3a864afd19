// Package ast defines the abstract syntax tree produced by the parser
// (spec.md §3). Nodes are plain Go pointers: identity is pointer identity,
// which is exactly the "stable id" spec.md §9 calls for when a
// LabelDefinition or CallableDefinition is referenced by more than one
// statement — a Go pointer map is the boxed-handle option from that design
// note, chosen over an integer NodeId arena because it needs no extra
// bookkeeping and is how the teacher's own *ast.Node graph works.
package ast

import (
	"github.com/voidbert/plpc/internal/pltypes"
	"github.com/voidbert/plpc/internal/token"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// Expression is a node that yields a value; every expression node carries
// the type the type checker annotated it with (spec.md §3: "Every
// expression carries a type consistent with §4.3").
type Expression interface {
	Node
	exprNode()
	Type() pltypes.Type
}

// Statement is a node that performs an action. Statements may optionally
// carry a user label (spec.md §3).
type Statement interface {
	Node
	stmtNode()
}
