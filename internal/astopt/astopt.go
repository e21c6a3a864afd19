// Package astopt implements the AST-level constant folder and boolean
// simplifier of spec.md §4.5: two passes fused at each expression node,
// folding constants first and then simplifying boolean algebra, applied
// bottom-up. Rewrites are memoized by the visited expression's own pointer
// identity so a subtree referenced from more than one place in the tree is
// never walked twice (spec.md §4.5, §9 "identity-based memoization").
package astopt

import (
	"strings"

	"github.com/voidbert/plpc/internal/ast"
	"github.com/voidbert/plpc/internal/pltypes"
)

// OptimizeProgram runs the optimizer over every statement reachable from
// prog, including nested callable bodies. It mutates the tree in place and
// is idempotent: running it again on its own output makes no further
// change (spec.md §8 "Idempotence").
func OptimizeProgram(prog *ast.Program) {
	memo := map[ast.Expression]ast.Expression{}
	optimizeBlock(prog.Block, memo)
}

func optimizeBlock(b *ast.Block, memo map[ast.Expression]ast.Expression) {
	if b == nil {
		return
	}
	optimizeStmt(b.Body, memo)
	for _, c := range b.Callables {
		optimizeBlock(c.Body, memo)
	}
}

func optimizeStmt(s ast.Statement, memo map[ast.Expression]ast.Expression) {
	switch v := s.(type) {
	case nil:
		return
	case *ast.AssignStmt:
		v.Value = optimizeExpr(v.Value, memo)
		for i := range v.Target.Indices {
			v.Target.Indices[i] = optimizeExpr(v.Target.Indices[i], memo)
		}
	case *ast.GotoStmt:
		// no expressions to rewrite
	case *ast.CallStmt:
		for i := range v.Call.Args {
			v.Call.Args[i] = optimizeExpr(v.Call.Args[i], memo)
		}
	case *ast.CompoundStmt:
		for _, st := range v.Stmts {
			optimizeStmt(st, memo)
		}
	case *ast.IfStmt:
		v.Cond = optimizeExpr(v.Cond, memo)
		optimizeStmt(v.Then, memo)
		optimizeStmt(v.Else, memo)
	case *ast.CaseStmt:
		v.Selector = optimizeExpr(v.Selector, memo)
		for i := range v.Arms {
			for j := range v.Arms[i].Values {
				v.Arms[i].Values[j] = optimizeExpr(v.Arms[i].Values[j], memo)
			}
			optimizeStmt(v.Arms[i].Body, memo)
		}
	case *ast.RepeatStmt:
		for _, st := range v.Body {
			optimizeStmt(st, memo)
		}
		v.Cond = optimizeExpr(v.Cond, memo)
	case *ast.WhileStmt:
		v.Cond = optimizeExpr(v.Cond, memo)
		optimizeStmt(v.Body, memo)
	case *ast.ForStmt:
		v.Initial = optimizeExpr(v.Initial, memo)
		v.Final = optimizeExpr(v.Final, memo)
		optimizeStmt(v.Body, memo)
	}
}

// optimizeExpr rewrites e bottom-up, folding/simplifying it, and caches
// the result keyed by e's own identity.
func optimizeExpr(e ast.Expression, memo map[ast.Expression]ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	if cached, ok := memo[e]; ok {
		return cached
	}

	var result ast.Expression
	switch v := e.(type) {
	case *ast.ConstExpr:
		result = v
	case *ast.VarUsage:
		for i := range v.Indices {
			v.Indices[i] = optimizeExpr(v.Indices[i], memo)
		}
		result = v
	case *ast.CallExpr:
		for i := range v.Args {
			v.Args[i] = optimizeExpr(v.Args[i], memo)
		}
		result = v
	case *ast.UnaryExpr:
		v.X = optimizeExpr(v.X, memo)
		result = rewriteUnary(v)
	case *ast.BinaryExpr:
		v.L = optimizeExpr(v.L, memo)
		v.R = optimizeExpr(v.R, memo)
		result = rewriteBinary(v)
	default:
		result = e
	}

	memo[e] = result
	return result
}

// rewriteUnary folds a unary operation over a constant operand, or
// simplifies `not not x => x` and `not (x R y) => x R' y`.
func rewriteUnary(v *ast.UnaryExpr) ast.Expression {
	if cx, ok := v.X.(*ast.ConstExpr); ok {
		if folded := foldUnary(v.Op, cx.Value); folded != nil {
			return &ast.ConstExpr{Value: folded, Typ: v.Typ, P: v.P}
		}
	}

	if v.Op == "not" {
		if inner, ok := v.X.(*ast.UnaryExpr); ok && inner.Op == "not" {
			return inner.X
		}
		if bin, ok := v.X.(*ast.BinaryExpr); ok {
			if negOp, ok := negateRelOp(bin.Op); ok {
				return &ast.BinaryExpr{L: bin.L, R: bin.R, Op: negOp, Typ: bin.Typ, P: bin.P}
			}
		}
	}

	return v
}

// rewriteBinary folds a binary operation over two constant operands, or
// applies De Morgan's law in one direction: `(not a) and (not b) => not (a
// or b)`, symmetrically for `or`.
func rewriteBinary(v *ast.BinaryExpr) ast.Expression {
	if lc, ok := v.L.(*ast.ConstExpr); ok {
		if rc, ok := v.R.(*ast.ConstExpr); ok {
			if folded := foldBinary(v.Op, lc.Value, rc.Value); folded != nil {
				return &ast.ConstExpr{Value: folded, Typ: v.Typ, P: v.P}
			}
		}
	}

	if v.Op == "and" || v.Op == "or" {
		lu, lok := v.L.(*ast.UnaryExpr)
		ru, rok := v.R.(*ast.UnaryExpr)
		if lok && rok && lu.Op == "not" && ru.Op == "not" {
			innerOp := "or"
			if v.Op == "or" {
				innerOp = "and"
			}
			inner := &ast.BinaryExpr{L: lu.X, R: ru.X, Op: innerOp, Typ: v.Typ, P: v.P}
			return &ast.UnaryExpr{Op: "not", X: inner, Typ: v.Typ, P: v.P}
		}
	}

	return v
}

// negateRelOp maps a relational operator to its negation: `=`<->`<>`,
// `<`<->`>=`, `>`<->`<=` (spec.md §4.5).
func negateRelOp(op string) (string, bool) {
	neg := map[string]string{
		"=": "<>", "<>": "=",
		"<": ">=", ">=": "<",
		">": "<=", "<=": ">",
	}
	v, ok := neg[op]
	return v, ok
}

func foldUnary(op string, c pltypes.Constant) pltypes.Constant {
	switch op {
	case "+":
		switch cv := c.(type) {
		case *pltypes.IntConstant:
			return cv
		case *pltypes.RealConstant:
			return cv
		}
	case "-":
		switch cv := c.(type) {
		case *pltypes.IntConstant:
			return &pltypes.IntConstant{Value: -cv.Value}
		case *pltypes.RealConstant:
			return &pltypes.RealConstant{Value: -cv.Value}
		}
	case "not":
		if cv, ok := c.(*pltypes.BoolConstant); ok {
			return &pltypes.BoolConstant{Value: !cv.Value}
		}
	}
	return nil
}

func foldBinary(op string, l, r pltypes.Constant) pltypes.Constant {
	switch op {
	case "+", "-", "*":
		return foldArith(op, l, r)
	case "/":
		return foldDivide(l, r)
	case "div", "mod":
		return foldIntDivMod(op, l, r)
	case "and", "or":
		return foldBoolOp(op, l, r)
	}
	if isRelOp(op) {
		return foldRelational(op, l, r)
	}
	return nil
}

func isRelOp(op string) bool {
	switch op {
	case "=", "<>", "<", ">", "<=", ">=":
		return true
	}
	return false
}

func numericValue(c pltypes.Constant) (value float64, isReal bool, ok bool) {
	switch v := c.(type) {
	case *pltypes.IntConstant:
		return float64(v.Value), false, true
	case *pltypes.RealConstant:
		return v.Value, true, true
	}
	return 0, false, false
}

func foldArith(op string, l, r pltypes.Constant) pltypes.Constant {
	lv, lReal, lok := numericValue(l)
	rv, rReal, rok := numericValue(r)
	if !lok || !rok {
		return nil
	}
	var res float64
	switch op {
	case "+":
		res = lv + rv
	case "-":
		res = lv - rv
	case "*":
		res = lv * rv
	}
	if lReal || rReal {
		return &pltypes.RealConstant{Value: res}
	}
	return &pltypes.IntConstant{Value: int64(res)}
}

func foldDivide(l, r pltypes.Constant) pltypes.Constant {
	lv, _, lok := numericValue(l)
	rv, _, rok := numericValue(r)
	if !lok || !rok || rv == 0 {
		return nil
	}
	return &pltypes.RealConstant{Value: lv / rv}
}

func foldIntDivMod(op string, l, r pltypes.Constant) pltypes.Constant {
	li, lok := l.(*pltypes.IntConstant)
	ri, rok := r.(*pltypes.IntConstant)
	if !lok || !rok || ri.Value == 0 {
		return nil
	}
	if op == "div" {
		return &pltypes.IntConstant{Value: li.Value / ri.Value}
	}
	return &pltypes.IntConstant{Value: li.Value % ri.Value}
}

// foldBoolOp implements and/or over 0/1 integer representations of the
// booleans (bitwise AND/OR), equivalent to logical and/or for a single
// bit of state but kept in this shape per spec.md §9: "Boolean constant
// folding follows integer semantics ... consistent with the target
// machine treating booleans as 0/1 integers".
func foldBoolOp(op string, l, r pltypes.Constant) pltypes.Constant {
	lb, lok := l.(*pltypes.BoolConstant)
	rb, rok := r.(*pltypes.BoolConstant)
	if !lok || !rok {
		return nil
	}
	li, ri := 0, 0
	if lb.Value {
		li = 1
	}
	if rb.Value {
		ri = 1
	}
	var res int
	if op == "and" {
		res = li & ri
	} else {
		res = li | ri
	}
	return &pltypes.BoolConstant{Value: res != 0}
}

func foldRelational(op string, l, r pltypes.Constant) pltypes.Constant {
	cmp, ok := compareConstants(l, r)
	if !ok {
		return nil
	}
	var res bool
	switch op {
	case "=":
		res = cmp == 0
	case "<>":
		res = cmp != 0
	case "<":
		res = cmp < 0
	case ">":
		res = cmp > 0
	case "<=":
		res = cmp <= 0
	case ">=":
		res = cmp >= 0
	default:
		return nil
	}
	return &pltypes.BoolConstant{Value: res}
}

func compareConstants(l, r pltypes.Constant) (int, bool) {
	switch lv := l.(type) {
	case *pltypes.IntConstant:
		rv, ok := r.(*pltypes.IntConstant)
		if !ok {
			return 0, false
		}
		return cmpOrdered(lv.Value, rv.Value), true
	case *pltypes.RealConstant:
		rv, ok := r.(*pltypes.RealConstant)
		if !ok {
			return 0, false
		}
		return cmpOrdered(lv.Value, rv.Value), true
	case *pltypes.BoolConstant:
		rv, ok := r.(*pltypes.BoolConstant)
		if !ok {
			return 0, false
		}
		return cmpOrdered(boolRank(lv.Value), boolRank(rv.Value)), true
	case *pltypes.StringConstant:
		rv, ok := r.(*pltypes.StringConstant)
		if !ok {
			return 0, false
		}
		return strings.Compare(lv.Value, rv.Value), true
	}
	return 0, false
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func cmpOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
