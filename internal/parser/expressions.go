package parser

import (
	"github.com/voidbert/plpc/internal/ast"
	"github.com/voidbert/plpc/internal/pltypes"
	"github.com/voidbert/plpc/internal/token"
	"github.com/voidbert/plpc/internal/typecheck"
)

// Precedence tiers:
//   not > * / div mod and > leading +,- and + - or > relational
// A leading sign is parsed at the adding tier and applies to the whole
// first term (`-a * b` is `-(a * b)`); a sign directly after a multiplying
// operator (`a * -b`) is not accepted.

var mulOps = map[token.Type]string{
	token.STAR: "*", token.SLASH: "/", token.DIV: "div", token.MOD: "mod", token.AND: "and",
}

var addOps = map[token.Type]string{
	token.PLUS: "+", token.MINUS: "-", token.OR: "or",
}

var relOps = map[token.Type]string{
	token.EQUAL: "=", token.DIFFERENT: "<>", token.LESS: "<", token.GREATER: ">",
	token.LE: "<=", token.GE: ">=", token.IN: "in",
}

// parseExpression is the top-level entry point: simpleExpr [relOp simpleExpr].
func (p *Parser) parseExpression() ast.Expression {
	left := p.parseSimpleExpr()
	if op, ok := relOps[p.cur.Type]; ok {
		pos := p.cur.Pos
		p.next()
		right := p.parseSimpleExpr()
		return p.makeBinary(op, left, right, pos)
	}
	return left
}

// parseSimpleExpr is [sign] term {addOp term}.
func (p *Parser) parseSimpleExpr() ast.Expression {
	var left ast.Expression
	if p.curIs(token.PLUS) || p.curIs(token.MINUS) {
		op := "+"
		if p.curIs(token.MINUS) {
			op = "-"
		}
		pos := p.cur.Pos
		p.next()
		x := p.parseTerm()
		left = p.makeUnary(op, x, pos)
	} else {
		left = p.parseTerm()
	}

	for {
		op, ok := addOps[p.cur.Type]
		if !ok {
			return left
		}
		pos := p.cur.Pos
		p.next()
		right := p.parseTerm()
		left = p.makeBinary(op, left, right, pos)
	}
}

// parseTerm is factor {mulOp factor}.
func (p *Parser) parseTerm() ast.Expression {
	left := p.parseFactor()
	for {
		op, ok := mulOps[p.cur.Type]
		if !ok {
			return left
		}
		pos := p.cur.Pos
		p.next()
		right := p.parseFactor()
		left = p.makeBinary(op, left, right, pos)
	}
}

// parseFactor is the highest-precedence tier: literals, parenthesized
// expressions, `not x`, and variable/call primaries.
func (p *Parser) parseFactor() ast.Expression {
	pos := p.cur.Pos
	switch p.cur.Type {
	case token.NOT:
		p.next()
		x := p.parseFactor()
		return p.makeUnary("not", x, pos)

	case token.LPAREN:
		p.next()
		e := p.parseExpression()
		p.expect(token.RPAREN)
		return e

	case token.INT:
		v := parseIntLiteral(p.cur.Literal)
		p.next()
		return &ast.ConstExpr{Value: &pltypes.IntConstant{Value: v}, Typ: pltypes.IntegerType, P: pos}

	case token.REAL:
		v := parseRealLiteral(p.cur.Literal)
		p.next()
		return &ast.ConstExpr{Value: &pltypes.RealConstant{Value: v}, Typ: pltypes.RealType, P: pos}

	case token.STRING:
		v := p.cur.Literal
		p.next()
		sc := &pltypes.StringConstant{Value: v}
		return &ast.ConstExpr{Value: sc, Typ: pltypes.ConstantType(sc), P: pos}

	case token.IDENT:
		return p.parseIdentifierExpr()

	default:
		p.errorf(pos, len(p.cur.Literal), "unexpected token %s %q in expression", p.cur.Type, p.cur.Literal)
		p.next()
		return &ast.ConstExpr{Value: &pltypes.IntConstant{Value: 0}, Typ: pltypes.IntegerType, P: pos}
	}
}

func (p *Parser) makeUnary(op string, x ast.Expression, pos token.Position) ast.Expression {
	t, err := typecheck.UnaryType(op, x.Type())
	if err != nil {
		p.errorf(pos, len(op), "%s", err)
		t = x.Type()
	}
	return &ast.UnaryExpr{Op: op, X: x, Typ: t, P: pos}
}

func (p *Parser) makeBinary(op string, l, r ast.Expression, pos token.Position) ast.Expression {
	t, err := typecheck.BinaryType(op, l.Type(), r.Type())
	if err != nil {
		p.errorf(pos, len(op), "%s", err)
		t = pltypes.IntegerType
	}
	return &ast.BinaryExpr{Op: op, L: l, R: r, Typ: t, P: pos}
}

// parseIdentifierExpr resolves an identifier to either a variable usage
// (with zero or more index lists) or a callable call.
func (p *Parser) parseIdentifierExpr() ast.Expression {
	name := p.cur.Literal
	pos := p.cur.Pos
	p.next()

	lname := lower(name)
	if lname == "true" || lname == "false" {
		return &ast.ConstExpr{Value: &pltypes.BoolConstant{Value: lname == "true"}, Typ: pltypes.BooleanType, P: pos}
	}

	if cd, err := p.syms.QueryConstant(name); err == nil {
		return &ast.ConstExpr{Value: cd.Value, Typ: pltypes.ConstantType(cd.Value), P: pos}
	}

	if call, err := p.syms.QueryCallable(name); err == nil {
		return p.parseCallExpr(call, pos)
	}

	vd, err := p.syms.QueryVariable(name)
	if err != nil {
		p.errorf(pos, len(name), "%s", err)
		vd = &ast.VariableDefinition{Name: name, Type: pltypes.IntegerType}
	}
	return p.parseVarUsage(vd, pos)
}

// parseVarUsage consumes zero or more `[index]` suffixes, threading the
// result type through type_after_indexation at each step (spec.md §4.3,
// §4.4 "Variable usage").
func (p *Parser) parseVarUsage(vd *ast.VariableDefinition, pos token.Position) *ast.VarUsage {
	usage := &ast.VarUsage{Def: vd, Typ: vd.Type, P: pos}
	for p.curIs(token.LBRACK) {
		p.next()
		for {
			idx := p.parseExpression()
			t, err := typecheck.TypeAfterIndexation(usage.Typ, idx.Type())
			if err != nil {
				p.errorf(idx.Pos(), 0, "%s", err)
				t = pltypes.IntegerType
			}
			usage.Indices = append(usage.Indices, idx)
			usage.Typ = t
			if p.curIs(token.COMMA) {
				p.next()
				continue
			}
			break
		}
		p.expect(token.RBRACK)
	}
	return usage
}

// parseCallExpr parses `name(arg, arg, ...)` or a bare `name` call with no
// arguments, checking argument count and per-argument assignability
// (spec.md §4.4 "Callable call").
func (p *Parser) parseCallExpr(def *ast.CallableDefinition, pos token.Position) *ast.CallExpr {
	var args []ast.Expression
	if p.curIs(token.LPAREN) {
		p.next()
		if !p.curIs(token.RPAREN) {
			for {
				args = append(args, p.parseExpression())
				if p.curIs(token.COMMA) {
					p.next()
					continue
				}
				break
			}
		}
		p.expect(token.RPAREN)
	}

	p.checkCallArgs(def, args, pos)

	var resultType pltypes.Type
	if def.ReturnVar != nil {
		resultType = def.ReturnVar.Type
	}
	return &ast.CallExpr{Def: def, Args: args, Typ: resultType, P: pos}
}

// checkCallArgs implements the argument-checking half of spec.md §4.4
// "Callable call": count check when parameters are known, per-pair
// can_assign, CHAR -> STRING auto-promotion at the call site, scalar-only
// for write/writeln, writable-ordinal-variable for read/readln (with a
// warning when more than one argument is given).
func (p *Parser) checkCallArgs(def *ast.CallableDefinition, args []ast.Expression, pos token.Position) {
	name := lower(def.Name)

	switch name {
	case "write", "writeln":
		for _, a := range args {
			if _, isArray := a.Type().(*pltypes.Array); isArray {
				p.errorf(a.Pos(), 0, "%s arguments must be scalar", name)
			}
		}
		return
	case "read", "readln":
		if len(args) > 1 {
			p.warnf(pos, 0, "%s with more than one argument will be split into separate reads", name)
		}
		for _, a := range args {
			usage, ok := a.(*ast.VarUsage)
			if !ok || !pltypes.IsOrdinal(usage.Type()) {
				p.errorf(a.Pos(), 0, "%s arguments must be a writable ordinal variable", name)
			}
		}
		return
	case "length":
		if len(args) != 1 {
			p.errorf(pos, 0, "length expects exactly 1 argument, got %d", len(args))
			return
		}
		if !typecheck.CanAssign(pltypes.StringType, args[0].Type()) {
			p.errorf(args[0].Pos(), 0, "length expects a STRING argument, got %s", args[0].Type())
		}
		return
	}

	if !def.IsBuiltin() {
		if len(args) != len(def.Parameters) {
			p.errorf(pos, 0, "%s expects %d argument(s), got %d", def.Name, len(def.Parameters), len(args))
			return
		}
		for i, a := range args {
			formal := def.Parameters[i]
			if !typecheck.CanAssign(formal.Type, a.Type()) {
				p.errorf(a.Pos(), 0, "cannot pass %s as argument %d (%s) of %s", a.Type(), i+1, formal.Type, def.Name)
				continue
			}
			// CHAR -> STRING auto-promotion at the call site: mutate the
			// actual's type tag in place (spec.md §4.4 "Callable call").
			if fb, ok := formal.Type.(*pltypes.Basic); ok && fb.Kind == pltypes.String {
				if ab, ok := a.Type().(*pltypes.Basic); ok && ab.Kind == pltypes.Char {
					promoteToString(a)
				}
			}
		}
	}
}

// promoteToString mutates an expression node's annotated type tag in
// place from CHAR to STRING. Used at call sites that accept a STRING
// formal parameter fed a CHAR actual (spec.md §4.4).
func promoteToString(e ast.Expression) {
	switch n := e.(type) {
	case *ast.ConstExpr:
		n.Typ = pltypes.StringType
	case *ast.VarUsage:
		n.Typ = pltypes.StringType
	case *ast.CallExpr:
		n.Typ = pltypes.StringType
	case *ast.UnaryExpr:
		n.Typ = pltypes.StringType
	case *ast.BinaryExpr:
		n.Typ = pltypes.StringType
	}
}
