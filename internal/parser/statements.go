package parser

import (
	"strconv"

	"github.com/voidbert/plpc/internal/ast"
	"github.com/voidbert/plpc/internal/pltypes"
	"github.com/voidbert/plpc/internal/symtab"
	"github.com/voidbert/plpc/internal/token"
	"github.com/voidbert/plpc/internal/typecheck"
)

// parseCompoundStatement parses `BEGIN stmt; stmt; ... END`. A trailing
// semicolon before END is allowed; an empty body is allowed too.
func (p *Parser) parseCompoundStatement() *ast.CompoundStmt {
	pos := p.cur.Pos
	p.expect(token.BEGIN)

	cs := &ast.CompoundStmt{}
	cs.P = pos
	for !p.curIs(token.END) && !p.curIs(token.EOF) {
		cs.Stmts = append(cs.Stmts, p.parseStatement())
		if p.curIs(token.SEMICOLON) {
			p.next()
			continue
		}
		break
	}
	p.expect(token.END)
	return cs
}

// parseStatement parses an optionally label-prefixed statement
// (`n: stmt`), recording the definition site on the LabelDefinition the
// moment the labeled statement is parsed (spec.md §3 invariant:
// "LabelDefinition.used ⇒ LabelDefinition.statement ≠ None").
func (p *Parser) parseStatement() ast.Statement {
	var label *ast.LabelDefinition
	if p.curIs(token.INT) && p.peekIs(token.COLON) {
		pos := p.cur.Pos
		litLen := len(p.cur.Literal)
		num := int(parseIntLiteral(p.cur.Literal))
		ld, err := p.syms.QueryLabel(strconv.Itoa(num))
		if err != nil {
			p.errorf(pos, litLen, "%s", err)
		} else {
			label = ld
		}
		p.next() // consume the label number
		p.next() // consume ':'
	}

	stmt := p.parseUnlabeledStatement()
	if label != nil {
		label.Statement = stmt
		setLabel(stmt, label)
	}
	return stmt
}

// setLabel attaches label to whichever concrete statement type s is. Every
// statement kind embeds the same unexported base carrying Label, so this
// switch (like codegen's statementLabel, which reads it back) has to list
// all nine of them.
func setLabel(s ast.Statement, label *ast.LabelDefinition) {
	switch v := s.(type) {
	case *ast.AssignStmt:
		v.Label = label
	case *ast.GotoStmt:
		v.Label = label
	case *ast.CallStmt:
		v.Label = label
	case *ast.CompoundStmt:
		v.Label = label
	case *ast.IfStmt:
		v.Label = label
	case *ast.CaseStmt:
		v.Label = label
	case *ast.RepeatStmt:
		v.Label = label
	case *ast.WhileStmt:
		v.Label = label
	case *ast.ForStmt:
		v.Label = label
	}
}

func (p *Parser) parseUnlabeledStatement() ast.Statement {
	switch p.cur.Type {
	case token.BEGIN:
		return p.parseCompoundStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.REPEAT:
		return p.parseRepeatStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.CASE:
		return p.parseCaseStatement()
	case token.GOTO:
		return p.parseGotoStatement()
	case token.IDENT:
		return p.parseIdentifierStatement()
	default:
		// Empty statement: legal between semicolons and before END.
		empty := &ast.CompoundStmt{}
		empty.P = p.cur.Pos
		return empty
	}
}

// parseIdentifierStatement resolves a leading identifier to either a
// procedure/function call used as a statement, or an assignment target
// (spec.md §4.4 "Assignment", "Callable call").
func (p *Parser) parseIdentifierStatement() ast.Statement {
	name := p.cur.Literal
	pos := p.cur.Pos

	if call, err := p.syms.QueryCallable(name); err == nil {
		p.next()
		ce := p.parseCallExpr(call, pos)
		cs := &ast.CallStmt{Call: ce}
		cs.P = pos
		return cs
	}

	vd, err := p.syms.QueryVariable(name)
	p.next()
	if err != nil {
		p.errorf(pos, len(name), "%s", err)
		empty := &ast.CompoundStmt{}
		empty.P = pos
		return empty
	}

	target := p.parseVarUsage(vd, pos)
	assignPos := p.cur.Pos
	if !p.expect(token.ASSIGN) {
		empty := &ast.CompoundStmt{}
		empty.P = pos
		return empty
	}
	value := p.parseExpression()

	if ferr := typecheck.FailOnStringIndexation(vd.Type, len(target.Indices)); ferr != nil {
		p.errorf(pos, len(name), "%s", ferr)
	}
	if !typecheck.CanAssign(target.Type(), value.Type()) {
		p.errorf(assignPos, 0, "cannot assign %s to %s", value.Type(), target.Type())
	} else if tb, ok := target.Type().(*pltypes.Basic); ok && tb.Kind == pltypes.String {
		if vb, ok := value.Type().(*pltypes.Basic); ok && vb.Kind == pltypes.Char {
			promoteToString(value)
		}
	}

	as := &ast.AssignStmt{Target: target, Value: value}
	as.P = pos
	return as
}

// parseGotoStatement parses `goto n`, marking the target label as used
// (spec.md §3, §4.4 "Goto").
func (p *Parser) parseGotoStatement() ast.Statement {
	pos := p.cur.Pos
	p.next() // consume GOTO

	if !p.curIs(token.INT) {
		p.errorf(p.cur.Pos, len(p.cur.Literal), "expected a label number after goto, got %s", p.cur.Type)
		empty := &ast.CompoundStmt{}
		empty.P = pos
		return empty
	}
	litLen := len(p.cur.Literal)
	num := int(parseIntLiteral(p.cur.Literal))
	p.next()

	ld, err := p.syms.QueryLabel(strconv.Itoa(num))
	if err != nil {
		p.errorf(pos, litLen, "%s", err)
		empty := &ast.CompoundStmt{}
		empty.P = pos
		return empty
	}
	ld.Used = true

	gs := &ast.GotoStmt{Target: ld}
	gs.P = pos
	return gs
}

func isBoolean(t pltypes.Type) bool {
	b, ok := t.(*pltypes.Basic)
	return ok && b.Kind == pltypes.Boolean
}

// parseIfStatement parses `if cond then stmt [else stmt]`.
func (p *Parser) parseIfStatement() ast.Statement {
	pos := p.cur.Pos
	p.next() // consume IF
	cond := p.parseExpression()
	if !isBoolean(cond.Type()) {
		p.errorf(cond.Pos(), 0, "if condition must be BOOLEAN, got %s", cond.Type())
	}
	p.expect(token.THEN)
	thenStmt := p.parseStatement()

	var elseStmt ast.Statement
	if p.curIs(token.ELSE) {
		p.next()
		elseStmt = p.parseStatement()
	}

	is := &ast.IfStmt{Cond: cond, Then: thenStmt, Else: elseStmt}
	is.P = pos
	return is
}

// parseWhileStatement parses `while cond do stmt`.
func (p *Parser) parseWhileStatement() ast.Statement {
	pos := p.cur.Pos
	p.next() // consume WHILE
	cond := p.parseExpression()
	if !isBoolean(cond.Type()) {
		p.errorf(cond.Pos(), 0, "while condition must be BOOLEAN, got %s", cond.Type())
	}
	p.expect(token.DO)
	body := p.parseStatement()

	ws := &ast.WhileStmt{Cond: cond, Body: body}
	ws.P = pos
	return ws
}

// parseRepeatStatement parses `repeat stmt; stmt; ... until cond` — the
// body is a bare statement list, not a compound statement, and the
// condition is evaluated after the body runs (spec.md §4.6 "REPEAT").
func (p *Parser) parseRepeatStatement() ast.Statement {
	pos := p.cur.Pos
	p.next() // consume REPEAT

	var body []ast.Statement
	for !p.curIs(token.UNTIL) && !p.curIs(token.EOF) {
		body = append(body, p.parseStatement())
		if p.curIs(token.SEMICOLON) {
			p.next()
			continue
		}
		break
	}
	p.expect(token.UNTIL)
	cond := p.parseExpression()
	if !isBoolean(cond.Type()) {
		p.errorf(cond.Pos(), 0, "until condition must be BOOLEAN, got %s", cond.Type())
	}

	rs := &ast.RepeatStmt{Body: body, Cond: cond}
	rs.P = pos
	return rs
}

// parseForStatement parses `for control := initial to|downto final do
// body`. The control variable must resolve to a variable in the top-most
// scope (a local or a parameter of the current callable, or a program-level
// variable in the main block), not an outer/global variable seen from inside
// a callable (spec.md §4.4 "For"), and must be ordinal with bounds
// assignable to its type.
func (p *Parser) parseForStatement() ast.Statement {
	pos := p.cur.Pos
	p.next() // consume FOR

	var control *ast.VariableDefinition
	if p.curIs(token.IDENT) {
		name := p.cur.Literal
		cpos := p.cur.Pos
		d, isTop, err := p.syms.Query(name)
		if err != nil || d.Kind != symtab.KindVariable {
			p.errorf(cpos, len(name), "'%s' is not a variable", name)
		} else {
			control = d.Variable
			if !isTop {
				p.errorf(cpos, len(name), "for-loop control variable must be declared in the current block")
			}
		}
		p.next()
	} else {
		p.errorf(p.cur.Pos, len(p.cur.Literal), "expected a control variable, got %s", p.cur.Type)
	}

	p.expect(token.ASSIGN)
	initial := p.parseExpression()

	down := false
	if p.curIs(token.DOWNTO) {
		down = true
		p.next()
	} else {
		p.expect(token.TO)
	}
	final := p.parseExpression()
	p.expect(token.DO)
	body := p.parseStatement()

	if control != nil {
		if !pltypes.IsOrdinal(control.Type) {
			p.errorf(pos, 0, "for-loop control variable must be ordinal, got %s", control.Type)
		}
		if !typecheck.CanAssign(control.Type, initial.Type()) {
			p.errorf(initial.Pos(), 0, "cannot assign %s to control variable of type %s", initial.Type(), control.Type)
		}
		if !typecheck.CanAssign(control.Type, final.Type()) {
			p.errorf(final.Pos(), 0, "cannot assign %s to control variable of type %s", final.Type(), control.Type)
		}
	}

	fs := &ast.ForStmt{Control: control, Initial: initial, Final: final, Body: body, Down: down}
	fs.P = pos
	return fs
}

// parseCaseStatement parses `case selector of val,val: stmt; ... end`.
func (p *Parser) parseCaseStatement() ast.Statement {
	pos := p.cur.Pos
	p.next() // consume CASE
	selector := p.parseExpression()
	if !pltypes.IsOrdinal(selector.Type()) {
		p.errorf(selector.Pos(), 0, "case selector must be ordinal, got %s", selector.Type())
	}
	p.expect(token.OF)

	var arms []ast.CaseArm
	for !p.curIs(token.END) && !p.curIs(token.EOF) {
		var values []ast.Expression
		for {
			v := p.parseExpression()
			if !pltypes.Equal(v.Type(), selector.Type()) {
				p.errorf(v.Pos(), 0, "case label type %s does not match selector type %s", v.Type(), selector.Type())
			}
			values = append(values, v)
			if p.curIs(token.COMMA) {
				p.next()
				continue
			}
			break
		}
		p.expect(token.COLON)
		body := p.parseStatement()
		arms = append(arms, ast.CaseArm{Values: values, Body: body})
		if p.curIs(token.SEMICOLON) {
			p.next()
			continue
		}
		break
	}
	p.expect(token.END)

	cs := &ast.CaseStmt{Selector: selector, Arms: arms}
	cs.P = pos
	return cs
}
