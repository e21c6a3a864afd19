package parser

import (
	"github.com/voidbert/plpc/internal/ast"
	"github.com/voidbert/plpc/internal/pltypes"
	"github.com/voidbert/plpc/internal/symtab"
	"github.com/voidbert/plpc/internal/token"
)

// parseLabelSection parses `LABEL n, n, ...;`.
func (p *Parser) parseLabelSection(b *ast.Block) {
	p.next() // consume LABEL
	for {
		if !p.curIs(token.INT) {
			p.errorf(p.cur.Pos, len(p.cur.Literal), "expected a label number, got %s", p.cur.Type)
			break
		}
		name := int(parseIntLiteral(p.cur.Literal))
		pos := p.cur.Pos
		ld := &ast.LabelDefinition{Name: name}
		if _, err := p.syms.Add(symtab.LabelDef(ld)); err != nil {
			p.errorf(pos, len(p.cur.Literal), "%s", err)
		} else {
			b.Labels = append(b.Labels, ld)
		}
		p.next()
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(token.SEMICOLON)
}

// parseConstSection parses `CONST name = value; ...;`.
func (p *Parser) parseConstSection(b *ast.Block) {
	p.next() // consume CONST
	for p.curIs(token.IDENT) {
		name := p.cur.Literal
		pos := p.cur.Pos
		p.next()
		p.expect(token.EQUAL)
		val := p.parseSignedConstant()
		cd := &ast.ConstantDefinition{Name: name, Value: val}
		if _, err := p.syms.Add(symtab.ConstantDef(cd)); err != nil {
			p.errorf(pos, len(name), "%s", err)
		} else {
			b.Constants = append(b.Constants, cd)
		}
		p.expect(token.SEMICOLON)
	}
}

// parseSignedConstant parses an optionally-signed literal or a reference
// to a previously-declared constant (spec.md §4.4 "Signed constants").
func (p *Parser) parseSignedConstant() pltypes.Constant {
	neg := false
	if p.curIs(token.PLUS) || p.curIs(token.MINUS) {
		neg = p.curIs(token.MINUS)
		p.next()
	}
	v := p.parseConstantLiteral()
	if !neg {
		return v
	}
	switch c := v.(type) {
	case *pltypes.IntConstant:
		return &pltypes.IntConstant{Value: -c.Value}
	case *pltypes.RealConstant:
		return &pltypes.RealConstant{Value: -c.Value}
	default:
		p.errorf(p.cur.Pos, len(p.cur.Literal), "unary sign is not defined for %s", pltypes.ConstantType(v))
		return v
	}
}

func (p *Parser) parseConstantLiteral() pltypes.Constant {
	pos := p.cur.Pos
	switch p.cur.Type {
	case token.INT:
		v := parseIntLiteral(p.cur.Literal)
		p.next()
		return &pltypes.IntConstant{Value: v}
	case token.REAL:
		v := parseRealLiteral(p.cur.Literal)
		p.next()
		return &pltypes.RealConstant{Value: v}
	case token.STRING:
		v := p.cur.Literal
		p.next()
		return &pltypes.StringConstant{Value: v}
	case token.IDENT:
		name := p.cur.Literal
		p.next()
		switch lower(name) {
		case "true":
			return &pltypes.BoolConstant{Value: true}
		case "false":
			return &pltypes.BoolConstant{Value: false}
		}
		def, err := p.syms.QueryConstant(name)
		if err != nil {
			p.errorf(pos, len(name), "%s", err)
			return &pltypes.IntConstant{Value: 0}
		}
		return def.Value
	default:
		p.errorf(pos, len(p.cur.Literal), "expected a constant, got %s", p.cur.Type)
		p.next()
		return &pltypes.IntConstant{Value: 0}
	}
}

// parseTypeSection parses `TYPE name = typespec; ...;`.
func (p *Parser) parseTypeSection(b *ast.Block) {
	p.next() // consume TYPE
	for p.curIs(token.IDENT) {
		name := p.cur.Literal
		pos := p.cur.Pos
		p.next()
		p.expect(token.EQUAL)
		t := p.parseTypeSpec(name)
		td := &ast.TypeDefinition{Name: name, Value: t}
		if _, err := p.syms.Add(symtab.TypeDef(td)); err != nil {
			p.errorf(pos, len(name), "%s", err)
		} else {
			b.Types = append(b.Types, td)
		}
		p.expect(token.SEMICOLON)
	}
}

// parseTypeSpec parses any type expression: an identifier reference, an
// enumerated type, a range, or an array. Records/sets/files/pointers are
// rejected with a localized diagnostic but parsing continues
// (spec.md §4.4).
func (p *Parser) parseTypeSpec(enumTypeName string) pltypes.Type {
	switch p.cur.Type {
	case token.PACKED:
		p.warnf(p.cur.Pos, len(p.cur.Literal), "PACKED has no effect and is ignored")
		p.next()
		return p.parseTypeSpec(enumTypeName)

	case token.ARRAY:
		return p.parseArrayType(enumTypeName)

	case token.LPAREN:
		return p.parseEnumType(enumTypeName)

	case token.RECORD:
		p.errorf(p.cur.Pos, len(p.cur.Literal), "records are not supported")
		p.skipToMatchingEnd()
		return pltypes.IntegerType

	case token.SET:
		p.errorf(p.cur.Pos, len(p.cur.Literal), "sets are not supported")
		p.next()
		if p.curIs(token.OF) {
			p.next()
			p.parseTypeSpec("")
		}
		return pltypes.IntegerType

	case token.FILE:
		p.errorf(p.cur.Pos, len(p.cur.Literal), "files are not supported")
		p.next()
		if p.curIs(token.OF) {
			p.next()
			p.parseTypeSpec("")
		}
		return pltypes.IntegerType

	case token.CARET:
		p.errorf(p.cur.Pos, len(p.cur.Literal), "pointer types are not supported")
		p.next()
		if p.curIs(token.IDENT) {
			p.next()
		}
		return pltypes.IntegerType

	case token.NIL:
		p.errorf(p.cur.Pos, len(p.cur.Literal), "nil type is not supported")
		p.next()
		return pltypes.IntegerType

	case token.IDENT:
		name := p.cur.Literal
		pos := p.cur.Pos
		p.next()
		td, err := p.syms.QueryType(name)
		if err != nil {
			p.errorf(pos, len(name), "%s", err)
			return pltypes.IntegerType
		}
		return td.Value

	default:
		// A bare constant starts a range type, e.g. `1..10`.
		return p.parseRangeType()
	}
}

// parseEnumType parses `(id, id, ...)`, declaring each identifier as a
// ConstantDefinition of the freshly-created enumerated type
// (spec.md §4.4 "Enumerated type").
func (p *Parser) parseEnumType(typeName string) pltypes.Type {
	p.next() // consume (
	enum := &pltypes.Enum{TypeName: typeName}
	for {
		if !p.curIs(token.IDENT) {
			p.errorf(p.cur.Pos, len(p.cur.Literal), "expected an identifier in enumerated type, got %s", p.cur.Type)
			break
		}
		name := p.cur.Literal
		pos := p.cur.Pos
		member := enum.AddConstant(name)
		cd := &ast.ConstantDefinition{Name: name, Value: &pltypes.EnumConstantValue{Member: member}}
		if _, err := p.syms.Add(symtab.ConstantDef(cd)); err != nil {
			p.errorf(pos, len(name), "%s", err)
		}
		p.next()
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return enum
}

// parseRangeType parses `lower..upper`, requiring both bounds to share
// their type and be ordinal, and lower <= upper. On any violation a
// diagnostic is emitted and DefaultRange() is substituted so parsing can
// continue (spec.md §4.4 "Range type").
func (p *Parser) parseRangeType() pltypes.Type {
	pos := p.cur.Pos
	lo := p.parseSignedConstant()
	if !p.expect(token.RANGE) {
		return pltypes.DefaultRange()
	}
	hi := p.parseSignedConstant()

	loType := pltypes.ConstantType(lo)
	hiType := pltypes.ConstantType(hi)
	if !pltypes.IsOrdinal(loType) || !pltypes.Equal(loType, hiType) {
		p.errorf(pos, 0, "range bounds must share an ordinal type")
		return pltypes.DefaultRange()
	}
	loOrd, _ := pltypes.OrdinalValue(lo)
	hiOrd, _ := pltypes.OrdinalValue(hi)
	if loOrd > hiOrd {
		p.errorf(pos, 0, "range lower bound must not exceed upper bound")
		return pltypes.DefaultRange()
	}
	return &pltypes.Range{Element: loType, Lower: lo, Upper: hi}
}

// parseArrayType parses `ARRAY [R1,...,Rn] OF T`. If T is itself an array,
// dimensions are coalesced leftmost-outer (spec.md §3, §4.4).
func (p *Parser) parseArrayType(enumTypeName string) pltypes.Type {
	p.next() // consume ARRAY
	p.expect(token.LBRACK)

	var dims []*pltypes.Range
	for {
		rt := p.parseRangeType()
		r, ok := rt.(*pltypes.Range)
		if !ok {
			r = pltypes.DefaultRange()
		}
		dims = append(dims, r)
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RBRACK)
	p.expect(token.OF)

	elem := p.parseTypeSpec(enumTypeName)
	if inner, ok := elem.(*pltypes.Array); ok {
		dims = append(dims, inner.Dims...)
		elem = inner.Element
	}
	return &pltypes.Array{Element: elem, Dims: dims}
}

// skipToMatchingEnd consumes tokens up to and including the matching END
// of a RECORD, for error recovery (spec.md §4.4 "for record the parser
// skips tokens to the matching END").
func (p *Parser) skipToMatchingEnd() {
	p.next() // consume RECORD
	depth := 1
	for depth > 0 && !p.curIs(token.EOF) {
		if p.curIs(token.RECORD) {
			depth++
		} else if p.curIs(token.END) {
			depth--
		}
		p.next()
	}
}

// parseVarSection parses `VAR name, name2: typespec; ...;`.
func (p *Parser) parseVarSection(b *ast.Block, isGlobal bool) {
	p.next() // consume VAR
	for p.curIs(token.IDENT) {
		var names []string
		var positions []token.Position
		for {
			names = append(names, p.cur.Literal)
			positions = append(positions, p.cur.Pos)
			p.next()
			if p.curIs(token.COMMA) {
				p.next()
				continue
			}
			break
		}
		p.expect(token.COLON)
		t := p.parseTypeSpec("")
		p.expect(token.SEMICOLON)

		for i, name := range names {
			vd := &ast.VariableDefinition{Name: name, Type: t, IsInCallable: !isGlobal}
			if _, err := p.syms.Add(symtab.VariableDef(vd)); err != nil {
				p.errorf(positions[i], len(name), "%s", err)
			} else {
				b.Variables = append(b.Variables, vd)
			}
		}
	}
}

// parseCallableDecl parses `PROCEDURE name(params); Block;` or
// `FUNCTION name(params): rettype; Block;`. Pushes a new scope for the
// heading and body, popping it once the callable is fully parsed
// (spec.md §3 "Lifecycle", §4.4 "Scopes"). Nested callables are rejected.
func (p *Parser) parseCallableDecl(b *ast.Block) {
	isFunction := p.curIs(token.FUNCTION)
	pos := p.cur.Pos
	p.next() // consume FUNCTION/PROCEDURE

	if p.syms.Depth() >= 2 {
		p.errorf(pos, 0, "nested procedures and functions are not supported")
	}

	name := ""
	if p.curIs(token.IDENT) {
		name = p.cur.Literal
		p.next()
	} else {
		p.errorf(p.cur.Pos, len(p.cur.Literal), "expected a procedure/function name, got %s", p.cur.Type)
	}

	p.syms.PushScope()

	var params []*ast.VariableDefinition
	if p.curIs(token.LPAREN) {
		p.next()
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			var pnames []string
			var ppos []token.Position
			for {
				pnames = append(pnames, p.cur.Literal)
				ppos = append(ppos, p.cur.Pos)
				p.next()
				if p.curIs(token.COMMA) {
					p.next()
					continue
				}
				break
			}
			p.expect(token.COLON)
			pt := p.parseTypeSpec("")
			for i, pn := range pnames {
				vd := &ast.VariableDefinition{Name: pn, Type: pt, IsInCallable: true}
				if _, err := p.syms.Add(symtab.VariableDef(vd)); err != nil {
					p.errorf(ppos[i], len(pn), "%s", err)
				}
				params = append(params, vd)
			}
			if p.curIs(token.SEMICOLON) {
				p.next()
				continue
			}
			break
		}
		p.expect(token.RPAREN)
	}

	var retVar *ast.VariableDefinition
	if isFunction {
		p.expect(token.COLON)
		rt := p.parseTypeSpec("")
		retVar = &ast.VariableDefinition{Name: name, Type: rt, IsInCallable: true}
		if _, err := p.syms.Add(symtab.VariableDef(retVar)); err != nil {
			p.errorf(pos, len(name), "%s", err)
		}
	}
	p.expect(token.SEMICOLON)

	body := p.parseBlock(false)
	p.expect(token.SEMICOLON)

	p.syms.PopScope()

	cd := &ast.CallableDefinition{Name: name, Parameters: params, ReturnVar: retVar, Body: body}
	if _, err := p.syms.Add(symtab.CallableDef(cd)); err != nil {
		p.errorf(pos, len(name), "%s", err)
	} else {
		b.Callables = append(b.Callables, cd)
	}
}
