// Package codegen walks a checked AST and emits an internal/ewvm.Chunk:
// the instruction sequence of spec.md §4.6. Scope offsets are assigned
// here, block by block, exactly once per compilation (spec.md §3
// invariant: "ScopeOffset is assigned during code generation").
package codegen

import (
	"fmt"
	"strings"

	"github.com/voidbert/plpc/internal/ast"
	"github.com/voidbert/plpc/internal/ewvm"
	"github.com/voidbert/plpc/internal/pltypes"
)

// Generator accumulates a Chunk across the global block and every
// top-level callable. One Generator generates exactly one program.
type Generator struct {
	chunk *ewvm.Chunk
	call  *ast.CallableDefinition // nil while generating the global block
	sys   *sysLabels
}

// Generate produces the full EWVM listing for prog: the global block
// framed by START/STOP, followed by each top-level callable's FN.../RETURN
// block. Callable bodies are reached only via CALL, never fallen into —
// STOP halts the global block first (spec.md §4.6 "Layout decisions").
func Generate(prog *ast.Program) *ewvm.Chunk {
	g := &Generator{chunk: &ewvm.Chunk{}}
	g.genBlock(prog.Block, nil)
	for _, c := range prog.Block.Callables {
		g.genBlock(c.Body, c)
	}
	return g.chunk
}

// genBlock emits one block: its entry marker, variable initialization,
// body, array finalization, and exit instruction (spec.md §4.6 "Callable
// body", "Global block", "Array finalization").
func (g *Generator) genBlock(b *ast.Block, call *ast.CallableDefinition) {
	g.call = call
	g.sys = &sysLabels{call: call}

	if call == nil {
		g.chunk.Emit("START")
	} else {
		g.chunk.Label(fnLabel(call.Name))

		pre := make([]*ast.VariableDefinition, 0, len(call.Parameters)+1)
		if call.ReturnVar != nil {
			pre = append(pre, call.ReturnVar)
		}
		pre = append(pre, call.Parameters...)
		for i, v := range pre {
			v.ScopeOffset = i - len(pre)
			v.IsInCallable = true
			v.ScopeOffsetSet = true
		}
	}

	for i, v := range b.Variables {
		v.ScopeOffset = i
		v.IsInCallable = call != nil
		v.ScopeOffsetSet = true

		g.chunk.Comment(v.Name + " initialization")
		g.genVarCreation(v.Type, v.ScopeOffset)
	}

	g.genStmt(b.Body)

	for i := len(b.Variables) - 1; i >= 0; i-- {
		v := b.Variables[i]
		if _, ok := v.Type.(*pltypes.Array); ok {
			g.chunk.Comment(v.Name + " finalization")
			// POPST doesn't actually free heap memory, but that's fine:
			// nothing in this language performs dynamic allocation beyond
			// this fixed, block-scoped array creation.
			g.chunk.Emit("POPST")
		}
	}

	if call == nil {
		g.chunk.Emit("STOP")
	} else {
		g.chunk.Emit("RETURN")
	}
}

// genVarCreation emits the initializer for a variable of type t sitting at
// scope offset offset (spec.md §4.6 "Variable initialization").
func (g *Generator) genVarCreation(t pltypes.Type, offset int) {
	if arr, ok := t.(*pltypes.Array); ok {
		size := int64(1)
		for _, d := range arr.Dims {
			size *= dimSize(d)
		}
		g.chunk.Emit("ALLOC", ewvm.IntArg(size))

		label := g.sys.new()
		g.chunk.Emit("PUSHI", ewvm.IntArg(0))
		g.chunk.Label(label)
		// PUSHL is correct here even when offset names a global slot: this
		// runs before any CALL has happened, so the frame pointer still
		// coincides with the global base and addresses the same cells.
		g.chunk.Emit("PUSHL", ewvm.IntArg(int64(offset)))
		g.chunk.Emit("PUSHL", ewvm.IntArg(int64(offset+1)))
		g.genVarCreation(arr.Element, offset)
		g.chunk.Emit("STOREN")
		g.chunk.Emit("PUSHI", ewvm.IntArg(1))
		g.chunk.Emit("ADD")
		g.chunk.Emit("DUP", ewvm.IntArg(1))
		g.chunk.Emit("PUSHI", ewvm.IntArg(size))
		g.chunk.Emit("SUPEQ")
		g.chunk.Emit("JZ", ewvm.LabelArg(label))
		g.chunk.Emit("POP", ewvm.IntArg(1))
		return
	}

	switch v := t.(type) {
	case *pltypes.Basic:
		switch v.Kind {
		case pltypes.Boolean, pltypes.Integer, pltypes.Char:
			g.emitConstant(&pltypes.IntConstant{Value: 0})
		case pltypes.Real:
			g.emitConstant(&pltypes.RealConstant{Value: 0})
		case pltypes.String:
			g.emitConstant(&pltypes.StringConstant{Value: ""})
		}
	case *pltypes.Enum:
		g.emitConstant(&pltypes.EnumConstantValue{Member: v.Constants[0]})
	}
}

func dimSize(r *pltypes.Range) int64 {
	lo, _ := pltypes.OrdinalValue(r.Lower)
	hi, _ := pltypes.OrdinalValue(r.Upper)
	return hi - lo + 1
}

// emitConstant implements generate_constant_assembly: the raw-value
// encoding shared by literal expressions and default initializers.
func (g *Generator) emitConstant(v pltypes.Constant) {
	switch c := v.(type) {
	case *pltypes.BoolConstant:
		iv := int64(0)
		if c.Value {
			iv = 1
		}
		g.chunk.Emit("PUSHI", ewvm.IntArg(iv))
	case *pltypes.IntConstant:
		g.chunk.Emit("PUSHI", ewvm.IntArg(c.Value))
	case *pltypes.RealConstant:
		g.chunk.Emit("PUSHF", ewvm.RealArg(c.Value))
	case *pltypes.StringConstant:
		if c.IsChar() {
			g.chunk.Emit("PUSHI", ewvm.IntArg(int64([]rune(c.Value)[0])))
		} else {
			g.chunk.Emit("PUSHS", ewvm.StrArg(c.Value))
		}
	case *pltypes.EnumConstantValue:
		g.chunk.Emit("PUSHI", ewvm.IntArg(int64(c.Member.Value)))
	}
}

// genVarUsage implements variable-usage read/write emission (spec.md
// §4.6 "Variable usage emission").
func (g *Generator) genVarUsage(usage *ast.VarUsage, write bool) {
	vd := usage.Def

	var op string
	switch {
	case write && len(usage.Indices) == 0 && vd.IsInCallable:
		op = "STOREL"
	case write && len(usage.Indices) == 0:
		op = "STOREG"
	case vd.IsInCallable:
		op = "PUSHL"
	default:
		op = "PUSHG"
	}
	g.chunk.Emit(op, ewvm.IntArg(int64(vd.ScopeOffset)))

	current := vd.Type
	consumed := 0
	var leftover ast.Expression
	for _, idx := range usage.Indices {
		arr, ok := current.(*pltypes.Array)
		if !ok {
			leftover = idx
			break
		}

		g.genExpr(idx)
		lo, _ := pltypes.OrdinalValue(arr.Dims[0].Lower)
		g.chunk.Emit("PUSHI", ewvm.IntArg(lo))
		g.chunk.Emit("SUB")

		elemSize := int64(1)
		for _, d := range arr.Dims[1:] {
			elemSize *= dimSize(d)
		}
		if elemSize != 1 {
			g.chunk.Emit("PUSHI", ewvm.IntArg(elemSize))
			g.chunk.Emit("MUL")
		}
		g.chunk.Emit("PADD")

		if len(arr.Dims) == 1 {
			current = arr.Element
		} else {
			current = &pltypes.Array{Element: arr.Element, Dims: arr.Dims[1:]}
		}
		consumed++
	}

	if consumed != 0 {
		if write {
			g.chunk.Emit("SWAP")
			g.chunk.Emit("STORE", ewvm.IntArg(0))
		} else {
			g.chunk.Emit("LOAD", ewvm.IntArg(0))
		}
	}

	if b, ok := current.(*pltypes.Basic); ok && b.Kind == pltypes.String && consumed != len(usage.Indices) {
		g.genExpr(leftover)
		g.chunk.Emit("PUSHI", ewvm.IntArg(1))
		g.chunk.Emit("SUB")
		g.chunk.Emit("CHARAT")
	}
}

// genExpr implements expression emission (spec.md §4.6 "Expression
// emission").
func (g *Generator) genExpr(e ast.Expression) {
	switch v := e.(type) {
	case *ast.ConstExpr:
		if sc, ok := v.Value.(*pltypes.StringConstant); ok && sc.IsChar() {
			if tb, ok2 := v.Typ.(*pltypes.Basic); ok2 && tb.Kind == pltypes.String {
				// CHAR literal auto-promoted to STRING at a call site
				// (spec.md §4.4): encode it as a one-character string, not
				// a bare character code.
				g.chunk.Emit("PUSHS", ewvm.StrArg(sc.Value))
				return
			}
		}
		g.emitConstant(v.Value)
	case *ast.VarUsage:
		g.genVarUsage(v, false)
	case *ast.CallExpr:
		g.genCall(v)
	case *ast.UnaryExpr:
		g.genUnary(v)
	case *ast.BinaryExpr:
		g.genBinary(v)
	}
}

func (g *Generator) genUnary(v *ast.UnaryExpr) {
	switch v.Op {
	case "-":
		if isReal(v.X.Type()) {
			g.chunk.Emit("PUSHF", ewvm.RealArg(0))
		} else {
			g.chunk.Emit("PUSHI", ewvm.IntArg(0))
		}
		g.genExpr(v.X)
		g.chunk.Emit(pick(isReal(v.X.Type()), "FSUB", "SUB"))
	case "not":
		g.genExpr(v.X)
		g.chunk.Emit("NOT")
	case "+":
		// Unary plus is the identity: just evaluate the operand.
		g.genExpr(v.X)
	}
}

func (g *Generator) genBinary(v *ast.BinaryExpr) {
	g.genExpr(v.L)
	g.genExpr(v.R)
	anyReal := isReal(v.L.Type()) || isReal(v.R.Type())
	resultReal := isReal(v.Typ)

	switch v.Op {
	case "+":
		g.chunk.Emit(pick(resultReal, "FADD", "ADD"))
	case "-":
		g.chunk.Emit(pick(resultReal, "FSUB", "SUB"))
	case "*":
		g.chunk.Emit(pick(resultReal, "FMUL", "MUL"))
	case "/":
		g.chunk.Emit("FDIV")
	case "div":
		g.chunk.Emit("DIV")
	case "mod":
		g.chunk.Emit("MOD")
	case "and":
		g.chunk.Emit("AND")
	case "or":
		g.chunk.Emit("OR")
	case "=":
		g.chunk.Emit("EQUAL")
	case "<>":
		g.chunk.Emit("EQUAL")
		g.chunk.Emit("NOT")
	case "<":
		g.chunk.Emit(pick(anyReal, "FINF", "INF"))
	case ">":
		g.chunk.Emit(pick(anyReal, "FSUP", "SUP"))
	case "<=":
		g.chunk.Emit(pick(anyReal, "FINFEQ", "INFEQ"))
	case ">=":
		g.chunk.Emit(pick(anyReal, "FSUPEQ", "SUPEQ"))
	}
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func isReal(t pltypes.Type) bool {
	b, ok := t.(*pltypes.Basic)
	return ok && b.Kind == pltypes.Real
}

func isChar(t pltypes.Type) bool {
	b, ok := t.(*pltypes.Basic)
	return ok && b.Kind == pltypes.Char
}

func isIntLikeOrEnum(t pltypes.Type) bool {
	if _, ok := t.(*pltypes.Enum); ok {
		return true
	}
	b, ok := t.(*pltypes.Basic)
	return ok && (b.Kind == pltypes.Integer || b.Kind == pltypes.Boolean)
}

// genCall dispatches to the built-in or user-callable call emitter
// (spec.md §4.6 "Built-in callables", "User callable call").
func (g *Generator) genCall(ce *ast.CallExpr) {
	if ce.Def.IsBuiltin() {
		g.genBuiltin(ce)
	} else {
		g.genUserCall(ce)
	}
}

func (g *Generator) genBuiltin(ce *ast.CallExpr) {
	name := strings.ToLower(ce.Def.Name)
	switch name {
	case "write", "writeln":
		for _, arg := range ce.Args {
			g.genWriteArg(arg)
		}
		if name == "writeln" {
			g.chunk.Emit("WRITELN")
		}

	case "read", "readln":
		for _, arg := range ce.Args {
			g.chunk.Emit("READ")
			t := arg.Type()
			switch {
			case isIntLikeOrEnum(t):
				g.chunk.Emit("ATOI")
			case isReal(t):
				g.chunk.Emit("ATOF")
			case isChar(t):
				end := g.sys.new()
				g.chunk.Emit("DUP", ewvm.IntArg(2))
				g.chunk.Emit("STRLEN")
				g.chunk.Emit("PUSHI", ewvm.IntArg(1))
				g.chunk.Emit("EQUAL")
				g.chunk.Emit("NOT")
				g.chunk.Emit("JZ", ewvm.LabelArg(end))
				g.chunk.Emit("ERR", ewvm.StrArg("More than one character written"))
				g.chunk.Label(end)
				g.chunk.Emit("PUSHI", ewvm.IntArg(0))
				g.chunk.Emit("CHARAT")
			}
			if usage, ok := arg.(*ast.VarUsage); ok {
				g.genVarUsage(usage, true)
			}
		}
		if name == "readln" {
			g.chunk.Emit("WRITELN")
		}

	case "length":
		g.genExpr(ce.Args[0])
		g.chunk.Emit("STRLEN")
	}
}

// genWriteArg emits one write/writeln argument by its annotated type
// (spec.md §4.6 "Built-in callables" — write/writeln).
func (g *Generator) genWriteArg(arg ast.Expression) {
	switch v := arg.Type().(type) {
	case *pltypes.Basic:
		switch v.Kind {
		case pltypes.Boolean:
			g.genIndexedStringDispatch(arg, []string{"True", "False"})
		case pltypes.Integer:
			g.genExpr(arg)
			g.chunk.Emit("WRITEI")
		case pltypes.Real:
			g.genExpr(arg)
			g.chunk.Emit("WRITEF")
		case pltypes.Char:
			g.genExpr(arg)
			g.chunk.Emit("WRITECHR")
		case pltypes.String:
			g.genExpr(arg)
			g.chunk.Emit("WRITES")
		}
	case *pltypes.Enum:
		// genIndexedStringDispatch pushes names[0] first, so it ends up at
		// the lowest stack address, the one PUSHSP - ordinal reaches for
		// the highest ordinal; that slot must hold the name for the
		// highest ordinal (mirrors the True/False push order above, where
		// True=1 is pushed before False=0).
		names := make([]string, len(v.Constants))
		for i, c := range v.Constants {
			names[len(v.Constants)-1-i] = c.Name
		}
		g.genIndexedStringDispatch(arg, names)
	}
}

// genIndexedStringDispatch pre-pushes names[0] then names[1] ... in that
// order, then selects among them by indexing from the stack pointer with
// arg's ordinal value — the BOOLEAN True/False and enumerated
// name-printing trick of spec.md §4.6.
func (g *Generator) genIndexedStringDispatch(arg ast.Expression, names []string) {
	for _, n := range names {
		g.emitConstant(&pltypes.StringConstant{Value: n})
	}
	g.chunk.Emit("PUSHSP")
	g.chunk.Emit("PUSHI", ewvm.IntArg(0))
	g.genExpr(arg)
	g.chunk.Emit("SUB")
	g.chunk.Emit("LOADN")
	g.chunk.Emit("WRITES")
}

// genUserCall emits a call to a user-declared procedure or function
// (spec.md §4.6 "User callable call").
func (g *Generator) genUserCall(ce *ast.CallExpr) {
	def := ce.Def
	if def.ReturnVar != nil {
		g.genVarCreation(def.ReturnVar.Type, 0)
	}
	for _, a := range ce.Args {
		g.genExpr(a)
	}
	g.chunk.Emit("PUSHA", ewvm.LabelArg(fnLabel(def.Name)))
	g.chunk.Emit("CALL")

	totalPops := len(def.Body.Variables) + len(ce.Args)
	if totalPops > 0 {
		g.chunk.Emit("POP", ewvm.IntArg(int64(totalPops)))
	}
}

// genStmt implements statement emission (spec.md §4.6 "Control flow").
func (g *Generator) genStmt(s ast.Statement) {
	if s == nil {
		return
	}
	if lbl := statementLabel(s); lbl != nil {
		g.chunk.Label(g.userLabel(lbl.Name))
	}

	switch v := s.(type) {
	case *ast.AssignStmt:
		g.chunk.Comment(fmt.Sprintf("%s := ...", v.Target.Def.Name))
		g.genExpr(v.Value)
		g.genVarUsage(v.Target, true)

	case *ast.GotoStmt:
		g.chunk.Comment(fmt.Sprintf("GOTO %d", v.Target.Name))
		g.chunk.Emit("JUMP", ewvm.LabelArg(g.userLabel(v.Target.Name)))

	case *ast.CallStmt:
		g.chunk.Comment(v.Call.Def.Name + "()")
		g.genCall(v.Call)

	case *ast.CompoundStmt:
		for _, st := range v.Stmts {
			g.genStmt(st)
		}

	case *ast.IfStmt:
		elseLabel := g.sys.new()
		endLabel := g.sys.new()

		g.chunk.Comment("IF")
		g.genExpr(v.Cond)
		g.chunk.Emit("JZ", ewvm.LabelArg(elseLabel))
		g.genStmt(v.Then)
		g.chunk.Emit("JUMP", ewvm.LabelArg(endLabel))
		g.chunk.Label(elseLabel)
		g.genStmt(v.Else)
		g.chunk.Label(endLabel)

	case *ast.RepeatStmt:
		start := g.sys.new()
		g.chunk.Comment("REPEAT")
		g.chunk.Label(start)
		for _, st := range v.Body {
			g.genStmt(st)
		}
		g.genExpr(v.Cond)
		g.chunk.Emit("JZ", ewvm.LabelArg(start))

	case *ast.WhileStmt:
		start := g.sys.new()
		end := g.sys.new()
		g.chunk.Comment("WHILE")
		g.chunk.Label(start)
		g.genExpr(v.Cond)
		g.chunk.Emit("JZ", ewvm.LabelArg(end))
		g.genStmt(v.Body)
		g.chunk.Emit("JUMP", ewvm.LabelArg(start))
		g.chunk.Label(end)

	case *ast.ForStmt:
		g.genFor(v)

	case *ast.CaseStmt:
		g.genCase(v)
	}
}

// genFor implements the FOR algorithm of spec.md §4.6 exactly as stated
// there: evaluate final then initial, loop duplicating/testing/storing the
// control variable, step by +-1, loop, then pop the two leftover bounds.
func (g *Generator) genFor(v *ast.ForStmt) {
	start := g.sys.new()
	end := g.sys.new()

	g.chunk.Comment("FOR")
	g.genExpr(v.Final)
	g.genExpr(v.Initial)

	g.chunk.Label(start)
	g.chunk.Emit("DUP", ewvm.IntArg(1))
	g.genVarUsage(&ast.VarUsage{Def: v.Control, Typ: v.Control.Type}, true)

	g.chunk.Emit("COPY", ewvm.IntArg(2))
	g.chunk.Emit(pick(v.Down, "INFEQ", "SUPEQ"))
	g.chunk.Emit("JZ", ewvm.LabelArg(end))

	g.genStmt(v.Body)

	g.chunk.Emit("PUSHI", ewvm.IntArg(1))
	g.chunk.Emit(pick(v.Down, "SUB", "ADD"))
	g.chunk.Emit("JUMP", ewvm.LabelArg(start))

	g.chunk.Label(end)
	g.chunk.Emit("POP", ewvm.IntArg(2))
}

// genCase implements the CASE algorithm of spec.md §4.6: fold each arm's
// label disjunction against a stack-pointer-duplicated selector, dispatch
// on the result, and fall through to a runtime ERR if nothing matched.
func (g *Generator) genCase(v *ast.CaseStmt) {
	g.chunk.Comment("CASE")
	g.genExpr(v.Selector)

	end := g.sys.new()

	for _, arm := range v.Arms {
		g.chunk.Emit("PUSHI", ewvm.IntArg(0))
		elemEnd := g.sys.new()

		for _, lv := range arm.Values {
			g.chunk.Emit("PUSHSP")
			g.chunk.Emit("LOAD", ewvm.IntArg(-1))
			if ce, ok := lv.(*ast.ConstExpr); ok {
				g.emitConstant(ce.Value)
			} else {
				g.genExpr(lv)
			}
			g.chunk.Emit("EQUAL")
			g.chunk.Emit("OR")
		}

		g.chunk.Emit("JZ", ewvm.LabelArg(elemEnd))
		g.chunk.Emit("POP", ewvm.IntArg(1))
		g.genStmt(arm.Body)
		g.chunk.Emit("JUMP", ewvm.LabelArg(end))
		g.chunk.Label(elemEnd)
	}

	g.chunk.Emit("POP", ewvm.IntArg(1))
	g.chunk.Emit("ERR", ewvm.StrArg("Case expression did not match"))
	g.chunk.Label(end)
}

// statementLabel returns whichever concrete statement type s is' shared
// label field, or nil if unset. Mirrors parser.setLabel's type switch.
func statementLabel(s ast.Statement) *ast.LabelDefinition {
	switch v := s.(type) {
	case *ast.AssignStmt:
		return v.Label
	case *ast.GotoStmt:
		return v.Label
	case *ast.CallStmt:
		return v.Label
	case *ast.CompoundStmt:
		return v.Label
	case *ast.IfStmt:
		return v.Label
	case *ast.CaseStmt:
		return v.Label
	case *ast.RepeatStmt:
		return v.Label
	case *ast.WhileStmt:
		return v.Label
	case *ast.ForStmt:
		return v.Label
	}
	return nil
}

// sysLabels is a per-block monotonic counter for compiler-generated
// labels (spec.md §4.6 "monotonic counter per callable").
type sysLabels struct {
	call  *ast.CallableDefinition
	count int
}

func (s *sysLabels) new() string {
	s.count++
	if s.call == nil {
		return fmt.Sprintf("SYS%d", s.count)
	}
	return fmt.Sprintf("SYS%d%s", s.count, strings.ToLower(s.call.Name))
}

func fnLabel(name string) string { return "FN" + name }

func (g *Generator) userLabel(n int) string {
	if g.call == nil {
		return fmt.Sprintf("USER%d", n)
	}
	return fmt.Sprintf("USER%d%s", n, strings.ToLower(g.call.Name))
}
