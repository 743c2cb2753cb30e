// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package parser

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/brian-dawn/snarl/internal/compiler/mips"
	"github.com/brian-dawn/snarl/internal/compiler/source"
	"github.com/brian-dawn/snarl/internal/compiler/symbol"
	"github.com/brian-dawn/snarl/internal/compiler/types"
)

// parser holds the state of one pass over one compilation unit. The
// same machinery runs both passes; the signature pass simply never
// reaches the emitting productions.
type parser struct {
	src  *source.Source
	scan *Scanner
	tab  *symbol.Table
	mach *mips.Machine

	// Enclosing procedure, while the emitting pass is inside one.
	ret        types.Type
	arity      int
	localBytes int
	offset     int
	frame      int
}

// CollectSignatures is the first pass. It records a descriptor for
// every top-level procedure, so code earlier in the file can call
// procedures declared later, and skips all other tokens.
func CollectSignatures(src *source.Source, tab *symbol.Table, mach *mips.Machine) {
	p := &parser{src: src, scan: NewScanner(src), tab: tab, mach: mach}
	for p.scan.Token() != EOF {
		if p.scan.Token() == PROC {
			p.signature()
		} else {
			p.scan.Next()
		}
	}
}

// EmitProgram is the second pass. It re-parses the whole program,
// checks types against the table built by CollectSignatures, and
// emits code.
func EmitProgram(src *source.Source, tab *symbol.Table, mach *mips.Machine) {
	p := &parser{src: src, scan: NewScanner(src), tab: tab, mach: mach}
	p.programPart()
	for p.scan.Token() == SEMICOLON {
		p.scan.Next()
		p.programPart()
	}
	if p.scan.Token() != EOF {
		p.src.Error("End of program expected.")
	}
}

func (p *parser) emit(op string, args ...mips.Operand) { p.mach.Asm.Emit(op, args...) }

func (p *parser) request() *mips.Register { return p.mach.Regs.Request() }

func (p *parser) release(r *mips.Register) { p.mach.Regs.Release(r) }

func (p *parser) label(tag string) mips.Label { return p.mach.Labels.New(tag) }

// expect consumes one token of kind k or dies.
func (p *parser) expect(k Kind) {
	if p.scan.Token() != k {
		p.expected(k)
	}
	p.scan.Next()
}

// expected raises the stock expectation diagnostic.
func (p *parser) expected(k Kind) {
	p.src.Error(k.String() + " expected.")
}

// check raises the type error unless got is a subtype of want.
func (p *parser) check(got, want types.Type) {
	if !got.IsSubtype(want) {
		p.src.Error("Expression has unexpected type.")
	}
}

// declare binds the current name token to d, then consumes it. The
// binding happens first so a redeclaration diagnostic points at the
// name.
func (p *parser) declare(d symbol.Descriptor) {
	if p.scan.Token() != NAME {
		p.expected(NAME)
	}
	p.tab.Define(p.scan.Text(), d)
	p.scan.Next()
}

// signature parses one "proc name(params) returnType" head in the
// first pass, leaving the scanner on the body.
func (p *parser) signature() {
	p.scan.Next() // proc
	if p.scan.Token() != NAME {
		p.expected(NAME)
	}
	name := p.scan.Text()
	p.scan.Next()
	t := types.NewProcedure()
	p.expect(LPAREN)
	if p.scan.Token() != RPAREN {
		t.AddParameter(p.parameterType())
		for p.scan.Token() == COMMA {
			p.scan.Next()
			t.AddParameter(p.parameterType())
		}
	}
	p.expect(RPAREN)
	t.SetReturn(p.returnType())
	glog.V(1).Infof("signature %s: %s", name, t)
	p.tab.Define(name, &globalProcedure{typ: t, label: p.label("L")})
}

// parameterType parses one parameter declaration in the first pass,
// keeping only its type.
func (p *parser) parameterType() types.Type {
	switch p.scan.Token() {
	case INT:
		p.scan.Next()
		p.expect(NAME)
		return types.Int
	case STRING:
		p.scan.Next()
		p.expect(NAME)
		return types.String
	case LSQUARE:
		t := p.arrayType()
		p.expect(NAME)
		return t
	default:
		p.src.Error("Declaration expected.")
		return nil
	}
}

// arrayType parses "[ length ] int" and returns the array type.
func (p *parser) arrayType() *types.Array {
	p.scan.Next() // [
	if p.scan.Token() != INTCONST {
		p.expected(INTCONST)
	}
	n := p.scan.Int()
	p.scan.Next()
	p.expect(RSQUARE)
	p.expect(INT)
	return types.NewArray(n, types.Int)
}

// returnType parses a procedure's return type, which must be one of
// the scalars.
func (p *parser) returnType() types.Type {
	var t types.Type
	switch p.scan.Token() {
	case INT:
		t = types.Int
	case STRING:
		t = types.String
	default:
		p.src.Error("Expected int, or string.")
	}
	p.scan.Next()
	return t
}

func (p *parser) programPart() {
	switch p.scan.Token() {
	case INT, STRING, LSQUARE:
		p.globalDeclaration()
	case PROC:
		p.procedure()
	default:
		p.src.Error("Declaration or procedure expected.")
	}
}

func (p *parser) globalDeclaration() {
	switch p.scan.Token() {
	case INT:
		p.scan.Next()
		p.declare(&globalVariable{typ: types.Int, label: p.mach.Data.EnterVariable(types.WordSize)})
	case STRING:
		p.scan.Next()
		p.declare(&globalVariable{typ: types.String, label: p.mach.Data.EnterVariable(types.AddressSize)})
	case LSQUARE:
		t := p.arrayType()
		p.declare(&globalArray{typ: t, label: p.mach.Data.EnterVariable(t.Size())})
	default:
		p.src.Error("Declaration expected.")
	}
}

// localDeclaration parses one body declaration, assigning the next
// slot below the parameters.
func (p *parser) localDeclaration() {
	switch p.scan.Token() {
	case INT:
		p.scan.Next()
		p.localBytes += types.WordSize
		p.offset -= types.WordSize
		p.declare(&localVariable{typ: types.Int, offset: p.offset})
	case STRING:
		p.scan.Next()
		p.localBytes += types.AddressSize
		p.offset -= types.AddressSize
		p.declare(&localVariable{typ: types.String, offset: p.offset})
	case LSQUARE:
		t := p.arrayType()
		p.localBytes += t.Size()
		p.offset -= t.Size()
		p.declare(&localArray{typ: t, offset: p.offset})
	default:
		p.src.Error("Declaration expected.")
	}
}

// parameter parses one parameter declaration in the emitting pass.
// Every parameter is one word at a fixed offset from $fp; an array
// parameter's word holds the array's address.
func (p *parser) parameter() {
	offset := -types.WordSize * p.arity
	switch p.scan.Token() {
	case INT:
		p.scan.Next()
		p.declare(&localVariable{typ: types.Int, offset: offset})
	case STRING:
		p.scan.Next()
		p.declare(&localVariable{typ: types.String, offset: offset})
	case LSQUARE:
		t := p.arrayType()
		p.declare(&localVariable{typ: t, offset: offset})
	default:
		p.src.Error("Declaration expected.")
	}
	p.arity++
}

func (p *parser) procedure() {
	p.scan.Next() // proc
	if p.scan.Token() != NAME {
		p.expected(NAME)
	}
	name := p.scan.Text()
	p.scan.Next()
	proc, ok := p.tab.Lookup(name).(*globalProcedure)
	if !ok {
		panic(fmt.Sprintf("first pass missed procedure %s", name))
	}
	glog.V(1).Infof("compiling %s: %s", name, proc.typ)
	p.mach.Asm.EmitLabel(proc.label)
	p.tab.Push()
	p.arity = 0
	p.localBytes = 0
	p.expect(LPAREN)
	if p.scan.Token() != RPAREN {
		p.parameter()
		for p.scan.Token() == COMMA {
			p.scan.Next()
			p.parameter()
		}
	}
	p.expect(RPAREN)
	p.ret = p.returnType()
	p.expect(COLON)
	p.offset = types.WordSize - types.WordSize*p.arity
	switch p.scan.Token() {
	case INT, STRING, LSQUARE:
		p.localDeclaration()
		for p.scan.Token() == SEMICOLON {
			p.scan.Next()
			p.localDeclaration()
		}
	}
	p.frame = 40 + p.localBytes
	p.prologue()
	p.beginStatement()
	p.epilogue()
	p.tab.Pop()
}

// prologue claims the frame, saves the return address, the caller's
// frame pointer, and the whole register pool, and anchors $fp at the
// first argument.
func (p *parser) prologue() {
	p.emit("addi", mips.SP, mips.SP, mips.Imm(-p.frame))
	p.emit("sw", mips.RA, mips.Mem{Off: 40, Base: mips.SP})
	p.emit("sw", mips.FP, mips.Mem{Off: 36, Base: mips.SP})
	for i, r := range p.mach.Regs.Saved() {
		p.emit("sw", r, mips.Mem{Off: 32 - 4*i, Base: mips.SP})
	}
	p.emit("addi", mips.FP, mips.SP, mips.Imm(p.frame+types.WordSize*p.arity))
}

// epilogue undoes the prologue, popping the arguments along with the
// frame, and returns.
func (p *parser) epilogue() {
	p.emit("lw", mips.RA, mips.Mem{Off: 40, Base: mips.SP})
	p.emit("lw", mips.FP, mips.Mem{Off: 36, Base: mips.SP})
	for i, r := range p.mach.Regs.Saved() {
		p.emit("lw", r, mips.Mem{Off: 32 - 4*i, Base: mips.SP})
	}
	p.emit("addi", mips.SP, mips.SP, mips.Imm(p.frame+types.WordSize*p.arity))
	p.emit("jr", mips.RA)
}

func (p *parser) beginStatement() {
	p.expect(BEGIN)
	if p.scan.Token() != END {
		p.statement()
		for p.scan.Token() == SEMICOLON {
			p.scan.Next()
			p.statement()
		}
	}
	p.expect(END)
}

func (p *parser) statement() {
	switch p.scan.Token() {
	case NAME:
		p.nameStatement()
	case BEGIN:
		p.beginStatement()
	case CODE:
		p.scan.Next()
		if p.scan.Token() != STRCONST {
			p.expected(STRCONST)
		}
		p.mach.Asm.EmitRaw(p.scan.Text())
		p.scan.Next()
	case IF:
		p.ifStatement()
	case VALUE:
		p.valueStatement()
	case WHILE:
		p.whileStatement()
	default:
		p.src.Error("Statement expected.")
	}
}

// nameStatement dispatches the three statements that begin with a
// name: a call, an element assignment, or a scalar assignment.
func (p *parser) nameStatement() {
	name := p.scan.Text()
	p.scan.Next()
	switch p.scan.Token() {
	case LPAREN:
		v := p.call(name)
		p.release(v.reg)
	case LSQUARE:
		d := p.tab.Lookup(name)
		at, ok := d.Type().(*types.Array)
		if !ok {
			p.src.Error(name + " is not an array.")
		}
		base := d.Rvalue(p.mach)
		p.scan.Next() // [
		idx := p.expression()
		p.check(idx.typ, types.Int)
		p.emit("sll", idx.reg, idx.reg, mips.Imm(2))
		p.emit("add", base, base, idx.reg)
		p.release(idx.reg)
		p.expect(RSQUARE)
		p.expect(ASSIGN)
		v := p.expression()
		p.check(v.typ, at.Element())
		p.emit("sw", v.reg, mips.Mem{Off: 0, Base: base})
		p.release(v.reg)
		p.release(base)
	case ASSIGN:
		d := p.tab.Lookup(name)
		if !d.Type().IsSubtype(types.Int) && !d.Type().IsSubtype(types.String) {
			p.src.Error("Only variables of type int or string may be assigned to.")
		}
		p.scan.Next()
		v := p.expression()
		p.check(v.typ, d.Type())
		addr := d.Lvalue(p.mach)
		p.emit("sw", v.reg, mips.Mem{Off: 0, Base: addr})
		p.release(v.reg)
		p.release(addr)
	default:
		p.expected(ASSIGN)
	}
}

// call compiles a procedure call, for both statement and expression
// positions. The callee's descriptor travels through this frame, so a
// nested call in an argument cannot disturb the outer call.
func (p *parser) call(name string) *value {
	proc, ok := p.tab.Lookup(name).(*globalProcedure)
	if !ok {
		p.src.Error(name + " is not a procedure.")
	}
	t := proc.typ
	p.scan.Next() // (
	n := 0
	if p.scan.Token() != RPAREN {
	args:
		for {
			if n >= t.Arity() {
				p.src.Error("Invalid number of arguments.")
			}
			arg := p.expression()
			p.check(arg.typ, t.Parameter(n))
			p.emit("sw", arg.reg, mips.Mem{Off: 0, Base: mips.SP})
			p.emit("addi", mips.SP, mips.SP, mips.Imm(-types.WordSize))
			p.release(arg.reg)
			n++
			switch p.scan.Token() {
			case COMMA:
				p.scan.Next()
			case RPAREN:
				break args
			default:
				p.src.Error(", or ) expected.")
			}
		}
	}
	p.expect(RPAREN)
	if n != t.Arity() {
		p.src.Error("Invalid number of arguments.")
	}
	p.emit("jal", proc.label)
	r := p.request()
	p.emit("move", r, mips.V0)
	return &value{typ: t.Return(), reg: r}
}

// ifStatement compiles an if/else-if chain. One label ends the whole
// chain; each arm gets its own label to fall past.
func (p *parser) ifStatement() {
	done := p.label("L")
	for {
		p.scan.Next() // if
		cond := p.expression()
		p.check(cond.typ, types.Int)
		next := p.label("L")
		p.emit("beq", cond.reg, mips.Zero, next)
		p.release(cond.reg)
		p.expect(THEN)
		p.statement()
		p.emit("j", done)
		p.mach.Asm.EmitLabel(next)
		if p.scan.Token() != ELSE {
			break
		}
		p.scan.Next()
		if p.scan.Token() != IF {
			p.statement()
			break
		}
	}
	p.mach.Asm.EmitLabel(done)
}

func (p *parser) whileStatement() {
	p.scan.Next() // while
	top := p.label("L")
	p.mach.Asm.EmitLabel(top)
	cond := p.expression()
	p.check(cond.typ, types.Int)
	done := p.label("L")
	p.emit("beq", cond.reg, mips.Zero, done)
	p.release(cond.reg)
	p.expect(DO)
	p.statement()
	p.emit("j", top)
	p.mach.Asm.EmitLabel(done)
}

// valueStatement returns from the enclosing procedure: the result
// moves to $v0 and the epilogue runs in place.
func (p *parser) valueStatement() {
	p.scan.Next() // value
	v := p.expression()
	p.check(v.typ, p.ret)
	p.emit("move", mips.V0, v.reg)
	p.epilogue()
	p.release(v.reg)
}

// expression compiles an or-chain. Both operands are normalized to 0
// or 1 with sne, and a true left operand short-circuits to the join
// label.
func (p *parser) expression() *value {
	v := p.conjunction()
	if p.scan.Token() != OR {
		return v
	}
	p.check(v.typ, types.Int)
	join := p.label("L")
	p.emit("sne", v.reg, v.reg, mips.Zero)
	p.emit("bne", v.reg, mips.Zero, join)
	for p.scan.Token() == OR {
		p.scan.Next()
		r := p.conjunction()
		p.check(r.typ, types.Int)
		p.emit("sne", v.reg, r.reg, mips.Zero)
		p.release(r.reg)
		p.emit("bne", v.reg, mips.Zero, join)
	}
	p.mach.Asm.EmitLabel(join)
	v.typ = types.Int
	return v
}

func (p *parser) conjunction() *value {
	v := p.comparison()
	if p.scan.Token() != AND {
		return v
	}
	p.check(v.typ, types.Int)
	join := p.label("L")
	p.emit("sne", v.reg, v.reg, mips.Zero)
	p.emit("beq", v.reg, mips.Zero, join)
	for p.scan.Token() == AND {
		p.scan.Next()
		r := p.comparison()
		p.check(r.typ, types.Int)
		p.emit("sne", v.reg, r.reg, mips.Zero)
		p.release(r.reg)
		p.emit("beq", v.reg, mips.Zero, join)
	}
	p.mach.Asm.EmitLabel(join)
	v.typ = types.Int
	return v
}

// comparison allows at most one comparison operator, so 1 < 2 < 3 is
// a syntax error at the second <.
func (p *parser) comparison() *value {
	v := p.sum()
	instr, ok := comparisonInstr[p.scan.Token()]
	if !ok {
		return v
	}
	p.check(v.typ, types.Int)
	p.scan.Next()
	r := p.sum()
	p.check(r.typ, types.Int)
	p.emit(instr, v.reg, v.reg, r.reg)
	p.release(r.reg)
	v.typ = types.Int
	return v
}

func (p *parser) sum() *value {
	v := p.product()
	for p.scan.Token() == PLUS || p.scan.Token() == MINUS {
		p.check(v.typ, types.Int)
		instr := "add"
		if p.scan.Token() == MINUS {
			instr = "sub"
		}
		p.scan.Next()
		r := p.product()
		p.check(r.typ, types.Int)
		p.emit(instr, v.reg, v.reg, r.reg)
		p.release(r.reg)
		v.typ = types.Int
	}
	return v
}

func (p *parser) product() *value {
	v := p.term()
	for p.scan.Token() == MUL || p.scan.Token() == DIV {
		p.check(v.typ, types.Int)
		instr := "mul"
		if p.scan.Token() == DIV {
			instr = "div"
		}
		p.scan.Next()
		r := p.term()
		p.check(r.typ, types.Int)
		p.emit(instr, v.reg, v.reg, r.reg)
		p.release(r.reg)
		v.typ = types.Int
	}
	return v
}

// term handles the right-associative prefix operators.
func (p *parser) term() *value {
	switch p.scan.Token() {
	case MINUS:
		p.scan.Next()
		v := p.term()
		p.check(v.typ, types.Int)
		p.emit("sub", v.reg, mips.Zero, v.reg)
		return v
	case NOT:
		p.scan.Next()
		v := p.term()
		p.check(v.typ, types.Int)
		p.emit("seq", v.reg, mips.Zero, v.reg)
		return v
	default:
		return p.unit()
	}
}

func (p *parser) unit() *value {
	switch p.scan.Token() {
	case INTCONST:
		r := p.request()
		p.emit("li", r, mips.Imm(p.scan.Int()))
		p.scan.Next()
		return &value{typ: types.Int, reg: r}
	case STRCONST:
		r := p.request()
		p.emit("la", r, p.mach.Data.EnterString(p.scan.Text()))
		p.scan.Next()
		return &value{typ: types.String, reg: r}
	case LPAREN:
		p.scan.Next()
		v := p.expression()
		p.expect(RPAREN)
		return v
	case NAME:
		name := p.scan.Text()
		p.scan.Next()
		switch p.scan.Token() {
		case LPAREN:
			return p.call(name)
		case LSQUARE:
			return p.subscript(name)
		default:
			d := p.tab.Lookup(name)
			return &value{typ: d.Type(), reg: d.Rvalue(p.mach)}
		}
	default:
		p.src.Error("Unit expected.")
		return nil
	}
}

// subscript compiles a[e] in expression position: base address plus
// scaled index, then the element load.
func (p *parser) subscript(name string) *value {
	d := p.tab.Lookup(name)
	at, ok := d.Type().(*types.Array)
	if !ok {
		p.src.Error(name + " is not an array.")
	}
	base := d.Rvalue(p.mach)
	p.scan.Next() // [
	idx := p.expression()
	p.check(idx.typ, types.Int)
	p.emit("sll", idx.reg, idx.reg, mips.Imm(2))
	p.emit("add", base, base, idx.reg)
	p.emit("lw", base, mips.Mem{Off: 0, Base: base})
	p.release(idx.reg)
	p.expect(RSQUARE)
	return &value{typ: at.Element(), reg: base}
}
