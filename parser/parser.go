package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/lexer"
	"github.com/viant/rvlint/token"
)

// Parser drives a FileReader and the lexer to produce one flat, linear
// Node sequence across a root file and everything it `.include`s —
// included files are spliced in at the point of inclusion, exactly as if
// their text had been pasted there (spec.md §4.2, §6).
type Parser struct {
	ctx    context.Context
	reader FileReader

	nodes      []Node
	errs       []*ParseError
	macroDepth int // >0 while inside a .macro...endmacro block being skipped
}

// NewParser creates a Parser reading through reader.
func NewParser(ctx context.Context, reader FileReader) *Parser {
	return &Parser{ctx: ctx, reader: reader}
}

// ParseFile parses path (and anything it includes) into a Node sequence.
// Parse errors are collected rather than aborting — each malformed line
// is skipped and parsing resumes at the next newline, matching spec.md's
// per-statement recovery rule. The returned error is non-nil only for a
// root-file read failure (nothing could be parsed at all).
func (p *Parser) ParseFile(path string) ([]Node, []*ParseError, error) {
	if !p.parseFile(path, "") {
		return nil, p.errs, p.errs[len(p.errs)-1]
	}
	return p.nodes, p.errs, nil
}

// parseFile reports whether path could be read.
func (p *Parser) parseFile(path string, parent string) bool {
	id, text, err := p.reader.Import(p.ctx, path, parent)
	if err != nil {
		var re *ReadError
		if errors.As(err, &re) {
			switch re.Kind {
			case FileAlreadyRead:
				p.errs = append(p.errs, &ParseError{Kind: CyclicDependency, Message: fmt.Sprintf("include cycle: %s", re.Path)})
			case InternalFileNotFound:
				p.errs = append(p.errs, &ParseError{Kind: ParseFileNotFound, Message: fmt.Sprintf("file not found: %s", re.Path)})
			case InvalidPath:
				p.errs = append(p.errs, &ParseError{Kind: ParseFileNotFound, Message: fmt.Sprintf("invalid include path: %s", re.Path)})
			default:
				p.errs = append(p.errs, &ParseError{Kind: ParseIOError, Message: err.Error()})
			}
		} else {
			p.errs = append(p.errs, &ParseError{Kind: ParseIOError, Message: err.Error()})
		}
		return false
	}

	lx := lexer.New(id, text)
	toks := lx.Tokenize()
	for _, le := range lx.Errors() {
		p.errs = append(p.errs, &ParseError{Kind: InvalidStringLiteral, Message: le.Error(), Range: le.Range, File: id})
	}

	for _, line := range splitLines(toks) {
		p.parseLine(id, path, line)
	}
	return true
}

// splitLines groups a flat token stream into per-line slices, dropping
// comments and newline/EOF markers themselves.
func splitLines(toks []lexer.Token) [][]lexer.Token {
	var lines [][]lexer.Token
	var cur []lexer.Token
	for _, t := range toks {
		switch t.Kind {
		case lexer.KindComment:
			continue
		case lexer.KindNewline, lexer.KindEOF:
			if len(cur) > 0 {
				lines = append(lines, cur)
				cur = nil
			}
		default:
			cur = append(cur, t)
		}
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

func rawToken(t lexer.Token, file token.FileID) token.RawToken {
	return token.RawToken{Text: t.Text, Range: t.Range, File: file}
}

func (p *Parser) errf(kind ParseErrorKind, file token.FileID, rng token.Range, format string, args ...interface{}) {
	p.errs = append(p.errs, &ParseError{Kind: kind, Message: fmt.Sprintf(format, args...), Range: rng, File: file})
}

func (p *Parser) parseLine(file token.FileID, path string, line []lexer.Token) {
	if p.macroDepth > 0 {
		if line[0].Kind == lexer.KindDirective {
			switch kind, _ := isa.ParseDirective(line[0].Text); kind {
			case isa.DirMacro:
				p.macroDepth++
			case isa.DirEndMacro:
				p.macroDepth--
			}
		}
		return
	}

	i := 0
	if line[i].Kind == lexer.KindLabel {
		p.nodes = append(p.nodes, Node{ID: newNodeID(), Tok: rawToken(line[i], file), Kind: KindLabel, Label: line[i].Text})
		i++
		if i >= len(line) {
			return
		}
	}

	if line[i].Kind == lexer.KindDirective {
		p.parseDirective(file, path, line[i:])
		return
	}

	if line[i].Kind != lexer.KindSymbol {
		p.errf(UnexpectedToken, file, line[i].Range, "expected instruction or directive, got %q", line[i].Text)
		return
	}
	p.parseInstruction(file, line[i:])
}

func (p *Parser) parseDirective(file token.FileID, path string, line []lexer.Token) {
	tok := line[0]
	name := tok.Text
	args := line[1:]

	if name == ".include" {
		if len(args) != 1 || args[0].Kind != lexer.KindString {
			p.errf(ExpectedToken, file, tok.Range, "%s expects one string argument", name)
			return
		}
		inc := unquote(args[0].Text)
		p.parseFile(inc, path)
		return
	}

	kind, ok := isa.ParseDirective(name)
	if !ok {
		p.errf(UnknownDirective, file, tok.Range, "unknown directive %s", name)
		kind = isa.DirUnknown
	}

	switch kind {
	case isa.DirMacro:
		// spec.md §4.2: ".macro"..."endmacro" is silently skipped, including
		// the opening/closing directives themselves.
		p.macroDepth++
		return
	case isa.DirEndMacro:
		// A stray .endmacro outside any .macro block has nothing to close;
		// silently ignored along with its matching open, same as above.
		return
	case isa.DirUnsupported:
		p.errs = append(p.errs, unsupported(name, tok.Range, file))
		return
	}

	argTexts := make([]string, len(args))
	for i, a := range args {
		argTexts[i] = a.Text
	}
	p.nodes = append(p.nodes, Node{
		ID: newNodeID(), Tok: rawToken(tok, file), Kind: KindDirective,
		Directive: kind, DirectiveArgs: argTexts,
	})
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// --- instruction parsing -----------------------------------------------

func (p *Parser) parseInstruction(file token.FileID, line []lexer.Token) {
	mnemTok := line[0]
	m := isa.Canonicalize(mnemTok.Text)
	ops := line[1:]
	tok := rawToken(mnemTok, file)

	emit := func(n Node) { p.nodes = append(p.nodes, n) }
	fail := func(format string, args ...interface{}) {
		p.errf(ExpectedToken, file, mnemTok.Range, format, args...)
	}

	reg := func(i int) (isa.Register, bool) {
		if i >= len(ops) {
			return 0, false
		}
		return isa.ParseRegister(ops[i].Text)
	}
	imm := func(i int) (isa.Immediate, bool) {
		if i >= len(ops) {
			return 0, false
		}
		v, err := isa.ParseImmediate(ops[i].Text)
		return v, err == nil
	}
	label := func(i int) (string, bool) {
		if i >= len(ops) {
			return "", false
		}
		if ops[i].Kind != lexer.KindSymbol {
			return "", false
		}
		if _, isReg := isa.ParseRegister(ops[i].Text); isReg {
			return "", false
		}
		return ops[i].Text, true
	}
	// memOperand parses "imm(reg)" starting at ops[i]; returns the imm,
	// base register, and how many tokens it consumed.
	memOperand := func(i int) (isa.Immediate, isa.Register, int, bool) {
		if i >= len(ops) {
			return 0, 0, 0, false
		}
		off := isa.Immediate(0)
		n := 0
		if ops[i].Kind == lexer.KindNumber {
			v, err := isa.ParseImmediate(ops[i].Text)
			if err != nil {
				return 0, 0, 0, false
			}
			off = v
			n++
		}
		if i+n >= len(ops) || ops[i+n].Kind != lexer.KindLParen {
			return 0, 0, 0, false
		}
		n++
		r, ok := reg(i + n)
		if !ok {
			return 0, 0, 0, false
		}
		n++
		if i+n >= len(ops) || ops[i+n].Kind != lexer.KindRParen {
			return 0, 0, 0, false
		}
		n++
		return off, r, n, true
	}

	switch m {
	// R-type arithmetic: rd, rs1, rs2
	case isa.ADD, isa.SUB, isa.SLL, isa.SLT, isa.SLTU, isa.XOR, isa.SRL, isa.SRA, isa.OR, isa.AND,
		isa.MUL, isa.MULH, isa.MULHSU, isa.MULHU, isa.DIV, isa.DIVU, isa.REM, isa.REMU:
		rd, _ := reg(0)
		rs1, _ := reg(1)
		rs2, ok := reg(2)
		if !ok {
			fail("%s expects rd, rs1, rs2", m)
			return
		}
		emit(Node{ID: newNodeID(), Tok: tok, Kind: KindArith, Mnemonic: m, Rd: rd, Rs1: rs1, Rs2: rs2, HasRs2: true})

	// I-type arithmetic: rd, rs1, imm
	case isa.ADDI, isa.SLTI, isa.SLTIU, isa.XORI, isa.ORI, isa.ANDI, isa.SLLI, isa.SRLI, isa.SRAI:
		rd, _ := reg(0)
		rs1, _ := reg(1)
		v, ok := imm(2)
		if !ok {
			fail("%s expects rd, rs1, imm", m)
			return
		}
		emit(Node{ID: newNodeID(), Tok: tok, Kind: KindArith, Mnemonic: m, Rd: rd, Rs1: rs1, Imm: v})

	case isa.AUIPC:
		rd, _ := reg(0)
		v, ok := imm(1)
		if !ok {
			fail("%s expects rd, imm", m)
			return
		}
		emit(Node{ID: newNodeID(), Tok: tok, Kind: KindUpperImm, Mnemonic: m, Rd: rd, Imm: v})

	// lui has no dedicated upper-immediate node in this model: it lowers
	// directly to addi rd, x0, imm<<12 (spec's literal rule), since the
	// analyzer never needs the split encoding a real assembler would.
	case isa.LUI:
		rd, _ := reg(0)
		v, ok := imm(1)
		if !ok {
			fail("lui expects rd, imm")
			return
		}
		emit(Node{ID: newNodeID(), Tok: tok, Kind: KindArith, Mnemonic: isa.ADDI, Rd: rd, Rs1: isa.Zero, Imm: v << 12})

	case isa.LB, isa.LH, isa.LW, isa.LD, isa.LBU, isa.LHU, isa.LWU:
		rd, _ := reg(0)
		if off, rs1, _, ok := memOperand(1); ok {
			emit(Node{ID: newNodeID(), Tok: tok, Kind: KindLoad, Mnemonic: m, Rd: rd, Rs1: rs1, Imm: off})
			return
		}
		if lbl, ok := label(1); ok {
			// Synthetic expansion of "lw rd, label" into la rd,label; lw rd,0(rd).
			emit(Node{ID: newNodeID(), Tok: tok, Kind: KindLoadAddr, Rd: rd, TargetLabel: lbl, Synthetic: true})
			emit(Node{ID: newNodeID(), Tok: tok, Kind: KindLoad, Mnemonic: m, Rd: rd, Rs1: rd, Imm: 0, Synthetic: true})
			return
		}
		fail("%s expects rd, imm(rs1) or rd, label", m)

	case isa.SB, isa.SH, isa.SW, isa.SD:
		rs2, _ := reg(0)
		if off, rs1, _, ok := memOperand(1); ok {
			emit(Node{ID: newNodeID(), Tok: tok, Kind: KindStore, Mnemonic: m, Rs1: rs1, Rs2: rs2, Imm: off})
			return
		}
		if lbl, ok := label(1); ok {
			rt, ok := reg(2)
			if !ok {
				fail("%s rs, label form expects a scratch register: %s rs, label, rt", m, m)
				return
			}
			emit(Node{ID: newNodeID(), Tok: tok, Kind: KindLoadAddr, Rd: rt, TargetLabel: lbl, Synthetic: true})
			emit(Node{ID: newNodeID(), Tok: tok, Kind: KindStore, Mnemonic: m, Rs1: rt, Rs2: rs2, Imm: 0, Synthetic: true})
			return
		}
		fail("%s expects rs2, imm(rs1) or rs2, label, rt", m)

	case isa.BEQ, isa.BNE, isa.BLT, isa.BGE, isa.BLTU, isa.BGEU:
		rs1, _ := reg(0)
		rs2, _ := reg(1)
		lbl, ok := label(2)
		if !ok {
			fail("%s expects rs1, rs2, label", m)
			return
		}
		emit(Node{ID: newNodeID(), Tok: tok, Kind: KindBranch, Mnemonic: m, Rs1: rs1, Rs2: rs2, TargetLabel: lbl})

	case isa.JAL:
		if rd, ok := reg(0); ok {
			lbl, ok := label(1)
			if !ok {
				fail("jal expects rd, label")
				return
			}
			emit(Node{ID: newNodeID(), Tok: tok, Kind: KindJump, Mnemonic: m, Rd: rd, TargetLabel: lbl})
			return
		}
		lbl, ok := label(0)
		if !ok {
			fail("jal expects [rd,] label")
			return
		}
		emit(Node{ID: newNodeID(), Tok: tok, Kind: KindJump, Mnemonic: m, Rd: isa.RA, TargetLabel: lbl})

	case isa.JALR:
		rd, _ := reg(0)
		rs1, _ := reg(1)
		v, ok := imm(2)
		if !ok {
			fail("jalr expects rd, rs1, imm")
			return
		}
		emit(Node{ID: newNodeID(), Tok: tok, Kind: KindJumpReg, Mnemonic: m, Rd: rd, Rs1: rs1, Imm: v})

	case isa.CSRRW, isa.CSRRS, isa.CSRRC:
		rd, _ := reg(0)
		csr, ok := isa.ParseCSR(opText(ops, 1))
		if !ok {
			fail("%s: unknown csr %q", m, opText(ops, 1))
			return
		}
		rs1, ok := reg(2)
		if !ok {
			fail("%s expects rd, csr, rs1", m)
			return
		}
		emit(Node{ID: newNodeID(), Tok: tok, Kind: KindCsr, Mnemonic: m, Rd: rd, Csr: csr, CsrSrcReg: rs1})

	case isa.CSRRWI, isa.CSRRSI, isa.CSRRCI:
		rd, _ := reg(0)
		csr, ok := isa.ParseCSR(opText(ops, 1))
		if !ok {
			fail("%s: unknown csr %q", m, opText(ops, 1))
			return
		}
		v, ok := imm(2)
		if !ok {
			fail("%s expects rd, csr, imm", m)
			return
		}
		emit(Node{ID: newNodeID(), Tok: tok, Kind: KindCsr, Mnemonic: m, Rd: rd, Csr: csr, CsrIsImm: true, CsrSrcImm: v})

	case isa.ECALL, isa.EBREAK, isa.URET:
		emit(Node{ID: newNodeID(), Tok: tok, Kind: KindBasic, Mnemonic: m})

	default:
		if isa.IsPseudo(m) {
			p.lowerPseudo(file, tok, m, ops, emit, fail)
			return
		}
		fail("unrecognized mnemonic %q", mnemTok.Text)
	}
}

func opText(ops []lexer.Token, i int) string {
	if i >= len(ops) {
		return ""
	}
	return ops[i].Text
}

// lowerPseudo expands one pseudo-instruction into one or more real Nodes
// (spec.md §4.2's lowering table). Every manufactured Node is marked
// Synthetic.
func (p *Parser) lowerPseudo(file token.FileID, tok token.RawToken, m isa.Mnemonic, ops []lexer.Token, emit func(Node), fail func(string, ...interface{})) {
	reg := func(i int) (isa.Register, bool) {
		if i >= len(ops) {
			return 0, false
		}
		return isa.ParseRegister(ops[i].Text)
	}
	imm := func(i int) (isa.Immediate, bool) {
		if i >= len(ops) {
			return 0, false
		}
		v, err := isa.ParseImmediate(ops[i].Text)
		return v, err == nil
	}
	label := func(i int) (string, bool) {
		if i >= len(ops) || ops[i].Kind != lexer.KindSymbol {
			return "", false
		}
		return ops[i].Text, true
	}
	arith := func(mnem isa.Mnemonic, rd, rs1, rs2 isa.Register, hasRs2 bool, v isa.Immediate) Node {
		return Node{ID: newNodeID(), Tok: tok, Kind: KindArith, Mnemonic: mnem, Rd: rd, Rs1: rs1, Rs2: rs2, HasRs2: hasRs2, Imm: v, Synthetic: true}
	}
	branch := func(mnem isa.Mnemonic, rs1, rs2 isa.Register, lbl string) Node {
		return Node{ID: newNodeID(), Tok: tok, Kind: KindBranch, Mnemonic: mnem, Rs1: rs1, Rs2: rs2, TargetLabel: lbl, Synthetic: true}
	}
	jump := func(rd isa.Register, lbl string) Node {
		return Node{ID: newNodeID(), Tok: tok, Kind: KindJump, Mnemonic: isa.JAL, Rd: rd, TargetLabel: lbl, Synthetic: true}
	}
	jumpReg := func(rd, rs1 isa.Register, v isa.Immediate) Node {
		return Node{ID: newNodeID(), Tok: tok, Kind: KindJumpReg, Mnemonic: isa.JALR, Rd: rd, Rs1: rs1, Imm: v, Synthetic: true}
	}
	csr := func(mnem isa.Mnemonic, rd isa.Register, c isa.CsrImmediate, isImm bool, srcReg isa.Register, srcImm isa.Immediate) Node {
		return Node{ID: newNodeID(), Tok: tok, Kind: KindCsr, Mnemonic: mnem, Rd: rd, Csr: c, CsrIsImm: isImm, CsrSrcReg: srcReg, CsrSrcImm: srcImm, Synthetic: true}
	}

	switch m {
	case isa.PNop:
		emit(arith(isa.ADDI, isa.Zero, isa.Zero, 0, false, 0))
	case isa.PMv:
		rd, _ := reg(0)
		rs, ok := reg(1)
		if !ok {
			fail("mv expects rd, rs")
			return
		}
		emit(arith(isa.ADD, rd, rs, isa.Zero, true, 0))
	case isa.PNot:
		rd, _ := reg(0)
		rs, ok := reg(1)
		if !ok {
			fail("not expects rd, rs")
			return
		}
		emit(arith(isa.XORI, rd, rs, 0, false, -1))
	case isa.PNeg:
		rd, _ := reg(0)
		rs, ok := reg(1)
		if !ok {
			fail("neg expects rd, rs")
			return
		}
		emit(arith(isa.SUB, rd, isa.Zero, rs, true, 0))
	case isa.PSeqz:
		rd, _ := reg(0)
		rs, ok := reg(1)
		if !ok {
			fail("seqz expects rd, rs")
			return
		}
		emit(arith(isa.SLTIU, rd, rs, 0, false, 1))
	case isa.PSnez:
		rd, _ := reg(0)
		rs, ok := reg(1)
		if !ok {
			fail("snez expects rd, rs")
			return
		}
		emit(arith(isa.SLTU, rd, isa.Zero, rs, true, 0))
	case isa.PSltz:
		rd, _ := reg(0)
		rs, ok := reg(1)
		if !ok {
			fail("sltz expects rd, rs")
			return
		}
		emit(arith(isa.SLT, rd, rs, isa.Zero, true, 0))
	case isa.PSgtz:
		rd, _ := reg(0)
		rs, ok := reg(1)
		if !ok {
			fail("sgtz expects rd, rs")
			return
		}
		emit(arith(isa.SLT, rd, isa.Zero, rs, true, 0))
	case isa.PSgez:
		rd, _ := reg(0)
		rs, ok := reg(1)
		if !ok {
			fail("sgez expects rd, rs")
			return
		}
		emit(arith(isa.SLT, rd, rs, isa.Zero, true, 0))
		emit(arith(isa.XORI, rd, rd, 0, false, 1))
	case isa.PJ, isa.PB:
		lbl, ok := label(0)
		if !ok {
			fail("%s expects a label", m)
			return
		}
		emit(jump(isa.Zero, lbl))
	case isa.PCall:
		lbl, ok := label(0)
		if !ok {
			fail("call expects a label")
			return
		}
		emit(jump(isa.RA, lbl))
	case isa.PJr:
		rs, ok := reg(0)
		if !ok {
			fail("jr expects rs")
			return
		}
		emit(jumpReg(isa.Zero, rs, 0))
	case isa.PRet:
		emit(jumpReg(isa.Zero, isa.RA, 0))
	case isa.PBeqz, isa.PBnez, isa.PBltz, isa.PBgez, isa.PBgtz, isa.PBlez:
		rs, ok := reg(0)
		lbl, lok := label(1)
		if !ok || !lok {
			fail("%s expects rs, label", m)
			return
		}
		switch m {
		case isa.PBeqz:
			emit(branch(isa.BEQ, rs, isa.Zero, lbl))
		case isa.PBnez:
			emit(branch(isa.BNE, rs, isa.Zero, lbl))
		case isa.PBltz:
			emit(branch(isa.BLT, rs, isa.Zero, lbl))
		case isa.PBgez:
			emit(branch(isa.BGE, rs, isa.Zero, lbl))
		case isa.PBgtz:
			emit(branch(isa.BLT, isa.Zero, rs, lbl))
		case isa.PBlez:
			emit(branch(isa.BGE, isa.Zero, rs, lbl))
		}
	case isa.PBgt, isa.PBle, isa.PBgtu, isa.PBleu:
		rs1, _ := reg(0)
		rs2, ok := reg(1)
		lbl, lok := label(2)
		if !ok || !lok {
			fail("%s expects rs1, rs2, label", m)
			return
		}
		switch m {
		case isa.PBgt:
			emit(branch(isa.BLT, rs2, rs1, lbl))
		case isa.PBle:
			emit(branch(isa.BGE, rs2, rs1, lbl))
		case isa.PBgtu:
			emit(branch(isa.BLTU, rs2, rs1, lbl))
		case isa.PBleu:
			emit(branch(isa.BGEU, rs2, rs1, lbl))
		}
	case isa.PLi:
		rd, _ := reg(0)
		v, ok := imm(1)
		if !ok {
			fail("li expects rd, imm")
			return
		}
		emit(arith(isa.ADDI, rd, isa.Zero, 0, false, v))
	case isa.PLa:
		rd, _ := reg(0)
		lbl, ok := label(1)
		if !ok {
			fail("la expects rd, label")
			return
		}
		emit(Node{ID: newNodeID(), Tok: tok, Kind: KindLoadAddr, Rd: rd, TargetLabel: lbl, Synthetic: true})
	case isa.PCsrr:
		rd, _ := reg(0)
		c, ok := isa.ParseCSR(opText(ops, 1))
		if !ok {
			fail("csrr: unknown csr %q", opText(ops, 1))
			return
		}
		emit(csr(isa.CSRRS, rd, c, false, isa.Zero, 0))
	case isa.PCsrw, isa.PCsrs, isa.PCsrc:
		c, ok := isa.ParseCSR(opText(ops, 0))
		if !ok {
			fail("%s: unknown csr %q", m, opText(ops, 0))
			return
		}
		rs1, ok := reg(1)
		if !ok {
			fail("%s expects csr, rs1", m)
			return
		}
		var mnem isa.Mnemonic
		switch m {
		case isa.PCsrw:
			mnem = isa.CSRRW
		case isa.PCsrs:
			mnem = isa.CSRRS
		case isa.PCsrc:
			mnem = isa.CSRRC
		}
		emit(csr(mnem, isa.Zero, c, false, rs1, 0))
	case isa.PCsrwi, isa.PCsrsi, isa.PCsrci:
		c, ok := isa.ParseCSR(opText(ops, 0))
		if !ok {
			fail("%s: unknown csr %q", m, opText(ops, 0))
			return
		}
		v, ok := imm(1)
		if !ok {
			fail("%s expects csr, imm", m)
			return
		}
		var mnem isa.Mnemonic
		switch m {
		case isa.PCsrwi:
			mnem = isa.CSRRWI
		case isa.PCsrsi:
			mnem = isa.CSRRSI
		case isa.PCsrci:
			mnem = isa.CSRRCI
		}
		emit(csr(mnem, isa.Zero, c, true, isa.Zero, v))
	default:
		fail("unhandled pseudo-instruction %q", string(m))
	}
}
