package debugyaml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
	"github.com/viant/rvlint/regset"
	"github.com/viant/rvlint/token"
)

// Decode rebuilds a *cfg.CFG and *dataflow.Facts from snap. Node
// identity is rebuilt fresh (spec.md §8's round-trip property is
// "structurally equal up to UUIDs being fresh"); edges and function
// membership are rebuilt from the arena indices recorded by Encode.
func Decode(snap *Snapshot) (*cfg.CFG, *dataflow.Facts, error) {
	c := &cfg.CFG{
		Nodes:      make([]*cfg.Node, len(snap.Nodes)),
		LabelIndex: map[string]int{},
	}
	for i, e := range snap.Nodes {
		pn, err := decodeParserNode(e)
		if err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", i, err)
		}
		n := &cfg.Node{
			PNode:       pn,
			Labels:      e.Labels,
			DataSection: e.DataSection,
			Nexts:       append([]int(nil), e.Nexts...),
			Prevs:       append([]int(nil), e.Prevs...),
			Functions:   append([]int(nil), e.Functions...),
		}
		c.Nodes[i] = n
		for _, l := range e.Labels {
			c.LabelIndex[l] = i
		}
	}

	if len(snap.Functions) > 0 {
		c.Functions = make([]*cfg.Function, len(snap.Functions))
		c.FunctionByLabel = map[string]int{}
		for i, fe := range snap.Functions {
			c.Functions[i] = &cfg.Function{
				Labels:             fe.Labels,
				Entry:              fe.Entry,
				Exit:               fe.Exit,
				Nodes:              fe.Nodes,
				Defs:               decodeRegSet(fe.Defs),
				IsInterruptHandler: fe.IsInterruptHandler,
			}
			for _, l := range fe.Labels {
				c.FunctionByLabel[l] = i
			}
		}
	}

	hasFacts := false
	for _, e := range snap.Nodes {
		if e.RegValuesIn != nil || e.LiveIn != nil || e.UDef != nil {
			hasFacts = true
			break
		}
	}
	if !hasFacts {
		return c, nil, nil
	}

	f := dataflow.NewFacts(c)
	for i, e := range snap.Nodes {
		rin, err := decodeRegMap(e.RegValuesIn)
		if err != nil {
			return nil, nil, err
		}
		rout, err := decodeRegMap(e.RegValuesOut)
		if err != nil {
			return nil, nil, err
		}
		sin, err := decodeStackMap(e.StackValuesIn)
		if err != nil {
			return nil, nil, err
		}
		sout, err := decodeStackMap(e.StackValuesOut)
		if err != nil {
			return nil, nil, err
		}
		f.RegValuesIn[i] = rin
		f.RegValuesOut[i] = rout
		f.StackValuesIn[i] = sin
		f.StackValuesOut[i] = sout
		f.LiveIn[i] = decodeRegSet(e.LiveIn)
		f.LiveOut[i] = decodeRegSet(e.LiveOut)
		f.UDef[i] = decodeRegSet(e.UDef)
	}
	return c, f, nil
}

func decodeParserNode(e NodeEntry) (parser.Node, error) {
	kind, ok := kindFromName(e.Kind)
	if !ok {
		return parser.Node{}, fmt.Errorf("unknown node kind %q", e.Kind)
	}
	n := parser.Node{
		ID:                 parser.NodeID(uuid.New()),
		Kind:               kind,
		Tok: token.RawToken{
			Text:  e.Text,
			Range: token.Range{Start: token.Position{Line: e.Line, Column: e.Column}, End: token.Position{Line: e.Line, Column: e.Column}},
			File:  decodeFileID(e.File),
		},
		Label:              e.Label,
		IsInterruptHandler: e.IsInterruptHandler,
		Mnemonic:           isa.Mnemonic(e.Mnemonic),
		HasRs2:             e.HasRs2,
		TargetLabel:        e.TargetLabel,
		CsrIsImm:           e.CsrIsImm,
		CsrSrcImm:          isa.Immediate(e.CsrSrcImm),
		Synthetic:          e.Synthetic,
	}
	var err error
	if n.Rd, err = optionalRegister(e.Rd); err != nil {
		return n, err
	}
	if n.Rs1, err = optionalRegister(e.Rs1); err != nil {
		return n, err
	}
	if n.Rs2, err = optionalRegister(e.Rs2); err != nil {
		return n, err
	}
	if n.CsrSrcReg, err = optionalRegister(e.CsrSrcReg); err != nil {
		return n, err
	}
	n.Imm = isa.Immediate(e.Imm)
	n.Csr = isa.CsrImmediate(e.Csr)
	if e.Directive != "" {
		d, ok := isa.ParseDirective(e.Directive)
		if !ok {
			return n, fmt.Errorf("unknown directive %q", e.Directive)
		}
		n.Directive = d
		n.DirectiveArgs = e.DirectiveArgs
	}
	return n, nil
}

// decodeFileID recovers the FileID Encode printed via FileID.String(). A
// node whose original file text is unparseable (or absent, e.g. a
// hand-written test Snapshot) gets a fresh one instead of failing the
// whole decode — FileID only needs to group nodes by source file.
func decodeFileID(s string) token.FileID {
	if id, err := uuid.Parse(s); err == nil {
		return token.FileID(id)
	}
	return token.NewFileID()
}

func optionalRegister(abi string) (isa.Register, error) {
	if abi == "" {
		return isa.Zero, nil
	}
	r, ok := isa.ParseRegister(abi)
	if !ok {
		return isa.Zero, fmt.Errorf("unknown register %q", abi)
	}
	return r, nil
}

func decodeRegSet(abis []string) regset.Set {
	var s regset.Set
	for _, a := range abis {
		if r, ok := isa.ParseRegister(a); ok {
			s = s.With(r)
		}
	}
	return s
}

func decodeRegMap(m map[string]string) (dataflow.RegMap, error) {
	out := dataflow.RegMap{}
	for k, v := range m {
		r, ok := isa.ParseRegister(k)
		if !ok {
			return nil, fmt.Errorf("unknown register key %q", k)
		}
		val, err := decodeValue(v)
		if err != nil {
			return nil, err
		}
		out[r] = val
	}
	return out, nil
}

func decodeStackMap(m map[string]string) (dataflow.StackMap, error) {
	out := dataflow.StackMap{}
	for k, v := range m {
		off, ok := DecodeStackOffset(k)
		if !ok {
			return nil, fmt.Errorf("unparseable stack offset key %q", k)
		}
		val, err := decodeValue(v)
		if err != nil {
			return nil, err
		}
		out[off] = val
	}
	return out, nil
}

// decodeValue parses encodeValue's output shapes: kind(arg1,arg2).
func decodeValue(s string) (dataflow.AvailableValue, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return dataflow.AvailableValue{}, fmt.Errorf("unparseable available value %q", s)
	}
	kind := s[:open]
	args := strings.Split(s[open+1:len(s)-1], ",")

	switch kind {
	case "const":
		n, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return dataflow.AvailableValue{}, err
		}
		return dataflow.VConst(int32(n)), nil
	case "addr":
		return dataflow.VAddr(args[0]), nil
	case "orig", "reg", "mem", "memorig":
		r, ok := isa.ParseRegister(args[0])
		if !ok {
			return dataflow.AvailableValue{}, fmt.Errorf("unknown register %q in %q", args[0], s)
		}
		n, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			return dataflow.AvailableValue{}, err
		}
		switch kind {
		case "orig":
			return dataflow.VOriginal(r, int32(n)), nil
		case "reg":
			return dataflow.VReg(r, int32(n)), nil
		case "mem":
			return dataflow.VMemAtReg(r, int32(n)), nil
		default:
			return dataflow.VMemAtOriginalOffset(r, int32(n)), nil
		}
	default:
		return dataflow.AvailableValue{}, fmt.Errorf("unknown available value kind %q", kind)
	}
}
