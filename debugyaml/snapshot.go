// Package debugyaml encodes an annotated cfg.CFG and its dataflow.Facts
// as an ordered YAML document, for the CLI's --yaml flag and for test
// suites that snapshot analysis results (spec.md §6 Persisted state
// layout). Field naming and round-trip-via-Marshal/Unmarshal style
// follow the teacher's yaml.v3 usage in analyzer/analyzer_test.go.
package debugyaml

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/parser"
	"github.com/viant/rvlint/regset"
)

// Snapshot is the top-level document: a sequence of node entries in
// arena (source) order. spec.md describes this as "an ordered mapping
// of node UUIDs to ..."; it is represented as an ordered sequence of
// (id, fields) entries rather than a YAML mapping because yaml.v3 does
// not preserve Go map[string]X key order on Marshal, and because
// program-entry/function-entry nodes do not currently mint a NodeID
// (cfg/builder.go never assigns one to those synthetic nodes), so a
// UUID cannot be relied on as a unique join key. Edges below therefore
// reference sibling entries by arena index, not UUID.
type Snapshot struct {
	Nodes     []NodeEntry    `yaml:"nodes"`
	Functions []FunctionEntry `yaml:"functions,omitempty"`
}

// FunctionEntry mirrors one cfg.Function, referencing nodes by arena
// index exactly as NodeEntry.Nexts/Prevs do.
type FunctionEntry struct {
	Labels             []string `yaml:"labels"`
	Entry              int      `yaml:"entry"`
	Exit               int      `yaml:"exit"`
	Nodes              []int    `yaml:"nodes"`
	Defs               []string `yaml:"defs,omitempty"`
	IsInterruptHandler bool     `yaml:"isInterruptHandler,omitempty"`
}

// NodeEntry is one cfg.Node plus its parser.Node and fact-cell contents.
type NodeEntry struct {
	Index int    `yaml:"index"`
	ID    string `yaml:"id"`
	File  string `yaml:"file"`

	Kind     string `yaml:"kind"`
	Mnemonic string `yaml:"mnemonic,omitempty"`
	Text     string `yaml:"text"`
	Line     int    `yaml:"line"`
	Column   int    `yaml:"column"`

	Label              string   `yaml:"label,omitempty"`
	IsInterruptHandler bool     `yaml:"isInterruptHandler,omitempty"`
	Rd                 string   `yaml:"rd,omitempty"`
	Rs1                string   `yaml:"rs1,omitempty"`
	Rs2                string   `yaml:"rs2,omitempty"`
	HasRs2             bool     `yaml:"hasRs2,omitempty"`
	Imm                int32    `yaml:"imm,omitempty"`
	TargetLabel        string   `yaml:"targetLabel,omitempty"`
	Csr                uint32   `yaml:"csr,omitempty"`
	CsrIsImm           bool     `yaml:"csrIsImm,omitempty"`
	CsrSrcReg          string   `yaml:"csrSrcReg,omitempty"`
	CsrSrcImm          int32    `yaml:"csrSrcImm,omitempty"`
	Directive          string   `yaml:"directive,omitempty"`
	DirectiveArgs      []string `yaml:"directiveArgs,omitempty"`
	Synthetic          bool     `yaml:"synthetic,omitempty"`

	Labels      []string `yaml:"labels,omitempty"`
	DataSection bool     `yaml:"dataSection,omitempty"`
	Nexts       []int    `yaml:"nexts,omitempty"`
	Prevs       []int    `yaml:"prevs,omitempty"`
	Functions   []int    `yaml:"functions,omitempty"`

	RegValuesIn    map[string]string `yaml:"regValuesIn,omitempty"`
	RegValuesOut   map[string]string `yaml:"regValuesOut,omitempty"`
	StackValuesIn  map[string]string `yaml:"stackValuesIn,omitempty"`
	StackValuesOut map[string]string `yaml:"stackValuesOut,omitempty"`
	LiveIn         []string          `yaml:"liveIn,omitempty"`
	LiveOut        []string          `yaml:"liveOut,omitempty"`
	UDef           []string          `yaml:"uDef,omitempty"`
}

// Encode builds a Snapshot from c and its facts. f may be nil, in which
// case the fact-cell fields are left empty (useful for dumping a CFG
// before dataflow has run).
func Encode(c *cfg.CFG, f *dataflow.Facts) *Snapshot {
	snap := &Snapshot{Nodes: make([]NodeEntry, len(c.Nodes))}
	for i, n := range c.Nodes {
		e := NodeEntry{
			Index:       i,
			ID:          n.PNode.ID.String(),
			File:        n.PNode.Tok.File.String(),
			Kind:        kindName(n.PNode.Kind),
			Mnemonic:    string(n.PNode.Mnemonic),
			Text:        n.PNode.Tok.Text,
			Line:        n.PNode.Tok.Range.Start.Line,
			Column:      n.PNode.Tok.Range.Start.Column,
			Label:       n.PNode.Label,
			IsInterruptHandler: n.PNode.IsInterruptHandler,
			HasRs2:      n.PNode.HasRs2,
			TargetLabel: n.PNode.TargetLabel,
			CsrIsImm:    n.PNode.CsrIsImm,
			CsrSrcImm:   int32(n.PNode.CsrSrcImm),
			Synthetic:   n.PNode.Synthetic,
			Labels:      n.Labels,
			DataSection: n.DataSection,
			Nexts:       n.Nexts,
			Prevs:       n.Prevs,
			Functions:   n.Functions,
		}
		if n.PNode.Rd != 0 || hasRd(n.PNode.Kind) {
			e.Rd = n.PNode.Rd.ABI()
		}
		if len(n.PNode.Reads()) > 0 {
			e.Rs1 = n.PNode.Rs1.ABI()
			if n.PNode.HasRs2 || n.PNode.Kind == parser.KindStore || n.PNode.Kind == parser.KindBranch {
				e.Rs2 = n.PNode.Rs2.ABI()
			}
		}
		if n.PNode.Kind == parser.KindLoad || n.PNode.Kind == parser.KindStore ||
			n.PNode.Kind == parser.KindArith {
			e.Imm = int32(n.PNode.Imm)
		}
		if n.PNode.Kind == parser.KindCsr {
			e.Csr = uint32(n.PNode.Csr)
			e.CsrSrcReg = n.PNode.CsrSrcReg.ABI()
		}
		if n.PNode.Kind == parser.KindDirective {
			e.Directive = n.PNode.Directive.String()
			e.DirectiveArgs = n.PNode.DirectiveArgs
		}

		if f != nil {
			e.RegValuesIn = encodeRegMap(f.RegValuesIn[i])
			e.RegValuesOut = encodeRegMap(f.RegValuesOut[i])
			e.StackValuesIn = encodeStackMap(f.StackValuesIn[i])
			e.StackValuesOut = encodeStackMap(f.StackValuesOut[i])
			e.LiveIn = encodeRegSet(f.LiveIn[i])
			e.LiveOut = encodeRegSet(f.LiveOut[i])
			e.UDef = encodeRegSet(f.UDef[i])
		}
		snap.Nodes[i] = e
	}
	if len(c.Functions) > 0 {
		snap.Functions = make([]FunctionEntry, len(c.Functions))
		for i, fn := range c.Functions {
			snap.Functions[i] = FunctionEntry{
				Labels:             fn.Labels,
				Entry:              fn.Entry,
				Exit:               fn.Exit,
				Nodes:              fn.Nodes,
				Defs:               encodeRegSet(fn.Defs),
				IsInterruptHandler: fn.IsInterruptHandler,
			}
		}
	}
	return snap
}

func hasRd(k parser.Kind) bool {
	switch k {
	case parser.KindArith, parser.KindUpperImm, parser.KindLoad, parser.KindLoadAddr,
		parser.KindJump, parser.KindJumpReg, parser.KindCsr:
		return true
	}
	return false
}

func encodeRegSet(s regset.Set) []string {
	var out []string
	for _, r := range s.Registers() {
		out = append(out, r.ABI())
	}
	return out
}

func encodeRegMap(m dataflow.RegMap) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for r, v := range m {
		out[r.ABI()] = encodeValue(v)
	}
	return out
}

func encodeStackMap(m dataflow.StackMap) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for off, v := range m {
		out[EncodeStackOffset(off)] = encodeValue(v)
	}
	return out
}

func encodeValue(v dataflow.AvailableValue) string {
	switch v.Kind {
	case dataflow.VConstant:
		return fmt.Sprintf("const(%d)", v.Constant)
	case dataflow.VAddress:
		return fmt.Sprintf("addr(%s)", v.Label)
	case dataflow.VOriginalRegisterWithScalar:
		return fmt.Sprintf("orig(%s,%d)", v.Reg.ABI(), v.Scalar)
	case dataflow.VRegisterWithScalar:
		return fmt.Sprintf("reg(%s,%d)", v.Reg.ABI(), v.Scalar)
	case dataflow.VMemoryAtRegister:
		return fmt.Sprintf("mem(%s,%d)", v.Reg.ABI(), v.Offset)
	case dataflow.VMemoryAtOriginalOffset:
		return fmt.Sprintf("memorig(%s,%d)", v.Reg.ABI(), v.Offset)
	default:
		return "unknown"
	}
}

var kindNames = map[parser.Kind]string{
	parser.KindProgramEntry:  "program-entry",
	parser.KindFunctionEntry: "function-entry",
	parser.KindLabel:         "label",
	parser.KindArith:         "arith",
	parser.KindUpperImm:      "upper-imm",
	parser.KindLoad:          "load",
	parser.KindStore:         "store",
	parser.KindLoadAddr:      "load-addr",
	parser.KindBranch:        "branch",
	parser.KindJump:          "jump",
	parser.KindJumpReg:       "jump-reg",
	parser.KindCsr:           "csr",
	parser.KindDirective:     "directive",
	parser.KindBasic:         "basic",
}

func kindName(k parser.Kind) string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

func kindFromName(s string) (parser.Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Marshal encodes a Snapshot as YAML text.
func Marshal(snap *Snapshot) ([]byte, error) {
	return yaml.Marshal(snap)
}

// Unmarshal decodes YAML text into a Snapshot.
func Unmarshal(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
