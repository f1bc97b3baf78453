package debugyaml

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/minio/highwayhash"
)

// key is a fixed, arbitrary 32-byte key; structural hashes only need to
// be stable across a single rvlint build, not resistant to an adversary,
// so there is no need to derive or rotate it (grounded on
// inspector/graph/hash.go's identical fixed-key use of highwayhash).
var key = []byte("rvlint-debugyaml-structural-hash")[:32]

// Hash returns a 64-bit structural digest of snap, stable across
// Encode/Decode round trips: it deliberately omits the ID field (a fresh
// UUID every Decode mints one) so two snapshots of the same program
// compare equal even though their node identities differ. Used by the
// round-trip test to compare a snapshot with its decoded copy.
func Hash(snap *Snapshot) (uint64, error) {
	h, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(canonicalBytes(snap)); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func canonicalBytes(snap *Snapshot) []byte {
	var buf bytes.Buffer
	for _, e := range snap.Nodes {
		fmt.Fprintf(&buf, "node %d %s %s %q %s %d %d %s %t %s %s %s %t %d %t %s %d %s %v %t\n",
			e.Index, e.File, e.Kind, e.Text, e.Mnemonic, e.Line, e.Column,
			e.Label, e.IsInterruptHandler, e.Rd, e.Rs1, e.Rs2, e.HasRs2, e.Imm,
			e.CsrIsImm, e.CsrSrcReg, e.CsrSrcImm, e.Directive, e.DirectiveArgs, e.Synthetic)
		fmt.Fprintf(&buf, " csr=%d target=%s labels=%v data=%t nexts=%v prevs=%v funcs=%v\n",
			e.Csr, e.TargetLabel, e.Labels, e.DataSection, e.Nexts, e.Prevs, e.Functions)
		fmt.Fprintf(&buf, " regIn=%s regOut=%s stackIn=%s stackOut=%s liveIn=%v liveOut=%v udef=%v\n",
			sortedMap(e.RegValuesIn), sortedMap(e.RegValuesOut),
			sortedMap(e.StackValuesIn), sortedMap(e.StackValuesOut),
			e.LiveIn, e.LiveOut, e.UDef)
	}
	for _, fe := range snap.Functions {
		fmt.Fprintf(&buf, "fn %v entry=%d exit=%d nodes=%v defs=%v interrupt=%t\n",
			fe.Labels, fe.Entry, fe.Exit, fe.Nodes, fe.Defs, fe.IsInterruptHandler)
	}
	return buf.Bytes()
}

// sortedMap renders m as key=value pairs in a fixed order so Go's
// randomized map iteration never changes the hash.
func sortedMap(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s=%s;", k, m[k])
	}
	return buf.String()
}
