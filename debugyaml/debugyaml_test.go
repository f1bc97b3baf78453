package debugyaml_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/debugyaml"
	"github.com/viant/rvlint/parser"
)

func analyzeForSnapshot(t *testing.T, src string) (*cfg.CFG, *dataflow.Facts) {
	t.Helper()
	reader := parser.NewMemoryReader(map[string]string{"a.s": src})
	p := parser.NewParser(context.Background(), reader)
	nodes, perrs, err := p.ParseFile("a.s")
	require.NoError(t, err)
	require.Empty(t, perrs)
	c, cerr := cfg.Build(nodes, nil)
	require.Nil(t, cerr)
	require.Nil(t, cfg.AnnotateFunctions(c))
	return c, dataflow.RunAll(c)
}

// spec.md §8's round-trip property: YAML serialization of a
// fully-annotated CFG deserializes to a structurally equal CFG (equality
// up to UUIDs being fresh), asserted here via debugyaml.Hash rather than
// reflect.DeepEqual since node identity deliberately changes on Decode.
func TestSnapshotRoundTripsThroughYAML(t *testing.T) {
	src := "main:\n" +
		" call f\n" +
		" li a7, 10\n" +
		" ecall\n" +
		"f:\n" +
		" addi a0, a0, 1\n" +
		" ret\n"
	c, facts := analyzeForSnapshot(t, src)
	snap := debugyaml.Encode(c, facts)

	data, err := debugyaml.Marshal(snap)
	require.NoError(t, err)

	decoded, err := debugyaml.Unmarshal(data)
	require.NoError(t, err)

	wantHash, err := debugyaml.Hash(snap)
	require.NoError(t, err)
	gotHash, err := debugyaml.Hash(decoded)
	require.NoError(t, err)
	assert.Equal(t, wantHash, gotHash)

	c2, facts2, err := debugyaml.Decode(decoded)
	require.NoError(t, err)
	require.NotNil(t, facts2)
	assert.Equal(t, len(c.Nodes), len(c2.Nodes))

	snap2 := debugyaml.Encode(c2, facts2)
	rehash, err := debugyaml.Hash(snap2)
	require.NoError(t, err)
	assert.Equal(t, wantHash, rehash)
}

func TestSnapshotWithoutFactsDecodesWithNilFacts(t *testing.T) {
	reader := parser.NewMemoryReader(map[string]string{"a.s": "nop\n"})
	p := parser.NewParser(context.Background(), reader)
	nodes, _, err := p.ParseFile("a.s")
	require.NoError(t, err)
	c, cerr := cfg.Build(nodes, nil)
	require.Nil(t, cerr)

	snap := debugyaml.Encode(c, nil)
	_, facts, err := debugyaml.Decode(snap)
	require.NoError(t, err)
	assert.Nil(t, facts)
}

func TestMemoryLocationEncodingRoundTrips(t *testing.T) {
	tests := []struct {
		name   string
		offset int32
	}{
		{"zero", 0},
		{"positive", 16},
		{"negative", -24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := debugyaml.EncodeStackOffset(tt.offset)
			got, ok := debugyaml.DecodeStackOffset(s)
			require.True(t, ok)
			assert.Equal(t, tt.offset, got)
		})
	}
}
