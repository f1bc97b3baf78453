package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/rvlint/lexer"
	"github.com/viant/rvlint/token"
)

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeInstruction(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []lexer.Kind
	}{
		{
			name: "r-type with comma operands",
			src:  "add a0, a1, a2\n",
			expected: []lexer.Kind{
				lexer.KindSymbol, lexer.KindSymbol, lexer.KindSymbol, lexer.KindSymbol,
				lexer.KindNewline, lexer.KindEOF,
			},
		},
		{
			name: "label then instruction",
			src:  "loop:\n  j loop\n",
			expected: []lexer.Kind{
				lexer.KindLabel, lexer.KindNewline,
				lexer.KindSymbol, lexer.KindSymbol,
				lexer.KindNewline, lexer.KindEOF,
			},
		},
		{
			name: "memory operand with parens",
			src:  "lw a0, 4(sp)\n",
			expected: []lexer.Kind{
				lexer.KindSymbol, lexer.KindSymbol, lexer.KindNumber,
				lexer.KindLParen, lexer.KindSymbol, lexer.KindRParen,
				lexer.KindNewline, lexer.KindEOF,
			},
		},
		{
			name: "comment is its own token",
			src:  "nop # does nothing\n",
			expected: []lexer.Kind{
				lexer.KindSymbol, lexer.KindComment, lexer.KindNewline, lexer.KindEOF,
			},
		},
		{
			name: "directive",
			src:  ".word 1, 2, 3\n",
			expected: []lexer.Kind{
				lexer.KindDirective, lexer.KindNumber, lexer.KindNumber, lexer.KindNumber,
				lexer.KindNewline, lexer.KindEOF,
			},
		},
		{
			name: "hex and negative immediates",
			src:  "addi t0, t0, -1\nli t1, 0xff\n",
			expected: []lexer.Kind{
				lexer.KindSymbol, lexer.KindSymbol, lexer.KindSymbol, lexer.KindNumber, lexer.KindNewline,
				lexer.KindSymbol, lexer.KindSymbol, lexer.KindNumber, lexer.KindNewline,
				lexer.KindEOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lexer.New(token.NewFileID(), tt.src)
			toks := l.Tokenize()
			assert.Empty(t, l.Errors())
			assert.Equal(t, tt.expected, kinds(toks))
		})
	}
}

func TestLabelStripsColon(t *testing.T) {
	l := lexer.New(token.NewFileID(), "main:\n")
	toks := l.Tokenize()
	assert.Equal(t, lexer.KindLabel, toks[0].Kind)
	assert.Equal(t, "main", toks[0].Text)
}

func TestStringAndCharLiterals(t *testing.T) {
	l := lexer.New(token.NewFileID(), `.string "hi\n"` + "\n'a'\n'\\n'\n")
	toks := l.Tokenize()
	assert.Empty(t, l.Errors())
	assert.Equal(t, lexer.KindDirective, toks[0].Kind)
	assert.Equal(t, lexer.KindString, toks[1].Kind)
	assert.Equal(t, `"hi\n"`, toks[1].Text)
}

func TestUnclosedStringRecovers(t *testing.T) {
	src := "la a0, \"unterminated\nnop\n"
	l := lexer.New(token.NewFileID(), src)
	toks := l.Tokenize()
	assert.Len(t, l.Errors(), 1)
	assert.Equal(t, lexer.Newline, l.Errors()[0].Kind)
	// the lexer resyncs at the newline, so `nop` is still tokenized.
	var sawNop bool
	for _, tk := range toks {
		if tk.Kind == lexer.KindSymbol && tk.Text == "nop" {
			sawNop = true
		}
	}
	assert.True(t, sawNop)
}

func TestInvalidEscapeSequence(t *testing.T) {
	l := lexer.New(token.NewFileID(), `'\q'`+"\n")
	l.Tokenize()
	if assert.Len(t, l.Errors(), 1) {
		assert.Equal(t, lexer.InvalidEscapeSequence, l.Errors()[0].Kind)
	}
}
