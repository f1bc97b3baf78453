package parser

import (
	"fmt"

	"github.com/viant/rvlint/token"
)

// ParseErrorKind enumerates the ways source text can fail to become a
// Node sequence (spec.md §7).
type ParseErrorKind int

const (
	ExpectedToken ParseErrorKind = iota
	UnsupportedConstruct
	UnexpectedToken
	UnknownDirective
	CyclicDependency
	ParseFileNotFound
	ParseIOError
	InvalidStringLiteral
)

// ParseError is the error type every parser-level failure is reported as.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
	Range   token.Range
	File    token.FileID
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Range.String(), e.Message)
}

func expected(what string, tok token.Range, file token.FileID) *ParseError {
	return &ParseError{Kind: ExpectedToken, Message: "expected " + what, Range: tok, File: file}
}

func unsupported(what string, tok token.Range, file token.FileID) *ParseError {
	return &ParseError{Kind: UnsupportedConstruct, Message: "unsupported: " + what, Range: tok, File: file}
}

func unexpected(got string, tok token.Range, file token.FileID) *ParseError {
	return &ParseError{Kind: UnexpectedToken, Message: "unexpected token " + got, Range: tok, File: file}
}

func unknownDirective(name string, tok token.Range, file token.FileID) *ParseError {
	return &ParseError{Kind: UnknownDirective, Message: "unknown directive " + name, Range: tok, File: file}
}
