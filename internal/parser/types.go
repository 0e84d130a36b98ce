package parser

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenWord TokenKind = iota
	TokenBraceGroup
	TokenBracketGroup
	TokenQuotedString
	TokenComment
	TokenNewline
	TokenSemicolon
)

func (k TokenKind) String() string {
	switch k {
	case TokenWord:
		return "word"
	case TokenBraceGroup:
		return "brace-group"
	case TokenBracketGroup:
		return "bracket-group"
	case TokenQuotedString:
		return "quoted-string"
	case TokenComment:
		return "comment"
	case TokenNewline:
		return "newline"
	case TokenSemicolon:
		return "semicolon"
	default:
		return "unknown"
	}
}

// Token is one lexical unit. For group kinds Text holds the content with the
// surrounding delimiters stripped; for words and comments it is the raw span.
type Token struct {
	Kind TokenKind
	Text string
	Line int
}

// CallEdge records that Callee appears in command position somewhere inside
// Caller's body.
type CallEdge struct {
	Caller string
	Callee string
}

// FileEdges is the scanner output for a single file: declared procedure names
// and call edges, both in lexical appearance order.
type FileEdges struct {
	Path  string
	Procs []string
	Edges []CallEdge
}

// SyntaxError reports a structural problem (unterminated brace, bracket or
// quote) that makes the rest of the file unscannable.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
