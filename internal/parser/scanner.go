package parser

import (
	"errors"
	"io"
	"strings"
	"unicode"
)

// TopLevelScope is the synthetic caller attributed to calls that appear
// outside any proc body.
const TopLevelScope = "<toplevel>"

// reservedWords is the fixed table of TCL builtins that occupy command
// position without being procedure calls worth recording.
var reservedWords = map[string]bool{
	"after": true, "append": true, "array": true, "binary": true,
	"break": true, "catch": true, "cd": true, "clock": true, "close": true,
	"concat": true, "continue": true, "default": true, "dict": true,
	"else": true, "elseif": true, "error": true, "eval": true, "exec": true,
	"exit": true, "expr": true, "file": true, "flush": true, "for": true,
	"foreach": true, "format": true, "gets": true, "global": true, "if": true,
	"incr": true, "info": true, "interp": true, "join": true, "lappend": true,
	"lindex": true, "linsert": true, "list": true, "llength": true,
	"lrange": true, "lreplace": true, "lsearch": true, "lsort": true,
	"namespace": true, "open": true, "package": true, "proc": true,
	"puts": true, "pwd": true, "read": true, "regexp": true, "regsub": true,
	"rename": true, "return": true, "scan": true, "set": true, "source": true,
	"split": true, "string": true, "switch": true, "then": true,
	"unset": true, "uplevel": true, "upvar": true, "update": true,
	"variable": true, "vwait": true, "while": true,
}

// Scanner walks a file's token stream and collects proc declarations and
// call edges. It is stateless across files and safe to reuse.
type Scanner struct {
	reserved map[string]bool
}

// NewScanner builds a scanner. Extra reserved words (from configuration) are
// added to the built-in table.
func NewScanner(extraReserved ...string) *Scanner {
	s := &Scanner{reserved: make(map[string]bool, len(reservedWords)+len(extraReserved))}
	for w := range reservedWords {
		s.reserved[w] = true
	}
	for _, w := range extraReserved {
		w = strings.TrimSpace(w)
		if w != "" {
			s.reserved[w] = true
		}
	}
	return s
}

// ScanFile lexes and scans one file. A *SyntaxError aborts the file; the
// caller decides whether to skip it and continue with the rest of the build.
func (s *Scanner) ScanFile(path string, src []byte) (*FileEdges, error) {
	out := &FileEdges{Path: path}
	if err := s.scanScript(src, TopLevelScope, 1, out); err != nil {
		return nil, err
	}
	return out, nil
}

// scanScript splits a token stream into commands at newlines and semicolons
// and processes each one. Nested brace-group bodies re-enter here.
func (s *Scanner) scanScript(src []byte, scope string, baseLine int, out *FileEdges) error {
	lex := NewLexerAt(src, baseLine)
	var cmd []Token
	for {
		tok, err := lex.Next()
		if errors.Is(err, io.EOF) {
			return s.command(cmd, scope, out)
		}
		if err != nil {
			return err
		}
		switch tok.Kind {
		case TokenNewline, TokenSemicolon:
			if err := s.command(cmd, scope, out); err != nil {
				return err
			}
			cmd = cmd[:0]
		case TokenComment:
			// comments carry no edges
		default:
			cmd = append(cmd, tok)
		}
	}
}

func (s *Scanner) command(tokens []Token, scope string, out *FileEdges) error {
	if len(tokens) == 0 {
		return nil
	}
	head := tokens[0]

	if head.Kind == TokenBracketGroup {
		if err := s.scanScript([]byte(head.Text), scope, head.Line, out); err != nil {
			return err
		}
		return s.arguments(tokens[1:], "", scope, out)
	}
	if head.Kind != TokenWord {
		// A brace group or quoted string in command position is data, not a
		// call, but its arguments may still hold substitutions.
		return s.arguments(tokens[1:], "", scope, out)
	}

	name := head.Text
	if name == "proc" {
		return s.procedure(tokens, out)
	}
	if !s.reserved[name] && isProcedureName(name) {
		out.Edges = append(out.Edges, CallEdge{Caller: scope, Callee: name})
	}
	if strings.Contains(name, "[") {
		if err := s.scanEmbedded(name, head.Line, scope, out); err != nil {
			return err
		}
	}
	return s.arguments(tokens[1:], name, scope, out)
}

// procedure handles "proc <name> <args> <body>". Malformed declarations are
// skipped without error. The body is scanned as a new scope, so nested proc
// declarations and their calls attribute to the inner procedure.
func (s *Scanner) procedure(tokens []Token, out *FileEdges) error {
	if len(tokens) < 4 {
		return nil
	}
	name := tokens[1]
	body := tokens[3]
	if name.Kind != TokenWord || body.Kind != TokenBraceGroup {
		return nil
	}
	out.Procs = append(out.Procs, name.Text)
	return s.scanScript([]byte(body.Text), name.Text, body.Line, out)
}

func (s *Scanner) arguments(args []Token, cmd, scope string, out *FileEdges) error {
	totalBraces := 0
	for _, t := range args {
		if t.Kind == TokenBraceGroup {
			totalBraces++
		}
	}

	braceIdx := 0
	prevWord := cmd
	for _, t := range args {
		switch t.Kind {
		case TokenBracketGroup:
			if err := s.scanScript([]byte(t.Text), scope, t.Line, out); err != nil {
				return err
			}
			prevWord = ""
		case TokenBraceGroup:
			braceIdx++
			if scriptBraceArg(cmd, braceIdx, totalBraces, prevWord) {
				if err := s.scanScript([]byte(t.Text), scope, t.Line, out); err != nil {
					return err
				}
			}
			prevWord = ""
		case TokenWord:
			if err := s.scanEmbedded(t.Text, t.Line, scope, out); err != nil {
				return err
			}
			prevWord = t.Text
		case TokenQuotedString:
			if err := s.scanEmbedded(t.Text, t.Line, scope, out); err != nil {
				return err
			}
			prevWord = ""
		}
	}
	return nil
}

// scriptBraceArg reports whether the n-th brace-group argument of cmd holds a
// nested script. The conditions of if/elseif/while and the middle clause of
// for are expr text, and every foreach argument before the body is a list.
func scriptBraceArg(cmd string, n, total int, prevWord string) bool {
	switch cmd {
	case "if":
		return prevWord != "if" && prevWord != "elseif"
	case "while":
		return n > 1
	case "for":
		return n != 2
	case "foreach":
		return n == total
	case "catch", "eval", "switch", "uplevel", "namespace":
		return true
	default:
		return false
	}
}

// scanEmbedded extracts balanced bracket substitutions inside a word or
// quoted string and scans their contents as scripts.
func (s *Scanner) scanEmbedded(text string, line int, scope string, out *FileEdges) error {
	if !strings.Contains(text, "[") {
		return nil
	}
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '[':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ']':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				if err := s.scanScript([]byte(text[start:i]), scope, line, out); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// isProcedureName filters command words down to plausible procedure names.
// Variable references ($x), expr operators and numbers are never calls.
func isProcedureName(w string) bool {
	for i, r := range w {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' && r != ':' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != ':' && r != '-' && r != '.' {
			return false
		}
	}
	return w != ""
}
