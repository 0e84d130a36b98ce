package parser

import "io"

// Lexer produces a one-directional token stream from TCL source. It tracks
// brace, bracket and quote nesting and honors backslash-newline continuations.
type Lexer struct {
	src          []byte
	pos          int
	line         int
	atCommandPos bool
}

// NewLexer tokenizes src with line numbering starting at 1.
func NewLexer(src []byte) *Lexer {
	return NewLexerAt(src, 1)
}

// NewLexerAt tokenizes src with line numbering starting at base. Used when
// re-lexing the body of a brace group that begins mid-file.
func NewLexerAt(src []byte, base int) *Lexer {
	return &Lexer{src: src, line: base, atCommandPos: true}
}

// Next returns the next token. It returns io.EOF when the input is exhausted
// and a *SyntaxError when a brace group, bracket group or quoted string is
// left unterminated at end of input.
func (l *Lexer) Next() (Token, error) {
	l.skipBlank()
	if l.pos >= len(l.src) {
		return Token{}, io.EOF
	}

	start := l.line
	c := l.src[l.pos]
	switch {
	case c == '\n':
		l.pos++
		l.line++
		l.atCommandPos = true
		return Token{Kind: TokenNewline, Line: start}, nil
	case c == ';':
		l.pos++
		l.atCommandPos = true
		return Token{Kind: TokenSemicolon, Line: start}, nil
	case c == '#' && l.atCommandPos:
		// Comments only exist where a command could begin; a mid-command
		// '#' is an ordinary word character.
		return Token{Kind: TokenComment, Text: l.scanComment(), Line: start}, nil
	case c == '{':
		text, err := l.scanBraces()
		if err != nil {
			return Token{}, err
		}
		l.atCommandPos = false
		return Token{Kind: TokenBraceGroup, Text: text, Line: start}, nil
	case c == '[':
		text, err := l.scanBrackets()
		if err != nil {
			return Token{}, err
		}
		l.atCommandPos = false
		return Token{Kind: TokenBracketGroup, Text: text, Line: start}, nil
	case c == '"':
		text, err := l.scanQuote()
		if err != nil {
			return Token{}, err
		}
		l.atCommandPos = false
		return Token{Kind: TokenQuotedString, Text: text, Line: start}, nil
	default:
		text, err := l.scanWord()
		if err != nil {
			return Token{}, err
		}
		l.atCommandPos = false
		return Token{Kind: TokenWord, Text: text, Line: start}, nil
	}
}

// skipBlank consumes spaces, tabs, carriage returns and backslash-newline
// continuations. Continuations do not terminate the logical line.
func (l *Lexer) skipBlank() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == ' ' || c == '\t' || c == '\r' {
			l.pos++
			continue
		}
		if c == '\\' {
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '\n' {
				l.pos += 2
				l.line++
				continue
			}
			if l.pos+2 < len(l.src) && l.src[l.pos+1] == '\r' && l.src[l.pos+2] == '\n' {
				l.pos += 3
				l.line++
				continue
			}
		}
		return
	}
}

func (l *Lexer) scanComment() string {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' && l.pos+1 < len(l.src) {
			if l.src[l.pos+1] == '\n' {
				l.line++
			}
			l.pos += 2
			continue
		}
		if c == '\n' {
			break
		}
		l.pos++
	}
	return string(l.src[start:l.pos])
}

func (l *Lexer) scanBraces() (string, error) {
	open := l.line
	l.pos++
	start := l.pos
	depth := 1
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			if l.pos+1 < len(l.src) {
				if l.src[l.pos+1] == '\n' {
					l.line++
				}
				l.pos += 2
				continue
			}
			l.pos++
		case '{':
			depth++
			l.pos++
		case '}':
			depth--
			l.pos++
			if depth == 0 {
				return string(l.src[start : l.pos-1]), nil
			}
		case '\n':
			l.line++
			l.pos++
		default:
			l.pos++
		}
	}
	return "", &SyntaxError{Line: open, Msg: "unterminated brace group"}
}

// scanBrackets captures a command substitution. Brace groups and quoted
// strings inside it are skipped whole so their brackets do not affect depth.
func (l *Lexer) scanBrackets() (string, error) {
	open := l.line
	l.pos++
	start := l.pos
	depth := 1
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			if l.pos+1 < len(l.src) {
				if l.src[l.pos+1] == '\n' {
					l.line++
				}
				l.pos += 2
				continue
			}
			l.pos++
		case '[':
			depth++
			l.pos++
		case ']':
			depth--
			l.pos++
			if depth == 0 {
				return string(l.src[start : l.pos-1]), nil
			}
		case '{':
			if _, err := l.scanBraces(); err != nil {
				return "", err
			}
		case '"':
			if _, err := l.scanQuote(); err != nil {
				return "", err
			}
		case '\n':
			l.line++
			l.pos++
		default:
			l.pos++
		}
	}
	return "", &SyntaxError{Line: open, Msg: "unterminated bracket group"}
}

func (l *Lexer) scanQuote() (string, error) {
	open := l.line
	l.pos++
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' && l.pos+1 < len(l.src) {
			if l.src[l.pos+1] == '\n' {
				l.line++
			}
			l.pos += 2
			continue
		}
		if c == '"' {
			l.pos++
			return string(l.src[start : l.pos-1]), nil
		}
		if c == '\n' {
			l.line++
		}
		l.pos++
	}
	return "", &SyntaxError{Line: open, Msg: "unterminated quoted string"}
}

// scanWord consumes a bare word. A balanced bracket substitution embedded in
// the word (as in a$x[idx]) is kept inside the word text. A backslash-newline
// ends the word the same way whitespace would.
func (l *Lexer) scanWord() (string, error) {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == ';':
			return string(l.src[start:l.pos]), nil
		case c == '\\' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '\n':
			return string(l.src[start:l.pos]), nil
		case c == '\\' && l.pos+1 < len(l.src):
			l.pos += 2
		case c == '[':
			if _, err := l.scanBrackets(); err != nil {
				return "", err
			}
		default:
			l.pos++
		}
	}
	return string(l.src[start:l.pos]), nil
}
