// Package lexer tokenizes XPath source text. It is dialect-agnostic:
// it recognises the full XPath 3.1 lexical grammar (numeric literals,
// strings, QNames incl. wildcards and Q{uri}local, multi-character
// operators, and nested "(: :)" comments) and leaves keyword-vs-name
// and axis-vs-name disambiguation to internal/kernel's one-token
// lookahead, per spec.md §4.2.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/token"
)

// Lexer scans one XPath expression. Grounded on funxy's
// internal/lexer.Lexer: the same position/readPosition/ch fields and
// readChar/peekChar scanning style, generalized to XPath's richer set
// of multi-character operators and rune-based (not byte-based) input.
type Lexer struct {
	input        []rune
	position     int
	readPosition int
	ch           rune
}

func New(input string) *Lexer {
	l := &Lexer{input: []rune(input)}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekAt(n int) rune {
	idx := l.position + n
	if idx < 0 || idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		for unicode.IsSpace(l.ch) {
			l.readChar()
		}
		if l.ch == '(' && l.peekChar() == ':' {
			if err := l.skipComment(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

// skipComment consumes a "(: ... :)" comment, which nests in 2.0+.
func (l *Lexer) skipComment() error {
	start := l.position
	l.readChar() // consume '('
	l.readChar() // consume ':'
	depth := 1
	for depth > 0 {
		if l.ch == 0 {
			return diagnostics.New(diagnostics.PhaseLexer, diagnostics.XPST0003,
				diagnostics.Span{Start: start, End: l.position}, "unterminated comment")
		}
		if l.ch == '(' && l.peekChar() == ':' {
			depth++
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == ':' && l.peekChar() == ')' {
			depth--
			l.readChar()
			l.readChar()
			continue
		}
		l.readChar()
	}
	return nil
}

// NextToken returns the next lexical token, or a diagnostics.Error on
// malformed input (unterminated string/comment, stray character).
func (l *Lexer) NextToken() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	start := l.position
	mk := func(t token.Type, lexeme string) token.Token {
		return token.Token{Type: t, Lexeme: lexeme, Start: start, End: l.position}
	}

	switch {
	case l.ch == 0:
		return mk(token.EOF, ""), nil

	case l.ch == '$':
		l.readChar()
		name := l.readQName()
		return token.Token{Type: token.VARREF, Lexeme: name, Start: start, End: l.position}, nil

	case l.ch == '"' || l.ch == '\'':
		return l.readString(start)

	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		return l.readNumber(start)

	case l.ch == '/':
		if l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return mk(token.DSLASH, "//"), nil
		}
		l.readChar()
		return mk(token.SLASH, "/"), nil

	case l.ch == '.':
		if l.peekChar() == '.' {
			l.readChar()
			l.readChar()
			return mk(token.DDOT, ".."), nil
		}
		l.readChar()
		return mk(token.DOT, "."), nil

	case l.ch == ':':
		if l.peekChar() == ':' {
			l.readChar()
			l.readChar()
			return mk(token.DCOLON, "::"), nil
		}
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return mk(token.ASSIGN, ":="), nil
		}
		l.readChar()
		return mk(token.COLON, ":"), nil

	case l.ch == '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return mk(token.NE, "!="), nil
		}
		l.readChar()
		return mk(token.BANG, "!"), nil

	case l.ch == '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return mk(token.LE, "<="), nil
		}
		if l.peekChar() == '<' {
			l.readChar()
			l.readChar()
			return mk(token.PRECEDES, "<<"), nil
		}
		l.readChar()
		return mk(token.LT, "<"), nil

	case l.ch == '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return mk(token.GE, ">="), nil
		}
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return mk(token.FOLLOWS, ">>"), nil
		}
		l.readChar()
		return mk(token.GT, ">"), nil

	case l.ch == '=':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return mk(token.ARROW, "=>"), nil
		}
		l.readChar()
		return mk(token.EQ, "="), nil

	case l.ch == '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return mk(token.DPIPE, "||"), nil
		}
		l.readChar()
		return mk(token.PIPE, "|"), nil

	case l.ch == '+':
		l.readChar()
		return mk(token.PLUS, "+"), nil
	case l.ch == '-':
		l.readChar()
		return mk(token.MINUS, "-"), nil
	case l.ch == '*':
		l.readChar()
		return mk(token.STAR, "*"), nil
	case l.ch == '@':
		l.readChar()
		return mk(token.AT, "@"), nil
	case l.ch == '[':
		l.readChar()
		return mk(token.LBRACKET, "["), nil
	case l.ch == ']':
		l.readChar()
		return mk(token.RBRACKET, "]"), nil
	case l.ch == '{':
		l.readChar()
		return mk(token.LBRACE, "{"), nil
	case l.ch == '}':
		l.readChar()
		return mk(token.RBRACE, "}"), nil
	case l.ch == '(':
		l.readChar()
		return mk(token.LPAREN, "("), nil
	case l.ch == ')':
		l.readChar()
		return mk(token.RPAREN, ")"), nil
	case l.ch == ',':
		l.readChar()
		return mk(token.COMMA, ","), nil
	case l.ch == '?':
		l.readChar()
		return mk(token.QUESTION, "?"), nil
	case l.ch == '#':
		l.readChar()
		return mk(token.HASH, "#"), nil

	case isNameStartChar(l.ch) || l.ch == '*':
		return l.readNameOrKeyword(start)

	default:
		ch := l.ch
		l.readChar()
		return token.Token{}, diagnostics.New(diagnostics.PhaseLexer, diagnostics.XPST0003,
			diagnostics.Span{Start: start, End: l.position}, "invalid character %q", ch)
	}
}

func (l *Lexer) readString(start int) (token.Token, error) {
	quote := l.ch
	l.readChar()
	var sb strings.Builder
	for {
		if l.ch == 0 {
			return token.Token{}, diagnostics.New(diagnostics.PhaseLexer, diagnostics.XPST0003,
				diagnostics.Span{Start: start, End: l.position}, "unterminated string literal")
		}
		if l.ch == quote {
			if l.peekChar() == quote {
				sb.WriteRune(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			break
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return token.Token{Type: token.STRING, Lexeme: sb.String(), Start: start, End: l.position, Literal: sb.String()}, nil
}

func (l *Lexer) readNumber(start int) (token.Token, error) {
	var sb strings.Builder
	isDecimal := false
	isDouble := false
	for isDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) || (l.ch == '.' && sb.Len() > 0 && !isNameStartChar(l.peekChar())) {
		isDecimal = true
		sb.WriteRune(l.ch)
		l.readChar()
		for isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		save := l.position
		_ = save
		peekIdx := 1
		if l.peekAt(peekIdx) == '+' || l.peekAt(peekIdx) == '-' {
			peekIdx++
		}
		if isDigit(l.peekAt(peekIdx)) {
			isDouble = true
			sb.WriteRune(l.ch)
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				sb.WriteRune(l.ch)
				l.readChar()
			}
			for isDigit(l.ch) {
				sb.WriteRune(l.ch)
				l.readChar()
			}
		}
	}
	typ := token.INTEGER
	if isDouble {
		typ = token.DOUBLE
	} else if isDecimal {
		typ = token.DECIMAL
	}
	return token.Token{Type: typ, Lexeme: sb.String(), Start: start, End: l.position}, nil
}

// readNameOrKeyword reads a QName, wildcard form (*, pfx:*, *:local),
// or Q{uri}local (3.0+) expanded name. Keyword/axis/kind-test
// classification is deferred to the parser's lookahead.
func (l *Lexer) readNameOrKeyword(start int) (token.Token, error) {
	var sb strings.Builder
	if l.ch == '*' {
		sb.WriteRune('*')
		l.readChar()
		if l.ch == ':' && l.peekChar() != ':' {
			sb.WriteRune(':')
			l.readChar()
			sb.WriteString(l.readQNamePart())
		}
		return token.Token{Type: token.NAME, Lexeme: sb.String(), Start: start, End: l.position}, nil
	}

	name := l.readQNamePart()
	sb.WriteString(name)

	// Q{uri}local (XPath 3.0+ expanded QName literal).
	if name == "Q" && l.ch == '{' {
		sb.WriteRune('{')
		l.readChar()
		for l.ch != '}' && l.ch != 0 {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		if l.ch != '}' {
			return token.Token{}, diagnostics.New(diagnostics.PhaseLexer, diagnostics.XPST0003,
				diagnostics.Span{Start: start, End: l.position}, "unterminated Q{} name")
		}
		sb.WriteRune('}')
		l.readChar()
		sb.WriteString(l.readQNamePart())
		return token.Token{Type: token.NAME, Lexeme: sb.String(), Start: start, End: l.position}, nil
	}

	if l.ch == ':' && l.peekChar() != ':' {
		sb.WriteRune(':')
		l.readChar()
		if l.ch == '*' {
			sb.WriteRune('*')
			l.readChar()
		} else {
			sb.WriteString(l.readQNamePart())
		}
	}
	return token.Token{Type: token.NAME, Lexeme: sb.String(), Start: start, End: l.position}, nil
}

func (l *Lexer) readQName() string {
	return l.readQNamePart() + l.readQualifier()
}

func (l *Lexer) readQualifier() string {
	if l.ch == ':' && l.peekChar() != ':' {
		l.readChar()
		return ":" + l.readQNamePart()
	}
	return ""
}

func (l *Lexer) readQNamePart() string {
	var sb strings.Builder
	for isNameChar(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return sb.String()
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNameStartChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || r > utf8.RuneSelf
}

func isNameChar(r rune) bool {
	return isNameStartChar(r) || isDigit(r) || r == '-' || r == '.'
}
