// Package kernel is the shared recursive-descent/precedence-climbing
// engine that every XPath dialect (internal/dialects) parses through.
// Grounded on funxy's internal/parser/parser.go: the same
// curToken/peekToken double-buffering and precedence-table shape,
// generalized via kernel.Profile (internal/kernel/profile.go) so one
// engine serves XPath 1.0 through 3.1's additive grammar instead of
// funxy's one fixed language (spec.md §4.1, §7).
package kernel

import (
	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/lexer"
	"github.com/funvibe/xpathlite/internal/token"
)

// DefaultFunctionNamespace is the well-known fn: namespace URI that
// unprefixed function-call names resolve to (spec.md §4.6).
const DefaultFunctionNamespace = "http://www.w3.org/2005/xpath-functions"

// NamespaceResolver resolves a prefix appearing in the source text to
// its bound URI, for node-name tests, function-call names, and
// QName-valued literals (spec.md §4.1 static namespace context).
type NamespaceResolver func(prefix string) (uri string, ok bool)

// Parser converts one token stream into an ast.Node under a given
// Profile.
type Parser struct {
	lex       *lexer.Lexer
	profile   Profile
	resolveNS NamespaceResolver
	defaultNS string // default element/type namespace ("" if none bound)

	cur, peek token.Token
	err       error
}

// New constructs a Parser for src under profile, using ns to resolve
// prefixes (pass a resolver returning ok=false for every prefix if the
// caller has no in-scope bindings beyond the fixed `xml` prefix).
func New(src string, profile Profile, ns NamespaceResolver) (*Parser, error) {
	p := &Parser{lex: lexer.New(src), profile: profile, resolveNS: ns}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.peek
	t, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.peek = t
	return nil
}

func (p *Parser) sp(start int) diagnostics.Span { return diagnostics.Span{Start: start, End: p.cur.End} }

func (p *Parser) spanOf(tok token.Token) diagnostics.Span {
	return diagnostics.Span{Start: tok.Start, End: tok.End}
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseParser, diagnostics.XPST0003, p.spanOf(tok), format, args...)
}

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if p.cur.Type != t {
		return token.Token{}, p.errorf(p.cur, "expected %s, got %s %q", t, p.cur.Type, p.cur.Lexeme)
	}
	tok := p.cur
	return tok, p.advance()
}

// ParseExpr parses a full XPath Expr (the top-level `,`-joined
// ExprSingle sequence) and requires EOF afterward.
func (p *Parser) ParseExpr() (ast.Node, error) {
	start := p.cur.Start
	n, err := p.parseExprSequence()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.EOF {
		return nil, p.errorf(p.cur, "unexpected token %q after expression", p.cur.Lexeme)
	}
	_ = start
	return n, nil
}

func (p *Parser) parseExprSequence() (ast.Node, error) {
	start := p.cur.Start
	first, err := p.parseExprSingle()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.COMMA {
		return first, nil
	}
	ops := []ast.Node{first}
	for p.cur.Type == token.COMMA {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseExprSingle()
		if err != nil {
			return nil, err
		}
		ops = append(ops, next)
	}
	return &ast.SequenceExpr{Operands: ops, Sp: p.sp(start)}, nil
}

// parseExprSingle dispatches on the leading keyword for FLWOR/if/
// quantified forms (2.0+), otherwise falls through to the binary
// operator precedence chain.
func (p *Parser) parseExprSingle() (ast.Node, error) {
	switch {
	case p.profile.FLWOR && (isName(p.cur, "for") || isName(p.cur, "let")):
		return p.parseForLet()
	case p.profile.QuantifiedExpr && (isName(p.cur, "some") || isName(p.cur, "every")):
		return p.parseQuantified()
	case p.profile.IfExpr && isName(p.cur, "if") && p.peek.Type == token.LPAREN:
		return p.parseIf()
	case p.profile.InlineFunction && isName(p.cur, "function") && p.peek.Type == token.LPAREN:
		return p.parseInlineFunction()
	}
	return p.parseOr()
}

func isName(tok token.Token, kw string) bool { return tok.Type == token.NAME && tok.Lexeme == kw }
